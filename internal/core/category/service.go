package category

import (
	"context"
	"log/slog"

	"github.com/carbongold/documents/internal/platform/apperr"
	"github.com/carbongold/documents/internal/platform/validate"
	"github.com/carbongold/documents/pkg/uuidv7"
)

type Service struct {
	repo     Repository
	logger   *slog.Logger
	maxDepth int
}

func NewService(repo Repository, logger *slog.Logger, maxDepth int) *Service {
	return &Service{
		repo:     repo,
		logger:   logger,
		maxDepth: maxDepth,
	}
}

func (service *Service) ListCategories(context context.Context, filter Filter) ([]*Category, error) {
	return service.repo.ListCategories(context, filter)
}

// ListTree returns the full tree as roots with nested children. Orphans
// whose parent row is gone are surfaced as roots rather than dropped.
func (service *Service) ListTree(context context.Context) ([]*Node, error) {
	categories, err := service.repo.ListCategories(context, Filter{})
	if err != nil {
		return nil, err
	}

	nodes := make(map[string]*Node, len(categories))
	for _, category := range categories {
		nodes[category.ID] = &Node{Category: *category, Children: []*Node{}}
	}

	roots := []*Node{}
	for _, category := range categories {
		node := nodes[category.ID]
		if category.ParentID != nil {
			if parent, ok := nodes[*category.ParentID]; ok {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}
	return roots, nil
}

func (service *Service) GetCategory(context context.Context, id string) (*Category, error) {
	return service.repo.GetCategory(context, id)
}

// CreateCategory adds a node to the tree. A parented node may not exceed the
// configured nesting depth; a parentless node becomes a new root.
func (service *Service) CreateCategory(context context.Context, category *Category) error {
	validator := &validate.Validator{}
	validator.Required(FieldName, category.Name).MaxLen(FieldName, category.Name, 100)

	if category.ParentID != nil {
		validator.UUID(FieldParentID, *category.ParentID)
	}

	if err := validator.Err(); err != nil {
		return err
	}

	if category.ParentID != nil {
		if _, err := service.repo.GetCategory(context, *category.ParentID); err != nil {
			return err
		}

		parentDepth, err := service.repo.Depth(context, *category.ParentID)
		if err != nil {
			return err
		}
		if parentDepth+1 > service.maxDepth {
			return apperr.BusinessRule("Category nesting exceeds the maximum allowed depth")
		}
	}

	category.ID = uuidv7.New()
	if err := service.repo.CreateCategory(context, category); err != nil {
		return err
	}

	service.logger.Info("category_created",
		slog.String("category_id", category.ID),
		slog.String("name", category.Name),
	)
	return nil
}

// SubtreeIDs resolves a category to itself plus all descendants. It backs
// the portal's "browse by category" filter, which must match documents
// tagged anywhere under the selected node.
func (service *Service) SubtreeIDs(context context.Context, rootID string) ([]string, error) {
	if _, err := service.repo.GetCategory(context, rootID); err != nil {
		return nil, err
	}
	return service.repo.SubtreeIDs(context, rootID)
}
