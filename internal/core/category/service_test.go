package category_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carbongold/documents/internal/core/category"
	"github.com/carbongold/documents/internal/platform/apperr"
	"github.com/carbongold/documents/internal/platform/dberr"
	"github.com/carbongold/documents/pkg/uuidv7"
)

// fakeRepository is an in-memory Repository for service tests.
type fakeRepository struct {
	categories map[string]*category.Category
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{categories: map[string]*category.Category{}}
}

func (f *fakeRepository) ListCategories(_ context.Context, filter category.Filter) ([]*category.Category, error) {
	var out []*category.Category
	for _, c := range f.categories {
		if filter.RootsOnly && c.ParentID != nil {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeRepository) GetCategory(_ context.Context, id string) (*category.Category, error) {
	c, ok := f.categories[id]
	if !ok {
		return nil, dberr.ErrNotFound
	}
	return c, nil
}

func (f *fakeRepository) CreateCategory(_ context.Context, c *category.Category) error {
	f.categories[c.ID] = c
	return nil
}

func (f *fakeRepository) SubtreeIDs(_ context.Context, rootID string) ([]string, error) {
	ids := []string{rootID}
	frontier := []string{rootID}
	for len(frontier) > 0 {
		next := []string{}
		for _, c := range f.categories {
			for _, p := range frontier {
				if c.ParentID != nil && *c.ParentID == p {
					ids = append(ids, c.ID)
					next = append(next, c.ID)
				}
			}
		}
		frontier = next
	}
	return ids, nil
}

func (f *fakeRepository) Depth(_ context.Context, id string) (int, error) {
	depth := 0
	current := f.categories[id]
	for current != nil && current.ParentID != nil {
		depth++
		current = f.categories[*current.ParentID]
	}
	return depth, nil
}

func (f *fakeRepository) seed(name string, parentID *string) *category.Category {
	c := &category.Category{ID: uuidv7.New(), Name: name, ParentID: parentID}
	f.categories[c.ID] = c
	return c
}

func newService(repo *fakeRepository, maxDepth int) *category.Service {
	return category.NewService(repo, slog.Default(), maxDepth)
}

/*
TestCreateCategory_Validation covers name and parent reference validation.
*/
func TestCreateCategory_Validation(t *testing.T) {
	tests := []struct {
		name      string
		input     category.Category
		expectErr bool
	}{
		{"valid_root", category.Category{Name: "Methodologies"}, false},
		{"empty_name", category.Category{Name: ""}, true},
		{"whitespace_name", category.Category{Name: "   "}, true},
		{"malformed_parent", category.Category{Name: "Child", ParentID: strPtr("not-a-uuid")}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := newService(newFakeRepository(), 1)

			err := service.CreateCategory(context.Background(), &tt.input)
			if tt.expectErr {
				require.Error(t, err)
				assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
			} else {
				require.NoError(t, err)
				assert.NotEmpty(t, tt.input.ID)
			}
		})
	}
}

/*
TestCreateCategory_MissingParent rejects references to nonexistent parents.
*/
func TestCreateCategory_MissingParent(t *testing.T) {
	service := newService(newFakeRepository(), 1)

	input := category.Category{Name: "Orphan", ParentID: strPtr(uuidv7.New())}
	err := service.CreateCategory(context.Background(), &input)

	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

/*
TestCreateCategory_DepthLimit enforces the configured nesting depth.
*/
func TestCreateCategory_DepthLimit(t *testing.T) {
	repo := newFakeRepository()
	root := repo.seed("Standards", nil)
	child := repo.seed("Forestry", &root.ID)

	service := newService(repo, 1)

	// Depth 1 below root is allowed.
	ok := category.Category{Name: "Ok", ParentID: &root.ID}
	require.NoError(t, service.CreateCategory(context.Background(), &ok))

	// A grandchild would sit at depth 2, beyond the limit of 1.
	tooDeep := category.Category{Name: "Too deep", ParentID: &child.ID}
	err := service.CreateCategory(context.Background(), &tooDeep)

	require.Error(t, err)
	assert.Equal(t, "BUSINESS_RULE", apperr.As(err).Code)
}

/*
TestSubtreeIDs resolves a node to itself plus all descendants, across a
three-level chain.
*/
func TestSubtreeIDs(t *testing.T) {
	repo := newFakeRepository()
	root := repo.seed("Standards", nil)
	child := repo.seed("Forestry", &root.ID)
	grandchild := repo.seed("Reforestation", &child.ID)
	repo.seed("Unrelated", nil)

	service := newService(repo, 3)

	ids, err := service.SubtreeIDs(context.Background(), root.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{root.ID, child.ID, grandchild.ID}, ids)

	ids, err = service.SubtreeIDs(context.Background(), grandchild.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{grandchild.ID}, ids)
}

/*
TestListTree nests children under their roots and keeps leaf slices non-nil.
*/
func TestListTree(t *testing.T) {
	repo := newFakeRepository()
	root := repo.seed("Standards", nil)
	child := repo.seed("Forestry", &root.ID)
	other := repo.seed("Reports", nil)

	service := newService(repo, 3)

	tree, err := service.ListTree(context.Background())
	require.NoError(t, err)
	require.Len(t, tree, 2)

	byID := map[string]*category.Node{}
	for _, node := range tree {
		byID[node.ID] = node
	}

	require.Contains(t, byID, root.ID)
	require.Contains(t, byID, other.ID)
	require.Len(t, byID[root.ID].Children, 1)
	assert.Equal(t, child.ID, byID[root.ID].Children[0].ID)
	assert.NotNil(t, byID[other.ID].Children)
	assert.Empty(t, byID[other.ID].Children)
}

func strPtr(s string) *string { return &s }
