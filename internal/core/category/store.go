package category

import "context"

type Repository interface {
	ListCategories(context context.Context, f Filter) ([]*Category, error)
	GetCategory(context context.Context, id string) (*Category, error)
	CreateCategory(context context.Context, c *Category) error
	// SubtreeIDs returns the given category's ID plus the IDs of every
	// descendant, in no particular order.
	SubtreeIDs(context context.Context, rootID string) ([]string, error)
	// Depth returns the number of ancestors above the given category.
	// A root category has depth 0.
	Depth(context context.Context, id string) (int, error)
}
