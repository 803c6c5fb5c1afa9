package category

import "time"

// Category is a node in the portal's category tree. Root categories have a
// nil ParentID; children reference their parent.
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ParentID  *string   `json:"parent_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Node is a category with its children attached, for tree-shaped listings.
type Node struct {
	Category
	Children []*Node `json:"children"`
}

// Filter holds the parameters for a category listing.
type Filter struct {
	RootsOnly bool // restrict to top-level categories
}

const (
	FieldName     = "name"
	FieldParentID = "parent_id"
)
