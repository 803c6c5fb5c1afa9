package document

import "context"

type Repository interface {
	// ListPublished returns the portal listing: published documents only,
	// newest first, ties broken by id descending.
	ListPublished(context context.Context, f Filter, limit, offset int) ([]*Document, int, error)
	GetDocument(context context.Context, id string) (*Document, error)
	// GetPublished behaves like GetDocument but reports ErrNotFound for
	// unpublished documents, hiding their existence from the portal.
	GetPublished(context context.Context, id string) (*Document, error)
	CreateDocument(context context.Context, d *Document) error
	// Publish flips is_published to true. Publishing an already-published
	// document is a no-op, not an error.
	Publish(context context.Context, id string) error
	// IncrementClicks and IncrementDownloads bump the respective counter
	// by exactly one in a single atomic statement and return the new value.
	IncrementClicks(context context.Context, id string) (int64, error)
	IncrementDownloads(context context.Context, id string) (int64, error)
}
