package review

import "context"

type Repository interface {
	// CreateReview inserts a non-reply review, promotes the supplied
	// pending attachments to it, and recomputes the document's rating
	// aggregate, all within one transaction. Promotion skips ids that are
	// no longer pending or belong to a different uploader.
	CreateReview(context context.Context, r *Review, pendingAttachmentIDs []string) (Aggregate, error)
	CreateReply(context context.Context, r *Review) error
	GetReview(context context.Context, id string) (*Review, error)
	HasReview(context context.Context, documentID, reviewerID string) (bool, error)
	HasReply(context context.Context, parentID, reviewerID string) (bool, error)
	// ListPublished returns published non-reply reviews, newest first with
	// id as tiebreaker, each carrying its published replies and linked
	// attachments.
	ListPublished(context context.Context, documentID string) ([]*View, error)
	// PublishReview flips is_published and recomputes the owning
	// document's aggregate in the same transaction.
	PublishReview(context context.Context, id string) (*Review, Aggregate, error)
}
