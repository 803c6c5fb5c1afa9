package attachment

import "context"

type Repository interface {
	CreateAttachment(context context.Context, a *Attachment) error
	// GetPending returns an attachment only while it is still pending;
	// linked attachments are invisible to the staging path.
	GetPending(context context.Context, id string) (*Attachment, error)
	// DeletePending removes a pending row. Reports ErrNotFound if the row
	// is missing or no longer pending.
	DeletePending(context context.Context, id string) error
}
