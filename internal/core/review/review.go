package review

import "time"

// Review is one entry in a document's review thread. A non-reply review
// carries a rating; a reply references its parent and is never rated.
type Review struct {
	ID           string    `json:"id"`
	DocumentID   string    `json:"document_id"`
	ReviewerID   string    `json:"reviewer_id"`
	ReviewerName string    `json:"reviewer_name"`
	Comment      string    `json:"comment"`
	Rating       float64   `json:"rating"`
	IsReply      bool      `json:"is_reply"`
	ReplyToID    *string   `json:"reply_to_id,omitempty"`
	IsPublished  bool      `json:"is_published"`
	AccessToken  string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// AttachmentRef is the listing projection of a linked review attachment.
type AttachmentRef struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	MimeType  string `json:"mimetype"`
	SizeBytes int64  `json:"file_size"`
}

// View is one published review with its published replies and attachments,
// fully materialized for the portal listing.
type View struct {
	Review
	Replies     []*Review       `json:"replies"`
	Attachments []AttachmentRef `json:"attachments"`
}

// Aggregate is a document's derived rating state. It is recomputed from the
// set of published, non-reply, positively-rated reviews; clients never write
// it directly.
type Aggregate struct {
	RatingAvg   float64 `json:"rating_avg"`
	RatingCount int     `json:"rating_count"`
}

const (
	FieldDocumentID = "document_id"
	FieldReviewID   = "review_id"
	FieldComment    = "comment"
	FieldRating     = "rating"
)

const (
	// RatingMin and RatingMax bound the submitted rating. A rating of 0
	// means "no rating given" and stays out of the aggregate.
	RatingMin = 0.0
	RatingMax = 5.0
)
