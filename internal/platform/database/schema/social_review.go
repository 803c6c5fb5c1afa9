package schema

// SocialReviewTable represents the 'social.review' table
type SocialReviewTable struct {
	Table        string
	ID           string
	DocumentID   string
	ReviewerID   string
	ReviewerName string
	Comment      string
	Rating       string
	IsReply      string
	ReplyToID    string
	IsPublished  string
	AccessToken  string
	CreatedAt    string
}

// SocialReview is the schema definition for social.review
var SocialReview = SocialReviewTable{
	Table:        "social.review",
	ID:           "id",
	DocumentID:   "documentid",
	ReviewerID:   "reviewerid",
	ReviewerName: "reviewername",
	Comment:      "comment",
	Rating:       "rating",
	IsReply:      "isreply",
	ReplyToID:    "replytoid",
	IsPublished:  "ispublished",
	AccessToken:  "accesstoken",
	CreatedAt:    "createdat",
}

func (t SocialReviewTable) Columns() []string {
	return []string{
		t.ID, t.DocumentID, t.ReviewerID, t.ReviewerName, t.Comment, t.Rating,
		t.IsReply, t.ReplyToID, t.IsPublished, t.AccessToken, t.CreatedAt,
	}
}
