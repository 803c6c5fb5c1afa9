package schema

// CoreDocumentTable represents the 'core.document' table
type CoreDocumentTable struct {
	Table         string
	ID            string
	Name          string
	Slug          string
	Author        string
	Description   string
	OwnerID       string
	DocType       string
	StorageKey    string
	Filename      string
	MimeType      string
	SizeBytes     string
	ExternalURL   string
	ThumbnailKey  string
	IsPublished   string
	ClickCount    string
	DownloadCount string
	RatingAvg     string
	RatingCount   string
	AccessToken   string
	CreatedAt     string
	UpdatedAt     string
}

// CoreDocument is the schema definition for core.document
var CoreDocument = CoreDocumentTable{
	Table:         "core.document",
	ID:            "id",
	Name:          "name",
	Slug:          "slug",
	Author:        "author",
	Description:   "description",
	OwnerID:       "ownerid",
	DocType:       "doctype",
	StorageKey:    "storagekey",
	Filename:      "filename",
	MimeType:      "mimetype",
	SizeBytes:     "sizebytes",
	ExternalURL:   "externalurl",
	ThumbnailKey:  "thumbnailkey",
	IsPublished:   "ispublished",
	ClickCount:    "clickcount",
	DownloadCount: "downloadcount",
	RatingAvg:     "ratingavg",
	RatingCount:   "ratingcount",
	AccessToken:   "accesstoken",
	CreatedAt:     "createdat",
	UpdatedAt:     "updatedat",
}

func (t CoreDocumentTable) Columns() []string {
	return []string{
		t.ID, t.Name, t.Slug, t.Author, t.Description, t.OwnerID, t.DocType,
		t.StorageKey, t.Filename, t.MimeType, t.SizeBytes, t.ExternalURL, t.ThumbnailKey,
		t.IsPublished, t.ClickCount, t.DownloadCount, t.RatingAvg, t.RatingCount,
		t.AccessToken, t.CreatedAt, t.UpdatedAt,
	}
}
