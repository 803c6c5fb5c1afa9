package schema

// CoreAttachmentTable represents the 'core.attachment' table
type CoreAttachmentTable struct {
	Table      string
	ID         string
	Filename   string
	MimeType   string
	SizeBytes  string
	StorageKey string
	UploaderID string
	TokenHash  string
	ReviewID   string
	State      string
	CreatedAt  string
}

// CoreAttachment is the schema definition for core.attachment
var CoreAttachment = CoreAttachmentTable{
	Table:      "core.attachment",
	ID:         "id",
	Filename:   "filename",
	MimeType:   "mimetype",
	SizeBytes:  "sizebytes",
	StorageKey: "storagekey",
	UploaderID: "uploaderid",
	TokenHash:  "tokenhash",
	ReviewID:   "reviewid",
	State:      "state",
	CreatedAt:  "createdat",
}

func (t CoreAttachmentTable) Columns() []string {
	return []string{
		t.ID, t.Filename, t.MimeType, t.SizeBytes, t.StorageKey,
		t.UploaderID, t.TokenHash, t.ReviewID, t.State, t.CreatedAt,
	}
}
