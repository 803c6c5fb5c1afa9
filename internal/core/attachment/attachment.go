package attachment

import (
	"path/filepath"
	"strings"
	"time"
)

// Attachment is an uploaded blob destined for a review. It starts pending
// and owned by its uploader; linking it to a review transfers ownership and
// closes the direct-removal path.
type Attachment struct {
	ID         string    `json:"id"`
	Filename   string    `json:"name"`
	MimeType   string    `json:"mimetype"`
	SizeBytes  int64     `json:"file_size"`
	StorageKey string    `json:"-"`
	UploaderID string    `json:"-"`
	TokenHash  string    `json:"-"`
	ReviewID   *string   `json:"review_id,omitempty"`
	State      string    `json:"state"`
	CreatedAt  time.Time `json:"created_at"`
}

const (
	StatePending = "pending"
	StateLinked  = "linked"
)

const (
	FieldFile = "file"
)

// deniedExtensions blocks executable formats from review attachments.
// Everything else is allowed.
var deniedExtensions = map[string]bool{
	"exe": true, "bat": true, "cmd": true, "jar": true, "msi": true, "app": true,
}

func extensionOf(filename string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
}
