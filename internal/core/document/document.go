package document

import (
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// Document is the publishable entity of the portal. It wraps either an
// uploaded binary (Type = binary) or an external link (Type = url).
type Document struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Slug          string    `json:"slug"`
	Author        string    `json:"author"`
	Description   string    `json:"description"`
	OwnerID       string    `json:"owner_id"`
	Type          string    `json:"type"`
	StorageKey    *string   `json:"-"`
	Filename      *string   `json:"filename"`
	MimeType      *string   `json:"mimetype"`
	SizeBytes     *int64    `json:"file_size"`
	ExternalURL   *string   `json:"external_url"`
	ThumbnailKey  *string   `json:"-"`
	IsPublished   bool      `json:"is_published"`
	ClickCount    int64     `json:"click_count"`
	DownloadCount int64     `json:"download_count"`
	RatingAvg     float64   `json:"rating_avg"`
	RatingCount   int       `json:"rating_count"`
	AccessToken   string    `json:"-"`
	CategoryIDs   []string  `json:"category_ids"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

const (
	TypeBinary = "binary"
	TypeURL    = "url"
)

const (
	FieldName        = "name"
	FieldAuthor      = "author"
	FieldDescription = "description"
	FieldCategoryIDs = "category_ids"
	FieldFile        = "file"
	FieldURL         = "url"
	FieldThumbnail   = "thumbnail"
)

// Filter holds the parameters for a portal document listing.
type Filter struct {
	Query       string   // matched against name, author, and description
	CategoryIDs []string // document must be tagged with at least one
}

// Source is the tagged content source of a document save.
type Source interface{ isSource() }

// Link is a save source referencing an external URL.
type Link struct {
	URL string
}

// Upload is a save source carrying an uploaded binary.
type Upload struct {
	Filename string
	MimeType string
	Size     int64
	Content  io.Reader
}

func (Link) isSource()   {}
func (Upload) isSource() {}

// youtubeToken matches the embed token of the known video URL shapes.
var youtubeToken = regexp.MustCompile(`(?:youtu\.be/|youtube\.com/(?:watch\?v=|embed/|v/))([a-zA-Z0-9_-]{11})`)

// PreviewToken extracts a video embed token from a url-type document.
// It is a pure string match; no network fetch happens. Returns "" when the
// document is binary or the URL has no recognizable token.
func (d *Document) PreviewToken() string {
	if d.Type != TypeURL || d.ExternalURL == nil {
		return ""
	}
	m := youtubeToken.FindStringSubmatch(*d.ExternalURL)
	if m == nil {
		return ""
	}
	return m[1]
}

// SearchFields names the attributes the portal search matches against.
func (d *Document) SearchFields() []string {
	return []string{FieldName, FieldAuthor, FieldDescription}
}

// Published reports portal visibility.
func (d *Document) Published() bool { return d.IsPublished }

// documentExtensions is the allowlist for document uploads. Archives are
// admitted separately via configuration.
var documentExtensions = map[string]bool{
	"pdf": true, "doc": true, "docx": true, "pptx": true,
	"xls": true, "xlsx": true, "csv": true, "txt": true,
	"jpg": true, "jpeg": true, "png": true, "webp": true,
}

// thumbnailExtensions is the allowlist for thumbnail uploads.
var thumbnailExtensions = map[string]bool{
	"jpg": true, "jpeg": true, "png": true, "webp": true, "svg": true,
}

// extensionOf returns the lowercased extension of a filename without the dot.
func extensionOf(filename string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
}
