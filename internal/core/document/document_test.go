package document_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/carbongold/documents/internal/core/document"
)

/*
TestPreviewToken extracts video embed tokens from known URL shapes.
*/
func TestPreviewToken(t *testing.T) {
	tests := []struct {
		name  string
		url   string
		token string
	}{
		{"watch_url", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"short_url", "https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"embed_url", "https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"legacy_v_url", "https://www.youtube.com/v/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"unrelated_url", "https://example.com/report.pdf", ""},
		{"token_too_short", "https://youtu.be/short", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			url := tt.url
			doc := &document.Document{Type: document.TypeURL, ExternalURL: &url}
			assert.Equal(t, tt.token, doc.PreviewToken())
		})
	}
}

/*
TestPreviewToken_BinaryDocument never reports a token for binary documents.
*/
func TestPreviewToken_BinaryDocument(t *testing.T) {
	url := "https://youtu.be/dQw4w9WgXcQ"
	doc := &document.Document{Type: document.TypeBinary, ExternalURL: &url}
	assert.Empty(t, doc.PreviewToken())
}
