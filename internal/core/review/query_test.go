package review

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/carbongold/documents/internal/platform/database/schema"
)

/*
TestInsertQuery_RendersFully guards the verb/argument balance of the insert
builder: a mismatch leaves fmt artifacts in the SQL and every review and
reply write fails at the server.
*/
func TestInsertQuery_RendersFully(t *testing.T) {
	query := insertQuery()

	assert.NotContains(t, query, "%!")
	assert.NotContains(t, query, "(MISSING)")
	assert.NotContains(t, query, "(EXTRA")

	assert.Contains(t, query, "INSERT INTO "+schema.SocialReview.Table)
	assert.Contains(t, query, "RETURNING "+schema.SocialReview.CreatedAt)

	// Ten bind parameters; createdat is filled by NOW().
	assert.Contains(t, query, "$10")
	assert.NotContains(t, query, "$11")
}

/*
TestReviewColumns_QualifiesEveryColumn keeps the column list aligned with
the scan order.
*/
func TestReviewColumns_QualifiesEveryColumn(t *testing.T) {
	rendered := reviewColumns("r")

	assert.NotContains(t, rendered, "%!")
	for _, col := range schema.SocialReview.Columns() {
		assert.Contains(t, rendered, "r."+col)
	}
	assert.Equal(t, len(schema.SocialReview.Columns()), strings.Count(rendered, "r."))
}
