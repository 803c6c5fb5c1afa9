package document

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carbongold/documents/internal/platform/database/schema"
	"github.com/carbongold/documents/internal/platform/dberr"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// selectColumns is the document projection shared by every read, with the
// category ids aggregated from the junction table.
func selectColumns() string {
	d := schema.CoreDocument
	dc := schema.CoreDocumentCategory
	return fmt.Sprintf(`
		d.%s, d.%s, d.%s, d.%s, d.%s, d.%s, d.%s,
		d.%s, d.%s, d.%s, d.%s, d.%s, d.%s,
		d.%s, d.%s, d.%s, d.%s, d.%s,
		d.%s, d.%s, d.%s,
		COALESCE(array_agg(dc.%s) FILTER (WHERE dc.%s IS NOT NULL), '{}')
	`,
		d.ID, d.Name, d.Slug, d.Author, d.Description, d.OwnerID, d.DocType,
		d.StorageKey, d.Filename, d.MimeType, d.SizeBytes, d.ExternalURL, d.ThumbnailKey,
		d.IsPublished, d.ClickCount, d.DownloadCount, d.RatingAvg, d.RatingCount,
		d.AccessToken, d.CreatedAt, d.UpdatedAt,
		dc.CategoryID, dc.CategoryID,
	)
}

func scanDocument(row pgx.Row) (*Document, error) {
	d := &Document{}
	err := row.Scan(
		&d.ID, &d.Name, &d.Slug, &d.Author, &d.Description, &d.OwnerID, &d.Type,
		&d.StorageKey, &d.Filename, &d.MimeType, &d.SizeBytes, &d.ExternalURL, &d.ThumbnailKey,
		&d.IsPublished, &d.ClickCount, &d.DownloadCount, &d.RatingAvg, &d.RatingCount,
		&d.AccessToken, &d.CreatedAt, &d.UpdatedAt,
		&d.CategoryIDs,
	)
	return d, err
}

func (repository *PostgresRepository) ListPublished(context context.Context, f Filter, limit, offset int) ([]*Document, int, error) {
	d := schema.CoreDocument
	dc := schema.CoreDocumentCategory

	baseFrom := fmt.Sprintf(`
		FROM %s d
		LEFT JOIN %s dc ON dc.%s = d.%s
		WHERE d.%s = TRUE
	`, d.Table, dc.Table, dc.DocumentID, d.ID, d.IsPublished)

	countFrom := fmt.Sprintf(`FROM %s d WHERE d.%s = TRUE`, d.Table, d.IsPublished)

	args := []any{}
	countArgs := []any{}
	filters := ""

	if f.Query != "" {
		searchTerm := "%" + f.Query + "%"
		args = append(args, searchTerm)
		countArgs = append(countArgs, searchTerm)
		clause := fmt.Sprintf(" AND (d.%s ILIKE $%d OR d.%s ILIKE $%d OR d.%s ILIKE $%d)",
			d.Name, len(args), d.Author, len(args), d.Description, len(args))
		filters += clause
	}

	if len(f.CategoryIDs) > 0 {
		args = append(args, f.CategoryIDs)
		countArgs = append(countArgs, f.CategoryIDs)
		clause := fmt.Sprintf(" AND d.%s IN (SELECT %s FROM %s WHERE %s = ANY($%d))",
			d.ID, dc.DocumentID, dc.Table, dc.CategoryID, len(args))
		filters += clause
	}

	var total int
	if err := repository.db.QueryRow(context, "SELECT count(*) "+countFrom+filters, countArgs...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_documents")
	}

	query := "SELECT " + selectColumns() + baseFrom + filters +
		fmt.Sprintf(" GROUP BY d.%s ORDER BY d.%s DESC, d.%s DESC", d.ID, d.CreatedAt, d.ID) +
		" LIMIT $" + strconv.Itoa(len(args)+1) + " OFFSET $" + strconv.Itoa(len(args)+2)
	args = append(args, limit, offset)

	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_documents")
	}
	defer rows.Close()

	var documents []*Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_document")
		}
		documents = append(documents, doc)
	}

	return documents, total, nil
}

func (repository *PostgresRepository) GetDocument(context context.Context, id string) (*Document, error) {
	return repository.get(context, id, false)
}

func (repository *PostgresRepository) GetPublished(context context.Context, id string) (*Document, error) {
	return repository.get(context, id, true)
}

func (repository *PostgresRepository) get(context context.Context, id string, publishedOnly bool) (*Document, error) {
	d := schema.CoreDocument
	dc := schema.CoreDocumentCategory

	query := "SELECT " + selectColumns() + fmt.Sprintf(`
		FROM %s d
		LEFT JOIN %s dc ON dc.%s = d.%s
		WHERE d.%s = $1
	`, d.Table, dc.Table, dc.DocumentID, d.ID, d.ID)

	if publishedOnly {
		query += fmt.Sprintf(" AND d.%s = TRUE", d.IsPublished)
	}
	query += fmt.Sprintf(" GROUP BY d.%s", d.ID)

	doc, err := scanDocument(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "get_document")
	}
	return doc, nil
}

func (repository *PostgresRepository) CreateDocument(context context.Context, d *Document) error {
	tx, err := repository.db.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "begin_create_document")
	}
	defer tx.Rollback(context)

	doc := schema.CoreDocument
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s,
			%s, %s, %s, %s, %s, %s,
			%s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
			FALSE, 0, 0, 0, 0, $14, NOW(), NOW())
		RETURNING %s, %s
	`,
		doc.Table, doc.ID, doc.Name, doc.Slug, doc.Author, doc.Description, doc.OwnerID, doc.DocType,
		doc.StorageKey, doc.Filename, doc.MimeType, doc.SizeBytes, doc.ExternalURL, doc.ThumbnailKey,
		doc.IsPublished, doc.ClickCount, doc.DownloadCount, doc.RatingAvg, doc.RatingCount,
		doc.AccessToken, doc.CreatedAt, doc.UpdatedAt,
		doc.CreatedAt, doc.UpdatedAt,
	)

	err = tx.QueryRow(context, query,
		d.ID, d.Name, d.Slug, d.Author, d.Description, d.OwnerID, d.Type,
		d.StorageKey, d.Filename, d.MimeType, d.SizeBytes, d.ExternalURL, d.ThumbnailKey,
		d.AccessToken,
	).Scan(&d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, "create_document")
	}

	dc := schema.CoreDocumentCategory
	junction := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2)`,
		dc.Table, dc.DocumentID, dc.CategoryID)

	for _, categoryID := range d.CategoryIDs {
		if _, err := tx.Exec(context, junction, d.ID, categoryID); err != nil {
			return dberr.Wrap(err, "link_document_category")
		}
	}

	if err := tx.Commit(context); err != nil {
		return dberr.Wrap(err, "commit_create_document")
	}
	return nil
}

func (repository *PostgresRepository) Publish(context context.Context, id string) error {
	d := schema.CoreDocument
	query := fmt.Sprintf(`UPDATE %s SET %s = TRUE, %s = NOW() WHERE %s = $1`,
		d.Table, d.IsPublished, d.UpdatedAt, d.ID)

	cmd, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "publish_document")
	}
	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (repository *PostgresRepository) IncrementClicks(context context.Context, id string) (int64, error) {
	d := schema.CoreDocument
	query := fmt.Sprintf(`UPDATE %s SET %s = %s + 1 WHERE %s = $1 RETURNING %s`,
		d.Table, d.ClickCount, d.ClickCount, d.ID, d.ClickCount)

	var count int64
	err := repository.db.QueryRow(context, query, id).Scan(&count)
	return count, dberr.Wrap(err, "increment_clicks")
}

func (repository *PostgresRepository) IncrementDownloads(context context.Context, id string) (int64, error) {
	d := schema.CoreDocument
	query := fmt.Sprintf(`UPDATE %s SET %s = %s + 1 WHERE %s = $1 RETURNING %s`,
		d.Table, d.DownloadCount, d.DownloadCount, d.ID, d.DownloadCount)

	var count int64
	err := repository.db.QueryRow(context, query, id).Scan(&count)
	return count, dberr.Wrap(err, "increment_downloads")
}
