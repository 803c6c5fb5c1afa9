package review

import (
	"context"
	"fmt"
	"strings"

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

func reviewColumns(alias string) string {
	cols := schema.SocialReview.Columns()
	qualified := make([]string, len(cols))
	for i, col := range cols {
		qualified[i] = alias + "." + col
	}
	return strings.Join(qualified, ", ")
}

func scanReview(row pgx.Row) (*Review, error) {
	r := &Review{}
	err := row.Scan(
		&r.ID, &r.DocumentID, &r.ReviewerID, &r.ReviewerName, &r.Comment, &r.Rating,
		&r.IsReply, &r.ReplyToID, &r.IsPublished, &r.AccessToken, &r.CreatedAt,
	)
	return r, err
}

func insertQuery() string {
	r := schema.SocialReview
	return fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
		RETURNING %s
	`,
		r.Table, r.ID, r.DocumentID, r.ReviewerID, r.ReviewerName, r.Comment, r.Rating,
		r.IsReply, r.ReplyToID, r.IsPublished, r.AccessToken, r.CreatedAt,
		r.CreatedAt,
	)
}

// recomputeAggregate refreshes the document's derived rating fields from the
// set of published, non-reply, positively-rated reviews. Runs inside the
// caller's transaction so readers never observe a review without its
// aggregate update.
func recomputeAggregate(context context.Context, tx pgx.Tx, documentID string) (Aggregate, error) {
	r := schema.SocialReview
	d := schema.CoreDocument

	query := fmt.Sprintf(`
		WITH agg AS (
			SELECT COALESCE(AVG(%s), 0) AS rating_avg, COUNT(*) AS rating_count
			FROM %s
			WHERE %s = $1 AND %s = FALSE AND %s = TRUE AND %s > 0
		)
		UPDATE %s d
		SET %s = agg.rating_avg, %s = agg.rating_count, %s = NOW()
		FROM agg
		WHERE d.%s = $1
		RETURNING d.%s, d.%s
	`,
		r.Rating, r.Table, r.DocumentID, r.IsReply, r.IsPublished, r.Rating,
		d.Table, d.RatingAvg, d.RatingCount, d.UpdatedAt,
		d.ID, d.RatingAvg, d.RatingCount,
	)

	var agg Aggregate
	err := tx.QueryRow(context, query, documentID).Scan(&agg.RatingAvg, &agg.RatingCount)
	return agg, err
}

func (repository *PostgresRepository) CreateReview(context context.Context, r *Review, pendingAttachmentIDs []string) (Aggregate, error) {
	tx, err := repository.db.Begin(context)
	if err != nil {
		return Aggregate{}, dberr.Wrap(err, "begin_create_review")
	}
	defer tx.Rollback(context)

	err = tx.QueryRow(context, insertQuery(),
		r.ID, r.DocumentID, r.ReviewerID, r.ReviewerName, r.Comment, r.Rating,
		r.IsReply, r.ReplyToID, r.IsPublished, r.AccessToken,
	).Scan(&r.CreatedAt)
	if err != nil {
		return Aggregate{}, dberr.Wrap(err, "create_review")
	}

	if len(pendingAttachmentIDs) > 0 {
		a := schema.CoreAttachment
		// One statement promotes the whole set; ids that are no longer
		// pending or belong to another uploader are skipped.
		promote := fmt.Sprintf(`
			UPDATE %s
			SET %s = $1, %s = 'linked'
			WHERE %s = ANY($2) AND %s = 'pending' AND %s = $3
		`, a.Table, a.ReviewID, a.State, a.ID, a.State, a.UploaderID)

		if _, err := tx.Exec(context, promote, r.ID, pendingAttachmentIDs, r.ReviewerID); err != nil {
			return Aggregate{}, dberr.Wrap(err, "promote_attachments")
		}
	}

	agg, err := recomputeAggregate(context, tx, r.DocumentID)
	if err != nil {
		return Aggregate{}, dberr.Wrap(err, "recompute_rating")
	}

	if err := tx.Commit(context); err != nil {
		return Aggregate{}, dberr.Wrap(err, "commit_create_review")
	}
	return agg, nil
}

func (repository *PostgresRepository) CreateReply(context context.Context, r *Review) error {
	err := repository.db.QueryRow(context, insertQuery(),
		r.ID, r.DocumentID, r.ReviewerID, r.ReviewerName, r.Comment, r.Rating,
		r.IsReply, r.ReplyToID, r.IsPublished, r.AccessToken,
	).Scan(&r.CreatedAt)

	return dberr.Wrap(err, "create_reply")
}

func (repository *PostgresRepository) GetReview(context context.Context, id string) (*Review, error) {
	r := schema.SocialReview
	query := fmt.Sprintf(`SELECT %s FROM %s r WHERE r.%s = $1`, reviewColumns("r"), r.Table, r.ID)

	rev, err := scanReview(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "get_review")
	}
	return rev, nil
}

func (repository *PostgresRepository) HasReview(context context.Context, documentID, reviewerID string) (bool, error) {
	r := schema.SocialReview
	query := fmt.Sprintf(`
		SELECT EXISTS (
			SELECT 1 FROM %s WHERE %s = $1 AND %s = $2 AND %s = FALSE
		)
	`, r.Table, r.DocumentID, r.ReviewerID, r.IsReply)

	var exists bool
	err := repository.db.QueryRow(context, query, documentID, reviewerID).Scan(&exists)
	return exists, dberr.Wrap(err, "has_review")
}

func (repository *PostgresRepository) HasReply(context context.Context, parentID, reviewerID string) (bool, error) {
	r := schema.SocialReview
	query := fmt.Sprintf(`
		SELECT EXISTS (
			SELECT 1 FROM %s WHERE %s = $1 AND %s = $2 AND %s = TRUE
		)
	`, r.Table, r.ReplyToID, r.ReviewerID, r.IsReply)

	var exists bool
	err := repository.db.QueryRow(context, query, parentID, reviewerID).Scan(&exists)
	return exists, dberr.Wrap(err, "has_reply")
}

func (repository *PostgresRepository) ListPublished(context context.Context, documentID string) ([]*View, error) {
	r := schema.SocialReview

	topQuery := fmt.Sprintf(`
		SELECT %s FROM %s r
		WHERE r.%s = $1 AND r.%s = FALSE AND r.%s = TRUE
		ORDER BY r.%s DESC, r.%s DESC
	`, reviewColumns("r"), r.Table, r.DocumentID, r.IsReply, r.IsPublished, r.CreatedAt, r.ID)

	rows, err := repository.db.Query(context, topQuery, documentID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_reviews")
	}
	defer rows.Close()

	views := []*View{}
	byID := map[string]*View{}
	ids := []string{}
	for rows.Next() {
		rev, err := scanReview(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_review")
		}
		view := &View{Review: *rev, Replies: []*Review{}, Attachments: []AttachmentRef{}}
		views = append(views, view)
		byID[rev.ID] = view
		ids = append(ids, rev.ID)
	}

	if len(ids) == 0 {
		return views, nil
	}

	replyQuery := fmt.Sprintf(`
		SELECT %s FROM %s r
		WHERE r.%s = ANY($1) AND r.%s = TRUE
		ORDER BY r.%s ASC, r.%s ASC
	`, reviewColumns("r"), r.Table, r.ReplyToID, r.IsPublished, r.CreatedAt, r.ID)

	replyRows, err := repository.db.Query(context, replyQuery, ids)
	if err != nil {
		return nil, dberr.Wrap(err, "list_replies")
	}
	defer replyRows.Close()

	for replyRows.Next() {
		reply, err := scanReview(replyRows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_reply")
		}
		if parent, ok := byID[*reply.ReplyToID]; ok {
			parent.Replies = append(parent.Replies, reply)
		}
	}

	a := schema.CoreAttachment
	attachmentQuery := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s FROM %s
		WHERE %s = ANY($1) AND %s = 'linked'
		ORDER BY %s ASC
	`, a.ID, a.ReviewID, a.Filename, a.MimeType, a.SizeBytes, a.Table, a.ReviewID, a.State, a.CreatedAt)

	attachmentRows, err := repository.db.Query(context, attachmentQuery, ids)
	if err != nil {
		return nil, dberr.Wrap(err, "list_review_attachments")
	}
	defer attachmentRows.Close()

	for attachmentRows.Next() {
		var ref AttachmentRef
		var reviewID string
		if err := attachmentRows.Scan(&ref.ID, &reviewID, &ref.Name, &ref.MimeType, &ref.SizeBytes); err != nil {
			return nil, dberr.Wrap(err, "scan_review_attachment")
		}
		if parent, ok := byID[reviewID]; ok {
			parent.Attachments = append(parent.Attachments, ref)
		}
	}

	return views, nil
}

func (repository *PostgresRepository) PublishReview(context context.Context, id string) (*Review, Aggregate, error) {
	tx, err := repository.db.Begin(context)
	if err != nil {
		return nil, Aggregate{}, dberr.Wrap(err, "begin_publish_review")
	}
	defer tx.Rollback(context)

	r := schema.SocialReview
	query := fmt.Sprintf(`
		UPDATE %s r SET %s = TRUE WHERE r.%s = $1
		RETURNING %s
	`, r.Table, r.IsPublished, r.ID, reviewColumns("r"))

	rev, err := scanReview(tx.QueryRow(context, query, id))
	if err != nil {
		return nil, Aggregate{}, dberr.Wrap(err, "publish_review")
	}

	agg, err := recomputeAggregate(context, tx, rev.DocumentID)
	if err != nil {
		return nil, Aggregate{}, dberr.Wrap(err, "recompute_rating")
	}

	if err := tx.Commit(context); err != nil {
		return nil, Aggregate{}, dberr.Wrap(err, "commit_publish_review")
	}
	return rev, agg, nil
}
