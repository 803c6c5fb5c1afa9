package attachment

import (
	"context"
	"fmt"

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

func (repository *PostgresRepository) CreateAttachment(context context.Context, a *Attachment) error {
	s := schema.CoreAttachment
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		RETURNING %s
	`,
		s.Table, s.ID, s.Filename, s.MimeType, s.SizeBytes, s.StorageKey,
		s.UploaderID, s.TokenHash, s.ReviewID, s.State, s.CreatedAt,
		s.CreatedAt,
	)

	err := repository.db.QueryRow(context, query,
		a.ID, a.Filename, a.MimeType, a.SizeBytes, a.StorageKey,
		a.UploaderID, a.TokenHash, a.ReviewID, a.State,
	).Scan(&a.CreatedAt)

	return dberr.Wrap(err, "create_attachment")
}

func (repository *PostgresRepository) GetPending(context context.Context, id string) (*Attachment, error) {
	s := schema.CoreAttachment
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1 AND %s = 'pending'
	`,
		s.ID, s.Filename, s.MimeType, s.SizeBytes, s.StorageKey,
		s.UploaderID, s.TokenHash, s.ReviewID, s.State, s.CreatedAt,
		s.Table, s.ID, s.State,
	)

	a := &Attachment{}
	err := repository.db.QueryRow(context, query, id).Scan(
		&a.ID, &a.Filename, &a.MimeType, &a.SizeBytes, &a.StorageKey,
		&a.UploaderID, &a.TokenHash, &a.ReviewID, &a.State, &a.CreatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "get_pending_attachment")
	}
	return a, nil
}

func (repository *PostgresRepository) DeletePending(context context.Context, id string) error {
	s := schema.CoreAttachment
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = 'pending'`,
		s.Table, s.ID, s.State)

	cmd, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_pending_attachment")
	}
	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}
