package category

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

func (repository *PostgresRepository) ListCategories(context context.Context, f Filter) ([]*Category, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s
		FROM %s
	`,
		schema.CoreCategory.ID, schema.CoreCategory.Name, schema.CoreCategory.ParentID,
		schema.CoreCategory.CreatedAt, schema.CoreCategory.Table,
	)

	if f.RootsOnly {
		query += fmt.Sprintf(" WHERE %s IS NULL", schema.CoreCategory.ParentID)
	}

	query += fmt.Sprintf(" ORDER BY %s ASC", schema.CoreCategory.Name)

	rows, err := repository.db.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list_categories")
	}
	defer rows.Close()

	var categories []*Category
	for rows.Next() {
		c := &Category{}
		if err := rows.Scan(&c.ID, &c.Name, &c.ParentID, &c.CreatedAt); err != nil {
			return nil, dberr.Wrap(err, "scan_category")
		}
		categories = append(categories, c)
	}

	return categories, nil
}

func (repository *PostgresRepository) GetCategory(context context.Context, id string) (*Category, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
	`,
		schema.CoreCategory.ID, schema.CoreCategory.Name, schema.CoreCategory.ParentID,
		schema.CoreCategory.CreatedAt, schema.CoreCategory.Table, schema.CoreCategory.ID,
	)

	c := &Category{}
	err := repository.db.QueryRow(context, query, id).Scan(&c.ID, &c.Name, &c.ParentID, &c.CreatedAt)

	return c, dberr.Wrap(err, "get_category")
}

func (repository *PostgresRepository) CreateCategory(context context.Context, c *Category) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, NOW())
		RETURNING %s
	`,
		schema.CoreCategory.Table, schema.CoreCategory.ID, schema.CoreCategory.Name,
		schema.CoreCategory.ParentID, schema.CoreCategory.CreatedAt,
		schema.CoreCategory.CreatedAt,
	)

	err := repository.db.QueryRow(context, query, c.ID, c.Name, c.ParentID).Scan(&c.CreatedAt)
	return dberr.Wrap(err, "create_category")
}

func (repository *PostgresRepository) SubtreeIDs(context context.Context, rootID string) ([]string, error) {
	query := fmt.Sprintf(`
		WITH RECURSIVE subtree AS (
			SELECT %s FROM %s WHERE %s = $1
			UNION ALL
			SELECT c.%s FROM %s c
			JOIN subtree s ON c.%s = s.%s
		)
		SELECT %s FROM subtree
	`,
		schema.CoreCategory.ID, schema.CoreCategory.Table, schema.CoreCategory.ID,
		schema.CoreCategory.ID, schema.CoreCategory.Table,
		schema.CoreCategory.ParentID, schema.CoreCategory.ID,
		schema.CoreCategory.ID,
	)

	rows, err := repository.db.Query(context, query, rootID)
	if err != nil {
		return nil, dberr.Wrap(err, "subtree_ids")
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, dberr.Wrap(err, "scan_subtree_id")
		}
		ids = append(ids, id)
	}

	return ids, nil
}

func (repository *PostgresRepository) Depth(context context.Context, id string) (int, error) {
	query := fmt.Sprintf(`
		WITH RECURSIVE chain AS (
			SELECT %s, %s, 0 AS depth FROM %s WHERE %s = $1
			UNION ALL
			SELECT c.%s, c.%s, chain.depth + 1
			FROM %s c
			JOIN chain ON chain.%s = c.%s
		)
		SELECT COALESCE(MAX(depth), 0) FROM chain
	`,
		schema.CoreCategory.ID, schema.CoreCategory.ParentID, schema.CoreCategory.Table, schema.CoreCategory.ID,
		schema.CoreCategory.ID, schema.CoreCategory.ParentID,
		schema.CoreCategory.Table,
		schema.CoreCategory.ParentID, schema.CoreCategory.ID,
	)

	var depth int
	err := repository.db.QueryRow(context, query, id).Scan(&depth)
	return depth, dberr.Wrap(err, "category_depth")
}
