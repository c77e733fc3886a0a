package blogs

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/blogkeeper/internal/common"
	"github.com/dmitrijs2005/blogkeeper/internal/dbx"
	"github.com/dmitrijs2005/blogkeeper/internal/server/models"
)

// PostgresRepository implements blog storage over a dbx.DBTX (*sql.DB or *sql.Tx).
// Subscribers live in a jsonb array column; set-adds happen in a single
// statement so concurrent subscriptions never overwrite each other.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanSubscribers(raw []byte, blog *models.Blog) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, &blog.Subscribers)
}

func (r *PostgresRepository) Create(ctx context.Context, blog *models.Blog) (*models.Blog, error) {
	query :=
		`INSERT INTO blogs (id, owner_id, title, category, description, subscribers, version)
		 VALUES ($1, $2, $3, $4, $5, '[]'::jsonb, 1)
		 `

	_, err := r.db.ExecContext(ctx, query,
		blog.ID, blog.OwnerID, blog.Title, blog.Category, blog.Description)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}

	blog.Subscribers = nil
	blog.Version = 1
	return blog, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Blog, error) {
	query :=
		`SELECT id, owner_id, title, category, description, subscribers, version FROM blogs
		 WHERE id = $1
		 `

	blog := &models.Blog{}
	var subscribers []byte
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&blog.ID, &blog.OwnerID, &blog.Title, &blog.Category, &blog.Description,
		&subscribers, &blog.Version)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}

	if err := scanSubscribers(subscribers, blog); err != nil {
		return nil, fmt.Errorf("decode subscribers: %w", err)
	}
	return blog, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Blog, error) {
	query := `SELECT id, owner_id, title, category, description, subscribers, version FROM blogs`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	defer rows.Close()

	var result []*models.Blog
	for rows.Next() {
		var blog models.Blog
		var subscribers []byte
		if err := rows.Scan(&blog.ID, &blog.OwnerID, &blog.Title, &blog.Category,
			&blog.Description, &subscribers, &blog.Version); err != nil {
			return nil, err
		}
		if err := scanSubscribers(subscribers, &blog); err != nil {
			return nil, fmt.Errorf("decode subscribers: %w", err)
		}
		result = append(result, &blog)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateFields persists owner edits behind a version check. If no row matches
// the id/version pair the write lost to a concurrent change and
// ErrVersionConflict is returned. Subscriber data is never touched here, so a
// racing subscription survives an owner edit.
func (r *PostgresRepository) UpdateFields(ctx context.Context, blog *models.Blog, expectedVersion int64) error {
	query :=
		`UPDATE blogs SET title = $2, category = $3, description = $4, version = version + 1
		 WHERE id = $1 AND version = $5
		 `

	res, err := r.db.ExecContext(ctx, query,
		blog.ID, blog.Title, blog.Category, blog.Description, expectedVersion)
	if err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrVersionConflict
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}

// AddSubscriber appends userID to the subscriber set in one statement. The
// guard keeps the operation idempotent and keeps the owner out of the set.
func (r *PostgresRepository) AddSubscriber(ctx context.Context, blogID, userID string) error {
	query :=
		`UPDATE blogs SET subscribers = subscribers || to_jsonb($2::text)
		 WHERE id = $1 AND owner_id <> $2 AND NOT (subscribers @> to_jsonb($2::text))
		 `

	res, err := r.db.ExecContext(ctx, query, blogID, userID)
	if err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 1 {
		return nil
	}

	// No row changed: either the blog is gone, or this is a no-op
	// (already subscribed, or the caller owns the blog).
	if _, err := r.GetByID(ctx, blogID); err != nil {
		return err
	}
	return nil
}

func (r *PostgresRepository) RemoveSubscriber(ctx context.Context, blogID, userID string) error {
	query :=
		`UPDATE blogs SET subscribers = subscribers - $2
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, blogID, userID)
	if err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM blogs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
