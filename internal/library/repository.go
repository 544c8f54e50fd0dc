// internal/library/repository.go
package library

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	"sahachari/internal/common/errors"
	"sahachari/internal/models"

	"github.com/google/uuid"
)

const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// Schema creates the saved_items table. It is safe to run on every start.
const Schema = `
CREATE TABLE IF NOT EXISTS saved_items (
	id         UUID PRIMARY KEY,
	user_id    TEXT NOT NULL,
	kind       TEXT NOT NULL,
	title      TEXT NOT NULL,
	topic      TEXT NOT NULL DEFAULT '',
	language   TEXT NOT NULL DEFAULT '',
	payload    JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS saved_items_user_created_idx ON saved_items (user_id, created_at DESC);
`

const selectColumns = `SELECT id, user_id, kind, title, topic, language, payload, created_at FROM saved_items`

// PostgresRepository implements models.SavedItemRepository on lib/pq.
type PostgresRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db, now: time.Now}
}

func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, Schema); err != nil {
		return errors.NewDatabaseQueryError("ensure schema", err)
	}
	return nil
}

// Save assigns an ID and creation time, then inserts the item.
func (r *PostgresRepository) Save(ctx context.Context, item *models.SavedItem) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	item.CreatedAt = r.now().UTC()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO saved_items (id, user_id, kind, title, topic, language, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		item.ID, item.UserID, string(item.Kind), item.Title, item.Topic, item.Language,
		[]byte(item.Payload), item.CreatedAt,
	)
	if err != nil {
		return errors.NewDatabaseQueryError("save", err)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, userID, id string) (*models.SavedItem, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, errors.NewNotFoundError("Saved item", id)
	}

	row := r.db.QueryRowContext(ctx, selectColumns+` WHERE id = $1 AND user_id = $2`, id, userID)
	item, err := scanItem(row)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFoundError("Saved item", id)
		}
		return nil, errors.NewDatabaseQueryError("get", err)
	}
	return item, nil
}

// List returns the user's items newest first. An empty kind lists every kind.
func (r *PostgresRepository) List(ctx context.Context, userID string, kind models.ContentKind, limit int) ([]*models.SavedItem, error) {
	limit = clampLimit(limit)

	rows, err := r.db.QueryContext(ctx, selectColumns+`
		WHERE user_id = $1 AND ($2 = '' OR kind = $2)
		ORDER BY created_at DESC
		LIMIT $3`, userID, string(kind), limit)
	if err != nil {
		return nil, errors.NewDatabaseQueryError("list", err)
	}
	defer rows.Close()

	items := make([]*models.SavedItem, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, errors.NewDatabaseQueryError("list", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDatabaseQueryError("list", err)
	}
	return items, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errors.NewNotFoundError("Saved item", id)
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM saved_items WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return errors.NewDatabaseQueryError("delete", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.NewDatabaseQueryError("delete", err)
	}
	if n == 0 {
		return errors.NewNotFoundError("Saved item", id)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanItem(row rowScanner) (*models.SavedItem, error) {
	var (
		item    models.SavedItem
		kind    string
		payload []byte
	)
	if err := row.Scan(&item.ID, &item.UserID, &kind, &item.Title, &item.Topic, &item.Language, &payload, &item.CreatedAt); err != nil {
		return nil, err
	}
	item.Kind = models.ContentKind(kind)
	item.Payload = payload
	return &item, nil
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultListLimit
	case limit > MaxListLimit:
		return MaxListLimit
	default:
		return limit
	}
}
