package models

import (
	"context"
	"encoding/json"
	"time"
)

// SavedItem is a generated result a teacher chose to keep.
type SavedItem struct {
	ID        string          `json:"id" db:"id"`
	UserID    string          `json:"userId" db:"user_id"`
	Kind      ContentKind     `json:"kind" db:"kind"`
	Title     string          `json:"title" db:"title"`
	Topic     string          `json:"topic,omitempty" db:"topic"`
	Language  string          `json:"language,omitempty" db:"language"`
	Payload   json.RawMessage `json:"payload" db:"payload"`
	CreatedAt time.Time       `json:"createdAt" db:"created_at"`
}

// SavedItemRepository defines saved library data access. Every method is
// scoped to a user; an item owned by someone else behaves as missing.
type SavedItemRepository interface {
	Save(ctx context.Context, item *SavedItem) error
	Get(ctx context.Context, userID, id string) (*SavedItem, error)
	List(ctx context.Context, userID string, kind ContentKind, limit int) ([]*SavedItem, error)
	Delete(ctx context.Context, userID, id string) error
}
