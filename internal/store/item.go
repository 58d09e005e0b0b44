package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/prepdeck/prepdeck-api/internal/domain"
)

// ItemStore defines the interface for learning item persistence.
type ItemStore interface {
	// Create saves a new item.
	Create(ctx context.Context, item *domain.Item) error

	// GetByID retrieves an item by its unique ID.
	// Returns ErrItemNotFound if the item does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Item, error)

	// GetNextDue retrieves the user's most overdue item at the given
	// time. Items the user has never reviewed are due immediately.
	// Returns ErrItemNotFound when nothing is due.
	GetNextDue(ctx context.Context, userID uuid.UUID, now time.Time) (*domain.Item, error)

	// ListDue retrieves up to limit items due for the user at the given
	// time, most overdue first.
	ListDue(ctx context.Context, userID uuid.UUID, now time.Time, limit int) ([]*domain.Item, error)

	// CountDue returns how many items are due for the user at the given
	// time, including items the user has never reviewed.
	CountDue(ctx context.Context, userID uuid.UUID, now time.Time) (int, error)

	// WithTx returns an ItemStore bound to the given transaction.
	WithTx(tx *sql.Tx) ItemStore
}
