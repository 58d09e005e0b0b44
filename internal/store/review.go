package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/prepdeck/prepdeck-api/internal/domain"
)

// ReviewStore defines the interface for per-(user, item) schedule
// persistence.
type ReviewStore interface {
	// Get retrieves the review schedule for a user and item.
	// Returns ErrReviewNotFound if no schedule exists yet.
	// NOTE: This method does NOT lock the row; do not use it for
	// read-modify-write cycles.
	Get(ctx context.Context, userID, itemID uuid.UUID) (*domain.Review, error)

	// GetForUpdate retrieves the review schedule with a row-level lock
	// using SELECT FOR UPDATE. Must be called within a transaction when
	// the row will be written back, so concurrent submissions for the
	// same (user, item) pair serialize instead of losing updates.
	// Returns ErrReviewNotFound if no schedule exists yet.
	GetForUpdate(ctx context.Context, userID, itemID uuid.UUID) (*domain.Review, error)

	// Upsert atomically inserts the schedule or replaces the existing
	// row for its (user, item) pair in a single statement.
	// Returns validation errors from the domain Review if data is invalid.
	Upsert(ctx context.Context, review *domain.Review) error

	// WithTx returns a ReviewStore bound to the given transaction.
	WithTx(tx *sql.Tx) ReviewStore
}
