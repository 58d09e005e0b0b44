package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/prepdeck/prepdeck-api/internal/domain"
)

// ActivityStore defines the interface for the append-only activity log.
type ActivityStore interface {
	// Append saves one activity record. Records are immutable; there is
	// no update or delete.
	Append(ctx context.Context, activity *domain.Activity) error

	// ListRecent retrieves up to limit of the user's most recent
	// activity records, newest first.
	ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Activity, error)

	// WithTx returns an ActivityStore bound to the given transaction.
	WithTx(tx *sql.Tx) ActivityStore
}
