package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/prepdeck/prepdeck-api/internal/domain"
)

// ProfileStore defines the interface for per-user engagement state
// persistence.
type ProfileStore interface {
	// Create saves a new profile.
	// Returns ErrDuplicate if a profile already exists for the user.
	Create(ctx context.Context, profile *domain.Profile) error

	// Get retrieves a profile by user ID.
	// Returns ErrProfileNotFound if the profile does not exist.
	Get(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)

	// GetForUpdate retrieves a profile with a row-level lock using
	// SELECT FOR UPDATE. Must be called within a transaction when the
	// row will be written back, so concurrent streak updates for the
	// same user serialize instead of losing updates.
	GetForUpdate(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)

	// Update writes the profile's engagement fields (xp, streak, daily
	// counters) back in a single statement.
	// Returns ErrProfileNotFound if the profile does not exist.
	Update(ctx context.Context, profile *domain.Profile) error

	// AddXP atomically increments the user's XP total.
	// Returns ErrProfileNotFound if the profile does not exist.
	AddXP(ctx context.Context, userID uuid.UUID, amount int) error

	// WithTx returns a ProfileStore bound to the given transaction.
	WithTx(tx *sql.Tx) ProfileStore
}
