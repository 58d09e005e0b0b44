// Package progress maintains per-user engagement state: the daily
// streak, XP totals, and the append-only study activity log. Every
// completed study session flows through here exactly once.
package progress

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/prepdeck/prepdeck-api/internal/domain"
)

// Common service errors
var (
	// ErrInvalidMode is returned when a session reports an unknown study mode.
	ErrInvalidMode = errors.New("invalid study mode")
)

// Service defines the engagement-tracking operations exposed to the
// API layer.
type Service interface {
	// CompleteSession records one finished study session: it updates the
	// daily streak with the session's qualifying completions, credits
	// the session XP, and appends an immutable activity record, all in
	// one transaction. Only quiz sessions contribute qualifying
	// completions; learn and lessons sessions update the streak with a
	// count of zero.
	CompleteSession(
		ctx context.Context,
		userID uuid.UUID,
		mode domain.StudyMode,
		completedCount, xpEarned int,
	) (*domain.Profile, error)

	// GetProfile retrieves the user's engagement state, provisioning an
	// empty profile on first access.
	GetProfile(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)

	// RecentActivity retrieves the user's most recent activity records,
	// newest first.
	RecentActivity(ctx context.Context, userID uuid.UUID) ([]*domain.Activity, error)
}
