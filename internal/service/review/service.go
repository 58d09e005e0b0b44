// Package review orchestrates review submission: it loads the prior
// schedule for a (user, item) pair, runs the SM-2 calculation, and
// persists the result atomically together with the XP award.
package review

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/prepdeck/prepdeck-api/internal/domain"
)

// Common service errors
var (
	// ErrItemNotFound is returned when the reviewed item does not exist.
	ErrItemNotFound = errors.New("item not found")

	// ErrNoItemsDue is returned when the user has nothing to study right now.
	ErrNoItemsDue = errors.New("no items due for review")

	// ErrNotQuizItem is returned when a quiz answer is submitted for a
	// lesson item.
	ErrNotQuizItem = errors.New("item is not a quiz")
)

// Service defines the review submission operations exposed to the API
// layer.
type Service interface {
	// SubmitReview processes a review rated on the 1-5 quality scale
	// (lesson items let the user pick the rating directly) and returns
	// the updated schedule. Ratings outside 1-5 are clamped.
	SubmitReview(
		ctx context.Context,
		userID, itemID uuid.UUID,
		quality int,
	) (*domain.Review, error)

	// SubmitQuizAnswer grades answerIndex against the quiz item's
	// correct choice, maps the result onto the quality scale (5 correct,
	// 2 incorrect), and processes it like SubmitReview.
	// Returns ErrNotQuizItem for lesson items.
	SubmitQuizAnswer(
		ctx context.Context,
		userID, itemID uuid.UUID,
		answerIndex int,
	) (*domain.Review, bool, error)

	// GetNextItem retrieves the user's most overdue item.
	// Returns ErrNoItemsDue when nothing is due.
	GetNextItem(ctx context.Context, userID uuid.UUID) (*domain.Item, error)

	// ListDueItems retrieves the user's due items, most overdue first,
	// together with the total due count. The list is capped at the
	// configured page size; the count is not.
	ListDueItems(ctx context.Context, userID uuid.UUID) ([]*domain.Item, int, error)
}
