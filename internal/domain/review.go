package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// MasteryThreshold is the number of consecutive correct answers after
// which an item counts as mastered for progress reporting. The original
// system used both 3 and 5 at different call sites; 3 is the value the
// study screens used, so it is the one kept here.
const MasteryThreshold = 3

// Common validation errors for Review
var (
	ErrEmptyReviewUserID = errors.New("review user ID cannot be empty")
	ErrEmptyReviewItemID = errors.New("review item ID cannot be empty")
	ErrInvalidInterval   = errors.New("interval must be greater than or equal to 0")
	ErrInvalidEaseFactor = errors.New("ease factor must be at least 1.3")
	ErrInvalidReps       = errors.New("repetitions must be greater than or equal to 0")
)

// Review tracks a user's spaced repetition schedule for a single item.
// Interval, Repetitions and EaseFactor follow the SM-2 recurrence;
// ConsecutiveCorrect is maintained by the review service independently
// of the scheduling algorithm and only gates the mastered status.
type Review struct {
	UserID             uuid.UUID `json:"user_id"`
	ItemID             uuid.UUID `json:"item_id"`
	IntervalDays       int       `json:"interval_days"`        // Days until the next review
	Repetitions        int       `json:"repetitions"`          // Consecutive successful reviews since last failure
	EaseFactor         float64   `json:"ease_factor"`          // Multiplicative interval growth factor, floor 1.3
	ConsecutiveCorrect int       `json:"consecutive_correct"`  // Consecutive correct answers, drives mastery
	LastReviewedAt     time.Time `json:"last_reviewed_at"`     // Zero until the first review
	NextReviewAt       time.Time `json:"next_review_at"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// NewReview creates a fresh schedule for a user and item with SM-2
// defaults. The item is due immediately.
func NewReview(userID, itemID uuid.UUID) (*Review, error) {
	now := time.Now().UTC()
	review := &Review{
		UserID:             userID,
		ItemID:             itemID,
		IntervalDays:       0,
		Repetitions:        0,
		EaseFactor:         2.5,
		ConsecutiveCorrect: 0,
		LastReviewedAt:     time.Time{},
		NextReviewAt:       now,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := review.Validate(); err != nil {
		return nil, err
	}

	return review, nil
}

// Validate checks if the Review has valid data.
// Returns an error if any field fails validation.
func (r *Review) Validate() error {
	if r.UserID == uuid.Nil {
		return ErrEmptyReviewUserID
	}

	if r.ItemID == uuid.Nil {
		return ErrEmptyReviewItemID
	}

	if r.IntervalDays < 0 {
		return ErrInvalidInterval
	}

	if r.Repetitions < 0 {
		return ErrInvalidReps
	}

	if r.EaseFactor < 1.3 {
		return ErrInvalidEaseFactor
	}

	return nil
}

// Mastered reports whether the item has been answered correctly often
// enough in a row to count as mastered.
func (r *Review) Mastered() bool {
	return r.ConsecutiveCorrect >= MasteryThreshold
}
