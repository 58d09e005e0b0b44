package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ActivityType identifies what kind of event an activity record logs.
type ActivityType string

// Possible activity types.
const (
	ActivityStudySession          ActivityType = "study_session"
	ActivityStudySessionCompleted ActivityType = "study_session_completed"
)

// StudyMode identifies which study surface produced a session.
type StudyMode string

// Possible study modes. Only quiz sessions produce qualifying
// completions for the daily streak.
const (
	StudyModeLearn   StudyMode = "learn"
	StudyModeLessons StudyMode = "lessons"
	StudyModeQuiz    StudyMode = "quiz"
)

// Common validation errors for Activity
var (
	ErrEmptyActivityUserID  = errors.New("activity user ID cannot be empty")
	ErrInvalidActivityType  = errors.New("invalid activity type")
	ErrInvalidStudyMode     = errors.New("invalid study mode")
	ErrNegativeCardsCount   = errors.New("cards completed cannot be negative")
	ErrNegativeXPEarned     = errors.New("xp earned cannot be negative")
)

// Activity is one immutable history record, appended alongside every
// streak update so the session log survives later profile mutations.
type Activity struct {
	ID             uuid.UUID    `json:"id"`
	UserID         uuid.UUID    `json:"user_id"`
	Type           ActivityType `json:"type"`
	Mode           StudyMode    `json:"mode"`
	CardsCompleted int          `json:"cards_completed"`
	XPEarned       int          `json:"xp_earned"`
	OccurredAt     time.Time    `json:"occurred_at"`
}

// NewActivity creates an activity record stamped with the given time.
func NewActivity(
	userID uuid.UUID,
	activityType ActivityType,
	mode StudyMode,
	cardsCompleted, xpEarned int,
	occurredAt time.Time,
) (*Activity, error) {
	activity := &Activity{
		ID:             uuid.New(),
		UserID:         userID,
		Type:           activityType,
		Mode:           mode,
		CardsCompleted: cardsCompleted,
		XPEarned:       xpEarned,
		OccurredAt:     occurredAt,
	}

	if err := activity.Validate(); err != nil {
		return nil, err
	}

	return activity, nil
}

// Validate checks if the Activity has valid data.
func (a *Activity) Validate() error {
	if a.UserID == uuid.Nil {
		return ErrEmptyActivityUserID
	}

	switch a.Type {
	case ActivityStudySession, ActivityStudySessionCompleted:
	default:
		return ErrInvalidActivityType
	}

	switch a.Mode {
	case StudyModeLearn, StudyModeLessons, StudyModeQuiz:
	default:
		return ErrInvalidStudyMode
	}

	if a.CardsCompleted < 0 {
		return ErrNegativeCardsCount
	}

	if a.XPEarned < 0 {
		return ErrNegativeXPEarned
	}

	return nil
}
