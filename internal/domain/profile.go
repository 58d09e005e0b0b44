package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for Profile
var (
	ErrEmptyProfileUserID = errors.New("profile user ID cannot be empty")
	ErrNegativeXP         = errors.New("xp cannot be negative")
	ErrNegativeStreak     = errors.New("streak cannot be negative")
	ErrNegativeCompleted  = errors.New("questions completed today cannot be negative")
)

// Profile is the per-user engagement record: accumulated XP, the
// current daily streak, and the running count of qualifying
// completions on the streak's last evaluated day.
//
// LastStreakDate is nil until the user's first study activity and is
// always midnight-normalized (UTC) afterwards.
type Profile struct {
	UserID                  uuid.UUID  `json:"user_id"`
	XP                      int        `json:"xp"`
	StreakCount             int        `json:"streak_count"`
	LastStreakDate          *time.Time `json:"last_streak_date,omitempty"`
	QuestionsCompletedToday int        `json:"questions_completed_today"`
	DailyGoal               int        `json:"daily_goal"`
	CreatedAt               time.Time  `json:"created_at"`
	UpdatedAt               time.Time  `json:"updated_at"`
}

// NewProfile creates an empty engagement record for a user.
func NewProfile(userID uuid.UUID) (*Profile, error) {
	now := time.Now().UTC()
	profile := &Profile{
		UserID:    userID,
		XP:        0,
		DailyGoal: 5,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := profile.Validate(); err != nil {
		return nil, err
	}

	return profile, nil
}

// Validate checks if the Profile has valid data.
// Returns an error if any field fails validation.
func (p *Profile) Validate() error {
	if p.UserID == uuid.Nil {
		return ErrEmptyProfileUserID
	}

	if p.XP < 0 {
		return ErrNegativeXP
	}

	if p.StreakCount < 0 {
		return ErrNegativeStreak
	}

	if p.QuestionsCompletedToday < 0 {
		return ErrNegativeCompleted
	}

	return nil
}
