package domain_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/prepdeck/prepdeck-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProfile(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	profile, err := domain.NewProfile(userID)
	require.NoError(t, err)

	assert.Equal(t, userID, profile.UserID)
	assert.Equal(t, 0, profile.XP)
	assert.Equal(t, 0, profile.StreakCount)
	assert.Nil(t, profile.LastStreakDate)
	assert.Equal(t, 5, profile.DailyGoal)
}

func TestNewProfile_RequiresUserID(t *testing.T) {
	t.Parallel()

	_, err := domain.NewProfile(uuid.Nil)
	assert.ErrorIs(t, err, domain.ErrEmptyProfileUserID)
}

func TestProfileValidate(t *testing.T) {
	t.Parallel()

	base, err := domain.NewProfile(uuid.New())
	require.NoError(t, err)

	tests := []struct {
		name    string
		mutate  func(*domain.Profile)
		wantErr error
	}{
		{"negative xp", func(p *domain.Profile) { p.XP = -1 }, domain.ErrNegativeXP},
		{"negative streak", func(p *domain.Profile) { p.StreakCount = -1 }, domain.ErrNegativeStreak},
		{"negative completed", func(p *domain.Profile) { p.QuestionsCompletedToday = -1 }, domain.ErrNegativeCompleted},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			profile := *base
			tc.mutate(&profile)
			assert.ErrorIs(t, profile.Validate(), tc.wantErr)
		})
	}
}
