package progress

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/prepdeck/prepdeck-api/internal/domain"
	"github.com/prepdeck/prepdeck-api/internal/domain/streak"
	"github.com/prepdeck/prepdeck-api/internal/platform/logger"
	"github.com/prepdeck/prepdeck-api/internal/store"
)

// Verify interface compliance at compile time
var _ Service = (*serviceImpl)(nil)

// serviceImpl implements the Service interface.
type serviceImpl struct {
	db            *sql.DB
	profileStore  store.ProfileStore
	activityStore store.ActivityStore
	activityCap   int
	nowFunc       func() time.Time // Injectable for testing
	logger        *slog.Logger
}

// NewService creates a new progress Service implementation.
func NewService(
	db *sql.DB,
	profileStore store.ProfileStore,
	activityStore store.ActivityStore,
	activityCap int,
	logger *slog.Logger,
) Service {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if profileStore == nil {
		panic("profileStore cannot be nil")
	}
	if activityStore == nil {
		panic("activityStore cannot be nil")
	}

	if activityCap <= 0 {
		activityCap = 50
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &serviceImpl{
		db:            db,
		profileStore:  profileStore,
		activityStore: activityStore,
		activityCap:   activityCap,
		nowFunc:       func() time.Time { return time.Now().UTC() },
		logger:        logger.With(slog.String("component", "progress_service")),
	}
}

// CompleteSession implements Service.CompleteSession.
//
// The profile row is locked for the duration of the transaction, so
// concurrent session completions for the same user serialize and the
// daily completion count never loses an update.
func (s *serviceImpl) CompleteSession(
	ctx context.Context,
	userID uuid.UUID,
	mode domain.StudyMode,
	completedCount, xpEarned int,
) (*domain.Profile, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	now := s.nowFunc()

	switch mode {
	case domain.StudyModeLearn, domain.StudyModeLessons, domain.StudyModeQuiz:
	default:
		return nil, ErrInvalidMode
	}

	if completedCount < 0 {
		completedCount = 0
	}
	if xpEarned < 0 {
		xpEarned = 0
	}

	// Only quiz completions qualify for the daily streak threshold.
	qualifying := 0
	if mode == domain.StudyModeQuiz {
		qualifying = completedCount
	}

	log.Debug("completing study session",
		slog.String("user_id", userID.String()),
		slog.String("mode", string(mode)),
		slog.Int("completed_count", completedCount),
		slog.Int("qualifying", qualifying))

	var updated *domain.Profile
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		profileStore := s.profileStore.WithTx(tx)
		activityStore := s.activityStore.WithTx(tx)

		profile, err := s.lockOrCreateProfile(ctx, profileStore, userID, now)
		if err != nil {
			return err
		}

		next := streak.Update(streak.State{
			Count:          profile.StreakCount,
			LastStreakDate: profile.LastStreakDate,
			CompletedToday: profile.QuestionsCompletedToday,
		}, qualifying, now)

		profile.StreakCount = next.Count
		profile.LastStreakDate = next.LastStreakDate
		profile.QuestionsCompletedToday = next.CompletedToday
		profile.XP += xpEarned
		profile.UpdatedAt = now

		if err := profileStore.Update(ctx, profile); err != nil {
			return fmt.Errorf("failed to update profile: %w", err)
		}

		activity, err := domain.NewActivity(
			userID,
			domain.ActivityStudySessionCompleted,
			mode,
			completedCount,
			xpEarned,
			now,
		)
		if err != nil {
			return fmt.Errorf("failed to create activity record: %w", err)
		}

		if err := activityStore.Append(ctx, activity); err != nil {
			return fmt.Errorf("failed to append activity: %w", err)
		}

		updated = profile
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInvalidMode) {
			return nil, err
		}
		log.Error("failed to complete session",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}

	log.Info("study session completed",
		slog.String("user_id", userID.String()),
		slog.String("mode", string(mode)),
		slog.Int("streak_count", updated.StreakCount),
		slog.Int("questions_completed_today", updated.QuestionsCompletedToday))
	return updated, nil
}

// GetProfile implements Service.GetProfile.
func (s *serviceImpl) GetProfile(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	profile, err := s.profileStore.Get(ctx, userID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, store.ErrProfileNotFound) {
		log.Error("failed to get profile",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	// First access: provision an empty profile.
	profile, err = domain.NewProfile(userID)
	if err != nil {
		return nil, err
	}
	if err := s.profileStore.Create(ctx, profile); err != nil && !errors.Is(err, store.ErrDuplicate) {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	return profile, nil
}

// RecentActivity implements Service.RecentActivity.
func (s *serviceImpl) RecentActivity(ctx context.Context, userID uuid.UUID) ([]*domain.Activity, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	activities, err := s.activityStore.ListRecent(ctx, userID, s.activityCap)
	if err != nil {
		log.Error("failed to list recent activity",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to list recent activity: %w", err)
	}

	return activities, nil
}

// lockOrCreateProfile fetches the profile with a row lock, creating it
// first if this is the user's first study activity.
func (s *serviceImpl) lockOrCreateProfile(
	ctx context.Context,
	profileStore store.ProfileStore,
	userID uuid.UUID,
	now time.Time,
) (*domain.Profile, error) {
	profile, err := profileStore.GetForUpdate(ctx, userID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, store.ErrProfileNotFound) {
		return nil, fmt.Errorf("failed to lock profile: %w", err)
	}

	profile, err = domain.NewProfile(userID)
	if err != nil {
		return nil, err
	}
	profile.CreatedAt = now
	profile.UpdatedAt = now

	if err := profileStore.Create(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	// Re-read under lock so a concurrent creator cannot race us.
	profile, err = profileStore.GetForUpdate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock profile after create: %w", err)
	}

	return profile, nil
}
