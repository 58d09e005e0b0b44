package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/prepdeck/prepdeck-api/internal/domain"
	"github.com/prepdeck/prepdeck-api/internal/platform/logger"
	"github.com/prepdeck/prepdeck-api/internal/store"
)

// PostgresProfileStore implements the store.ProfileStore interface
// using a PostgreSQL database as the storage backend.
type PostgresProfileStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresProfileStore creates a new PostgreSQL implementation of
// the ProfileStore interface. It accepts a database connection or
// transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresProfileStore(db store.DBTX, logger *slog.Logger) *PostgresProfileStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresProfileStore{
		db:     db,
		logger: logger.With(slog.String("component", "profile_store")),
	}
}

// Ensure PostgresProfileStore implements store.ProfileStore interface
var _ store.ProfileStore = (*PostgresProfileStore)(nil)

const profileColumns = `user_id, xp, streak_count, last_streak_date,
		questions_completed_today, daily_goal, created_at, updated_at`

func scanProfile(row *sql.Row) (*domain.Profile, error) {
	var profile domain.Profile
	var lastStreakDate sql.NullTime

	err := row.Scan(
		&profile.UserID,
		&profile.XP,
		&profile.StreakCount,
		&lastStreakDate,
		&profile.QuestionsCompletedToday,
		&profile.DailyGoal,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if lastStreakDate.Valid {
		t := lastStreakDate.Time.UTC()
		profile.LastStreakDate = &t
	}

	return &profile, nil
}

// Create implements store.ProfileStore.Create
func (s *PostgresProfileStore) Create(ctx context.Context, profile *domain.Profile) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := profile.Validate(); err != nil {
		log.Warn("profile validation failed during create",
			slog.String("error", err.Error()),
			slog.String("user_id", profile.UserID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO profiles (` + profileColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := s.db.ExecContext(
		ctx,
		query,
		profile.UserID,
		profile.XP,
		profile.StreakCount,
		nullTime(profile.LastStreakDate),
		profile.QuestionsCompletedToday,
		profile.DailyGoal,
		profile.CreatedAt,
		profile.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			log.Warn("profile already exists",
				slog.String("user_id", profile.UserID.String()))
			return store.ErrDuplicate
		}

		log.Error("failed to create profile",
			slog.String("error", err.Error()),
			slog.String("user_id", profile.UserID.String()))
		return err
	}

	log.Info("profile created",
		slog.String("user_id", profile.UserID.String()))
	return nil
}

// Get implements store.ProfileStore.Get
func (s *PostgresProfileStore) Get(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + profileColumns + `
		FROM profiles
		WHERE user_id = $1
	`

	profile, err := scanProfile(s.db.QueryRowContext(ctx, query, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("profile not found", slog.String("user_id", userID.String()))
			return nil, store.ErrProfileNotFound
		}
		log.Error("failed to get profile",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}

	return profile, nil
}

// GetForUpdate implements store.ProfileStore.GetForUpdate
// It locks the profile row for the duration of the enclosing
// transaction so concurrent streak updates for the same user serialize.
func (s *PostgresProfileStore) GetForUpdate(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + profileColumns + `
		FROM profiles
		WHERE user_id = $1
		FOR UPDATE
	`

	profile, err := scanProfile(s.db.QueryRowContext(ctx, query, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrProfileNotFound
		}
		log.Error("failed to get profile for update",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}

	return profile, nil
}

// Update implements store.ProfileStore.Update
func (s *PostgresProfileStore) Update(ctx context.Context, profile *domain.Profile) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := profile.Validate(); err != nil {
		log.Warn("profile validation failed during update",
			slog.String("error", err.Error()),
			slog.String("user_id", profile.UserID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE profiles
		SET xp = $2,
			streak_count = $3,
			last_streak_date = $4,
			questions_completed_today = $5,
			daily_goal = $6,
			updated_at = $7
		WHERE user_id = $1
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		profile.UserID,
		profile.XP,
		profile.StreakCount,
		nullTime(profile.LastStreakDate),
		profile.QuestionsCompletedToday,
		profile.DailyGoal,
		profile.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to update profile",
			slog.String("error", err.Error()),
			slog.String("user_id", profile.UserID.String()))
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return store.ErrProfileNotFound
	}

	log.Debug("profile updated",
		slog.String("user_id", profile.UserID.String()),
		slog.Int("streak_count", profile.StreakCount))
	return nil
}

// AddXP implements store.ProfileStore.AddXP
// The increment happens in the database, not in Go, so concurrent
// awards cannot lose each other.
func (s *PostgresProfileStore) AddXP(ctx context.Context, userID uuid.UUID, amount int) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE profiles
		SET xp = xp + $2, updated_at = NOW()
		WHERE user_id = $1
	`

	result, err := s.db.ExecContext(ctx, query, userID, amount)
	if err != nil {
		log.Error("failed to add xp",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.Int("amount", amount))
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return store.ErrProfileNotFound
	}

	return nil
}

// WithTx implements store.ProfileStore.WithTx
func (s *PostgresProfileStore) WithTx(tx *sql.Tx) store.ProfileStore {
	return &PostgresProfileStore{
		db:     tx,
		logger: s.logger,
	}
}

// nullTime converts an optional time into its SQL representation.
func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
