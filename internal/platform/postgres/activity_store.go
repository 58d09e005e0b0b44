package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/prepdeck/prepdeck-api/internal/domain"
	"github.com/prepdeck/prepdeck-api/internal/platform/logger"
	"github.com/prepdeck/prepdeck-api/internal/store"
)

// PostgresActivityStore implements the store.ActivityStore interface
// using a PostgreSQL database as the storage backend.
type PostgresActivityStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresActivityStore creates a new PostgreSQL implementation of
// the ActivityStore interface. It accepts a database connection or
// transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresActivityStore(db store.DBTX, logger *slog.Logger) *PostgresActivityStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresActivityStore{
		db:     db,
		logger: logger.With(slog.String("component", "activity_store")),
	}
}

// Ensure PostgresActivityStore implements store.ActivityStore interface
var _ store.ActivityStore = (*PostgresActivityStore)(nil)

// Append implements store.ActivityStore.Append
func (s *PostgresActivityStore) Append(ctx context.Context, activity *domain.Activity) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := activity.Validate(); err != nil {
		log.Warn("activity validation failed during append",
			slog.String("error", err.Error()),
			slog.String("user_id", activity.UserID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO activity_log (id, user_id, activity_type, mode, cards_completed, xp_earned, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := s.db.ExecContext(
		ctx,
		query,
		activity.ID,
		activity.UserID,
		string(activity.Type),
		string(activity.Mode),
		activity.CardsCompleted,
		activity.XPEarned,
		activity.OccurredAt,
	)
	if err != nil {
		log.Error("failed to append activity",
			slog.String("error", err.Error()),
			slog.String("user_id", activity.UserID.String()),
			slog.String("activity_type", string(activity.Type)))
		return err
	}

	log.Debug("activity appended",
		slog.String("user_id", activity.UserID.String()),
		slog.String("activity_type", string(activity.Type)),
		slog.String("mode", string(activity.Mode)))
	return nil
}

// ListRecent implements store.ActivityStore.ListRecent
func (s *PostgresActivityStore) ListRecent(
	ctx context.Context,
	userID uuid.UUID,
	limit int,
) ([]*domain.Activity, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, activity_type, mode, cards_completed, xp_earned, occurred_at
		FROM activity_log
		WHERE user_id = $1
		ORDER BY occurred_at DESC
		LIMIT $2
	`

	rows, err := s.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		log.Error("failed to list recent activity",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Error("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	var activities []*domain.Activity
	for rows.Next() {
		var activity domain.Activity
		var activityType, mode string

		err := rows.Scan(
			&activity.ID,
			&activity.UserID,
			&activityType,
			&mode,
			&activity.CardsCompleted,
			&activity.XPEarned,
			&activity.OccurredAt,
		)
		if err != nil {
			return nil, err
		}

		activity.Type = domain.ActivityType(activityType)
		activity.Mode = domain.StudyMode(mode)
		activities = append(activities, &activity)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return activities, nil
}

// WithTx implements store.ActivityStore.WithTx
func (s *PostgresActivityStore) WithTx(tx *sql.Tx) store.ActivityStore {
	return &PostgresActivityStore{
		db:     tx,
		logger: s.logger,
	}
}
