package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/prepdeck/prepdeck-api/internal/domain"
	"github.com/prepdeck/prepdeck-api/internal/platform/logger"
	"github.com/prepdeck/prepdeck-api/internal/store"
)

// PostgresReviewStore implements the store.ReviewStore interface
// using a PostgreSQL database as the storage backend.
type PostgresReviewStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresReviewStore creates a new PostgreSQL implementation of the
// ReviewStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresReviewStore(db store.DBTX, logger *slog.Logger) *PostgresReviewStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresReviewStore{
		db:     db,
		logger: logger.With(slog.String("component", "review_store")),
	}
}

// Ensure PostgresReviewStore implements store.ReviewStore interface
var _ store.ReviewStore = (*PostgresReviewStore)(nil)

const reviewColumns = `user_id, item_id, interval_days, repetitions, ease_factor,
		consecutive_correct, last_reviewed_at, next_review_at, created_at, updated_at`

// scanReview reads one review row. lastReviewedAt is nullable in the
// schema; a NULL maps to the zero time.
func scanReview(row *sql.Row) (*domain.Review, error) {
	var review domain.Review
	var lastReviewedAt sql.NullTime

	err := row.Scan(
		&review.UserID,
		&review.ItemID,
		&review.IntervalDays,
		&review.Repetitions,
		&review.EaseFactor,
		&review.ConsecutiveCorrect,
		&lastReviewedAt,
		&review.NextReviewAt,
		&review.CreatedAt,
		&review.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if lastReviewedAt.Valid {
		review.LastReviewedAt = lastReviewedAt.Time
	}

	return &review, nil
}

// Get implements store.ReviewStore.Get
func (s *PostgresReviewStore) Get(ctx context.Context, userID, itemID uuid.UUID) (*domain.Review, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + reviewColumns + `
		FROM reviews
		WHERE user_id = $1 AND item_id = $2
	`

	review, err := scanReview(s.db.QueryRowContext(ctx, query, userID, itemID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("review not found",
				slog.String("user_id", userID.String()),
				slog.String("item_id", itemID.String()))
			return nil, store.ErrReviewNotFound
		}
		log.Error("failed to get review",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("item_id", itemID.String()))
		return nil, err
	}

	return review, nil
}

// GetForUpdate implements store.ReviewStore.GetForUpdate
// It locks the row for the duration of the enclosing transaction so
// concurrent submissions for the same (user, item) pair serialize.
func (s *PostgresReviewStore) GetForUpdate(ctx context.Context, userID, itemID uuid.UUID) (*domain.Review, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + reviewColumns + `
		FROM reviews
		WHERE user_id = $1 AND item_id = $2
		FOR UPDATE
	`

	review, err := scanReview(s.db.QueryRowContext(ctx, query, userID, itemID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrReviewNotFound
		}
		log.Error("failed to get review for update",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("item_id", itemID.String()))
		return nil, err
	}

	return review, nil
}

// Upsert implements store.ReviewStore.Upsert
// The write is a single INSERT ... ON CONFLICT DO UPDATE keyed on
// (user_id, item_id), so first and repeat reviews take the same code
// path and the statement is atomic either way.
func (s *PostgresReviewStore) Upsert(ctx context.Context, review *domain.Review) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := review.Validate(); err != nil {
		log.Warn("review validation failed during upsert",
			slog.String("error", err.Error()),
			slog.String("user_id", review.UserID.String()),
			slog.String("item_id", review.ItemID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO reviews (` + reviewColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (user_id, item_id) DO UPDATE SET
			interval_days       = EXCLUDED.interval_days,
			repetitions         = EXCLUDED.repetitions,
			ease_factor         = EXCLUDED.ease_factor,
			consecutive_correct = EXCLUDED.consecutive_correct,
			last_reviewed_at    = EXCLUDED.last_reviewed_at,
			next_review_at      = EXCLUDED.next_review_at,
			updated_at          = EXCLUDED.updated_at
	`

	var lastReviewedAt sql.NullTime
	if !review.LastReviewedAt.IsZero() {
		lastReviewedAt = sql.NullTime{Time: review.LastReviewedAt, Valid: true}
	}

	_, err := s.db.ExecContext(
		ctx,
		query,
		review.UserID,
		review.ItemID,
		review.IntervalDays,
		review.Repetitions,
		review.EaseFactor,
		review.ConsecutiveCorrect,
		lastReviewedAt,
		review.NextReviewAt,
		review.CreatedAt,
		review.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			log.Warn("foreign key violation during review upsert",
				slog.String("error", err.Error()),
				slog.String("user_id", review.UserID.String()),
				slog.String("item_id", review.ItemID.String()))
			return fmt.Errorf("%w: item %s not found",
				store.ErrInvalidEntity, review.ItemID)
		}

		log.Error("failed to upsert review",
			slog.String("error", err.Error()),
			slog.String("user_id", review.UserID.String()),
			slog.String("item_id", review.ItemID.String()))
		return err
	}

	log.Debug("review upserted",
		slog.String("user_id", review.UserID.String()),
		slog.String("item_id", review.ItemID.String()),
		slog.Int("interval_days", review.IntervalDays))
	return nil
}

// WithTx implements store.ReviewStore.WithTx
func (s *PostgresReviewStore) WithTx(tx *sql.Tx) store.ReviewStore {
	return &PostgresReviewStore{
		db:     tx,
		logger: s.logger,
	}
}
