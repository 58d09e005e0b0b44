package review

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/prepdeck/prepdeck-api/internal/domain"
	"github.com/prepdeck/prepdeck-api/internal/domain/srs"
	"github.com/prepdeck/prepdeck-api/internal/platform/logger"
	"github.com/prepdeck/prepdeck-api/internal/store"
)

// Verify interface compliance at compile time
var _ Service = (*serviceImpl)(nil)

// serviceImpl implements the Service interface.
type serviceImpl struct {
	db            *sql.DB
	itemStore     store.ItemStore
	reviewStore   store.ReviewStore
	profileStore  store.ProfileStore
	srsService    srs.Service
	dueListLimit  int
	nowFunc       func() time.Time // Injectable for testing
	logger        *slog.Logger
}

// NewService creates a new review Service implementation.
func NewService(
	db *sql.DB,
	itemStore store.ItemStore,
	reviewStore store.ReviewStore,
	profileStore store.ProfileStore,
	srsService srs.Service,
	dueListLimit int,
	logger *slog.Logger,
) Service {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if itemStore == nil {
		panic("itemStore cannot be nil")
	}
	if reviewStore == nil {
		panic("reviewStore cannot be nil")
	}
	if profileStore == nil {
		panic("profileStore cannot be nil")
	}
	if srsService == nil {
		panic("srsService cannot be nil")
	}

	if dueListLimit <= 0 {
		dueListLimit = 20
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &serviceImpl{
		db:           db,
		itemStore:    itemStore,
		reviewStore:  reviewStore,
		profileStore: profileStore,
		srsService:   srsService,
		dueListLimit: dueListLimit,
		nowFunc:      func() time.Time { return time.Now().UTC() },
		logger:       logger.With(slog.String("component", "review_service")),
	}
}

// SubmitReview implements Service.SubmitReview.
//
// The whole read-compute-write cycle runs in one transaction with the
// schedule row locked (SELECT FOR UPDATE) and written back via an
// atomic upsert, so concurrent submissions for the same (user, item)
// pair serialize instead of losing updates.
func (s *serviceImpl) SubmitReview(
	ctx context.Context,
	userID, itemID uuid.UUID,
	quality int,
) (*domain.Review, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	now := s.nowFunc()

	log.Debug("processing review",
		slog.String("user_id", userID.String()),
		slog.String("item_id", itemID.String()),
		slog.Int("quality", quality))

	var updated *domain.Review
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		itemStore := s.itemStore.WithTx(tx)
		reviewStore := s.reviewStore.WithTx(tx)
		profileStore := s.profileStore.WithTx(tx)

		if _, err := itemStore.GetByID(ctx, itemID); err != nil {
			if errors.Is(err, store.ErrItemNotFound) {
				return ErrItemNotFound
			}
			return fmt.Errorf("failed to get item: %w", err)
		}

		prior, err := reviewStore.GetForUpdate(ctx, userID, itemID)
		if err != nil {
			if !errors.Is(err, store.ErrReviewNotFound) {
				return fmt.Errorf("failed to get review: %w", err)
			}
			// First review of this item: start from the SM-2 defaults.
			prior, err = domain.NewReview(userID, itemID)
			if err != nil {
				return fmt.Errorf("failed to create review: %w", err)
			}
		}

		next, err := s.srsService.CalculateNextReview(prior, quality, now)
		if err != nil {
			return fmt.Errorf("failed to calculate next review: %w", err)
		}

		// Consecutive-correct bookkeeping lives here, not in the
		// scheduling algorithm: it gates mastery, not intervals.
		if quality >= srs.FailureQuality {
			next.ConsecutiveCorrect = prior.ConsecutiveCorrect + 1
		} else {
			next.ConsecutiveCorrect = 0
		}

		if err := reviewStore.Upsert(ctx, next); err != nil {
			return fmt.Errorf("failed to save review: %w", err)
		}

		if err := s.awardXP(ctx, profileStore, userID, s.srsService.XPForReview(quality), now); err != nil {
			return fmt.Errorf("failed to award xp: %w", err)
		}

		updated = next
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return nil, err
		}
		log.Error("failed to submit review",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("item_id", itemID.String()))
		return nil, err
	}

	log.Info("review processed",
		slog.String("user_id", userID.String()),
		slog.String("item_id", itemID.String()),
		slog.Int("quality", quality),
		slog.Int("interval_days", updated.IntervalDays),
		slog.Int("repetitions", updated.Repetitions),
		slog.Bool("mastered", updated.Mastered()))
	return updated, nil
}

// SubmitQuizAnswer implements Service.SubmitQuizAnswer.
func (s *serviceImpl) SubmitQuizAnswer(
	ctx context.Context,
	userID, itemID uuid.UUID,
	answerIndex int,
) (*domain.Review, bool, error) {
	item, err := s.itemStore.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, store.ErrItemNotFound) {
			return nil, false, ErrItemNotFound
		}
		return nil, false, fmt.Errorf("failed to get item: %w", err)
	}

	if item.Kind != domain.ItemKindQuiz {
		return nil, false, ErrNotQuizItem
	}

	correct := answerIndex == item.CorrectIndex
	quality := s.srsService.QualityFromQuizResult(correct)

	updated, err := s.SubmitReview(ctx, userID, itemID, quality)
	if err != nil {
		return nil, false, err
	}

	return updated, correct, nil
}

// GetNextItem implements Service.GetNextItem.
func (s *serviceImpl) GetNextItem(ctx context.Context, userID uuid.UUID) (*domain.Item, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	item, err := s.itemStore.GetNextDue(ctx, userID, s.nowFunc())
	if err != nil {
		if errors.Is(err, store.ErrItemNotFound) {
			log.Debug("no items due", slog.String("user_id", userID.String()))
			return nil, ErrNoItemsDue
		}
		log.Error("failed to get next due item",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to get next due item: %w", err)
	}

	return item, nil
}

// ListDueItems implements Service.ListDueItems.
func (s *serviceImpl) ListDueItems(ctx context.Context, userID uuid.UUID) ([]*domain.Item, int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	now := s.nowFunc()

	items, err := s.itemStore.ListDue(ctx, userID, now, s.dueListLimit)
	if err != nil {
		log.Error("failed to list due items",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, 0, fmt.Errorf("failed to list due items: %w", err)
	}

	total, err := s.itemStore.CountDue(ctx, userID, now)
	if err != nil {
		log.Error("failed to count due items",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, 0, fmt.Errorf("failed to count due items: %w", err)
	}

	return items, total, nil
}

// awardXP credits the flat per-review XP, provisioning the profile row
// on the user's first ever review.
func (s *serviceImpl) awardXP(
	ctx context.Context,
	profileStore store.ProfileStore,
	userID uuid.UUID,
	amount int,
	now time.Time,
) error {
	err := profileStore.AddXP(ctx, userID, amount)
	if err == nil || !errors.Is(err, store.ErrProfileNotFound) {
		return err
	}

	profile, err := domain.NewProfile(userID)
	if err != nil {
		return err
	}
	profile.XP = amount
	profile.CreatedAt = now
	profile.UpdatedAt = now

	return profileStore.Create(ctx, profile)
}
