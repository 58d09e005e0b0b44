package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/prepdeck/prepdeck-api/internal/domain"
	"github.com/prepdeck/prepdeck-api/internal/platform/logger"
	"github.com/prepdeck/prepdeck-api/internal/store"
)

// PostgresItemStore implements the store.ItemStore interface
// using a PostgreSQL database as the storage backend.
type PostgresItemStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresItemStore creates a new PostgreSQL implementation of the
// ItemStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresItemStore(db store.DBTX, logger *slog.Logger) *PostgresItemStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresItemStore{
		db:     db,
		logger: logger.With(slog.String("component", "item_store")),
	}
}

// Ensure PostgresItemStore implements store.ItemStore interface
var _ store.ItemStore = (*PostgresItemStore)(nil)

const itemColumns = `id, kind, title, content, choices, correct_index, explanation,
		created_at, updated_at`

// scanItem reads one item row from either a *sql.Row or *sql.Rows.
func scanItem(scan func(dest ...any) error) (*domain.Item, error) {
	var item domain.Item
	var kind string
	var choices []byte

	err := scan(
		&item.ID,
		&kind,
		&item.Title,
		&item.Content,
		&choices,
		&item.CorrectIndex,
		&item.Explanation,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	item.Kind = domain.ItemKind(kind)
	if len(choices) > 0 {
		if err := json.Unmarshal(choices, &item.Choices); err != nil {
			return nil, fmt.Errorf("failed to decode item choices: %w", err)
		}
	}

	return &item, nil
}

// Create implements store.ItemStore.Create
func (s *PostgresItemStore) Create(ctx context.Context, item *domain.Item) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := item.Validate(); err != nil {
		log.Warn("item validation failed during create",
			slog.String("error", err.Error()),
			slog.String("item_id", item.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	var choices []byte
	if item.Choices != nil {
		encoded, err := json.Marshal(item.Choices)
		if err != nil {
			return fmt.Errorf("failed to encode item choices: %w", err)
		}
		choices = encoded
	}

	query := `
		INSERT INTO items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := s.db.ExecContext(
		ctx,
		query,
		item.ID,
		string(item.Kind),
		item.Title,
		item.Content,
		choices,
		item.CorrectIndex,
		item.Explanation,
		item.CreatedAt,
		item.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create item",
			slog.String("error", err.Error()),
			slog.String("item_id", item.ID.String()))
		return err
	}

	log.Info("item created",
		slog.String("item_id", item.ID.String()),
		slog.String("kind", string(item.Kind)))
	return nil
}

// GetByID implements store.ItemStore.GetByID
func (s *PostgresItemStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + itemColumns + `
		FROM items
		WHERE id = $1
	`

	item, err := scanItem(s.db.QueryRowContext(ctx, query, id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("item not found", slog.String("item_id", id.String()))
			return nil, store.ErrItemNotFound
		}
		log.Error("failed to get item",
			slog.String("error", err.Error()),
			slog.String("item_id", id.String()))
		return nil, err
	}

	return item, nil
}

// dueItemsQuery selects items due for a user at a point in time.
// Items with no review row yet have never been studied and are due
// immediately; reviewed items are due once next_review_at has passed.
// Most overdue first, never-reviewed items ahead of everything.
const dueItemsQuery = `
		SELECT i.id, i.kind, i.title, i.content, i.choices, i.correct_index,
			i.explanation, i.created_at, i.updated_at
		FROM items i
		LEFT JOIN reviews r ON r.item_id = i.id AND r.user_id = $1
		WHERE r.user_id IS NULL OR r.next_review_at <= $2
		ORDER BY r.next_review_at ASC NULLS FIRST, i.created_at ASC
`

// GetNextDue implements store.ItemStore.GetNextDue
func (s *PostgresItemStore) GetNextDue(ctx context.Context, userID uuid.UUID, now time.Time) (*domain.Item, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	item, err := scanItem(s.db.QueryRowContext(ctx, dueItemsQuery+` LIMIT 1`, userID, now).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("no items due", slog.String("user_id", userID.String()))
			return nil, store.ErrItemNotFound
		}
		log.Error("failed to get next due item",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}

	return item, nil
}

// ListDue implements store.ItemStore.ListDue
func (s *PostgresItemStore) ListDue(
	ctx context.Context,
	userID uuid.UUID,
	now time.Time,
	limit int,
) ([]*domain.Item, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, dueItemsQuery+` LIMIT $3`, userID, now, limit)
	if err != nil {
		log.Error("failed to list due items",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Error("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	var items []*domain.Item
	for rows.Next() {
		item, err := scanItem(rows.Scan)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

// CountDue implements store.ItemStore.CountDue
func (s *PostgresItemStore) CountDue(ctx context.Context, userID uuid.UUID, now time.Time) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT COUNT(*)
		FROM items i
		LEFT JOIN reviews r ON r.item_id = i.id AND r.user_id = $1
		WHERE r.user_id IS NULL OR r.next_review_at <= $2
	`

	var count int
	if err := s.db.QueryRowContext(ctx, query, userID, now).Scan(&count); err != nil {
		log.Error("failed to count due items",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return 0, err
	}

	return count, nil
}

// WithTx implements store.ItemStore.WithTx
func (s *PostgresItemStore) WithTx(tx *sql.Tx) store.ItemStore {
	return &PostgresItemStore{
		db:     tx,
		logger: s.logger,
	}
}
