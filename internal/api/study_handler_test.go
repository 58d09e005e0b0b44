package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prepdeck/prepdeck-api/internal/api"
	"github.com/prepdeck/prepdeck-api/internal/api/shared"
	"github.com/prepdeck/prepdeck-api/internal/domain"
	"github.com/prepdeck/prepdeck-api/internal/service/review"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubReviewService implements review.Service with function fields.
type stubReviewService struct {
	submitReview     func(ctx context.Context, userID, itemID uuid.UUID, quality int) (*domain.Review, error)
	submitQuizAnswer func(ctx context.Context, userID, itemID uuid.UUID, answerIndex int) (*domain.Review, bool, error)
	getNextItem      func(ctx context.Context, userID uuid.UUID) (*domain.Item, error)
	listDueItems     func(ctx context.Context, userID uuid.UUID) ([]*domain.Item, int, error)
}

func (s *stubReviewService) SubmitReview(ctx context.Context, userID, itemID uuid.UUID, quality int) (*domain.Review, error) {
	return s.submitReview(ctx, userID, itemID, quality)
}

func (s *stubReviewService) SubmitQuizAnswer(ctx context.Context, userID, itemID uuid.UUID, answerIndex int) (*domain.Review, bool, error) {
	return s.submitQuizAnswer(ctx, userID, itemID, answerIndex)
}

func (s *stubReviewService) GetNextItem(ctx context.Context, userID uuid.UUID) (*domain.Item, error) {
	return s.getNextItem(ctx, userID)
}

func (s *stubReviewService) ListDueItems(ctx context.Context, userID uuid.UUID) ([]*domain.Item, int, error) {
	return s.listDueItems(ctx, userID)
}

// studyRouter mounts the handler the way the server router does,
// injecting the given user ID the way the auth middleware would.
func studyRouter(svc review.Service, userID uuid.UUID) http.Handler {
	handler := api.NewStudyHandler(svc, slog.Default())

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := context.WithValue(req.Context(), shared.UserIDContextKey, userID)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	r.Get("/items/next", handler.GetNextItem)
	r.Get("/items/due", handler.ListDueItems)
	r.Post("/items/{id}/review", handler.SubmitReview)
	return r
}

func testReview(userID, itemID uuid.UUID) *domain.Review {
	now := time.Now().UTC()
	return &domain.Review{
		UserID:             userID,
		ItemID:             itemID,
		IntervalDays:       1,
		Repetitions:        1,
		EaseFactor:         2.5,
		ConsecutiveCorrect: 1,
		LastReviewedAt:     now,
		NextReviewAt:       now.AddDate(0, 0, 1),
	}
}

func TestGetNextItem_OK(t *testing.T) {
	userID := uuid.New()
	item, err := domain.NewItem(domain.ItemKindLesson, "Kirchhoff's laws", "Current in equals current out")
	require.NoError(t, err)

	svc := &stubReviewService{
		getNextItem: func(ctx context.Context, gotUserID uuid.UUID) (*domain.Item, error) {
			assert.Equal(t, userID, gotUserID)
			return item, nil
		},
	}

	rec := httptest.NewRecorder()
	studyRouter(svc, userID).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items/next", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp api.ItemResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, item.ID.String(), resp.ID)
	assert.Equal(t, "lesson", resp.Kind)
}

func TestGetNextItem_NoneDueReturns204(t *testing.T) {
	svc := &stubReviewService{
		getNextItem: func(ctx context.Context, userID uuid.UUID) (*domain.Item, error) {
			return nil, review.ErrNoItemsDue
		},
	}

	rec := httptest.NewRecorder()
	studyRouter(svc, uuid.New()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items/next", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestGetNextItem_Unauthorized(t *testing.T) {
	svc := &stubReviewService{}

	rec := httptest.NewRecorder()
	studyRouter(svc, uuid.Nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items/next", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListDueItems_OK(t *testing.T) {
	itemA, err := domain.NewItem(domain.ItemKindLesson, "A", "a")
	require.NoError(t, err)
	itemB, err := domain.NewItem(domain.ItemKindLesson, "B", "b")
	require.NoError(t, err)

	svc := &stubReviewService{
		listDueItems: func(ctx context.Context, userID uuid.UUID) ([]*domain.Item, int, error) {
			return []*domain.Item{itemA, itemB}, 7, nil
		},
	}

	rec := httptest.NewRecorder()
	studyRouter(svc, uuid.New()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items/due", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp api.DueItemsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Items, 2)
	assert.Equal(t, 7, resp.DueCount)
}

func TestSubmitReview_Quality(t *testing.T) {
	userID := uuid.New()
	itemID := uuid.New()

	svc := &stubReviewService{
		submitReview: func(ctx context.Context, gotUserID, gotItemID uuid.UUID, quality int) (*domain.Review, error) {
			assert.Equal(t, userID, gotUserID)
			assert.Equal(t, itemID, gotItemID)
			assert.Equal(t, 4, quality)
			return testReview(userID, itemID), nil
		},
	}

	body := bytes.NewBufferString(`{"quality": 4}`)
	rec := httptest.NewRecorder()
	studyRouter(svc, userID).ServeHTTP(rec,
		httptest.NewRequest(http.MethodPost, "/items/"+itemID.String()+"/review", body))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp api.ReviewResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.IntervalDays)
	assert.Nil(t, resp.Correct)
}

func TestSubmitReview_QuizAnswer(t *testing.T) {
	userID := uuid.New()
	itemID := uuid.New()

	svc := &stubReviewService{
		submitQuizAnswer: func(ctx context.Context, gotUserID, gotItemID uuid.UUID, answerIndex int) (*domain.Review, bool, error) {
			assert.Equal(t, 2, answerIndex)
			return testReview(userID, itemID), false, nil
		},
	}

	body := bytes.NewBufferString(`{"answer_index": 2}`)
	rec := httptest.NewRecorder()
	studyRouter(svc, userID).ServeHTTP(rec,
		httptest.NewRequest(http.MethodPost, "/items/"+itemID.String()+"/review", body))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp api.ReviewResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Correct)
	assert.False(t, *resp.Correct)
}

func TestSubmitReview_RejectsBothOrNeither(t *testing.T) {
	svc := &stubReviewService{}
	itemID := uuid.New()

	for _, body := range []string{`{}`, `{"quality": 4, "answer_index": 1}`} {
		rec := httptest.NewRecorder()
		studyRouter(svc, uuid.New()).ServeHTTP(rec,
			httptest.NewRequest(http.MethodPost, "/items/"+itemID.String()+"/review",
				bytes.NewBufferString(body)))
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %s", body)
	}
}

func TestSubmitReview_QualityOutOfRange(t *testing.T) {
	svc := &stubReviewService{}
	itemID := uuid.New()

	for _, body := range []string{`{"quality": 0}`, `{"quality": 6}`} {
		rec := httptest.NewRecorder()
		studyRouter(svc, uuid.New()).ServeHTTP(rec,
			httptest.NewRequest(http.MethodPost, "/items/"+itemID.String()+"/review",
				bytes.NewBufferString(body)))
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %s", body)
	}
}

func TestSubmitReview_InvalidItemID(t *testing.T) {
	svc := &stubReviewService{}

	rec := httptest.NewRecorder()
	studyRouter(svc, uuid.New()).ServeHTTP(rec,
		httptest.NewRequest(http.MethodPost, "/items/not-a-uuid/review",
			bytes.NewBufferString(`{"quality": 4}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitReview_ItemNotFound(t *testing.T) {
	svc := &stubReviewService{
		submitReview: func(ctx context.Context, userID, itemID uuid.UUID, quality int) (*domain.Review, error) {
			return nil, review.ErrItemNotFound
		},
	}

	rec := httptest.NewRecorder()
	studyRouter(svc, uuid.New()).ServeHTTP(rec,
		httptest.NewRequest(http.MethodPost, "/items/"+uuid.New().String()+"/review",
			bytes.NewBufferString(`{"quality": 4}`)))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
