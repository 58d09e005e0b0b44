// Package api provides HTTP handlers for the API.
package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prepdeck/prepdeck-api/internal/api/shared"
	"github.com/prepdeck/prepdeck-api/internal/domain"
	"github.com/prepdeck/prepdeck-api/internal/platform/logger"
	"github.com/prepdeck/prepdeck-api/internal/redact"
	"github.com/prepdeck/prepdeck-api/internal/service/review"
)

// ItemResponse represents the response data for a study item. Quiz
// answers are never included; the correct index stays server-side.
type ItemResponse struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Choices   []string  `json:"choices,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DueItemsResponse represents one page of due items. DueCount is the
// total number of due items, which can exceed the page.
type DueItemsResponse struct {
	Items    []ItemResponse `json:"items"`
	DueCount int            `json:"due_count"`
}

// ReviewResponse represents the updated schedule after a review.
type ReviewResponse struct {
	UserID             string     `json:"user_id"`
	ItemID             string     `json:"item_id"`
	IntervalDays       int        `json:"interval_days"`
	Repetitions        int        `json:"repetitions"`
	EaseFactor         float64    `json:"ease_factor"`
	ConsecutiveCorrect int        `json:"consecutive_correct"`
	Mastered           bool       `json:"mastered"`
	LastReviewedAt     time.Time  `json:"last_reviewed_at"`
	NextReviewAt       time.Time  `json:"next_review_at"`
	Correct            *bool      `json:"correct,omitempty"` // Set only for graded quiz answers
}

// SubmitReviewRequest represents the request body for submitting a
// review. Exactly one of Quality (self-rated lessons) or AnswerIndex
// (graded quiz answers) must be set.
type SubmitReviewRequest struct {
	Quality     *int `json:"quality,omitempty"      validate:"omitempty,min=1,max=5"`
	AnswerIndex *int `json:"answer_index,omitempty" validate:"omitempty,min=0"`
}

// StudyHandler handles study and review HTTP requests.
type StudyHandler struct {
	reviewService review.Service
	logger        *slog.Logger
}

// NewStudyHandler creates a new StudyHandler.
func NewStudyHandler(reviewService review.Service, logger *slog.Logger) *StudyHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for StudyHandler")
	}

	return &StudyHandler{
		reviewService: reviewService,
		logger:        logger.With(slog.String("component", "study_handler")),
	}
}

// GetNextItem handles GET /items/next requests.
// It retrieves the next item due for review for the authenticated user,
// returning 204 when nothing is due.
func (h *StudyHandler) GetNextItem(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	item, err := h.reviewService.GetNextItem(r.Context(), userID)
	if errors.Is(err, review.ErrNoItemsDue) {
		log.Debug("no items due for review", slog.String("user_id", userID.String()))
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to get next item"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	log.Debug("retrieved next due item",
		slog.String("user_id", userID.String()),
		slog.String("item_id", item.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, itemToResponse(item))
}

// ListDueItems handles GET /items/due requests.
// It returns the authenticated user's due items ordered by urgency.
func (h *StudyHandler) ListDueItems(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	items, total, err := h.reviewService.ListDueItems(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to list due items", err)
		return
	}

	response := DueItemsResponse{
		Items:    make([]ItemResponse, 0, len(items)),
		DueCount: total,
	}
	for _, item := range items {
		response.Items = append(response.Items, itemToResponse(item))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, response)
}

// SubmitReview handles POST /items/{id}/review requests.
// A quality rating drives a self-rated lesson review; an answer index
// is graded against the quiz item and mapped to a quality internally.
func (h *StudyHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, itemID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req SubmitReviewRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format",
			slog.String("error", redact.Error(err)),
			slog.String("user_id", userID.String()),
			slog.String("item_id", itemID.String()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		log.Warn("validation error",
			slog.String("error", redact.Error(err)),
			slog.String("user_id", userID.String()))
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	if (req.Quality == nil) == (req.AnswerIndex == nil) {
		shared.RespondWithError(w, r, http.StatusBadRequest,
			"Exactly one of quality or answer_index is required")
		return
	}

	var (
		updated *domain.Review
		graded  *bool
		err     error
	)
	if req.AnswerIndex != nil {
		var correct bool
		updated, correct, err = h.reviewService.SubmitQuizAnswer(r.Context(), userID, itemID, *req.AnswerIndex)
		if err == nil {
			graded = &correct
		}
	} else {
		updated, err = h.reviewService.SubmitReview(r.Context(), userID, itemID, *req.Quality)
	}
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to submit review"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	response := reviewToResponse(updated)
	response.Correct = graded

	log.Debug("review submitted",
		slog.String("user_id", userID.String()),
		slog.String("item_id", itemID.String()),
		slog.Int("interval_days", updated.IntervalDays),
		slog.Bool("mastered", updated.Mastered()))
	shared.RespondWithJSON(w, r, http.StatusOK, response)
}

// itemToResponse converts a domain.Item to an ItemResponse.
func itemToResponse(item *domain.Item) ItemResponse {
	return ItemResponse{
		ID:        item.ID.String(),
		Kind:      string(item.Kind),
		Title:     item.Title,
		Content:   item.Content,
		Choices:   item.Choices,
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}
}

// reviewToResponse converts a domain.Review to a ReviewResponse.
func reviewToResponse(rev *domain.Review) ReviewResponse {
	return ReviewResponse{
		UserID:             rev.UserID.String(),
		ItemID:             rev.ItemID.String(),
		IntervalDays:       rev.IntervalDays,
		Repetitions:        rev.Repetitions,
		EaseFactor:         rev.EaseFactor,
		ConsecutiveCorrect: rev.ConsecutiveCorrect,
		Mastered:           rev.Mastered(),
		LastReviewedAt:     rev.LastReviewedAt,
		NextReviewAt:       rev.NextReviewAt,
	}
}

// getUserIDFromContext extracts the authenticated user's UUID from the
// request context, where the auth middleware placed it.
func getUserIDFromContext(r *http.Request) (uuid.UUID, bool) {
	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, false
	}
	return userID, true
}

// getPathUUID extracts and parses a UUID path parameter.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, errors.New(paramName + " is required")
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, errors.New(paramName + " has invalid format")
	}

	return id, nil
}

// handleUserIDAndPathUUID extracts the user ID from context and a UUID
// from the path, writing an error response if either fails.
func handleUserIDAndPathUUID(
	w http.ResponseWriter,
	r *http.Request,
	paramName string,
	log *slog.Logger,
) (uuid.UUID, uuid.UUID, bool) {
	if log == nil {
		log = logger.FromContextOrDefault(r.Context(), slog.Default())
	}

	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return uuid.Nil, uuid.Nil, false
	}

	pathID, err := getPathUUID(r, paramName)
	if err != nil {
		log.Warn("invalid path parameter",
			slog.String("param_name", paramName),
			slog.String("value", chi.URLParam(r, paramName)))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid "+paramName+" format")
		return uuid.Nil, uuid.Nil, false
	}

	return userID, pathID, true
}
