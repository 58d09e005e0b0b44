package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prepdeck/prepdeck-api/internal/api/shared"
	"github.com/prepdeck/prepdeck-api/internal/domain"
	"github.com/prepdeck/prepdeck-api/internal/platform/logger"
	"github.com/prepdeck/prepdeck-api/internal/redact"
	"github.com/prepdeck/prepdeck-api/internal/service/progress"
)

// ProfileResponse represents the user's engagement state.
type ProfileResponse struct {
	UserID                  string     `json:"user_id"`
	XP                      int        `json:"xp"`
	StreakCount             int        `json:"streak_count"`
	LastStreakDate          *time.Time `json:"last_streak_date,omitempty"`
	QuestionsCompletedToday int        `json:"questions_completed_today"`
	DailyGoal               int        `json:"daily_goal"`
}

// ActivityResponse represents one study activity record.
type ActivityResponse struct {
	ID             string    `json:"id"`
	Type           string    `json:"type"`
	Mode           string    `json:"mode"`
	CardsCompleted int       `json:"cards_completed"`
	XPEarned       int       `json:"xp_earned"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// CompleteSessionRequest represents the request body for recording a
// finished study session.
type CompleteSessionRequest struct {
	Mode           string `json:"mode"            validate:"required,oneof=learn lessons quiz"`
	CompletedCount int    `json:"completed_count" validate:"min=0"`
	XPEarned       int    `json:"xp_earned"       validate:"min=0"`
}

// ProgressHandler handles profile and session HTTP requests.
type ProgressHandler struct {
	progressService progress.Service
	logger          *slog.Logger
}

// NewProgressHandler creates a new ProgressHandler.
func NewProgressHandler(progressService progress.Service, logger *slog.Logger) *ProgressHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ProgressHandler")
	}

	return &ProgressHandler{
		progressService: progressService,
		logger:          logger.With(slog.String("component", "progress_handler")),
	}
}

// CompleteSession handles POST /sessions requests.
// It records a finished study session, updating the streak and XP in
// one transaction.
func (h *ProgressHandler) CompleteSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var req CompleteSessionRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format",
			slog.String("error", redact.Error(err)),
			slog.String("user_id", userID.String()))
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

	profile, err := h.progressService.CompleteSession(
		r.Context(),
		userID,
		domain.StudyMode(req.Mode),
		req.CompletedCount,
		req.XPEarned,
	)
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to complete session"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	log.Debug("session completed",
		slog.String("user_id", userID.String()),
		slog.String("mode", req.Mode),
		slog.Int("streak_count", profile.StreakCount))
	shared.RespondWithJSON(w, r, http.StatusOK, profileToResponse(profile))
}

// GetProfile handles GET /profile requests.
func (h *ProgressHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	profile, err := h.progressService.GetProfile(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to get profile", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, profileToResponse(profile))
}

// ListActivity handles GET /activity requests.
// It returns the user's most recent study activity, newest first.
func (h *ProgressHandler) ListActivity(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	activities, err := h.progressService.RecentActivity(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to list activity", err)
		return
	}

	responses := make([]ActivityResponse, 0, len(activities))
	for _, activity := range activities {
		responses = append(responses, activityToResponse(activity))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}

// profileToResponse converts a domain.Profile to a ProfileResponse.
func profileToResponse(profile *domain.Profile) ProfileResponse {
	return ProfileResponse{
		UserID:                  profile.UserID.String(),
		XP:                      profile.XP,
		StreakCount:             profile.StreakCount,
		LastStreakDate:          profile.LastStreakDate,
		QuestionsCompletedToday: profile.QuestionsCompletedToday,
		DailyGoal:               profile.DailyGoal,
	}
}

// activityToResponse converts a domain.Activity to an ActivityResponse.
func activityToResponse(activity *domain.Activity) ActivityResponse {
	return ActivityResponse{
		ID:             activity.ID.String(),
		Type:           string(activity.Type),
		Mode:           string(activity.Mode),
		CardsCompleted: activity.CardsCompleted,
		XPEarned:       activity.XPEarned,
		OccurredAt:     activity.OccurredAt,
	}
}
