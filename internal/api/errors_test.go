package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/prepdeck/prepdeck-api/internal/service/auth"
	"github.com/prepdeck/prepdeck-api/internal/service/progress"
	"github.com/prepdeck/prepdeck-api/internal/service/review"
	"github.com/prepdeck/prepdeck-api/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid token", auth.ErrInvalidToken, http.StatusUnauthorized},
		{"expired token", auth.ErrExpiredToken, http.StatusUnauthorized},
		{"item not found (store)", store.ErrItemNotFound, http.StatusNotFound},
		{"item not found (service)", review.ErrItemNotFound, http.StatusNotFound},
		{"profile not found", store.ErrProfileNotFound, http.StatusNotFound},
		{"review not found", store.ErrReviewNotFound, http.StatusNotFound},
		{"not quiz item", review.ErrNotQuizItem, http.StatusBadRequest},
		{"invalid mode", progress.ErrInvalidMode, http.StatusBadRequest},
		{"invalid entity", store.ErrInvalidEntity, http.StatusBadRequest},
		{"duplicate", store.ErrDuplicate, http.StatusConflict},
		{"no items due", review.ErrNoItemsDue, http.StatusNoContent},
		{"unknown", errors.New("disk on fire"), http.StatusInternalServerError},
		{"wrapped sentinel", fmt.Errorf("failed to get item: %w", store.ErrItemNotFound), http.StatusNotFound},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, MapErrorToStatusCode(tc.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(nil))
	assert.Equal(t, "Item not found", GetSafeErrorMessage(store.ErrItemNotFound))
	assert.Equal(t, "Invalid study mode", GetSafeErrorMessage(progress.ErrInvalidMode))

	// Unknown errors never leak their message.
	raw := errors.New("pq: connection to postgres://user:pw@db failed")
	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(raw))
}

func TestSanitizeValidationError(t *testing.T) {
	t.Parallel()

	err := errors.New(
		"Key: 'SubmitReviewRequest.Quality' Error:Field validation for 'Quality' failed on the 'max' tag",
	)
	assert.Equal(t, "Invalid Quality: value too large", SanitizeValidationError(err))

	assert.Equal(t, "Validation error", SanitizeValidationError(errors.New("something else")))
}
