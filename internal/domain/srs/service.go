package srs

import (
	"errors"
	"time"

	"github.com/prepdeck/prepdeck-api/internal/domain"
)

// Common errors
var (
	ErrNilReview = errors.New("review cannot be nil")
)

// Service defines the interface for SM-2 scheduling operations.
type Service interface {
	// CalculateNextReview computes the new schedule for an item after a
	// review rated on the 1-5 quality scale. Ratings outside the range
	// are clamped. The returned Review is a new value; the input is not
	// modified.
	CalculateNextReview(
		review *domain.Review,
		quality int,
		now time.Time,
	) (*domain.Review, error)

	// QualityFromQuizResult maps a quiz answer onto the quality scale:
	// a correct answer rates 5, an incorrect one 2.
	QualityFromQuizResult(correct bool) int

	// XPForReview returns the XP awarded for a single review event.
	// The award is a flat amount independent of quality.
	XPForReview(quality int) int
}

// defaultService is the standard implementation of the Service interface.
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new SRS service with default parameters.
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
	}
}

// NewServiceWithParams creates a new SRS service with custom parameters.
func NewServiceWithParams(params *Params) Service {
	return &defaultService{
		params: params,
	}
}

// CalculateNextReview implements Service.CalculateNextReview.
func (s *defaultService) CalculateNextReview(
	review *domain.Review,
	quality int,
	now time.Time,
) (*domain.Review, error) {
	if review == nil {
		return nil, ErrNilReview
	}

	return calculateNextSchedule(review, quality, now, s.params), nil
}

// QualityFromQuizResult implements Service.QualityFromQuizResult.
func (s *defaultService) QualityFromQuizResult(correct bool) int {
	if correct {
		return MaxQuality
	}
	return 2
}

// XPForReview implements Service.XPForReview.
//
// The quality argument is accepted for call-site symmetry but does not
// affect the award. A quality-scaled reward was never implemented in
// this system; the flat amount is the observable behavior.
func (s *defaultService) XPForReview(quality int) int {
	return s.params.XPPerReview
}
