package srs

import (
	"math"
	"time"

	"github.com/prepdeck/prepdeck-api/internal/domain"
)

// Quality rating bounds. Ratings are supplied on a 1-5 scale:
// 1-2 failed recall, 3 recalled with effort, 4-5 recalled easily.
const (
	MinQuality = 1
	MaxQuality = 5

	// FailureQuality is the boundary below which a review counts as a
	// failure and resets the repetition count.
	FailureQuality = 3
)

// clampQuality forces out-of-range ratings back into [MinQuality,
// MaxQuality]. The algorithm itself is total over that range; callers
// that forward raw client input rely on this clamp.
func clampQuality(quality int) int {
	if quality < MinQuality {
		return MinQuality
	}
	if quality > MaxQuality {
		return MaxQuality
	}
	return quality
}

// calculateNewEaseFactor applies the SM-2 ease factor recurrence.
//
// The 1-5 rating is first shifted onto the 0-5 scale SM-2 expects
// (q = quality-1). The recurrence runs on every review, including
// failures, so the ease factor keeps adapting even while the interval
// resets. The result never drops below params.MinEaseFactor.
func calculateNewEaseFactor(currentEF float64, quality int, params *Params) float64 {
	q := float64(quality - 1)
	if q < 0 {
		q = 0
	}

	newEF := currentEF + (0.1 - (5-q)*(0.08+(5-q)*0.02))
	if newEF < params.MinEaseFactor {
		newEF = params.MinEaseFactor
	}

	return newEF
}

// calculateNewInterval determines the interval in days until the next
// review, together with the updated repetition count.
//
// A failed review (quality below FailureQuality) resets the repetition
// count and drops the interval back to params.FailureInterval.
// Successful reviews walk the SM-2 tiers: FirstInterval after the
// first success, SecondInterval after the second, and
// round(interval * newEF) from the third onward.
func calculateNewInterval(
	currentInterval int,
	repetitions int,
	newEF float64,
	quality int,
	params *Params,
) (interval int, newRepetitions int) {
	if quality < FailureQuality {
		return params.FailureInterval, 0
	}

	newRepetitions = repetitions + 1
	switch newRepetitions {
	case 1:
		interval = params.FirstInterval
	case 2:
		interval = params.SecondInterval
	default:
		interval = int(math.Round(float64(currentInterval) * newEF))
	}

	return interval, newRepetitions
}

// calculateNextSchedule creates a new Review with updated scheduling
// fields based on the rating of a single review event.
//
// It follows the immutable update pattern: the input review is never
// modified, a new value is returned. ConsecutiveCorrect is not touched
// here; it belongs to the review service, which maintains mastery
// independently of the scheduling recurrence. The next review time is
// now plus the new interval in calendar days, keeping the time of day.
func calculateNextSchedule(
	review *domain.Review,
	quality int,
	now time.Time,
	params *Params,
) *domain.Review {
	quality = clampQuality(quality)

	newReview := *review

	newReview.EaseFactor = calculateNewEaseFactor(review.EaseFactor, quality, params)
	newReview.IntervalDays, newReview.Repetitions = calculateNewInterval(
		review.IntervalDays,
		review.Repetitions,
		newReview.EaseFactor,
		quality,
		params,
	)

	newReview.LastReviewedAt = now
	newReview.NextReviewAt = now.AddDate(0, 0, newReview.IntervalDays)
	newReview.UpdatedAt = now

	return &newReview
}
