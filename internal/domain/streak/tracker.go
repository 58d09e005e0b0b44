package streak

import (
	"time"
)

// MinimumDailyCompletions is the number of qualifying completions a
// user needs in one calendar day for that day to maintain the streak.
const MinimumDailyCompletions = 5

// State is the per-user streak snapshot the tracker operates on.
//
// LastStreakDate is nil before the first study activity and
// midnight-normalized (UTC) afterwards. CompletedToday counts
// qualifying completions on that date.
type State struct {
	Count          int
	LastStreakDate *time.Time
	CompletedToday int
}

// normalizeDate strips the time of day, keeping the UTC calendar date.
func normalizeDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// daysBetween returns the absolute difference between two
// midnight-normalized dates in whole days.
func daysBetween(a, b time.Time) int {
	diff := a.Sub(b)
	if diff < 0 {
		diff = -diff
	}
	return int(diff.Hours() / 24)
}

// Update applies one study-session event to the streak state.
//
// completedCount is the number of qualifying completions in the
// triggering event; negative counts clamp to 0. The rules:
//
//   - First-ever event: today's count starts at completedCount and the
//     streak is 1 if it already meets the threshold, else 0.
//   - Same day: today's count accumulates; the streak increments only
//     when this event pushes the total across the threshold for the
//     first time that day.
//   - Next calendar day: today's count restarts. If yesterday met the
//     threshold, the streak increments when today already meets it too,
//     and is otherwise preserved pending further activity today. If
//     yesterday fell short, the streak restarts at 1 or 0 based on
//     today's count alone.
//   - Gap of more than one day: the streak restarts at 1 or 0 based on
//     today's count alone.
//
// The returned state always carries today's date. The input state is
// not modified.
func Update(prior State, completedCount int, now time.Time) State {
	if completedCount < 0 {
		completedCount = 0
	}

	today := normalizeDate(now)
	result := State{
		Count:          prior.Count,
		LastStreakDate: &today,
	}

	if prior.LastStreakDate == nil {
		result.CompletedToday = completedCount
		result.Count = 0
		if completedCount >= MinimumDailyCompletions {
			result.Count = 1
		}
		return result
	}

	switch diffDays := daysBetween(today, normalizeDate(*prior.LastStreakDate)); diffDays {
	case 0:
		result.CompletedToday = prior.CompletedToday + completedCount
		if prior.CompletedToday < MinimumDailyCompletions &&
			result.CompletedToday >= MinimumDailyCompletions {
			result.Count = prior.Count + 1
		}

	case 1:
		metYesterday := prior.CompletedToday >= MinimumDailyCompletions
		result.CompletedToday = completedCount

		switch {
		case metYesterday && completedCount >= MinimumDailyCompletions:
			result.Count = prior.Count + 1
		case metYesterday:
			// Streak preserved, pending today's further activity.
			result.Count = prior.Count
		case completedCount >= MinimumDailyCompletions:
			result.Count = 1
		default:
			result.Count = 0
		}

	default:
		result.CompletedToday = completedCount
		result.Count = 0
		if completedCount >= MinimumDailyCompletions {
			result.Count = 1
		}
	}

	return result
}
