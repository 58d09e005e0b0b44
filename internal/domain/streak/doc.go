// Package streak tracks consecutive study days. A day counts toward
// the streak once the user finishes at least MinimumDailyCompletions
// qualifying items on it; missing a day, or finishing too few items on
// it, resets the count. The tracker is a pure function over
// caller-supplied state and an injected clock.
package streak
