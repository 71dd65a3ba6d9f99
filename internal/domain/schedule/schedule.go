// Package schedule is the single normalization point for session date/time
// handling. Every "is this session over yet" decision in the codebase goes
// through here; ad hoc parsing at call sites is how timezone bugs creep in.
package schedule

import (
	"fmt"
	"strings"
	"time"

	"github.com/trainhub/trainhub-backend/internal/types"
)

// Combine composes a calendar date and a wall-clock "HH:MM" (or "HH:MM:SS")
// string into a single instant in the date's location.
func Combine(date time.Time, clock string) (time.Time, error) {
	hour, min, err := parseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(), hour, min, 0, 0, date.Location()), nil
}

// StartsAt returns the session's starting instant. A malformed start time
// degrades to midnight so the calendar date still governs.
func StartsAt(s *types.TrainingSession) time.Time {
	if t, err := Combine(s.Date, s.StartTime); err == nil {
		return t
	}
	return time.Date(s.Date.Year(), s.Date.Month(), s.Date.Day(), 0, 0, 0, 0, s.Date.Location())
}

// EndsAt returns the session's ending instant, midnight on malformed input.
func EndsAt(s *types.TrainingSession) time.Time {
	if t, err := Combine(s.Date, s.EndTime); err == nil {
		return t
	}
	return time.Date(s.Date.Year(), s.Date.Month(), s.Date.Day(), 0, 0, 0, 0, s.Date.Location())
}

// Finished reports whether the session has started: date+start_time <= now.
// This is the time-aware check used by enrollment eligibility.
func Finished(s *types.TrainingSession, now time.Time) bool {
	return !now.Before(StartsAt(s))
}

// Ended reports whether the session's end time has passed; the completion
// sweeper keys off this, not Finished.
func Ended(s *types.TrainingSession, now time.Time) bool {
	return !now.Before(EndsAt(s))
}

// OnOrAfterDay compares calendar days only, ignoring time of day. The
// dashboard's current/past split uses this deliberately coarser comparison;
// it is not interchangeable with Finished.
func OnOrAfterDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	if ay != by {
		return ay > by
	}
	if am != bm {
		return am > bm
	}
	return ad >= bd
}

func parseClock(clock string) (hour, min int, err error) {
	clock = strings.TrimSpace(clock)
	if clock == "" {
		return 0, 0, fmt.Errorf("empty clock string")
	}
	layout := "15:04"
	if strings.Count(clock, ":") == 2 {
		layout = "15:04:05"
	}
	t, err := time.Parse(layout, clock)
	if err != nil {
		return 0, 0, fmt.Errorf("parse clock %q: %w", clock, err)
	}
	return t.Hour(), t.Minute(), nil
}
