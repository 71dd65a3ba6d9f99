// Package aggregates derives dashboard views from raw entity collections.
// Everything here is pure, idempotent and order-independent: callers recompute
// on every refresh instead of patching cached results.
package aggregates

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/trainhub/trainhub-backend/internal/domain/schedule"
	"github.com/trainhub/trainhub-backend/internal/types"
)

// RegistrationStats partitions registrations by status. The buckets always
// sum to Total.
type RegistrationStats struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Confirmed int `json:"confirmed"`
	Cancelled int `json:"cancelled"`
	Completed int `json:"completed"`
	Failed    int `json:"failed"`
}

func Stats(registrations []types.Registration) RegistrationStats {
	var s RegistrationStats
	for _, reg := range registrations {
		s.Total++
		switch reg.Status {
		case types.RegistrationPending:
			s.Pending++
		case types.RegistrationConfirmed:
			s.Confirmed++
		case types.RegistrationCancelled:
			s.Cancelled++
		case types.RegistrationCompleted:
			s.Completed++
		case types.RegistrationFailed:
			s.Failed++
		}
	}
	return s
}

// Buckets is the dashboard's current/past split.
type Buckets struct {
	Current []types.TrainingSession `json:"current"`
	Past    []types.TrainingSession `json:"past"`
}

// SessionBuckets partitions by calendar day only: a session later today is
// "current" even if its start time has passed. The enrollment gate is
// time-aware (schedule.Finished); this split intentionally is not, and the
// two must not be unified.
func SessionBuckets(sessions []types.TrainingSession, today time.Time) Buckets {
	var b Buckets
	for _, s := range sessions {
		if schedule.OnOrAfterDay(s.Date, today) {
			b.Current = append(b.Current, s)
		} else {
			b.Past = append(b.Past, s)
		}
	}
	return b
}

type ActivityKind string

const (
	KindCreated   ActivityKind = "created"
	KindConfirmed ActivityKind = "confirmed"
	KindCancelled ActivityKind = "cancelled"
	KindUpdated   ActivityKind = "updated"
)

type Activity struct {
	ID          uuid.UUID    `json:"id"`
	Kind        ActivityKind `json:"kind"`
	Description string       `json:"description"`
	OccurredAt  time.Time    `json:"occurred_at"`
}

// recentWindow is how long a session counts as newly created in the feed.
const recentWindow = 7 * 24 * time.Hour

// RecentActivity builds the human-readable feed: kind from session status
// and recency, description from category, trainer and location. Most recent
// first, ties broken by id ascending so output is deterministic.
func RecentActivity(sessions []types.TrainingSession, n int, now time.Time) []Activity {
	feed := make([]Activity, 0, len(sessions))
	for _, s := range sessions {
		feed = append(feed, Activity{
			ID:          s.ID,
			Kind:        activityKind(s, now),
			Description: describeSession(s),
			OccurredAt:  s.CreatedAt,
		})
	}
	sort.Slice(feed, func(i, j int) bool {
		if !feed[i].OccurredAt.Equal(feed[j].OccurredAt) {
			return feed[i].OccurredAt.After(feed[j].OccurredAt)
		}
		return feed[i].ID.String() < feed[j].ID.String()
	})
	if n >= 0 && len(feed) > n {
		feed = feed[:n]
	}
	return feed
}

func activityKind(s types.TrainingSession, now time.Time) ActivityKind {
	if s.Status == types.SessionArchived {
		return KindCancelled
	}
	if now.Sub(s.CreatedAt) <= recentWindow {
		return KindCreated
	}
	if s.UpdatedAt.After(s.CreatedAt) {
		return KindUpdated
	}
	return KindConfirmed
}

func describeSession(s types.TrainingSession) string {
	parts := []string{s.SkillName}
	if s.Category != nil && s.Category.Name != "" {
		parts = append(parts, s.Category.Name)
	}
	if s.Trainer != nil {
		name := strings.TrimSpace(s.Trainer.FirstName + " " + s.Trainer.LastName)
		if name != "" {
			parts = append(parts, fmt.Sprintf("with %s", name))
		}
	}
	if s.Location != "" {
		parts = append(parts, fmt.Sprintf("at %s", s.Location))
	}
	return strings.Join(parts, " · ")
}

// UnreadCount counts notifications with is_read == false.
func UnreadCount(notifications []types.Notification) int {
	n := 0
	for _, notif := range notifications {
		if !notif.IsRead {
			n++
		}
	}
	return n
}
