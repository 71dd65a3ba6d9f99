package aggregates

import (
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/trainhub/trainhub-backend/internal/types"
)

func regWithStatus(status types.RegistrationStatus) types.Registration {
	return types.Registration{ID: uuid.New(), Status: status}
}

func TestStatsPartitionSumsToTotal(t *testing.T) {
	all := []types.RegistrationStatus{
		types.RegistrationPending,
		types.RegistrationConfirmed,
		types.RegistrationCancelled,
		types.RegistrationCompleted,
		types.RegistrationFailed,
	}
	var regs []types.Registration
	for i := 0; i < 50; i++ {
		regs = append(regs, regWithStatus(all[rand.Intn(len(all))]))
	}
	s := Stats(regs)
	if sum := s.Pending + s.Confirmed + s.Cancelled + s.Completed + s.Failed; sum != s.Total {
		t.Fatalf("partition sum %d != total %d", sum, s.Total)
	}
	if s.Total != len(regs) {
		t.Fatalf("total=%d, want %d", s.Total, len(regs))
	}
}

func TestStatsCounts(t *testing.T) {
	regs := []types.Registration{
		regWithStatus(types.RegistrationPending),
		regWithStatus(types.RegistrationPending),
		regWithStatus(types.RegistrationConfirmed),
		regWithStatus(types.RegistrationCancelled),
	}
	s := Stats(regs)
	if s.Total != 4 || s.Pending != 2 || s.Confirmed != 1 || s.Cancelled != 1 {
		t.Fatalf("unexpected stats: %+v", s)
	}
}

func TestStatsOrderIndependent(t *testing.T) {
	regs := []types.Registration{
		regWithStatus(types.RegistrationPending),
		regWithStatus(types.RegistrationConfirmed),
		regWithStatus(types.RegistrationCancelled),
	}
	forward := Stats(regs)
	reversed := Stats([]types.Registration{regs[2], regs[1], regs[0]})
	if forward != reversed {
		t.Fatalf("stats depend on input order: %+v vs %+v", forward, reversed)
	}
}

func sessionOn(date time.Time) types.TrainingSession {
	return types.TrainingSession{ID: uuid.New(), Date: date, Status: types.SessionActive}
}

func TestSessionBucketsIsDateOnly(t *testing.T) {
	today := time.Date(2025, time.March, 10, 15, 0, 0, 0, time.UTC)
	sameDay := sessionOn(time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC))
	sameDay.StartTime = "09:00" // already started, still "current" for the split
	yesterday := sessionOn(time.Date(2025, time.March, 9, 0, 0, 0, 0, time.UTC))
	tomorrow := sessionOn(time.Date(2025, time.March, 11, 0, 0, 0, 0, time.UTC))

	b := SessionBuckets([]types.TrainingSession{sameDay, yesterday, tomorrow}, today)
	if len(b.Current) != 2 {
		t.Fatalf("current=%d, want 2 (same-day session stays current even after start time)", len(b.Current))
	}
	if len(b.Past) != 1 || b.Past[0].ID != yesterday.ID {
		t.Fatalf("past bucket wrong: %+v", b.Past)
	}
}

func TestRecentActivityKinds(t *testing.T) {
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	old := now.Add(-30 * 24 * time.Hour)

	archived := types.TrainingSession{ID: uuid.New(), Status: types.SessionArchived, CreatedAt: now.Add(-time.Hour)}
	fresh := types.TrainingSession{ID: uuid.New(), Status: types.SessionActive, CreatedAt: now.Add(-2 * time.Hour), UpdatedAt: now.Add(-2 * time.Hour)}
	edited := types.TrainingSession{ID: uuid.New(), Status: types.SessionActive, CreatedAt: old, UpdatedAt: old.Add(time.Hour)}
	settled := types.TrainingSession{ID: uuid.New(), Status: types.SessionActive, CreatedAt: old, UpdatedAt: old}

	feed := RecentActivity([]types.TrainingSession{archived, fresh, edited, settled}, -1, now)
	kinds := map[uuid.UUID]ActivityKind{}
	for _, a := range feed {
		kinds[a.ID] = a.Kind
	}
	if kinds[archived.ID] != KindCancelled {
		t.Fatalf("archived session kind=%s, want cancelled", kinds[archived.ID])
	}
	if kinds[fresh.ID] != KindCreated {
		t.Fatalf("fresh session kind=%s, want created", kinds[fresh.ID])
	}
	if kinds[edited.ID] != KindUpdated {
		t.Fatalf("edited session kind=%s, want updated", kinds[edited.ID])
	}
	if kinds[settled.ID] != KindConfirmed {
		t.Fatalf("settled session kind=%s, want confirmed", kinds[settled.ID])
	}
}

func TestRecentActivityOrderingAndTieBreak(t *testing.T) {
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	shared := now.Add(-time.Hour)

	idA := uuid.MustParse("00000000-0000-0000-0000-00000000000a")
	idB := uuid.MustParse("00000000-0000-0000-0000-00000000000b")
	newest := types.TrainingSession{ID: uuid.New(), CreatedAt: now, Status: types.SessionActive}
	tieA := types.TrainingSession{ID: idA, CreatedAt: shared, Status: types.SessionActive}
	tieB := types.TrainingSession{ID: idB, CreatedAt: shared, Status: types.SessionActive}

	// Feed order scrambled on purpose.
	feed := RecentActivity([]types.TrainingSession{tieB, newest, tieA}, -1, now)
	if len(feed) != 3 {
		t.Fatalf("len=%d, want 3", len(feed))
	}
	if feed[0].ID != newest.ID {
		t.Fatalf("most recent must come first")
	}
	if feed[1].ID != idA || feed[2].ID != idB {
		t.Fatalf("tie must break by id ascending, got %s then %s", feed[1].ID, feed[2].ID)
	}
}

func TestRecentActivityTruncatesToN(t *testing.T) {
	now := time.Now()
	var sessions []types.TrainingSession
	for i := 0; i < 10; i++ {
		sessions = append(sessions, types.TrainingSession{ID: uuid.New(), CreatedAt: now.Add(-time.Duration(i) * time.Minute)})
	}
	feed := RecentActivity(sessions, 3, now)
	if len(feed) != 3 {
		t.Fatalf("len=%d, want 3", len(feed))
	}
}

func TestRecentActivityDescription(t *testing.T) {
	s := types.TrainingSession{
		ID:        uuid.New(),
		SkillName: "Go Fundamentals",
		Location:  "Room 4",
		Category:  &types.Category{Name: "Engineering"},
		Trainer:   &types.User{FirstName: "Dana", LastName: "Reyes"},
		CreatedAt: time.Now(),
	}
	feed := RecentActivity([]types.TrainingSession{s}, 1, time.Now())
	want := "Go Fundamentals · Engineering · with Dana Reyes · at Room 4"
	if feed[0].Description != want {
		t.Fatalf("description=%q, want %q", feed[0].Description, want)
	}

	bare := types.TrainingSession{ID: uuid.New(), SkillName: "First Aid", CreatedAt: time.Now()}
	feed = RecentActivity([]types.TrainingSession{bare}, 1, time.Now())
	if feed[0].Description != "First Aid" {
		t.Fatalf("description=%q, want just the skill name", feed[0].Description)
	}
}

func TestUnreadCount(t *testing.T) {
	notifications := []types.Notification{
		{IsRead: false},
		{IsRead: true},
		{IsRead: false},
	}
	if got := UnreadCount(notifications); got != 2 {
		t.Fatalf("UnreadCount=%d, want 2", got)
	}
	if got := UnreadCount(nil); got != 0 {
		t.Fatalf("UnreadCount(nil)=%d, want 0", got)
	}
}
