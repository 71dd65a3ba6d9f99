package eligibility

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/trainhub/trainhub-backend/internal/types"
)

var now = time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC)

func trainee() *types.User {
	return &types.User{ID: uuid.New(), Role: types.RoleTrainee}
}

func upcomingSession(maxParticipants int) *types.TrainingSession {
	return &types.TrainingSession{
		ID:              uuid.New(),
		Date:            time.Date(2025, time.March, 2, 0, 0, 0, 0, time.UTC),
		StartTime:       "09:00",
		EndTime:         "17:00",
		MaxParticipants: maxParticipants,
		Status:          types.SessionActive,
	}
}

func reg(userID, sessionID uuid.UUID, status types.RegistrationStatus) types.Registration {
	return types.Registration{ID: uuid.New(), UserID: userID, TrainingSessionID: sessionID, Status: status}
}

func TestCanEnrollHappyPath(t *testing.T) {
	res := CanEnroll(trainee(), upcomingSession(1), nil, now)
	if !res.Allowed {
		t.Fatalf("expected allowed, got reason %s", res.Reason)
	}
}

func TestCanEnrollWrongRole(t *testing.T) {
	for _, role := range []types.Role{types.RoleTrainer, types.RoleCoordinator, types.RoleAdmin, types.RoleSuperAdmin} {
		t.Run(string(role), func(t *testing.T) {
			user := &types.User{ID: uuid.New(), Role: role}
			res := CanEnroll(user, upcomingSession(10), nil, now)
			if res.Allowed || res.Reason != ReasonWrongRole {
				t.Fatalf("role %s: got %+v, want denied wrong_role", role, res)
			}
		})
	}
}

func TestCanEnrollSessionFinishedBeatsCapacity(t *testing.T) {
	session := upcomingSession(10)
	session.Date = time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)
	res := CanEnroll(trainee(), session, nil, now)
	if res.Allowed || res.Reason != ReasonSessionFinished {
		t.Fatalf("got %+v, want denied session_finished regardless of free capacity", res)
	}
}

func TestCanEnrollAlreadyRegisteredReportsCurrentStatus(t *testing.T) {
	cases := []struct {
		status types.RegistrationStatus
		blocks bool
	}{
		{types.RegistrationPending, true},
		{types.RegistrationConfirmed, true},
		{types.RegistrationCompleted, true},
		{types.RegistrationCancelled, false},
		{types.RegistrationFailed, false},
	}
	for _, tc := range cases {
		t.Run(string(tc.status), func(t *testing.T) {
			user := trainee()
			session := upcomingSession(10)
			existing := []types.Registration{reg(user.ID, session.ID, tc.status)}
			res := CanEnroll(user, session, existing, now)
			if tc.blocks {
				if res.Allowed || res.Reason != ReasonAlreadyRegistered {
					t.Fatalf("status %s should block, got %+v", tc.status, res)
				}
				if res.CurrentStatus != tc.status {
					t.Fatalf("CurrentStatus=%s, want %s", res.CurrentStatus, tc.status)
				}
			} else if !res.Allowed {
				t.Fatalf("status %s should not block re-enrollment, got reason %s", tc.status, res.Reason)
			}
		})
	}
}

func TestCanEnrollLastSlotScenario(t *testing.T) {
	session := upcomingSession(1)

	first := trainee()
	res := CanEnroll(first, session, nil, now)
	if !res.Allowed {
		t.Fatalf("empty session with capacity 1 should allow, got %s", res.Reason)
	}

	// First trainee's pending registration lands; a second distinct trainee
	// re-evaluates against the refreshed list.
	existing := []types.Registration{reg(first.ID, session.ID, types.RegistrationPending)}
	second := trainee()
	res = CanEnroll(second, session, existing, now)
	if res.Allowed || res.Reason != ReasonSessionFull {
		t.Fatalf("got %+v, want denied session_full", res)
	}
}

func TestCanEnrollCancelledRegistrationsFreeCapacity(t *testing.T) {
	session := upcomingSession(1)
	others := []types.Registration{
		reg(uuid.New(), session.ID, types.RegistrationCancelled),
		reg(uuid.New(), session.ID, types.RegistrationFailed),
	}
	res := CanEnroll(trainee(), session, others, now)
	if !res.Allowed {
		t.Fatalf("cancelled/failed rows must not occupy slots, got %s", res.Reason)
	}
}

func TestCanEnrollIsPure(t *testing.T) {
	user := trainee()
	session := upcomingSession(2)
	existing := []types.Registration{reg(uuid.New(), session.ID, types.RegistrationPending)}
	first := CanEnroll(user, session, existing, now)
	second := CanEnroll(user, session, existing, now)
	if first != second {
		t.Fatalf("identical inputs produced different results: %+v vs %+v", first, second)
	}
}

func TestCanEnrollCountedMatchesCanEnroll(t *testing.T) {
	user := trainee()
	session := upcomingSession(2)
	own := reg(user.ID, session.ID, types.RegistrationConfirmed)
	other := reg(uuid.New(), session.ID, types.RegistrationPending)

	cases := []struct {
		name     string
		existing []types.Registration
		own      *types.Registration
		held     int
	}{
		{"empty", nil, nil, 0},
		{"own confirmed", []types.Registration{own}, &own, 1},
		{"full by others", []types.Registration{other, reg(uuid.New(), session.ID, types.RegistrationConfirmed)}, nil, 2},
		{"cancelled frees slot", []types.Registration{reg(uuid.New(), session.ID, types.RegistrationCancelled)}, nil, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			listVerdict := CanEnroll(user, session, tc.existing, now)
			countVerdict := CanEnrollCounted(user, session, tc.own, tc.held, now)
			if listVerdict != countVerdict {
				t.Fatalf("verdicts diverge: list=%+v counted=%+v", listVerdict, countVerdict)
			}
		})
	}
}

func TestCanEnrollCountedLastSlot(t *testing.T) {
	session := upcomingSession(1)
	res := CanEnrollCounted(trainee(), session, nil, 1, now)
	if res.Allowed || res.Reason != ReasonSessionFull {
		t.Fatalf("got %+v, want denied session_full at held=1 of 1", res)
	}
	res = CanEnrollCounted(trainee(), session, nil, 0, now)
	if !res.Allowed {
		t.Fatalf("held=0 of 1 should allow, got %s", res.Reason)
	}
}

func TestOccupiedSlots(t *testing.T) {
	sessionID := uuid.New()
	existing := []types.Registration{
		reg(uuid.New(), sessionID, types.RegistrationPending),
		reg(uuid.New(), sessionID, types.RegistrationConfirmed),
		reg(uuid.New(), sessionID, types.RegistrationCancelled),
		reg(uuid.New(), sessionID, types.RegistrationCompleted),
		reg(uuid.New(), sessionID, types.RegistrationFailed),
	}
	if got := OccupiedSlots(existing); got != 2 {
		t.Fatalf("OccupiedSlots=%d, want 2 (pending+confirmed only)", got)
	}
}
