// Package eligibility decides whether a trainee may currently enroll into a
// session. The evaluator is pure: callers pass the freshly fetched
// registration list every time and must not cache results across refreshes,
// since a stale list is exactly how two trainees end up racing for the last
// slot. The authoritative capacity check still happens inside the enroll
// transaction; this is the fast, offline-evaluable answer.
package eligibility

import (
	"time"

	"github.com/google/uuid"

	"github.com/trainhub/trainhub-backend/internal/domain/schedule"
	"github.com/trainhub/trainhub-backend/internal/types"
)

type Reason string

const (
	ReasonWrongRole         Reason = "wrong_role"
	ReasonSessionFinished   Reason = "session_finished"
	ReasonAlreadyRegistered Reason = "already_registered"
	ReasonSessionFull       Reason = "session_full"
)

// Result carries the verdict. For already_registered, CurrentStatus holds
// the blocking registration's status so the UI can show it instead of a
// generic error.
type Result struct {
	Allowed       bool
	Reason        Reason
	CurrentStatus types.RegistrationStatus
}

func allowed() Result {
	return Result{Allowed: true}
}

func denied(reason Reason) Result {
	return Result{Reason: reason}
}

// CanEnroll evaluates the four enrollment gates in order: role, session
// timing, duplicate registration, capacity. existing must be every
// registration for the session (all users), not just the caller's.
func CanEnroll(user *types.User, session *types.TrainingSession, existing []types.Registration, now time.Time) Result {
	if user.Role != types.RoleTrainee {
		return denied(ReasonWrongRole)
	}
	if schedule.Finished(session, now) {
		return denied(ReasonSessionFinished)
	}
	if status, ok := blockingRegistration(user.ID, existing); ok {
		r := denied(ReasonAlreadyRegistered)
		r.CurrentStatus = status
		return r
	}
	if OccupiedSlots(existing) >= session.MaxParticipants {
		return denied(ReasonSessionFull)
	}
	return allowed()
}

// CanEnrollCounted is the transactional form of CanEnroll: own is the
// caller's existing registration for the session (nil if none) and held is
// an authoritative count of slot-holding rows taken under the same session
// lock. Gate order matches CanEnroll.
func CanEnrollCounted(user *types.User, session *types.TrainingSession, own *types.Registration, held int, now time.Time) Result {
	if user.Role != types.RoleTrainee {
		return denied(ReasonWrongRole)
	}
	if schedule.Finished(session, now) {
		return denied(ReasonSessionFinished)
	}
	if own != nil {
		switch own.Status {
		case types.RegistrationPending, types.RegistrationConfirmed, types.RegistrationCompleted:
			r := denied(ReasonAlreadyRegistered)
			r.CurrentStatus = own.Status
			return r
		}
	}
	if held >= session.MaxParticipants {
		return denied(ReasonSessionFull)
	}
	return allowed()
}

// blockingRegistration finds the user's registration in a state that blocks
// re-enrollment. Cancelled and failed registrations do not block; a trainee
// who withdrew may try again.
func blockingRegistration(userID uuid.UUID, existing []types.Registration) (types.RegistrationStatus, bool) {
	for _, reg := range existing {
		if reg.UserID != userID {
			continue
		}
		switch reg.Status {
		case types.RegistrationPending, types.RegistrationConfirmed, types.RegistrationCompleted:
			return reg.Status, true
		}
	}
	return "", false
}

// OccupiedSlots counts registrations holding a place against
// max_participants: pending and confirmed only.
func OccupiedSlots(existing []types.Registration) int {
	n := 0
	for _, reg := range existing {
		if reg.Status == types.RegistrationPending || reg.Status == types.RegistrationConfirmed {
			n++
		}
	}
	return n
}
