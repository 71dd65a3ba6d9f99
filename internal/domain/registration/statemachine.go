// Package registration implements the registration approval lifecycle as a
// pure state machine. Callers (services, the completion sweeper) decide with
// it first and persist after; it never touches storage itself.
package registration

import (
	"fmt"

	"github.com/trainhub/trainhub-backend/internal/apierr"
	"github.com/trainhub/trainhub-backend/internal/types"
)

// edges is the full transition relation:
//
//	pending   -> confirmed, cancelled
//	confirmed -> completed, cancelled
//
// completed, cancelled and failed are terminal.
var edges = map[types.RegistrationStatus][]types.RegistrationStatus{
	types.RegistrationPending:   {types.RegistrationConfirmed, types.RegistrationCancelled},
	types.RegistrationConfirmed: {types.RegistrationCompleted, types.RegistrationCancelled},
	types.RegistrationCompleted: nil,
	types.RegistrationCancelled: nil,
	types.RegistrationFailed:    nil,
}

// CanTransition reports whether from -> to is an edge of the lifecycle.
func CanTransition(from, to types.RegistrationStatus) bool {
	for _, next := range edges[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Decision is the outcome of a lifecycle operation. Changed=false means the
// registration was already in the requested state and the operation is an
// idempotent no-op; callers must not write anything in that case.
type Decision struct {
	Status  types.RegistrationStatus
	Changed bool
}

// Approve decides pending -> confirmed. Approving an already-confirmed
// registration succeeds without change; slow networks double-submit.
func Approve(current types.RegistrationStatus) (Decision, error) {
	return transition(current, types.RegistrationConfirmed)
}

// Reject decides pending -> cancelled (coordinator rejecting). Rejecting an
// already-cancelled registration is a no-op success.
func Reject(current types.RegistrationStatus) (Decision, error) {
	if current != types.RegistrationPending && current != types.RegistrationCancelled {
		return Decision{Status: current}, invalid(current, types.RegistrationCancelled)
	}
	return transition(current, types.RegistrationCancelled)
}

// Withdraw decides pending -> cancelled (trainee pulling out before a
// decision). Same edge as Reject, different actor.
func Withdraw(current types.RegistrationStatus) (Decision, error) {
	if current != types.RegistrationPending && current != types.RegistrationCancelled {
		return Decision{Status: current}, invalid(current, types.RegistrationCancelled)
	}
	return transition(current, types.RegistrationCancelled)
}

// Cancel decides confirmed -> cancelled (coordinator revoking a confirmed
// place). Cancelling an already-cancelled registration is a no-op success.
func Cancel(current types.RegistrationStatus) (Decision, error) {
	if current != types.RegistrationConfirmed && current != types.RegistrationCancelled {
		return Decision{Status: current}, invalid(current, types.RegistrationCancelled)
	}
	return transition(current, types.RegistrationCancelled)
}

// Complete decides confirmed -> completed, triggered by the system once the
// session's end time has passed.
func Complete(current types.RegistrationStatus) (Decision, error) {
	return transition(current, types.RegistrationCompleted)
}

func transition(current, target types.RegistrationStatus) (Decision, error) {
	if current == target {
		return Decision{Status: current, Changed: false}, nil
	}
	if !CanTransition(current, target) {
		return Decision{Status: current}, invalid(current, target)
	}
	return Decision{Status: target, Changed: true}, nil
}

func invalid(current, target types.RegistrationStatus) error {
	return apierr.InvalidTransition(fmt.Errorf("registration is %s, cannot move to %s", current, target))
}
