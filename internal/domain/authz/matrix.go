// Package authz is the role/action authorization matrix consulted before
// every mutating operation. The backend remains the authority of record; the
// same matrix also lets the frontend hide affordances a role can never use.
package authz

import (
	"github.com/google/uuid"

	"github.com/trainhub/trainhub-backend/internal/types"
)

type Action string

const (
	ActionEnroll             Action = "enroll"
	ActionDecideRegistration Action = "decide_registration"
	ActionEditSession        Action = "edit_session"
	ActionEditCourse         Action = "edit_course"
	ActionEditContent        Action = "edit_content"
	ActionSubmitFeedback     Action = "submit_feedback"
	ActionViewRoster         Action = "view_roster"
)

// Actor is the authenticated caller, passed explicitly on every check so
// decisions stay deterministic under test. Never read from ambient state.
type Actor struct {
	ID   uuid.UUID
	Role types.Role
}

// Target carries the ownership context of the session being acted on plus
// the registration facts the feedback rule needs. Zero values mean "not
// applicable".
type Target struct {
	SessionCoordinatorID  uuid.UUID
	SessionTrainerID      *uuid.UUID
	TraineeID             uuid.UUID
	RegistrationConfirmed bool
}

// Can evaluates the matrix. Every switch lists all five roles explicitly;
// adding a role means revisiting every action here, which is the point.
func Can(actor Actor, action Action, target Target) bool {
	switch action {
	case ActionEnroll:
		switch actor.Role {
		case types.RoleTrainee:
			return target.TraineeID == actor.ID
		case types.RoleTrainer, types.RoleCoordinator, types.RoleAdmin, types.RoleSuperAdmin:
			return false
		}
	case ActionDecideRegistration:
		switch actor.Role {
		case types.RoleCoordinator:
			return target.SessionCoordinatorID == actor.ID
		case types.RoleAdmin, types.RoleSuperAdmin:
			return true
		case types.RoleTrainee, types.RoleTrainer:
			return false
		}
	case ActionEditSession:
		switch actor.Role {
		case types.RoleCoordinator, types.RoleAdmin, types.RoleSuperAdmin:
			return true
		case types.RoleTrainee, types.RoleTrainer:
			return false
		}
	case ActionEditCourse:
		switch actor.Role {
		case types.RoleTrainer:
			return assignedTrainer(actor, target)
		case types.RoleAdmin, types.RoleSuperAdmin:
			return true
		case types.RoleTrainee, types.RoleCoordinator:
			return false
		}
	case ActionEditContent:
		// Trainees may edit any course content. That allowance is inherited
		// from the source system's matrix and kept verbatim; tightening it is
		// a product decision, not a porting one.
		switch actor.Role {
		case types.RoleTrainee:
			return true
		case types.RoleTrainer:
			return assignedTrainer(actor, target)
		case types.RoleCoordinator:
			return target.SessionCoordinatorID == actor.ID
		case types.RoleAdmin, types.RoleSuperAdmin:
			return true
		}
	case ActionSubmitFeedback:
		switch actor.Role {
		case types.RoleTrainee:
			return target.TraineeID == actor.ID && target.RegistrationConfirmed
		case types.RoleTrainer, types.RoleCoordinator, types.RoleAdmin, types.RoleSuperAdmin:
			return false
		}
	case ActionViewRoster:
		switch actor.Role {
		case types.RoleTrainer:
			return assignedTrainer(actor, target)
		case types.RoleCoordinator:
			return target.SessionCoordinatorID == actor.ID
		case types.RoleAdmin, types.RoleSuperAdmin:
			return true
		case types.RoleTrainee:
			return false
		}
	}
	return false
}

func assignedTrainer(actor Actor, target Target) bool {
	return target.SessionTrainerID != nil && *target.SessionTrainerID == actor.ID
}
