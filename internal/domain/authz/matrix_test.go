package authz

import (
	"testing"

	"github.com/google/uuid"

	"github.com/trainhub/trainhub-backend/internal/types"
)

func actorWith(role types.Role) Actor {
	return Actor{ID: uuid.New(), Role: role}
}

func TestEnrollIsTraineeSelfOnly(t *testing.T) {
	trainee := actorWith(types.RoleTrainee)
	if !Can(trainee, ActionEnroll, Target{TraineeID: trainee.ID}) {
		t.Fatalf("trainee must be able to enroll self")
	}
	if Can(trainee, ActionEnroll, Target{TraineeID: uuid.New()}) {
		t.Fatalf("trainee must not enroll someone else")
	}
	for _, role := range []types.Role{types.RoleTrainer, types.RoleCoordinator, types.RoleAdmin, types.RoleSuperAdmin} {
		a := actorWith(role)
		if Can(a, ActionEnroll, Target{TraineeID: a.ID}) {
			t.Fatalf("role %s must not enroll", role)
		}
	}
}

func TestDecideRegistrationOwnership(t *testing.T) {
	coordinator := actorWith(types.RoleCoordinator)
	own := Target{SessionCoordinatorID: coordinator.ID}
	other := Target{SessionCoordinatorID: uuid.New()}

	if !Can(coordinator, ActionDecideRegistration, own) {
		t.Fatalf("coordinator must decide on own sessions")
	}
	if Can(coordinator, ActionDecideRegistration, other) {
		t.Fatalf("coordinator must not decide on another coordinator's session")
	}
	if !Can(actorWith(types.RoleAdmin), ActionDecideRegistration, other) {
		t.Fatalf("admin decides on any session")
	}
	if !Can(actorWith(types.RoleSuperAdmin), ActionDecideRegistration, other) {
		t.Fatalf("super_admin inherits admin allowances")
	}
	if Can(actorWith(types.RoleTrainee), ActionDecideRegistration, other) {
		t.Fatalf("trainee must not decide registrations")
	}
	if Can(actorWith(types.RoleTrainer), ActionDecideRegistration, other) {
		t.Fatalf("trainer must not decide registrations")
	}
}

func TestEditSession(t *testing.T) {
	cases := []struct {
		role types.Role
		want bool
	}{
		{types.RoleTrainee, false},
		{types.RoleTrainer, false},
		{types.RoleCoordinator, true},
		{types.RoleAdmin, true},
		{types.RoleSuperAdmin, true},
	}
	for _, tc := range cases {
		t.Run(string(tc.role), func(t *testing.T) {
			if got := Can(actorWith(tc.role), ActionEditSession, Target{}); got != tc.want {
				t.Fatalf("edit_session for %s=%v, want %v", tc.role, got, tc.want)
			}
		})
	}
}

func TestEditCourseNeedsAssignedTrainer(t *testing.T) {
	trainer := actorWith(types.RoleTrainer)
	assigned := Target{SessionTrainerID: &trainer.ID}
	otherID := uuid.New()
	notAssigned := Target{SessionTrainerID: &otherID}

	if !Can(trainer, ActionEditCourse, assigned) {
		t.Fatalf("assigned trainer must edit courses in own sessions")
	}
	if Can(trainer, ActionEditCourse, notAssigned) {
		t.Fatalf("trainer must not edit courses of other trainers' sessions")
	}
	if Can(trainer, ActionEditCourse, Target{}) {
		t.Fatalf("trainer must not edit courses of sessions without a trainer")
	}
	if Can(actorWith(types.RoleCoordinator), ActionEditCourse, Target{}) {
		t.Fatalf("coordinator must not edit courses")
	}
	if !Can(actorWith(types.RoleAdmin), ActionEditCourse, notAssigned) {
		t.Fatalf("admin edits any course")
	}
}

func TestEditContentMatrixRow(t *testing.T) {
	coordinator := actorWith(types.RoleCoordinator)
	trainer := actorWith(types.RoleTrainer)

	// Inherited allowance: any trainee may edit content.
	if !Can(actorWith(types.RoleTrainee), ActionEditContent, Target{}) {
		t.Fatalf("trainee content edit allowance must be preserved")
	}
	if !Can(trainer, ActionEditContent, Target{SessionTrainerID: &trainer.ID}) {
		t.Fatalf("assigned trainer must edit content")
	}
	if Can(trainer, ActionEditContent, Target{}) {
		t.Fatalf("unassigned trainer must not edit content")
	}
	if !Can(coordinator, ActionEditContent, Target{SessionCoordinatorID: coordinator.ID}) {
		t.Fatalf("owning coordinator must edit content")
	}
	if Can(coordinator, ActionEditContent, Target{SessionCoordinatorID: uuid.New()}) {
		t.Fatalf("non-owning coordinator must not edit content")
	}
}

func TestSubmitFeedbackRequiresConfirmedOwnRegistration(t *testing.T) {
	trainee := actorWith(types.RoleTrainee)
	if !Can(trainee, ActionSubmitFeedback, Target{TraineeID: trainee.ID, RegistrationConfirmed: true}) {
		t.Fatalf("trainee with confirmed registration must submit feedback")
	}
	if Can(trainee, ActionSubmitFeedback, Target{TraineeID: trainee.ID, RegistrationConfirmed: false}) {
		t.Fatalf("unconfirmed registration must not accept feedback")
	}
	if Can(trainee, ActionSubmitFeedback, Target{TraineeID: uuid.New(), RegistrationConfirmed: true}) {
		t.Fatalf("feedback is self-only")
	}
	if Can(actorWith(types.RoleAdmin), ActionSubmitFeedback, Target{RegistrationConfirmed: true}) {
		t.Fatalf("only trainees submit feedback")
	}
}

func TestViewRoster(t *testing.T) {
	trainer := actorWith(types.RoleTrainer)
	coordinator := actorWith(types.RoleCoordinator)

	if Can(actorWith(types.RoleTrainee), ActionViewRoster, Target{}) {
		t.Fatalf("trainee must not view the roster")
	}
	if !Can(trainer, ActionViewRoster, Target{SessionTrainerID: &trainer.ID}) {
		t.Fatalf("assigned trainer views own roster")
	}
	if !Can(coordinator, ActionViewRoster, Target{SessionCoordinatorID: coordinator.ID}) {
		t.Fatalf("owning coordinator views own roster")
	}
	if Can(coordinator, ActionViewRoster, Target{SessionCoordinatorID: uuid.New()}) {
		t.Fatalf("coordinator must not view other rosters")
	}
	if !Can(actorWith(types.RoleAdmin), ActionViewRoster, Target{}) {
		t.Fatalf("admin views any roster")
	}
}

func TestUnknownRoleOrActionDenies(t *testing.T) {
	if Can(Actor{ID: uuid.New(), Role: types.Role("visitor")}, ActionEditSession, Target{}) {
		t.Fatalf("unknown role must be denied")
	}
	if Can(actorWith(types.RoleAdmin), Action("reboot"), Target{}) {
		t.Fatalf("unknown action must be denied")
	}
}
