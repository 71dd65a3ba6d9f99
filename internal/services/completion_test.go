package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/trainhub/trainhub-backend/internal/apierr"
	"github.com/trainhub/trainhub-backend/internal/types"
)

func (env *testEnv) createCourse(t *testing.T, sessionID uuid.UUID) *types.Course {
	t.Helper()
	course := &types.Course{
		ID:                uuid.New(),
		Title:             "Ladder safety",
		DurationHours:     2,
		IsActive:          true,
		TrainingSessionID: sessionID,
	}
	if err := env.courseRepo.Create(context.Background(), nil, course); err != nil {
		t.Fatalf("create course: %v", err)
	}
	return course
}

func TestMarkCompleteRequiresConfirmedRegistration(t *testing.T) {
	env := newTestEnv(t)
	coordinator := env.createUser(t, types.RoleCoordinator)
	trainee := env.createUser(t, types.RoleTrainee)
	session := env.createSession(t, coordinator.ID, 10, 7)
	course := env.createCourse(t, session.ID)

	// Pending registration is not enough.
	if _, err := env.registrationService.Enroll(asUser(trainee), session.ID); err != nil {
		t.Fatalf("enroll: %v", err)
	}
	_, err := env.completionService.MarkComplete(asUser(trainee), course.ID)
	apiErr := apierr.From(err)
	if apiErr == nil || apiErr.Code != apierr.CodeAuthorization {
		t.Fatalf("expected authorization_error for pending registration, got %v", err)
	}
}

func TestMarkCompleteIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	coordinator := env.createUser(t, types.RoleCoordinator)
	trainee := env.createUser(t, types.RoleTrainee)
	session := env.createSession(t, coordinator.ID, 10, 7)
	course := env.createCourse(t, session.ID)

	reg, err := env.registrationService.Enroll(asUser(trainee), session.ID)
	if err != nil {
		t.Fatalf("enroll: %v", err)
	}
	if _, err := env.registrationService.Approve(asUser(coordinator), reg.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}

	first, err := env.completionService.MarkComplete(asUser(trainee), course.ID)
	if err != nil {
		t.Fatalf("mark complete: %v", err)
	}
	second, err := env.completionService.MarkComplete(asUser(trainee), course.ID)
	if err != nil {
		t.Fatalf("second mark complete: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected the same completion row on repeat, got different rows")
	}

	rows, err := env.completionRepo.ListByUser(context.Background(), nil, trainee.ID)
	if err != nil {
		t.Fatalf("list completions: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 completion row, got %d", len(rows))
	}
}

func TestMarkCompleteUnknownCourse(t *testing.T) {
	env := newTestEnv(t)
	trainee := env.createUser(t, types.RoleTrainee)

	_, err := env.completionService.MarkComplete(asUser(trainee), uuid.New())
	apiErr := apierr.From(err)
	if apiErr == nil || apiErr.Code != apierr.CodeNotFound {
		t.Fatalf("expected not_found, got %v", err)
	}
}
