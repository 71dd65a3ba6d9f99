package repos

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/trainhub/trainhub-backend/internal/types"
)

func TestCompletionUpsertIsIdempotent(t *testing.T) {
	db, log := newTestDB(t)
	userRepo := NewUserRepo(db, log)
	sessionRepo := NewTrainingSessionRepo(db, log)
	courseRepo := NewCourseRepo(db, log)
	completionRepo := NewCourseCompletionRepo(db, log)

	coordinator := seedUser(t, userRepo, types.RoleCoordinator)
	trainee := seedUser(t, userRepo, types.RoleTrainee)
	session := seedSession(t, sessionRepo, coordinator.ID, 10)

	course := &types.Course{
		ID:                uuid.New(),
		Title:             "Safety basics",
		DurationHours:     4,
		IsActive:          true,
		TrainingSessionID: session.ID,
	}
	if err := courseRepo.Create(context.Background(), nil, course); err != nil {
		t.Fatalf("create course: %v", err)
	}

	for i := 0; i < 3; i++ {
		now := time.Now()
		row := &types.CourseCompletion{
			ID:               uuid.New(),
			UserID:           trainee.ID,
			TrainingCourseID: course.ID,
			Status:           types.CompletionCompleted,
			CompletedAt:      &now,
		}
		if err := completionRepo.Upsert(context.Background(), nil, row); err != nil {
			t.Fatalf("upsert %d: %v", i, err)
		}
	}

	rows, err := completionRepo.ListByUser(context.Background(), nil, trainee.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected exactly 1 completion row after 3 upserts, got %d", len(rows))
	}
	if rows[0].Status != types.CompletionCompleted {
		t.Fatalf("expected completed, got %s", rows[0].Status)
	}
}
