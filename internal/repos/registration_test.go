package repos

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/trainhub/trainhub-backend/internal/types"
)

func seedUser(t *testing.T, repo UserRepo, role types.Role) *types.User {
	t.Helper()
	u := &types.User{
		ID:        uuid.New(),
		Email:     uuid.New().String() + "@example.com",
		Password:  "hashed",
		FirstName: "Test",
		LastName:  "User",
		Role:      role,
	}
	if _, err := repo.Create(context.Background(), nil, []*types.User{u}); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func seedSession(t *testing.T, repo TrainingSessionRepo, coordinatorID uuid.UUID, maxParticipants int) *types.TrainingSession {
	t.Helper()
	s := &types.TrainingSession{
		ID:              uuid.New(),
		SkillName:       "Welding",
		Date:            time.Now().AddDate(0, 0, 7),
		StartTime:       "09:00",
		EndTime:         "17:00",
		MaxParticipants: maxParticipants,
		Status:          types.SessionActive,
		CoordinatorID:   coordinatorID,
	}
	if err := repo.Create(context.Background(), nil, s); err != nil {
		t.Fatalf("create session: %v", err)
	}
	return s
}

func seedRegistration(t *testing.T, repo RegistrationRepo, userID, sessionID uuid.UUID, status types.RegistrationStatus) *types.Registration {
	t.Helper()
	r := &types.Registration{
		ID:                uuid.New(),
		UserID:            userID,
		TrainingSessionID: sessionID,
		Status:            status,
		RegisteredAt:      time.Now(),
	}
	if err := repo.Create(context.Background(), nil, r); err != nil {
		t.Fatalf("create registration: %v", err)
	}
	return r
}

func TestRegistrationUniquePerUserAndSession(t *testing.T) {
	db, log := newTestDB(t)
	userRepo := NewUserRepo(db, log)
	sessionRepo := NewTrainingSessionRepo(db, log)
	regRepo := NewRegistrationRepo(db, log)

	trainee := seedUser(t, userRepo, types.RoleTrainee)
	coordinator := seedUser(t, userRepo, types.RoleCoordinator)
	session := seedSession(t, sessionRepo, coordinator.ID, 10)

	seedRegistration(t, regRepo, trainee.ID, session.ID, types.RegistrationPending)

	dup := &types.Registration{
		ID:                uuid.New(),
		UserID:            trainee.ID,
		TrainingSessionID: session.ID,
		Status:            types.RegistrationPending,
		RegisteredAt:      time.Now(),
	}
	if err := regRepo.Create(context.Background(), nil, dup); err == nil {
		t.Fatalf("expected unique constraint violation for duplicate (user, session)")
	}
}

func TestCountHoldingSlot(t *testing.T) {
	db, log := newTestDB(t)
	userRepo := NewUserRepo(db, log)
	sessionRepo := NewTrainingSessionRepo(db, log)
	regRepo := NewRegistrationRepo(db, log)

	coordinator := seedUser(t, userRepo, types.RoleCoordinator)
	session := seedSession(t, sessionRepo, coordinator.ID, 10)

	statuses := []types.RegistrationStatus{
		types.RegistrationPending,
		types.RegistrationConfirmed,
		types.RegistrationCancelled,
		types.RegistrationCompleted,
		types.RegistrationFailed,
	}
	for _, status := range statuses {
		trainee := seedUser(t, userRepo, types.RoleTrainee)
		seedRegistration(t, regRepo, trainee.ID, session.ID, status)
	}

	n, err := regRepo.CountHoldingSlot(context.Background(), nil, session.ID)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 slot-holding registrations (pending+confirmed), got %d", n)
	}
}

func TestListPendingByCoordinator(t *testing.T) {
	db, log := newTestDB(t)
	userRepo := NewUserRepo(db, log)
	sessionRepo := NewTrainingSessionRepo(db, log)
	regRepo := NewRegistrationRepo(db, log)

	coordinatorA := seedUser(t, userRepo, types.RoleCoordinator)
	coordinatorB := seedUser(t, userRepo, types.RoleCoordinator)
	sessionA := seedSession(t, sessionRepo, coordinatorA.ID, 10)
	sessionB := seedSession(t, sessionRepo, coordinatorB.ID, 10)

	t1 := seedUser(t, userRepo, types.RoleTrainee)
	t2 := seedUser(t, userRepo, types.RoleTrainee)
	t3 := seedUser(t, userRepo, types.RoleTrainee)

	want := seedRegistration(t, regRepo, t1.ID, sessionA.ID, types.RegistrationPending)
	seedRegistration(t, regRepo, t2.ID, sessionA.ID, types.RegistrationConfirmed)
	seedRegistration(t, regRepo, t3.ID, sessionB.ID, types.RegistrationPending)

	got, err := regRepo.ListPendingByCoordinator(context.Background(), nil, coordinatorA.ID)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 pending registration for coordinator A, got %d", len(got))
	}
	if got[0].ID != want.ID {
		t.Fatalf("expected registration %s, got %s", want.ID, got[0].ID)
	}
	if got[0].User == nil || got[0].Session == nil {
		t.Fatalf("expected User and Session preloaded")
	}
}

func TestUpdateStatus(t *testing.T) {
	db, log := newTestDB(t)
	userRepo := NewUserRepo(db, log)
	sessionRepo := NewTrainingSessionRepo(db, log)
	regRepo := NewRegistrationRepo(db, log)

	coordinator := seedUser(t, userRepo, types.RoleCoordinator)
	trainee := seedUser(t, userRepo, types.RoleTrainee)
	session := seedSession(t, sessionRepo, coordinator.ID, 10)
	reg := seedRegistration(t, regRepo, trainee.ID, session.ID, types.RegistrationPending)

	if err := regRepo.UpdateStatus(context.Background(), nil, reg.ID, types.RegistrationConfirmed); err != nil {
		t.Fatalf("update status: %v", err)
	}
	reloaded, err := regRepo.GetByID(context.Background(), nil, reg.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Status != types.RegistrationConfirmed {
		t.Fatalf("expected confirmed, got %s", reloaded.Status)
	}
}
