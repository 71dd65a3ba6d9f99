package repos

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/trainhub/trainhub-backend/internal/types"
)

func TestGetByIDLockedInsideTransaction(t *testing.T) {
	db, log := newTestDB(t)
	userRepo := NewUserRepo(db, log)
	sessionRepo := NewTrainingSessionRepo(db, log)

	coordinator := seedUser(t, userRepo, types.RoleCoordinator)
	session := seedSession(t, sessionRepo, coordinator.ID, 5)

	err := db.Transaction(func(tx *gorm.DB) error {
		locked, lErr := sessionRepo.GetByIDLocked(context.Background(), tx, session.ID)
		if lErr != nil {
			return lErr
		}
		if locked.ID != session.ID || locked.MaxParticipants != 5 {
			t.Fatalf("locked read returned wrong row: %+v", locked)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("transaction: %v", err)
	}
}

func TestGetByIDLockedUnknownSession(t *testing.T) {
	db, log := newTestDB(t)
	sessionRepo := NewTrainingSessionRepo(db, log)

	_, err := sessionRepo.GetByIDLocked(context.Background(), nil, uuid.New())
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected record-not-found, got %v", err)
	}
}
