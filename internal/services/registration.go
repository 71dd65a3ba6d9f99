package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/trainhub/trainhub-backend/internal/apierr"
	"github.com/trainhub/trainhub-backend/internal/domain/authz"
	"github.com/trainhub/trainhub-backend/internal/domain/eligibility"
	"github.com/trainhub/trainhub-backend/internal/domain/registration"
	"github.com/trainhub/trainhub-backend/internal/logger"
	"github.com/trainhub/trainhub-backend/internal/repos"
	"github.com/trainhub/trainhub-backend/internal/requestdata"
	"github.com/trainhub/trainhub-backend/internal/types"
)

type RegistrationService interface {
	Enroll(ctx context.Context, sessionID uuid.UUID) (*types.Registration, error)
	CheckEligibility(ctx context.Context, sessionID uuid.UUID) (eligibility.Result, error)
	Approve(ctx context.Context, registrationID uuid.UUID) (*types.Registration, error)
	Reject(ctx context.Context, registrationID uuid.UUID) (*types.Registration, error)
	Withdraw(ctx context.Context, registrationID uuid.UUID) (*types.Registration, error)
	Cancel(ctx context.Context, registrationID uuid.UUID) (*types.Registration, error)
	ListMine(ctx context.Context) ([]types.Registration, error)
	ListPending(ctx context.Context) ([]types.Registration, error)
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]types.Registration, error)
}

type registrationService struct {
	db                  *gorm.DB
	log                 *logger.Logger
	userRepo            repos.UserRepo
	sessionRepo         repos.TrainingSessionRepo
	registrationRepo    repos.RegistrationRepo
	notificationService NotificationService
}

func NewRegistrationService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	sessionRepo repos.TrainingSessionRepo,
	registrationRepo repos.RegistrationRepo,
	notificationService NotificationService,
) RegistrationService {
	return &registrationService{
		db:                  db,
		log:                 log.With("service", "RegistrationService"),
		userRepo:            userRepo,
		sessionRepo:         sessionRepo,
		registrationRepo:    registrationRepo,
		notificationService: notificationService,
	}
}

// Enroll creates a pending registration for the calling trainee. The
// eligibility gates run inside the transaction against the locked session
// row and an authoritative slot count, so two trainees racing for the last
// slot cannot both win.
func (rs *registrationService) Enroll(ctx context.Context, sessionID uuid.UUID) (*types.Registration, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, apierr.Authorization(errors.New("no authenticated user"))
	}

	user, err := rs.userRepo.GetByID(ctx, nil, rd.UserID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	session, err := rs.loadVisibleSession(ctx, nil, sessionID)
	if err != nil {
		return nil, err
	}

	actor := authz.Actor{ID: rd.UserID, Role: rd.Role}
	if !authz.Can(actor, authz.ActionEnroll, authz.Target{TraineeID: rd.UserID}) {
		return nil, apierr.Authorization(fmt.Errorf("role %s may not enroll", rd.Role))
	}

	var result *types.Registration
	err = rs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// The row lock serializes racing enrolls on this session; the slot
		// count below is authoritative only while it is held. Without it,
		// two READ COMMITTED transactions both count the pre-insert state
		// and both take the last slot.
		locked, lErr := rs.sessionRepo.GetByIDLocked(ctx, tx, sessionID)
		if lErr != nil {
			return fmt.Errorf("lock session: %w", lErr)
		}
		if locked.Status == types.SessionArchived {
			return apierr.NotFound(fmt.Errorf("session %s not found", sessionID))
		}
		session = locked

		prior, pErr := rs.registrationRepo.GetByUserAndSession(ctx, tx, rd.UserID, sessionID)
		if pErr != nil && !errors.Is(pErr, gorm.ErrRecordNotFound) {
			return fmt.Errorf("check prior registration: %w", pErr)
		}
		held, cErr := rs.registrationRepo.CountHoldingSlot(ctx, tx, sessionID)
		if cErr != nil {
			return fmt.Errorf("count held slots: %w", cErr)
		}
		verdict := eligibility.CanEnrollCounted(user, locked, prior, int(held), time.Now())
		if !verdict.Allowed {
			return apierr.EligibilityDenied(string(verdict.Reason),
				fmt.Errorf("enrollment denied: %s", verdict.Reason))
		}

		// The (user, session) unique index means a cancelled or failed
		// registration is revived in place rather than inserted twice.
		now := time.Now()
		if prior != nil && pErr == nil {
			prior.Status = types.RegistrationPending
			prior.RegisteredAt = now
			if sErr := tx.WithContext(ctx).Save(prior).Error; sErr != nil {
				return fmt.Errorf("revive registration: %w", sErr)
			}
			result = prior
		} else {
			row := &types.Registration{
				ID:                uuid.New(),
				UserID:            rd.UserID,
				TrainingSessionID: sessionID,
				Status:            types.RegistrationPending,
				RegisteredAt:      now,
			}
			if cErr := rs.registrationRepo.Create(ctx, tx, row); cErr != nil {
				return fmt.Errorf("create registration: %w", cErr)
			}
			result = row
		}

		return rs.notificationService.Notify(ctx, tx, session.CoordinatorID,
			"New registration request",
			fmt.Sprintf("%s %s requested to join %s", user.FirstName, user.LastName, session.SkillName),
			types.PriorityNormal,
			map[string]interface{}{
				"registration_id": result.ID.String(),
				"session_id":      session.ID.String(),
			})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// CheckEligibility is the advisory read-only verdict for the UI. It never
// reserves anything.
func (rs *registrationService) CheckEligibility(ctx context.Context, sessionID uuid.UUID) (eligibility.Result, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return eligibility.Result{}, apierr.Authorization(errors.New("no authenticated user"))
	}
	user, err := rs.userRepo.GetByID(ctx, nil, rd.UserID)
	if err != nil {
		return eligibility.Result{}, fmt.Errorf("load user: %w", err)
	}
	session, err := rs.loadVisibleSession(ctx, nil, sessionID)
	if err != nil {
		return eligibility.Result{}, err
	}
	existing, err := rs.registrationRepo.ListBySession(ctx, nil, sessionID)
	if err != nil {
		return eligibility.Result{}, fmt.Errorf("list session registrations: %w", err)
	}
	return eligibility.CanEnroll(user, session, existing, time.Now()), nil
}

func (rs *registrationService) Approve(ctx context.Context, registrationID uuid.UUID) (*types.Registration, error) {
	return rs.decide(ctx, registrationID, registration.Approve,
		"Registration approved", "Your place on %s is confirmed")
}

func (rs *registrationService) Reject(ctx context.Context, registrationID uuid.UUID) (*types.Registration, error) {
	return rs.decide(ctx, registrationID, registration.Reject,
		"Registration rejected", "Your request to join %s was declined")
}

func (rs *registrationService) Cancel(ctx context.Context, registrationID uuid.UUID) (*types.Registration, error) {
	return rs.decide(ctx, registrationID, registration.Cancel,
		"Registration cancelled", "Your confirmed place on %s was cancelled")
}

// decide runs a coordinator-side lifecycle decision: authorization against
// the owning session, the state machine verdict, then a conditional write.
// A Changed=false decision returns success without touching the row.
func (rs *registrationService) decide(
	ctx context.Context,
	registrationID uuid.UUID,
	op func(types.RegistrationStatus) (registration.Decision, error),
	notifTitle, notifFormat string,
) (*types.Registration, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, apierr.Authorization(errors.New("no authenticated user"))
	}

	reg, err := rs.registrationRepo.GetByID(ctx, nil, registrationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound(fmt.Errorf("registration %s not found", registrationID))
		}
		return nil, fmt.Errorf("load registration: %w", err)
	}
	if reg.Session == nil {
		return nil, fmt.Errorf("registration %s has no session", registrationID)
	}

	actor := authz.Actor{ID: rd.UserID, Role: rd.Role}
	target := authz.Target{
		SessionCoordinatorID: reg.Session.CoordinatorID,
		SessionTrainerID:     reg.Session.TrainerID,
		TraineeID:            reg.UserID,
	}
	if !authz.Can(actor, authz.ActionDecideRegistration, target) {
		return nil, apierr.Authorization(fmt.Errorf("role %s may not decide this registration", rd.Role))
	}

	decision, err := op(reg.Status)
	if err != nil {
		return nil, err
	}
	if !decision.Changed {
		return reg, nil
	}

	err = rs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if uErr := rs.registrationRepo.UpdateStatus(ctx, tx, reg.ID, decision.Status); uErr != nil {
			return fmt.Errorf("update registration status: %w", uErr)
		}
		return rs.notificationService.Notify(ctx, tx, reg.UserID,
			notifTitle,
			fmt.Sprintf(notifFormat, reg.Session.SkillName),
			types.PriorityHigh,
			map[string]interface{}{
				"registration_id": reg.ID.String(),
				"session_id":      reg.TrainingSessionID.String(),
				"status":          string(decision.Status),
			})
	})
	if err != nil {
		return nil, err
	}
	reg.Status = decision.Status
	return reg, nil
}

// Withdraw is the trainee-side cancellation of their own pending request.
func (rs *registrationService) Withdraw(ctx context.Context, registrationID uuid.UUID) (*types.Registration, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, apierr.Authorization(errors.New("no authenticated user"))
	}

	reg, err := rs.registrationRepo.GetByID(ctx, nil, registrationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound(fmt.Errorf("registration %s not found", registrationID))
		}
		return nil, fmt.Errorf("load registration: %w", err)
	}
	if reg.UserID != rd.UserID {
		return nil, apierr.Authorization(errors.New("only the owning trainee may withdraw"))
	}

	decision, err := registration.Withdraw(reg.Status)
	if err != nil {
		return nil, err
	}
	if !decision.Changed {
		return reg, nil
	}

	err = rs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if uErr := rs.registrationRepo.UpdateStatus(ctx, tx, reg.ID, decision.Status); uErr != nil {
			return fmt.Errorf("update registration status: %w", uErr)
		}
		if reg.Session == nil {
			return nil
		}
		return rs.notificationService.Notify(ctx, tx, reg.Session.CoordinatorID,
			"Registration withdrawn",
			fmt.Sprintf("A trainee withdrew from %s", reg.Session.SkillName),
			types.PriorityNormal,
			map[string]interface{}{
				"registration_id": reg.ID.String(),
				"session_id":      reg.TrainingSessionID.String(),
			})
	})
	if err != nil {
		return nil, err
	}
	reg.Status = decision.Status
	return reg, nil
}

func (rs *registrationService) ListMine(ctx context.Context) ([]types.Registration, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, apierr.Authorization(errors.New("no authenticated user"))
	}
	return rs.registrationRepo.ListByUser(ctx, nil, rd.UserID)
}

// ListPending returns the coordinator's decision queue. Admins see every
// pending registration.
func (rs *registrationService) ListPending(ctx context.Context) ([]types.Registration, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, apierr.Authorization(errors.New("no authenticated user"))
	}
	switch rd.Role {
	case types.RoleCoordinator:
		return rs.registrationRepo.ListPendingByCoordinator(ctx, nil, rd.UserID)
	case types.RoleAdmin, types.RoleSuperAdmin:
		all, err := rs.registrationRepo.ListAll(ctx, nil)
		if err != nil {
			return nil, err
		}
		pending := make([]types.Registration, 0, len(all))
		for _, reg := range all {
			if reg.Status == types.RegistrationPending {
				pending = append(pending, reg)
			}
		}
		return pending, nil
	default:
		return nil, apierr.Authorization(fmt.Errorf("role %s may not list pending registrations", rd.Role))
	}
}

// ListBySession is the roster view, gated by view_roster.
func (rs *registrationService) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]types.Registration, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, apierr.Authorization(errors.New("no authenticated user"))
	}
	session, err := rs.loadVisibleSession(ctx, nil, sessionID)
	if err != nil {
		return nil, err
	}
	actor := authz.Actor{ID: rd.UserID, Role: rd.Role}
	target := authz.Target{
		SessionCoordinatorID: session.CoordinatorID,
		SessionTrainerID:     session.TrainerID,
	}
	if !authz.Can(actor, authz.ActionViewRoster, target) {
		return nil, apierr.Authorization(fmt.Errorf("role %s may not view this roster", rd.Role))
	}
	return rs.registrationRepo.ListBySession(ctx, nil, sessionID)
}

// loadVisibleSession treats archived sessions like missing ones. Archiving
// is a soft delete; archived sessions must not be enrollable or listable.
func (rs *registrationService) loadVisibleSession(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) (*types.TrainingSession, error) {
	session, err := rs.sessionRepo.GetByID(ctx, tx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound(fmt.Errorf("session %s not found", sessionID))
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	if session.Status == types.SessionArchived {
		return nil, apierr.NotFound(fmt.Errorf("session %s not found", sessionID))
	}
	return session, nil
}
