// Package jobs holds the background loops that run beside the HTTP server.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/trainhub/trainhub-backend/internal/domain/registration"
	"github.com/trainhub/trainhub-backend/internal/domain/schedule"
	"github.com/trainhub/trainhub-backend/internal/logger"
	"github.com/trainhub/trainhub-backend/internal/repos"
	"github.com/trainhub/trainhub-backend/internal/types"
)

// CompletionSweeper moves confirmed registrations to completed once their
// session's end time has passed, and prunes expired auth tokens on the same
// cadence. It is the only writer that takes the confirmed -> completed edge.
type CompletionSweeper struct {
	db               *gorm.DB
	log              *logger.Logger
	sessionRepo      repos.TrainingSessionRepo
	registrationRepo repos.RegistrationRepo
	userTokenRepo    repos.UserTokenRepo
	interval         time.Duration
}

func NewCompletionSweeper(
	db *gorm.DB,
	log *logger.Logger,
	sessionRepo repos.TrainingSessionRepo,
	registrationRepo repos.RegistrationRepo,
	userTokenRepo repos.UserTokenRepo,
	interval time.Duration,
) *CompletionSweeper {
	return &CompletionSweeper{
		db:               db,
		log:              log.With("job", "CompletionSweeper"),
		sessionRepo:      sessionRepo,
		registrationRepo: registrationRepo,
		userTokenRepo:    userTokenRepo,
		interval:         interval,
	}
}

// Run blocks until ctx is cancelled. One failed sweep is logged and retried
// on the next tick; the loop never dies on a transient error.
func (cs *CompletionSweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(cs.interval)
	defer ticker.Stop()

	cs.log.Info("completion sweeper started", "interval", cs.interval.String())
	for {
		select {
		case <-ctx.Done():
			cs.log.Info("completion sweeper stopped")
			return
		case <-ticker.C:
			if n, err := cs.SweepOnce(ctx, time.Now()); err != nil {
				cs.log.Warn("sweep failed", "error", err)
			} else if n > 0 {
				cs.log.Info("sweep completed registrations", "count", n)
			}
			if err := cs.userTokenRepo.DeleteExpired(ctx, nil); err != nil {
				cs.log.Warn("expired token prune failed", "error", err)
			}
		}
	}
}

// SweepOnce runs a single pass and returns how many registrations moved.
// The SQL narrows candidates by calendar day; the authoritative end-of-day
// cut is schedule.Ended against the session's wall-clock end time.
func (cs *CompletionSweeper) SweepOnce(ctx context.Context, now time.Time) (int, error) {
	candidates, err := cs.sessionRepo.ListActiveEndingBy(ctx, nil, now)
	if err != nil {
		return 0, fmt.Errorf("list candidate sessions: %w", err)
	}

	ended := make([]uuid.UUID, 0, len(candidates))
	for i := range candidates {
		if schedule.Ended(&candidates[i], now) {
			ended = append(ended, candidates[i].ID)
		}
	}
	if len(ended) == 0 {
		return 0, nil
	}

	moved := 0
	err = cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		confirmed, lErr := cs.registrationRepo.ListByStatusAndSessions(ctx, tx, types.RegistrationConfirmed, ended)
		if lErr != nil {
			return fmt.Errorf("list confirmed registrations: %w", lErr)
		}
		for _, reg := range confirmed {
			decision, dErr := registration.Complete(reg.Status)
			if dErr != nil {
				cs.log.Warn("skipping registration", "registration_id", reg.ID, "error", dErr)
				continue
			}
			if !decision.Changed {
				continue
			}
			if uErr := cs.registrationRepo.UpdateStatus(ctx, tx, reg.ID, decision.Status); uErr != nil {
				return fmt.Errorf("complete registration %s: %w", reg.ID, uErr)
			}
			moved++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return moved, nil
}
