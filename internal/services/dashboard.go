package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/trainhub/trainhub-backend/internal/apierr"
	"github.com/trainhub/trainhub-backend/internal/clients/redis"
	"github.com/trainhub/trainhub-backend/internal/domain/aggregates"
	"github.com/trainhub/trainhub-backend/internal/logger"
	"github.com/trainhub/trainhub-backend/internal/repos"
	"github.com/trainhub/trainhub-backend/internal/requestdata"
	"github.com/trainhub/trainhub-backend/internal/types"
)

const (
	statsCacheKey   = "dashboard:stats"
	statsCacheTTL   = 30 * time.Second
	activityFeedLen = 10
)

// DashboardStats is the aggregated admin view. Every field is recomputed
// from raw rows on each refresh; nothing here is incrementally maintained.
type DashboardStats struct {
	Registrations aggregates.RegistrationStats `json:"registrations"`
	Sessions      aggregates.Buckets           `json:"sessions"`
	Activity      []aggregates.Activity        `json:"activity"`
	GeneratedAt   time.Time                    `json:"generated_at"`
}

type DashboardService interface {
	Stats(ctx context.Context) (DashboardStats, error)
}

type dashboardService struct {
	db               *gorm.DB
	log              *logger.Logger
	sessionRepo      repos.TrainingSessionRepo
	registrationRepo repos.RegistrationRepo
	cache            *redis.Cache
}

func NewDashboardService(
	db *gorm.DB,
	log *logger.Logger,
	sessionRepo repos.TrainingSessionRepo,
	registrationRepo repos.RegistrationRepo,
	cache *redis.Cache,
) DashboardService {
	return &dashboardService{
		db:               db,
		log:              log.With("service", "DashboardService"),
		sessionRepo:      sessionRepo,
		registrationRepo: registrationRepo,
		cache:            cache,
	}
}

func (ds *dashboardService) Stats(ctx context.Context) (DashboardStats, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return DashboardStats{}, apierr.Authorization(errors.New("no authenticated user"))
	}
	switch rd.Role {
	case types.RoleCoordinator, types.RoleAdmin, types.RoleSuperAdmin:
	default:
		return DashboardStats{}, apierr.Authorization(errors.New("dashboard is staff-only"))
	}

	if cached, ok := ds.cache.Get(ctx, statsCacheKey); ok {
		var stats DashboardStats
		if err := json.Unmarshal([]byte(cached), &stats); err == nil {
			return stats, nil
		}
	}

	var (
		sessions      []types.TrainingSession
		registrations []types.Registration
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		sessions, err = ds.sessionRepo.ListAll(gctx, nil)
		return err
	})
	g.Go(func() error {
		var err error
		registrations, err = ds.registrationRepo.ListAll(gctx, nil)
		return err
	})
	if err := g.Wait(); err != nil {
		return DashboardStats{}, err
	}

	now := time.Now()
	stats := DashboardStats{
		Registrations: aggregates.Stats(registrations),
		Sessions:      aggregates.SessionBuckets(sessions, now),
		Activity:      aggregates.RecentActivity(sessions, activityFeedLen, now),
		GeneratedAt:   now,
	}

	if raw, err := json.Marshal(stats); err == nil {
		ds.cache.Set(ctx, statsCacheKey, string(raw), statsCacheTTL)
	}
	return stats, nil
}
