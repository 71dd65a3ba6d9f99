package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/trainhub/trainhub-backend/internal/apierr"
	"github.com/trainhub/trainhub-backend/internal/clients/redis"
	"github.com/trainhub/trainhub-backend/internal/domain/aggregates"
	"github.com/trainhub/trainhub-backend/internal/logger"
	"github.com/trainhub/trainhub-backend/internal/repos"
	"github.com/trainhub/trainhub-backend/internal/requestdata"
	"github.com/trainhub/trainhub-backend/internal/types"
)

const unreadCacheTTL = 2 * time.Minute

type NotificationService interface {
	// Notify writes notifications inside the caller's transaction so a
	// rolled-back lifecycle change never leaves a stray notification.
	Notify(ctx context.Context, tx *gorm.DB, userID uuid.UUID, title, message string, priority types.NotificationPriority, data map[string]interface{}) error
	ListMine(ctx context.Context) ([]types.Notification, error)
	MarkRead(ctx context.Context, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context) error
	UnreadCount(ctx context.Context) (int64, error)
}

type notificationService struct {
	db               *gorm.DB
	log              *logger.Logger
	notificationRepo repos.NotificationRepo
	cache            *redis.Cache
}

func NewNotificationService(db *gorm.DB, log *logger.Logger, notificationRepo repos.NotificationRepo, cache *redis.Cache) NotificationService {
	return &notificationService{
		db:               db,
		log:              log.With("service", "NotificationService"),
		notificationRepo: notificationRepo,
		cache:            cache,
	}
}

func (ns *notificationService) Notify(ctx context.Context, tx *gorm.DB, userID uuid.UUID, title, message string, priority types.NotificationPriority, data map[string]interface{}) error {
	var payload datatypes.JSON
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return fmt.Errorf("marshal notification data: %w", err)
		}
		payload = datatypes.JSON(raw)
	}
	row := &types.Notification{
		ID:       uuid.New(),
		UserID:   userID,
		Title:    title,
		Message:  message,
		Priority: priority,
		Data:     payload,
	}
	if err := ns.notificationRepo.Create(ctx, tx, []*types.Notification{row}); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	ns.cache.Del(ctx, unreadCacheKey(userID))
	return nil
}

func (ns *notificationService) ListMine(ctx context.Context) ([]types.Notification, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, apierr.Authorization(errors.New("no authenticated user"))
	}
	return ns.notificationRepo.ListByUser(ctx, nil, rd.UserID)
}

func (ns *notificationService) MarkRead(ctx context.Context, notificationID uuid.UUID) error {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return apierr.Authorization(errors.New("no authenticated user"))
	}
	affected, err := ns.notificationRepo.MarkRead(ctx, nil, rd.UserID, notificationID)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if affected == 0 {
		return apierr.NotFound(fmt.Errorf("notification %s not found", notificationID))
	}
	ns.cache.Del(ctx, unreadCacheKey(rd.UserID))
	return nil
}

func (ns *notificationService) MarkAllRead(ctx context.Context) error {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return apierr.Authorization(errors.New("no authenticated user"))
	}
	if err := ns.notificationRepo.MarkAllRead(ctx, nil, rd.UserID); err != nil {
		return fmt.Errorf("mark all notifications read: %w", err)
	}
	ns.cache.Del(ctx, unreadCacheKey(rd.UserID))
	return nil
}

func (ns *notificationService) UnreadCount(ctx context.Context) (int64, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return 0, apierr.Authorization(errors.New("no authenticated user"))
	}
	key := unreadCacheKey(rd.UserID)
	if cached, ok := ns.cache.Get(ctx, key); ok {
		if n, err := strconv.ParseInt(cached, 10, 64); err == nil {
			return n, nil
		}
	}
	rows, err := ns.notificationRepo.ListByUser(ctx, nil, rd.UserID)
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	n := int64(aggregates.UnreadCount(rows))
	ns.cache.Set(ctx, key, strconv.FormatInt(n, 10), unreadCacheTTL)
	return n, nil
}

func unreadCacheKey(userID uuid.UUID) string {
	return "notifications:unread:" + userID.String()
}
