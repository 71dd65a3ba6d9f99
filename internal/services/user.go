package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/trainhub/trainhub-backend/internal/apierr"
	"github.com/trainhub/trainhub-backend/internal/logger"
	"github.com/trainhub/trainhub-backend/internal/repos"
	"github.com/trainhub/trainhub-backend/internal/requestdata"
	"github.com/trainhub/trainhub-backend/internal/types"
)

type ProfileUpdate struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type UserService interface {
	GetProfile(ctx context.Context) (*types.User, error)
	UpdateProfile(ctx context.Context, update ProfileUpdate) (*types.User, error)
	UpdateAvatarImage(ctx context.Context, raw []byte) (*types.User, error)
	ListUsers(ctx context.Context) ([]types.User, error)
}

type userService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	avatarService AvatarService
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, avatarService AvatarService) UserService {
	return &userService{
		db:            db,
		log:           log.With("service", "UserService"),
		userRepo:      userRepo,
		avatarService: avatarService,
	}
}

func (us *userService) GetProfile(ctx context.Context) (*types.User, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, apierr.Authorization(errors.New("no authenticated user"))
	}
	user, err := us.userRepo.GetByID(ctx, nil, rd.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound(fmt.Errorf("user %s not found", rd.UserID))
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}

func (us *userService) UpdateProfile(ctx context.Context, update ProfileUpdate) (*types.User, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, apierr.Authorization(errors.New("no authenticated user"))
	}
	user, err := us.userRepo.GetByID(ctx, nil, rd.UserID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if name := strings.TrimSpace(update.FirstName); name != "" {
		user.FirstName = name
	}
	if name := strings.TrimSpace(update.LastName); name != "" {
		user.LastName = name
	}
	err = us.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return us.userRepo.Save(ctx, tx, user)
	})
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return user, nil
}

func (us *userService) UpdateAvatarImage(ctx context.Context, raw []byte) (*types.User, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, apierr.Authorization(errors.New("no authenticated user"))
	}
	user, err := us.userRepo.GetByID(ctx, nil, rd.UserID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	err = us.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if aErr := us.avatarService.CreateUserAvatarFromImage(ctx, tx, user, raw); aErr != nil {
			return aErr
		}
		return us.userRepo.Save(ctx, tx, user)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// ListUsers is the admin user directory.
func (us *userService) ListUsers(ctx context.Context) ([]types.User, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, apierr.Authorization(errors.New("no authenticated user"))
	}
	switch rd.Role {
	case types.RoleAdmin, types.RoleSuperAdmin:
		return us.userRepo.List(ctx, nil)
	default:
		return nil, apierr.Authorization(fmt.Errorf("role %s may not list users", rd.Role))
	}
}
