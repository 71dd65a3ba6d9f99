package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/trainhub/trainhub-backend/internal/apierr"
	"github.com/trainhub/trainhub-backend/internal/logger"
	"github.com/trainhub/trainhub-backend/internal/repos"
	"github.com/trainhub/trainhub-backend/internal/requestdata"
	"github.com/trainhub/trainhub-backend/internal/types"
)

type CategoryInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsActive    *bool  `json:"is_active"`
}

type CategoryService interface {
	Create(ctx context.Context, input CategoryInput) (*types.Category, error)
	Update(ctx context.Context, id uuid.UUID, input CategoryInput) (*types.Category, error)
	List(ctx context.Context, activeOnly bool) ([]types.Category, error)
}

type categoryService struct {
	db           *gorm.DB
	log          *logger.Logger
	categoryRepo repos.CategoryRepo
}

func NewCategoryService(db *gorm.DB, log *logger.Logger, categoryRepo repos.CategoryRepo) CategoryService {
	return &categoryService{
		db:           db,
		log:          log.With("service", "CategoryService"),
		categoryRepo: categoryRepo,
	}
}

// Category management is admin-only; there is no per-category ownership.
func (cs *categoryService) requireAdmin(ctx context.Context) error {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return apierr.Authorization(errors.New("no authenticated user"))
	}
	switch rd.Role {
	case types.RoleAdmin, types.RoleSuperAdmin:
		return nil
	}
	return apierr.Authorization(fmt.Errorf("role %s may not manage categories", rd.Role))
}

func (cs *categoryService) Create(ctx context.Context, input CategoryInput) (*types.Category, error) {
	if err := cs.requireAdmin(ctx); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apierr.Validationf("category name is required")
	}
	row := &types.Category{
		ID:          uuid.New(),
		Name:        name,
		Description: input.Description,
		IsActive:    true,
	}
	if input.IsActive != nil {
		row.IsActive = *input.IsActive
	}
	err := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return cs.categoryRepo.Create(ctx, tx, row)
	})
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return row, nil
}

func (cs *categoryService) Update(ctx context.Context, id uuid.UUID, input CategoryInput) (*types.Category, error) {
	if err := cs.requireAdmin(ctx); err != nil {
		return nil, err
	}
	row, err := cs.categoryRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound(fmt.Errorf("category %s not found", id))
		}
		return nil, fmt.Errorf("load category: %w", err)
	}
	if name := strings.TrimSpace(input.Name); name != "" {
		row.Name = name
	}
	if input.Description != "" {
		row.Description = input.Description
	}
	if input.IsActive != nil {
		row.IsActive = *input.IsActive
	}
	err = cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return cs.categoryRepo.Save(ctx, tx, row)
	})
	if err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	return row, nil
}

func (cs *categoryService) List(ctx context.Context, activeOnly bool) ([]types.Category, error) {
	return cs.categoryRepo.List(ctx, nil, activeOnly)
}
