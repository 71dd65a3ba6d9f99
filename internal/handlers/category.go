package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/trainhub/trainhub-backend/internal/apierr"
	"github.com/trainhub/trainhub-backend/internal/services"
)

type CategoryHandler struct {
	categoryService services.CategoryService
}

func NewCategoryHandler(categoryService services.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

func (ch *CategoryHandler) Create(c *gin.Context) {
	var req services.CategoryInput
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.Validationf("invalid request body"))
		return
	}
	category, err := ch.categoryService.Create(c.Request.Context(), req)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"category": category})
}

func (ch *CategoryHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req services.CategoryInput
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.Validationf("invalid request body"))
		return
	}
	category, err := ch.categoryService.Update(c.Request.Context(), id, req)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"category": category})
}

func (ch *CategoryHandler) List(c *gin.Context) {
	activeOnly := c.Query("all") != "true"
	categories, err := ch.categoryService.List(c.Request.Context(), activeOnly)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"categories": categories})
}
