package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/trainhub/trainhub-backend/internal/services"
)

type DashboardHandler struct {
	dashboardService services.DashboardService
}

func NewDashboardHandler(dashboardService services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

func (dh *DashboardHandler) Stats(c *gin.Context) {
	stats, err := dh.dashboardService.Stats(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, stats)
}
