package handler

import (
	"net/http"

	"inkdrop-backend/internal/domains/dashboard/service"
	"inkdrop-backend/internal/shared/middleware"
	"inkdrop-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	service service.ServiceInterface
}

func NewDashboardHandler(s service.ServiceInterface) *DashboardHandler {
	return &DashboardHandler{service: s}
}

// Admin handles GET /admin/dashboard
func (h *DashboardHandler) Admin(c *gin.Context) {
	stats, err := h.service.AdminStats(c.Request.Context())
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Dashboard retrieved successfully", stats)
}

// User handles GET /dashboard
func (h *DashboardHandler) User(c *gin.Context) {
	actor, _ := middleware.ActorFrom(c)

	d, err := h.service.UserDashboard(c.Request.Context(), actor)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Dashboard retrieved successfully", d)
}
