package handler

import (
	"net/http"

	"inkdrop-backend/internal/domains/notification/model"
	"inkdrop-backend/internal/domains/notification/service"
	"inkdrop-backend/internal/shared/middleware"
	"inkdrop-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type NotificationHandler struct {
	service service.ServiceInterface
}

func NewNotificationHandler(s service.ServiceInterface) *NotificationHandler {
	return &NotificationHandler{service: s}
}

// Mine handles GET /notifications
func (h *NotificationHandler) Mine(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		response.HandleError(c, model.ErrUnauthenticated)
		return
	}
	h.list(c, actor.UserID)
}

// ForUser handles GET /notifications/:userId
func (h *NotificationHandler) ForUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		response.HandleError(c, model.ErrInvalidID.WithField("userId"))
		return
	}
	h.list(c, userID)
}

func (h *NotificationHandler) list(c *gin.Context, userID uuid.UUID) {
	actor, _ := middleware.ActorFrom(c)
	items, err := h.service.List(c.Request.Context(), actor, userID)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, "Notifications retrieved successfully", items, &response.Meta{Total: len(items)})
}

// Create handles POST /notifications
func (h *NotificationHandler) Create(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		response.HandleError(c, model.ErrUnauthenticated)
		return
	}

	var req model.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	n, err := h.service.Create(c.Request.Context(), actor, req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Notification created", n)
}

// MarkAsRead handles PATCH /notifications/:id/read
func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		response.HandleError(c, model.ErrUnauthenticated)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.HandleError(c, model.ErrInvalidID)
		return
	}

	if err := h.service.MarkAsRead(c.Request.Context(), actor, id); err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Notification marked as read", nil)
}
