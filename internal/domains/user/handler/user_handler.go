package handler

import (
	"net/http"

	"inkdrop-backend/internal/domains/user/model"
	"inkdrop-backend/internal/domains/user/service"
	"inkdrop-backend/internal/shared/middleware"
	"inkdrop-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
)

// UserHandler serves the auth endpoints and the current-user profile.
type UserHandler struct {
	service service.ServiceInterface
}

func NewUserHandler(s service.ServiceInterface) *UserHandler {
	return &UserHandler{service: s}
}

// ========================================
// AUTHENTICATION ENDPOINTS
// ========================================

// Register handles POST /auth/register
func (h *UserHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	c.Header("Location", "/api/v1/users/"+user.ID.String())
	response.Success(c, http.StatusCreated, "User registered successfully", user)
}

// Login handles POST /auth/login
func (h *UserHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	resp, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Login successful", resp)
}

// Me handles GET /users/me
func (h *UserHandler) Me(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	user, err := h.service.GetByID(c.Request.Context(), actor.UserID)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Profile retrieved successfully", user)
}

// ========================================
// ACCOUNT ENDPOINTS
// ========================================

// UpdateEmail handles PATCH /users/update-email
func (h *UserHandler) UpdateEmail(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	var req model.UpdateEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.service.UpdateEmail(c.Request.Context(), actor.UserID, req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Email updated", user)
}

// ChangePassword handles PATCH /users/update-password
func (h *UserHandler) ChangePassword(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	var req model.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.service.ChangePassword(c.Request.Context(), actor.UserID, req); err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Password updated", nil)
}

// DeleteAccount handles DELETE /users/delete-account
func (h *UserHandler) DeleteAccount(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	if err := h.service.DeleteAccount(c.Request.Context(), actor.UserID); err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Account deleted", nil)
}
