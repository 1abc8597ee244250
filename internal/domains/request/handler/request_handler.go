package handler

import (
	"net/http"

	"inkdrop-backend/internal/domains/request/model"
	"inkdrop-backend/internal/domains/request/service"
	"inkdrop-backend/internal/shared/middleware"
	"inkdrop-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type RequestHandler struct {
	service service.ServiceInterface
}

func NewRequestHandler(s service.ServiceInterface) *RequestHandler {
	return &RequestHandler{service: s}
}

// Create handles POST /requests
func (h *RequestHandler) Create(c *gin.Context) {
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

	created, err := h.service.Create(c.Request.Context(), actor, req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Book request submitted successfully", created)
}

// Mine handles GET /requests/mine
func (h *RequestHandler) Mine(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		response.HandleError(c, model.ErrUnauthenticated)
		return
	}

	requests, err := h.service.ListMine(c.Request.Context(), actor)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Requests retrieved successfully", requests)
}

// List handles GET /admin/requests?status=Pending
func (h *RequestHandler) List(c *gin.Context) {
	requests, err := h.service.ListAll(c.Request.Context(), c.Query("status"))
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, "Requests retrieved successfully", requests, &response.Meta{Total: len(requests)})
}

// Update handles PATCH /admin/requests/:id
func (h *RequestHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.HandleError(c, model.ErrInvalidID)
		return
	}

	var req model.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	updated, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Request updated successfully", updated)
}
