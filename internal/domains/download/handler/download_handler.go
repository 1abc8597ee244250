package handler

import (
	"net/http"
	"strconv"

	bookModel "inkdrop-backend/internal/domains/book/model"
	"inkdrop-backend/internal/domains/download/model"
	"inkdrop-backend/internal/domains/download/service"
	"inkdrop-backend/internal/shared/errs"
	"inkdrop-backend/internal/shared/middleware"
	"inkdrop-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type DownloadHandler struct {
	service service.ServiceInterface
}

func NewDownloadHandler(s service.ServiceInterface) *DownloadHandler {
	return &DownloadHandler{service: s}
}

// RecordDownload handles POST /downloads
func (h *DownloadHandler) RecordDownload(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		response.HandleError(c, model.ErrUnauthenticated)
		return
	}

	var req model.RecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(c, errs.FromValidation(err))
		return
	}

	d, created, err := h.service.Record(c.Request.Context(), actor, uuid.MustParse(req.BookID))
	if err != nil {
		response.HandleError(c, err)
		return
	}

	if !created {
		response.Success(c, http.StatusOK, "Book already downloaded", d)
		return
	}
	response.Success(c, http.StatusCreated, "Download recorded successfully", d)
}

// DownloadBook handles GET /books/:id/download
func (h *DownloadHandler) DownloadBook(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		response.HandleError(c, model.ErrUnauthenticated)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.HandleError(c, bookModel.ErrInvalidID)
		return
	}

	b, err := h.service.Fetch(c.Request.Context(), actor, id)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	c.Redirect(http.StatusFound, b.FileURL)
}

// MyDownloads handles GET /downloads/mine
func (h *DownloadHandler) MyDownloads(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		response.HandleError(c, model.ErrUnauthenticated)
		return
	}

	items, err := h.service.ListMine(c.Request.Context(), actor)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, "Downloads retrieved successfully", items, &response.Meta{Total: len(items)})
}

// Logs handles GET /admin/downloads/logs?limit=100
func (h *DownloadHandler) Logs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(model.DefaultLogLimit)))

	logs, err := h.service.RecentLogs(c.Request.Context(), limit)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Download logs retrieved successfully", logs)
}
