package handler

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"inkdrop-backend/internal/domains/asset"
	"inkdrop-backend/internal/domains/book/model"
	"inkdrop-backend/internal/domains/book/service"
	"inkdrop-backend/internal/shared/middleware"
	"inkdrop-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type BookHandler struct {
	service   service.ServiceInterface
	validator *asset.Validator
}

func NewBookHandler(s service.ServiceInterface, validator *asset.Validator) *BookHandler {
	return &BookHandler{service: s, validator: validator}
}

// ListBooks handles GET /books
// Query: category, title, author, q
func (h *BookHandler) ListBooks(c *gin.Context) {
	books, err := h.service.List(c.Request.Context(), filterFromQuery(c))
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, "Books retrieved successfully",
		model.ToResponses(books), &response.Meta{Total: len(books)})
}

// GetBook handles GET /books/:id
func (h *BookHandler) GetBook(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.HandleError(c, model.ErrInvalidID)
		return
	}

	b, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Book retrieved successfully", b.ToResponse())
}

// MyBooks handles GET /books/mine
func (h *BookHandler) MyBooks(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	filter := filterFromQuery(c)
	filter.UploadedBy = &actor.UserID
	books, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, "Books retrieved successfully",
		model.ToResponses(books), &response.Meta{Total: len(books)})
}

// ExportBooks handles GET /admin/books/export
func (h *BookHandler) ExportBooks(c *gin.Context) {
	f, err := h.service.ExportToExcel(c.Request.Context(), filterFromQuery(c))
	if err != nil {
		response.HandleError(c, err)
		return
	}
	defer f.Close()

	filename := fmt.Sprintf("books_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Status(http.StatusOK)
	if err := f.Write(c.Writer); err != nil {
		log.Error().Err(err).Msg("Failed to write export")
	}
}

// UploadBook handles POST /admin/upload (multipart/form-data)
func (h *BookHandler) UploadBook(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		response.HandleError(c, model.ErrUnauthenticated)
		return
	}

	form, err := h.readForm(c)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	upload, err := h.validator.Validate(*form)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	b, err := h.service.Ingest(c.Request.Context(), actor, upload)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Book uploaded successfully", b.ToResponse())
}

// DeleteBook handles DELETE /admin/books/:id
func (h *BookHandler) DeleteBook(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.HandleError(c, model.ErrInvalidID)
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Book deleted successfully", nil)
}

// readForm parses the multipart body into an asset.UploadForm.
func (h *BookHandler) readForm(c *gin.Context) (*asset.UploadForm, error) {
	mf, err := c.MultipartForm()
	if err != nil {
		return nil, asset.FromTransportError(err, h.validator.MaxBytes())
	}

	value := func(name string) string {
		if vs := mf.Value[name]; len(vs) > 0 {
			return vs[0]
		}
		return ""
	}

	form := &asset.UploadForm{
		Title:    value("title"),
		Author:   value("author"),
		Category: value("category"),
		Tags:     value("tags"),
		CoverURL: value("coverUrl"),
		PDFURL:   value("pdfUrl"),
	}
	if vs, ok := mf.Value["description"]; ok && len(vs) > 0 {
		desc := vs[0]
		form.Description = &desc
	}

	if form.Cover, err = h.readPart(mf, asset.FieldCover); err != nil {
		return nil, err
	}
	if form.PDF, err = h.readPart(mf, asset.FieldPDF); err != nil {
		return nil, err
	}
	return form, nil
}

// readPart loads one file part into memory. Oversized parts are returned
// without data so the validator reports them.
func (h *BookHandler) readPart(mf *multipart.Form, field string) (*asset.FilePart, error) {
	headers := mf.File[field]
	if len(headers) == 0 {
		return nil, nil
	}
	fh := headers[0]

	part := &asset.FilePart{
		Filename:    fh.Filename,
		Size:        fh.Size,
		ContentType: strings.TrimSpace(fh.Header.Get("Content-Type")),
	}
	if limit := h.validator.MaxBytes(); limit > 0 && fh.Size > limit {
		return part, nil
	}

	f, err := fh.Open()
	if err != nil {
		return nil, asset.ErrBadForm.Wrap(err)
	}
	defer f.Close()

	if part.Data, err = io.ReadAll(f); err != nil {
		return nil, asset.FromTransportError(err, h.validator.MaxBytes())
	}
	return part, nil
}

func filterFromQuery(c *gin.Context) model.ListFilter {
	return model.ListFilter{
		Category: strings.TrimSpace(c.Query("category")),
		Title:    strings.TrimSpace(c.Query("title")),
		Author:   strings.TrimSpace(c.Query("author")),
		Query:    strings.TrimSpace(c.Query("q")),
	}
}
