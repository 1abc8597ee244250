package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	bookModel "inkdrop-backend/internal/domains/book/model"
	"inkdrop-backend/internal/domains/request/repository"
	"inkdrop-backend/internal/domains/request/service"
	types "inkdrop-backend/internal/shared"
	"inkdrop-backend/internal/shared/middleware"
	"inkdrop-backend/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noBooks struct{}

func (noBooks) Get(context.Context, uuid.UUID) (*bookModel.Book, error) {
	return nil, bookModel.ErrBookNotFound
}

func TestRequestEndpoints(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := repository.NewMemoryRepository()
	h := NewRequestHandler(service.NewRequestService(repo, noBooks{}, nil))

	tokens := jwt.NewManager("test-secret", time.Hour)
	userToken, err := tokens.GenerateAccessToken(uuid.NewString(), "reader@inkdrop.test", types.RoleUser)
	require.NoError(t, err)
	adminToken, err := tokens.GenerateAccessToken(uuid.NewString(), "admin@inkdrop.test", types.RoleAdmin)
	require.NoError(t, err)

	r := gin.New()
	auth := r.Group("/", middleware.AuthMiddleware(tokens))
	auth.POST("/requests", h.Create)
	auth.GET("/requests/mine", h.Mine)
	admin := r.Group("/admin", middleware.AuthMiddleware(tokens), middleware.AdminMiddleware())
	admin.GET("/requests", h.List)
	admin.PATCH("/requests/:id", h.Update)

	call := func(method, path, token, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := call(http.MethodPost, "/requests", userToken, `{"title":"Dune","author":"Frank Herbert","category":"Fiction"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"status":"Pending"`)

	start := strings.Index(w.Body.String(), `"id":"`) + len(`"id":"`)
	id := w.Body.String()[start : start+36]

	w = call(http.MethodGet, "/requests/mine", userToken, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"title":"Dune"`)

	w = call(http.MethodGet, "/admin/requests", userToken, "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = call(http.MethodPatch, "/admin/requests/"+id, adminToken, `{"status":"Fulfilled"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "FULFILLED_BOOK_REQUIRED")

	w = call(http.MethodPatch, "/admin/requests/"+id, adminToken, `{"status":"declined","adminNotes":"Out of print"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"Rejected"`)

	w = call(http.MethodGet, "/admin/requests?status=Rejected", adminToken, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":1`)
}
