package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"inkdrop-backend/internal/domains/category/repository"
	"inkdrop-backend/internal/domains/category/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewCategoryHandler(service.NewCategoryService(repository.NewMemoryRepository(nil), nil))

	r := gin.New()
	r.GET("/categories", h.List)
	r.POST("/categories", h.Create)
	r.DELETE("/categories/:id", h.Delete)
	return r
}

func send(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCategoryEndpoints(t *testing.T) {
	r := newRouter()

	w := send(r, http.MethodPost, "/categories", `{"name":"History"}`)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = send(r, http.MethodPost, "/categories", `{"name":"History"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "CATEGORY_EXISTS")

	w = send(r, http.MethodGet, "/categories", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"History"`)
	assert.Contains(t, w.Body.String(), `"status":"active"`)

	w = send(r, http.MethodDelete, "/categories/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = send(r, http.MethodDelete, "/categories/550e8400-e29b-41d4-a716-446655440000", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
