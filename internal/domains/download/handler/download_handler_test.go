package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	bookModel "inkdrop-backend/internal/domains/book/model"
	bookRepo "inkdrop-backend/internal/domains/book/repository"
	"inkdrop-backend/internal/domains/download/repository"
	"inkdrop-backend/internal/domains/download/service"
	types "inkdrop-backend/internal/shared"
	"inkdrop-backend/internal/shared/middleware"
	"inkdrop-backend/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type books struct {
	repo *bookRepo.MemoryRepository
}

func (b books) Get(ctx context.Context, id uuid.UUID) (*bookModel.Book, error) {
	return b.repo.GetByID(ctx, id)
}

func (books) Invalidate(context.Context, uuid.UUID) {}

func setup(t *testing.T) (*gin.Engine, string, *bookModel.Book) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := bookRepo.NewMemoryRepository()
	book := &bookModel.Book{
		ID:            uuid.New(),
		Title:         "Sapiens",
		Author:        "Harari",
		Category:      "History",
		FileURL:       "https://files.example.org/sapiens.pdf",
		CoverImageURL: bookModel.DefaultCoverURL,
		FileSize:      10,
		UploadedBy:    uuid.New(),
	}
	require.NoError(t, repo.Create(context.Background(), book))

	h := NewDownloadHandler(service.NewDownloadService(repository.NewMemoryRepository(repo), books{repo}))
	tokens := jwt.NewManager("test-secret", time.Hour)
	token, err := tokens.GenerateAccessToken(uuid.NewString(), "reader@inkdrop.test", types.RoleUser)
	require.NoError(t, err)

	r := gin.New()
	auth := r.Group("/", middleware.AuthMiddleware(tokens))
	auth.POST("/downloads", h.RecordDownload)
	auth.GET("/downloads/mine", h.MyDownloads)
	auth.GET("/books/:id/download", h.DownloadBook)
	return r, token, book
}

func call(r http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRecordDownloadEndpoint(t *testing.T) {
	r, token, book := setup(t)
	body := `{"bookId":"` + book.ID.String() + `"}`

	w := call(r, http.MethodPost, "/downloads", token, body)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = call(r, http.MethodPost, "/downloads", token, body)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Book already downloaded")

	w = call(r, http.MethodGet, "/downloads/mine", token, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"title":"Sapiens"`)
	assert.Contains(t, w.Body.String(), `"downloadCount":1`)
}

func TestRecordDownloadValidation(t *testing.T) {
	r, token, _ := setup(t)

	w := call(r, http.MethodPost, "/downloads", token, `{"bookId":"nope"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"field":"bookId"`)

	w = call(r, http.MethodPost, "/downloads", token, `{"bookId":"`+uuid.NewString()+`"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = call(r, http.MethodPost, "/downloads", "", `{}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDownloadBookRedirects(t *testing.T) {
	r, token, book := setup(t)

	w := call(r, http.MethodGet, "/books/"+book.ID.String()+"/download", token, "")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, book.FileURL, w.Header().Get("Location"))
}
