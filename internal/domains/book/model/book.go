package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DefaultCoverURL is served when a book has no cover of its own.
const DefaultCoverURL = "/images/default-book-cover.jpg"

// Book ties a title to its document and cover assets.
// FileBackend/FileObjectKey (and the cover pair) are empty when the asset is
// a foreign URL we did not store.
type Book struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Description string    `json:"description"`
	Category    string    `json:"category"`

	FileURL       string `json:"fileUrl"`
	FileBackend   string `json:"-"`
	FileObjectKey string `json:"-"`

	CoverImageURL     string  `json:"coverImageUrl"`
	CoverBackend      string  `json:"-"`
	CoverObjectKey    string  `json:"-"`
	CoverThumbnailURL *string `json:"coverThumbnailUrl,omitempty"`

	FileSize         int64      `json:"fileSize"`
	Pages            *int       `json:"pages,omitempty"`
	Tags             []string   `json:"tags"`
	DownloadCount    int64      `json:"downloadCount"`
	LastDownloadedAt *time.Time `json:"lastDownloadedAt"`
	UploadedBy       uuid.UUID  `json:"uploadedBy"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// AssetLocation is where one asset lives.
type AssetLocation struct {
	URL     string
	Backend string
	Key     string
}

func (b *Book) File() AssetLocation {
	return AssetLocation{URL: b.FileURL, Backend: b.FileBackend, Key: b.FileObjectKey}
}

func (b *Book) Cover() AssetLocation {
	return AssetLocation{URL: b.CoverImageURL, Backend: b.CoverBackend, Key: b.CoverObjectKey}
}

// FormattedFileSize renders the size the way the library pages show it.
func (b *Book) FormattedFileSize() string {
	switch {
	case b.FileSize < 1024:
		return fmt.Sprintf("%d bytes", b.FileSize)
	case b.FileSize < 1048576:
		return fmt.Sprintf("%.1f KB", float64(b.FileSize)/1024)
	default:
		return fmt.Sprintf("%.1f MB", float64(b.FileSize)/1048576)
	}
}

// BookResponse is the API shape of a book.
type BookResponse struct {
	Book
	FormattedFileSize string `json:"formattedFileSize"`
}

func (b *Book) ToResponse() BookResponse {
	return BookResponse{Book: *b, FormattedFileSize: b.FormattedFileSize()}
}

func ToResponses(books []Book) []BookResponse {
	out := make([]BookResponse, len(books))
	for i := range books {
		out[i] = books[i].ToResponse()
	}
	return out
}
