package model

import (
	"time"

	bookModel "inkdrop-backend/internal/domains/book/model"
	"inkdrop-backend/internal/shared/errs"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
)

// Download records that a user obtained a book. There is at most one per
// (user, book) pair.
type Download struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	BookID    uuid.UUID `json:"bookId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DownloadWithBook is a user's download joined with its book.
type DownloadWithBook struct {
	Download
	Book bookModel.BookResponse `json:"book"`
}

// RecentLog is one row of the system-wide download log.
type RecentLog struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"userId"`
	UserEmail  string    `json:"userEmail"`
	BookID     uuid.UUID `json:"bookId"`
	BookTitle  string    `json:"bookTitle"`
	BookAuthor string    `json:"bookAuthor"`
	CreatedAt  time.Time `json:"createdAt"`
}

type RecordRequest struct {
	BookID string `json:"bookId"`
}

func (r RecordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.BookID,
			validation.Required.Error("Book ID is required"),
			is.UUID.Error("Book ID must be a valid UUID"),
		),
	)
}

const (
	DefaultLogLimit = 100
	MaxLogLimit     = 500
)

var (
	ErrUnauthenticated = errs.New(errs.KindUnauthorized, "UNAUTHORIZED", "Authentication required")
	ErrInvalidBookID   = errs.New(errs.KindValidation, "INVALID_BOOK_ID", "Invalid book ID").WithField("bookId")
)
