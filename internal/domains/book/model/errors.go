package model

import "inkdrop-backend/internal/shared/errs"

var (
	ErrBookNotFound    = errs.New(errs.KindNotFound, "BOOK_NOT_FOUND", "Book not found")
	ErrInvalidID       = errs.New(errs.KindValidation, "INVALID_ID", "Invalid book identifier").WithField("id")
	ErrUnauthenticated = errs.New(errs.KindUnauthorized, "UPLOADER_REQUIRED", "Authentication required to upload books")
)
