package model

import "inkdrop-backend/internal/shared/errs"

var (
	ErrRequestNotFound  = errs.New(errs.KindNotFound, "REQUEST_NOT_FOUND", "Request not found")
	ErrInvalidID        = errs.New(errs.KindValidation, "INVALID_ID", "Invalid request id").WithField("id")
	ErrInvalidStatus    = errs.New(errs.KindValidation, "INVALID_STATUS", "Invalid request status").WithField("status")
	ErrUnauthenticated  = errs.New(errs.KindUnauthorized, "UNAUTHORIZED", "Authentication required")
	ErrFulfilledNoBook  = errs.New(errs.KindValidation, "FULFILLED_BOOK_REQUIRED", "A fulfilled request must reference a book").WithField("fulfilledBookId")
	ErrInvalidBookID    = errs.New(errs.KindValidation, "INVALID_BOOK_ID", "Fulfilled book ID must be a valid UUID").WithField("fulfilledBookId")
	ErrFulfilledUnknown = errs.New(errs.KindValidation, "FULFILLED_BOOK_NOT_FOUND", "Fulfilled book does not exist").WithField("fulfilledBookId")
)
