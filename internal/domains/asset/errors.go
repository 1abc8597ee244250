package asset

import (
	"errors"
	"fmt"
	"net/http"

	"inkdrop-backend/internal/shared/errs"

	"github.com/dustin/go-humanize"
)

var (
	ErrTooLarge     = errs.New(errs.KindTooLarge, "FILE_TOO_LARGE", "File too large. Max 50 MiB allowed.")
	ErrInvalidType  = errs.New(errs.KindValidation, "INVALID_FILE_TYPE", "Invalid file type")
	ErrMissingAsset = errs.New(errs.KindValidation, "MISSING_ASSET", "Asset is required")
	ErrInvalidURL   = errs.New(errs.KindValidation, "INVALID_ASSET_URL", "Asset URL must be an absolute http(s) URL")
	ErrBadForm      = errs.New(errs.KindValidation, "INVALID_FORM", "Malformed upload form")
)

// TooLarge returns ErrTooLarge with the limit in the message.
func TooLarge(maxBytes int64) *errs.Error {
	return ErrTooLarge.WithMessage(fmt.Sprintf("File too large. Max %s allowed.", humanize.IBytes(uint64(maxBytes))))
}

// FromTransportError maps a body read failure to a client error. Overflowing
// the request body cap is reported as too large, not as a generic failure.
func FromTransportError(err error, maxBytes int64) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return TooLarge(maxBytes).Wrap(err)
	}
	return ErrBadForm.Wrap(err)
}
