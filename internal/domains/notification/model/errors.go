package model

import "inkdrop-backend/internal/shared/errs"

var (
	ErrNotificationNotFound = errs.New(errs.KindNotFound, "NOTIFICATION_NOT_FOUND", "Notification not found")
	ErrInvalidID            = errs.New(errs.KindValidation, "INVALID_ID", "Invalid identifier").WithField("id")
	ErrUnauthenticated      = errs.New(errs.KindUnauthorized, "UNAUTHORIZED", "Authentication required")
	ErrForbidden            = errs.New(errs.KindForbidden, "FORBIDDEN", "You can only read your own notifications")
)
