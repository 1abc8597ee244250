package model

import "inkdrop-backend/internal/shared/errs"

var (
	ErrUserNotFound       = errs.New(errs.KindNotFound, "USER_NOT_FOUND", "User not found")
	ErrEmailAlreadyExists = errs.New(errs.KindConflict, "EMAIL_EXISTS", "Email already registered")
	ErrInvalidCredentials = errs.New(errs.KindUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
	ErrWrongPassword      = errs.New(errs.KindUnauthorized, "WRONG_PASSWORD", "Current password is incorrect").WithField("currentPassword")
	ErrSamePassword       = errs.New(errs.KindValidation, "SAME_PASSWORD", "New password must be different from the current one").WithField("newPassword")
	ErrAccountHasBooks    = errs.New(errs.KindConflict, "ACCOUNT_HAS_BOOKS", "Account still owns uploaded books; remove them first")
)
