package model

import "inkdrop-backend/internal/shared/errs"

var (
	ErrCategoryNotFound = errs.New(errs.KindNotFound, "CATEGORY_NOT_FOUND", "Category not found")
	ErrCategoryExists   = errs.New(errs.KindConflict, "CATEGORY_EXISTS", "Category already exists")
	ErrInvalidID        = errs.New(errs.KindValidation, "INVALID_ID", "Invalid category id").WithField("id")
)
