package model

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// Category is a named label grouping books. Books store the name, not the
// ID, so deleting a category never touches book rows.
type Category struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// CategoryWithCount is the listing shape.
type CategoryWithCount struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	BookCount int       `json:"bookCount"`
	Status    string    `json:"status"`
}

const StatusActive = "active"

// ========================================
// DTOs
// ========================================

type CreateCategoryRequest struct {
	Name string `json:"name"`
}

func (r CreateCategoryRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name,
			validation.Required.Error("Category name is required"),
			validation.Length(1, 100).Error("Category name must be at most 100 characters"),
		),
	)
}

// NormalizeName trims surrounding whitespace; names are otherwise kept as typed.
func NormalizeName(name string) string {
	return strings.TrimSpace(name)
}
