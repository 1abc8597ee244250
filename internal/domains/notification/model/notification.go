package model

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// ================================================
// NOTIFICATION ENTITY
// ================================================

type Notification struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"userId"`
	Type      string     `json:"type"`
	Message   string     `json:"message"`
	IsRead    bool       `json:"isRead"`
	ReadAt    *time.Time `json:"readAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

const (
	TypeInfo    = "info"
	TypeSuccess = "success"
	TypeWarning = "warning"
	TypeError   = "error"
)

// ListLimit caps how many notifications one listing returns.
const ListLimit = 50

// ================================================
// DTOs
// ================================================

type CreateRequest struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// Normalize trims the message and defaults the type to info.
func (r *CreateRequest) Normalize() {
	r.Message = strings.TrimSpace(r.Message)
	r.Type = strings.ToLower(strings.TrimSpace(r.Type))
	if r.Type == "" {
		r.Type = TypeInfo
	}
}

func (r CreateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Message,
			validation.Required.Error("Message is required"),
			validation.RuneLength(0, 500).Error("Message cannot exceed 500 characters"),
		),
		validation.Field(&r.Type,
			validation.In(TypeInfo, TypeSuccess, TypeWarning, TypeError).Error("Type must be info, success, warning or error"),
		),
	)
}
