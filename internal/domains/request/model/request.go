package model

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
)

// Status is the lifecycle of a book request.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusApproved  Status = "Approved"
	StatusRejected  Status = "Rejected"
	StatusFulfilled Status = "Fulfilled"
)

// legacyStatus maps the older lower-case vocabulary onto the current one.
var legacyStatus = map[string]Status{
	"pending":   StatusPending,
	"approved":  StatusApproved,
	"rejected":  StatusRejected,
	"fulfilled": StatusFulfilled,
	"declined":  StatusRejected,
}

// ParseStatus accepts any casing of the current or legacy status names.
func ParseStatus(s string) (Status, error) {
	if st, ok := legacyStatus[strings.ToLower(strings.TrimSpace(s))]; ok {
		return st, nil
	}
	return "", ErrInvalidStatus
}

// Request is a user's ask for a book that is not in the library yet.
type Request struct {
	ID              uuid.UUID  `json:"id"`
	Title           string     `json:"title"`
	Author          string     `json:"author"`
	Category        string     `json:"category"`
	AdditionalNotes string     `json:"additionalNotes"`
	RequestedBy     uuid.UUID  `json:"requestedBy"`
	RequesterEmail  string     `json:"requesterEmail,omitempty"`
	Status          Status     `json:"status"`
	AdminNotes      string     `json:"adminNotes"`
	FulfilledBookID *uuid.UUID `json:"fulfilledBookId"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// ========================================
// DTOs
// ========================================

type CreateRequest struct {
	Title           string `json:"title"`
	Author          string `json:"author"`
	Category        string `json:"category"`
	AdditionalNotes string `json:"additionalNotes"`
}

func (r *CreateRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Author = strings.TrimSpace(r.Author)
	r.Category = strings.TrimSpace(r.Category)
	r.AdditionalNotes = strings.TrimSpace(r.AdditionalNotes)
}

func (r CreateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title,
			validation.Required.Error("Book title is required"),
			validation.RuneLength(0, 200).Error("Title cannot exceed 200 characters"),
		),
		validation.Field(&r.Author,
			validation.RuneLength(0, 100).Error("Author name cannot exceed 100 characters"),
		),
		validation.Field(&r.Category, validation.Required.Error("Category is required")),
		validation.Field(&r.AdditionalNotes,
			validation.RuneLength(0, 500).Error("Notes cannot exceed 500 characters"),
		),
	)
}

// UpdateRequest is the admin review of a request.
type UpdateRequest struct {
	Status          string  `json:"status"`
	AdminNotes      *string `json:"adminNotes"`
	FulfilledBookID *string `json:"fulfilledBookId"`
}

func (r UpdateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Status,
			validation.Required.Error("Status is required"),
			validation.By(func(v interface{}) error {
				_, err := ParseStatus(v.(string))
				if err != nil {
					return validation.NewError("validation_status", "Status must be Pending, Approved, Rejected or Fulfilled")
				}
				return nil
			}),
		),
		validation.Field(&r.AdminNotes,
			validation.RuneLength(0, 500).Error("Admin notes cannot exceed 500 characters"),
		),
		validation.Field(&r.FulfilledBookID, is.UUID.Error("Fulfilled book ID must be a valid UUID")),
	)
}

// ListFilter narrows the admin listing.
type ListFilter struct {
	Status *Status
}
