package model

import (
	"strings"

	"inkdrop-backend/internal/infrastructure/storage"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// CreateBookInput is a book whose assets are already stored.
type CreateBookInput struct {
	Title       string   `json:"title"`
	Author      string   `json:"author"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	FileSize    int64    `json:"fileSize"`
	Pages       *int     `json:"pages"`

	File  AssetLocation `json:"-"`
	Cover AssetLocation `json:"-"`
}

// Validate applies the book schema rules.
func (in CreateBookInput) Validate() error {
	// ozzo only validates direct fields, so the URL is lifted into a mirror.
	v := struct {
		CreateBookInput
		FileURL string `json:"fileUrl"`
	}{CreateBookInput: in, FileURL: in.File.URL}

	return validation.ValidateStruct(&v,
		validation.Field(&v.Title,
			validation.Required.Error("Book title is required"),
			validation.RuneLength(0, 200).Error("Title cannot exceed 200 characters"),
		),
		validation.Field(&v.Author,
			validation.Required.Error("Author name is required"),
			validation.RuneLength(0, 100).Error("Author name cannot exceed 100 characters"),
		),
		validation.Field(&v.Description,
			validation.RuneLength(0, 1000).Error("Description cannot exceed 1000 characters"),
		),
		validation.Field(&v.Category,
			validation.Required.Error("Category is required"),
			validation.RuneLength(0, 100).Error("Category cannot exceed 100 characters"),
		),
		validation.Field(&v.Tags,
			validation.Each(validation.RuneLength(0, 30).Error("Tag cannot exceed 30 characters")),
		),
		validation.Field(&v.FileURL,
			validation.Required.Error("File URL is required"),
			validation.By(isDocumentURL),
		),
		validation.Field(&v.FileSize,
			validation.Min(int64(1)).Error("File size must be at least 1 byte"),
		),
		validation.Field(&v.Pages,
			validation.When(v.Pages != nil, validation.Min(1).Error("Book must have at least 1 page")),
		),
	)
}

// isDocumentURL requires a .pdf or .epub path, ignoring any query string.
func isDocumentURL(value interface{}) error {
	raw, _ := value.(string)
	if raw == "" {
		return nil
	}
	switch storage.URLExtension(raw) {
	case ".pdf", ".epub":
		return nil
	}
	return validation.NewError("validation_document_url", raw+" is not a valid PDF or EPUB file URL")
}

// Normalize trims the text fields and fills defaults.
func (in *CreateBookInput) Normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Author = strings.TrimSpace(in.Author)
	in.Description = strings.TrimSpace(in.Description)
	in.Category = strings.TrimSpace(in.Category)
	if in.Cover.URL == "" {
		in.Cover = AssetLocation{URL: DefaultCoverURL}
	}
	if in.Tags == nil {
		in.Tags = []string{}
	}
}

// ListFilter narrows book listings. String filters are case-insensitive
// substring matches; Query matches title, author or description.
type ListFilter struct {
	UploadedBy *uuid.UUID
	Category   string
	Title      string
	Author     string
	Query      string
}

// AssetUpdate rewrites asset fields; nil members are left unchanged.
type AssetUpdate struct {
	File     *AssetLocation
	Cover    *AssetLocation
	FileSize *int64
}

func (u AssetUpdate) Empty() bool {
	return u.File == nil && u.Cover == nil && u.FileSize == nil
}
