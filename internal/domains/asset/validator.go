package asset

import (
	"fmt"
	"path"
	"regexp"
	"strings"

	"inkdrop-backend/internal/infrastructure/storage"
	"inkdrop-backend/internal/shared/errs"
	"inkdrop-backend/internal/shared/utils"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

var httpURL = regexp.MustCompile(`(?i)^https?://[^/?#\s]+`)

// Validator accepts or rejects an UploadForm. It never touches storage.
type Validator struct {
	maxBytes int64
}

func NewValidator(maxBytes int64) *Validator {
	return &Validator{maxBytes: maxBytes}
}

func (v *Validator) MaxBytes() int64 {
	return v.maxBytes
}

// textFields mirrors the book schema limits so an oversized title is
// rejected before any asset is stored.
type textFields struct {
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	Category    string  `json:"category"`
	Description *string `json:"description"`
}

func (t textFields) Validate() error {
	return validation.ValidateStruct(&t,
		validation.Field(&t.Title,
			validation.Required.Error("title is required"),
			validation.RuneLength(0, 200).Error("Title cannot exceed 200 characters"),
		),
		validation.Field(&t.Author,
			validation.Required.Error("author is required"),
			validation.RuneLength(0, 100).Error("Author name cannot exceed 100 characters"),
		),
		validation.Field(&t.Category,
			validation.Required.Error("category is required"),
			validation.RuneLength(0, 100).Error("Category cannot exceed 100 characters"),
		),
		// Present but possibly empty.
		validation.Field(&t.Description,
			validation.NotNil.Error("description is required"),
			validation.RuneLength(0, 1000).Error("Description cannot exceed 1000 characters"),
		),
	)
}

// Validate checks the text fields, then each asset source.
func (v *Validator) Validate(form UploadForm) (*Upload, error) {
	text := textFields{
		Title:    strings.TrimSpace(form.Title),
		Author:   strings.TrimSpace(form.Author),
		Category: strings.TrimSpace(form.Category),
	}
	if form.Description != nil {
		d := strings.TrimSpace(*form.Description)
		text.Description = &d
	}
	if err := text.Validate(); err != nil {
		return nil, errs.FromValidation(err)
	}

	cover, err := v.source(FieldCover, form.Cover, form.CoverURL)
	if err != nil {
		return nil, err
	}
	doc, err := v.source(FieldPDF, form.PDF, form.PDFURL)
	if err != nil {
		return nil, err
	}

	return &Upload{
		Title:       text.Title,
		Author:      text.Author,
		Category:    text.Category,
		Description: *text.Description,
		Tags:        utils.SplitTags(form.Tags),
		Cover:       cover,
		Document:    doc,
	}, nil
}

// source picks the file part when present, else the URL.
func (v *Validator) source(field string, part *FilePart, rawURL string) (storage.Source, error) {
	if part != nil {
		if err := v.checkFile(field, part); err != nil {
			return nil, err
		}
		return storage.LocalFile{Data: part.Data, Name: part.Filename, MimeType: part.ContentType}, nil
	}

	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, ErrMissingAsset.WithField(field).WithMessage(missingMessage(field))
	}
	if err := checkURL(field, rawURL); err != nil {
		return nil, err
	}
	return storage.RemoteURL{URL: rawURL}, nil
}

func (v *Validator) checkFile(field string, part *FilePart) error {
	ext := strings.ToLower(path.Ext(part.Filename))
	if err := validation.Validate(ext, validation.Required, oneOf(AllowedExtensions(field))); err != nil {
		return ErrInvalidType.WithField(field).WithMessage("Invalid file type for " + field)
	}

	size := part.Size
	if int64(len(part.Data)) > size {
		size = int64(len(part.Data))
	}
	if v.maxBytes > 0 {
		if err := validation.Validate(size, validation.Max(v.maxBytes)); err != nil {
			return TooLarge(v.maxBytes).WithField(field)
		}
	}
	if err := validation.Validate(size, validation.Required); err != nil {
		return ErrMissingAsset.WithField(field).WithMessage(fmt.Sprintf("Uploaded %s file is empty", field))
	}
	return nil
}

// checkURL accepts absolute http(s) URLs. Document URLs must also carry an
// allowed extension since the book record requires one.
func checkURL(field, rawURL string) error {
	if err := validation.Validate(rawURL, is.RequestURL, validation.Match(httpURL)); err != nil {
		return ErrInvalidURL.WithField(field + "Url")
	}
	if field != FieldPDF {
		return nil
	}
	ext := storage.URLExtension(rawURL)
	if err := validation.Validate(ext, validation.Required, oneOf(documentExtensions)); err != nil {
		return ErrInvalidType.WithField(field + "Url").WithMessage("Invalid file type for " + field)
	}
	return nil
}

func oneOf(values []string) validation.Rule {
	in := make([]interface{}, len(values))
	for i, v := range values {
		in[i] = v
	}
	return validation.In(in...)
}

func missingMessage(field string) string {
	if field == FieldCover {
		return "Cover image file or coverUrl is required"
	}
	return "PDF file or pdfUrl is required"
}
