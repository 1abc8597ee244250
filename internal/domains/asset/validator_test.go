package asset

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"inkdrop-backend/internal/infrastructure/storage"
	"inkdrop-backend/internal/shared/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const maxBytes = 50 << 20

func strPtr(s string) *string { return &s }

func validForm() UploadForm {
	return UploadForm{
		Title:       "Sapiens",
		Author:      "Harari",
		Category:    "History",
		Description: strPtr("A brief history"),
		Tags:        "history, anthropology",
		Cover:       &FilePart{Filename: "cover.png", Size: 3, Data: []byte("png")},
		PDF:         &FilePart{Filename: "sapiens.pdf", Size: 4, Data: []byte("%PDF")},
	}
}

func fieldOf(t *testing.T, err error) string {
	t.Helper()
	appErr, ok := errs.As(err)
	require.True(t, ok, "expected *errs.Error, got %v", err)
	return appErr.Field
}

func TestValidateAcceptsFiles(t *testing.T) {
	up, err := NewValidator(maxBytes).Validate(validForm())
	require.NoError(t, err)

	assert.Equal(t, "Sapiens", up.Title)
	assert.Equal(t, []string{"history", "anthropology"}, up.Tags)

	cover, ok := up.Cover.(storage.LocalFile)
	require.True(t, ok)
	assert.Equal(t, "cover.png", cover.Name)

	_, ok = up.Document.(storage.LocalFile)
	assert.True(t, ok)
}

func TestValidateAcceptsURLs(t *testing.T) {
	form := validForm()
	form.Cover, form.PDF = nil, nil
	form.CoverURL = "https://img.example.org/covers/sapiens"
	form.PDFURL = "https://books.example.org/sapiens.PDF?dl=1"

	up, err := NewValidator(maxBytes).Validate(form)
	require.NoError(t, err)

	assert.Equal(t, storage.RemoteURL{URL: "https://img.example.org/covers/sapiens"}, up.Cover)
	assert.Equal(t, storage.RemoteURL{URL: "https://books.example.org/sapiens.PDF?dl=1"}, up.Document)
}

func TestValidateFilePartWinsOverURL(t *testing.T) {
	form := validForm()
	form.PDFURL = "https://books.example.org/other.pdf"

	up, err := NewValidator(maxBytes).Validate(form)
	require.NoError(t, err)
	_, ok := up.Document.(storage.LocalFile)
	assert.True(t, ok)
}

func TestValidateMissingAssetNamesField(t *testing.T) {
	form := validForm()
	form.PDF = nil
	_, err := NewValidator(maxBytes).Validate(form)
	assert.ErrorIs(t, err, ErrMissingAsset)
	assert.Equal(t, FieldPDF, fieldOf(t, err))

	form = validForm()
	form.Cover = nil
	_, err = NewValidator(maxBytes).Validate(form)
	assert.ErrorIs(t, err, ErrMissingAsset)
	assert.Equal(t, FieldCover, fieldOf(t, err))
}

func TestValidateRejectsExtensions(t *testing.T) {
	cases := []struct {
		name  string
		mut   func(*UploadForm)
		field string
	}{
		{"gif cover", func(f *UploadForm) { f.Cover.Filename = "cover.gif" }, FieldCover},
		{"pdf as cover", func(f *UploadForm) { f.Cover.Filename = "cover.pdf" }, FieldCover},
		{"docx document", func(f *UploadForm) { f.PDF.Filename = "book.docx" }, FieldPDF},
		{"no extension", func(f *UploadForm) { f.PDF.Filename = "book" }, FieldPDF},
		{"image as document", func(f *UploadForm) { f.PDF.Filename = "book.png" }, FieldPDF},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			form := validForm()
			tc.mut(&form)

			_, err := NewValidator(maxBytes).Validate(form)
			require.ErrorIs(t, err, ErrInvalidType)
			assert.Equal(t, tc.field, fieldOf(t, err))
			assert.Contains(t, err.Error(), "Invalid file type for "+tc.field)
		})
	}
}

func TestValidateAcceptsUppercaseExtensions(t *testing.T) {
	form := validForm()
	form.Cover.Filename = "COVER.JPEG"
	form.PDF.Filename = "Book.EPUB"

	_, err := NewValidator(maxBytes).Validate(form)
	assert.NoError(t, err)
}

func TestValidateRejectsDocumentURLWithoutExtension(t *testing.T) {
	form := validForm()
	form.PDF = nil
	form.PDFURL = "https://books.example.org/download?id=3"

	_, err := NewValidator(maxBytes).Validate(form)
	assert.ErrorIs(t, err, ErrInvalidType)
}

func TestValidateRejectsRelativeURL(t *testing.T) {
	form := validForm()
	form.Cover = nil
	form.CoverURL = "covers/x.png"

	_, err := NewValidator(maxBytes).Validate(form)
	assert.ErrorIs(t, err, ErrInvalidURL)
}

func TestValidateTooLarge(t *testing.T) {
	form := validForm()
	form.PDF.Size = maxBytes + 1

	_, err := NewValidator(maxBytes).Validate(form)
	require.ErrorIs(t, err, ErrTooLarge)
	assert.Equal(t, errs.KindTooLarge, errs.KindOf(err))
	assert.Contains(t, err.Error(), "File too large. Max 50 MiB allowed.")
}

func TestTooLargeMessageBelowOneMiB(t *testing.T) {
	form := validForm()
	form.PDF.Size = 600 << 10

	_, err := NewValidator(512 << 10).Validate(form)
	require.ErrorIs(t, err, ErrTooLarge)
	assert.Contains(t, err.Error(), "Max 512 KiB allowed.")
	assert.Contains(t, TooLarge(1500).Error(), "Max 1.5 KiB allowed.")
}

func TestValidateSchemaLengthsBeforeStorage(t *testing.T) {
	cases := []struct {
		field string
		mut   func(*UploadForm)
	}{
		{"title", func(f *UploadForm) { f.Title = strings.Repeat("t", 201) }},
		{"author", func(f *UploadForm) { f.Author = strings.Repeat("a", 101) }},
		{"category", func(f *UploadForm) { f.Category = strings.Repeat("c", 101) }},
		{"description", func(f *UploadForm) { f.Description = strPtr(strings.Repeat("d", 1001)) }},
	}
	for _, tc := range cases {
		t.Run(tc.field, func(t *testing.T) {
			form := validForm()
			tc.mut(&form)

			_, err := NewValidator(maxBytes).Validate(form)
			require.Error(t, err)
			assert.Equal(t, errs.KindValidation, errs.KindOf(err))
			assert.Equal(t, tc.field, fieldOf(t, err))
		})
	}

	form := validForm()
	form.Title = strings.Repeat("é", 200)
	_, err := NewValidator(maxBytes).Validate(form)
	assert.NoError(t, err)
}

func TestValidateRejectsNonHTTPURL(t *testing.T) {
	form := validForm()
	form.Cover = nil
	form.CoverURL = "ftp://img.example.org/x.png"

	_, err := NewValidator(maxBytes).Validate(form)
	assert.ErrorIs(t, err, ErrInvalidURL)
	assert.Equal(t, "coverUrl", fieldOf(t, err))
}

func TestValidateRejectsEmptyFile(t *testing.T) {
	form := validForm()
	form.Cover = &FilePart{Filename: "cover.png"}

	_, err := NewValidator(maxBytes).Validate(form)
	assert.ErrorIs(t, err, ErrMissingAsset)
	assert.Equal(t, FieldCover, fieldOf(t, err))
}

func TestValidateRequiredText(t *testing.T) {
	form := validForm()
	form.Author = "  "
	_, err := NewValidator(maxBytes).Validate(form)
	assert.Equal(t, "author", fieldOf(t, err))

	form = validForm()
	form.Description = nil
	_, err = NewValidator(maxBytes).Validate(form)
	assert.Equal(t, "description", fieldOf(t, err))

	form = validForm()
	form.Description = strPtr("")
	up, err := NewValidator(maxBytes).Validate(form)
	require.NoError(t, err)
	assert.Equal(t, "", up.Description)
}

func TestFromTransportError(t *testing.T) {
	err := FromTransportError(fmt.Errorf("multipart: %w", &http.MaxBytesError{Limit: 10}), maxBytes)
	assert.Equal(t, errs.KindTooLarge, errs.KindOf(err))

	err = FromTransportError(errors.New("unexpected EOF"), maxBytes)
	assert.ErrorIs(t, err, ErrBadForm)
}
