// Package asset validates book upload payloads before anything is stored.
package asset

import (
	"inkdrop-backend/internal/infrastructure/storage"
)

// FilePart is one uploaded multipart file, already read into memory.
type FilePart struct {
	Filename    string
	Size        int64
	ContentType string
	Data        []byte
}

// UploadForm is the raw admin upload request. Each asset comes from either a
// file part or a URL field.
type UploadForm struct {
	Title       string
	Author      string
	Category    string
	Description *string // nil when the field was not sent at all
	Tags        string

	Cover *FilePart
	PDF   *FilePart

	CoverURL string
	PDFURL   string
}

// Upload is an accepted form. Cover and Document are storage.LocalFile or
// storage.RemoteURL.
type Upload struct {
	Title       string
	Author      string
	Category    string
	Description string
	Tags        []string

	Cover    storage.Source
	Document storage.Source
}

const (
	FieldCover = "cover"
	FieldPDF   = "pdf"
)

var (
	imageExtensions    = []string{".jpg", ".jpeg", ".png", ".webp"}
	documentExtensions = []string{".pdf", ".epub"}
)

// AllowedExtensions lists accepted extensions for a form field.
func AllowedExtensions(field string) []string {
	if field == FieldCover {
		return imageExtensions
	}
	return documentExtensions
}
