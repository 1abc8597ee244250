package storage

import (
	"bytes"
	"fmt"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"
)

// DetectContentType sniffs the MIME type from the first bytes, falling back
// to the declared type when detection is inconclusive.
func DetectContentType(data []byte, declared string) string {
	detected := mimetype.Detect(data)
	if detected.Is("application/octet-stream") && declared != "" {
		return declared
	}
	return detected.String()
}

// CountPDFPages returns the page count of a PDF document held in memory.
func CountPDFPages(data []byte) (pages int, err error) {
	// The parser panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			pages, err = 0, fmt.Errorf("parse pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, fmt.Errorf("open pdf: %w", err)
	}
	return reader.NumPage(), nil
}
