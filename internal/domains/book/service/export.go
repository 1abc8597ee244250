package service

import (
	"context"
	"strings"
	"time"

	"inkdrop-backend/internal/domains/book/model"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Book list"

var exportHeaders = []string{
	"ID",
	"Title",
	"Author",
	"Category",
	"Description",
	"Tags",
	"File URL",
	"Cover URL",
	"File Size",
	"Pages",
	"Downloads",
	"Last Downloaded At",
	"Uploaded By",
	"Created At",
}

// ExportToExcel renders the filtered catalogue as an xlsx workbook.
func (s *BookService) ExportToExcel(ctx context.Context, filter model.ListFilter) (*excelize.File, error) {
	books, err := s.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return buildBooksExcelFile(books)
}

func buildBooksExcelFile(books []model.Book) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, err
	}

	for colIdx, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(colIdx+1, 1)
		if err := f.SetCellValue(exportSheet, cell, header); err != nil {
			return nil, err
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		last, _ := excelize.CoordinatesToCellName(len(exportHeaders), 1)
		_ = f.SetCellStyle(exportSheet, "A1", last, headerStyle)
	}

	for i, b := range books {
		row := []interface{}{
			b.ID.String(),
			b.Title,
			b.Author,
			b.Category,
			b.Description,
			strings.Join(b.Tags, ", "),
			b.FileURL,
			b.CoverImageURL,
			b.FormattedFileSize(),
			"",
			b.DownloadCount,
			"",
			b.UploadedBy.String(),
			b.CreatedAt.Format(time.RFC3339),
		}
		if b.Pages != nil {
			row[9] = *b.Pages
		}
		if b.LastDownloadedAt != nil {
			row[11] = b.LastDownloadedAt.Format(time.RFC3339)
		}

		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, err
		}
	}

	return f, nil
}
