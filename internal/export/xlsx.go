package export

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/expensio/receipts-pipeline/internal/batch"
)

// Service produces XLSX bytes summarizing a batch run.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// BuildResultsXLSX returns an XLSX workbook (as bytes) for the given batch
// results. Failed files appear with their error so the sheet is a complete
// record of the run.
func (s *Service) BuildResultsXLSX(results []batch.Result) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	const sheet = "Receipts"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"Document Date",
		"Vendor",
		"Category",
		"Description",
		"Subtotal",
		"Tax",
		"Discount",
		"Total",
		"Confidence",
		"Status",
		"File URL",
		"Source Path",
		"Error",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, r := range results {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		fileURL := ""
		if r.Outcome.Metadata != nil {
			fileURL = r.Outcome.Metadata.FileURL
		}

		if res := r.Outcome.Result; res != nil {
			write(1, res.Data.Date)
			write(2, res.Data.Vendor)
			write(3, res.Data.Category)
			write(4, res.Data.Description)
			write(5, res.Data.SubtotalAmount)
			write(6, res.Data.TotalTax)
			write(7, res.Data.TotalDiscount)
			write(8, res.Data.TotalAmount)
			write(9, res.Confidence)
		}
		write(10, string(r.Outcome.Status))
		write(11, fileURL)
		write(12, r.SourcePath)
		write(13, r.Err)
		row++
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	s.logger.Info("export.xlsx.ok", "rows", len(results), "elapsed_ms", time.Since(start).Milliseconds())
	return buf.Bytes(), nil
}
