package invoice

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"invoice-extractor/internal/extraction"
)

const exportSheet = "Line Items"

// exportHeaders fixes the column order of the workbook. Record order and
// field order are both preserved exactly as the working set holds them.
var exportHeaders = []string{
	"Vendor",
	"Invoice Number",
	"Invoice Date",
	"Description",
	"Quantity",
	"Unit Price",
	"Total",
}

// BuildWorkbook serializes the record set into an XLSX workbook: one header
// row, then one row per record. An empty set yields a headers-only workbook.
func BuildWorkbook(records []extraction.LineItem) ([]byte, error) {
	f := excelize.NewFile()

	if index, _ := f.GetSheetIndex(exportSheet); index == -1 {
		if _, err := f.NewSheet(exportSheet); err != nil {
			return nil, fmt.Errorf("creating sheet: %w", err)
		}
	}
	activeIndex, _ := f.GetSheetIndex(exportSheet)
	f.SetActiveSheet(activeIndex)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("removing default sheet: %w", err)
	}

	for i, h := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(exportSheet, cell, h)
	}

	for i, r := range records {
		row := i + 2
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(exportSheet, cell, v)
		}

		write(1, r.Vendor)
		write(2, r.InvoiceNumber)
		write(3, r.InvoiceDate)
		write(4, r.Description)
		write(5, r.Quantity)
		write(6, r.UnitPrice)
		write(7, r.Total)
	}

	// Widen a few columns
	_ = f.SetColWidth(exportSheet, "A", "A", 28) // vendor
	_ = f.SetColWidth(exportSheet, "B", "C", 16) // invoice number, date
	_ = f.SetColWidth(exportSheet, "D", "D", 48) // description
	_ = f.SetColWidth(exportSheet, "E", "G", 12) // amounts

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportFilename returns the fixed download name for an export at the given time
func ExportFilename(now time.Time) string {
	return fmt.Sprintf("invoice-items-%s.xlsx", now.Format("20060102-150405"))
}
