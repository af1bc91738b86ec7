// Package export renders contact messages as spreadsheets.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/folio/folio/internal/model"
	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet holding exported messages.
const SheetName = "Messages"

// ContentType is the MIME type of an XLSX workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var headers = []string{"ID", "Received (UTC)", "Name", "Email", "Message"}

// WriteXLSX writes contacts, in the given order, as a single-sheet workbook to w.
func WriteXLSX(w io.Writer, contacts []*model.ContactMessage) error {
	f := excelize.NewFile()
	defer f.Close()

	// A new workbook starts with one default sheet; rename it.
	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}

	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellStr(SheetName, cell, header); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}

	for i, c := range contacts {
		row := i + 2
		values := []string{
			c.ID,
			c.CreatedAt.UTC().Format(time.RFC3339),
			c.Name,
			c.Email,
			c.Message,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			// SetCellStr keeps user text as a literal string, never a formula.
			if err := f.SetCellStr(SheetName, cell, v); err != nil {
				return fmt.Errorf("write row %d: %w", row, err)
			}
		}
	}

	_ = f.SetColWidth(SheetName, "A", "A", 28)
	_ = f.SetColWidth(SheetName, "B", "B", 22)
	_ = f.SetColWidth(SheetName, "C", "D", 30)
	_ = f.SetColWidth(SheetName, "E", "E", 80)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// FileName returns a timestamped download name for an export taken at t.
func FileName(t time.Time) string {
	return fmt.Sprintf("contact_messages_%s.xlsx", t.UTC().Format("20060102_150405"))
}
