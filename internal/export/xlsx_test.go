package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/folio/folio/internal/model"
	"github.com/xuri/excelize/v2"
)

func TestWriteXLSX(t *testing.T) {
	contacts := []*model.ContactMessage{
		{ID: "02", Name: "Bob", Email: "bob@example.com", Message: "=SUM(A1:A2)", CreatedAt: time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC)},
		{ID: "01", Name: "Ada", Email: "ada@example.com", Message: "hello", CreatedAt: time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC)},
	}

	var buf bytes.Buffer
	if err := WriteXLSX(&buf, contacts); err != nil {
		t.Fatalf("WriteXLSX failed: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader failed: %v", err)
	}
	defer f.Close()

	if got := f.GetSheetList(); len(got) != 1 || got[0] != SheetName {
		t.Errorf("sheets = %v, want [%s]", got, SheetName)
	}

	rows, err := f.GetRows(SheetName)
	if err != nil {
		t.Fatalf("GetRows failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "ID" || rows[0][4] != "Message" {
		t.Errorf("unexpected header: %v", rows[0])
	}
	if rows[1][0] != "02" || rows[2][0] != "01" {
		t.Error("rows should keep the given order")
	}
	if rows[1][1] != "2024-02-01T10:00:00Z" {
		t.Errorf("timestamp = %q", rows[1][1])
	}

	formula, err := f.GetCellFormula(SheetName, "E2")
	if err != nil {
		t.Fatalf("GetCellFormula: %v", err)
	}
	if formula != "" {
		t.Errorf("user text stored as formula %q", formula)
	}
	if rows[1][4] != "=SUM(A1:A2)" {
		t.Errorf("message = %q, want literal text", rows[1][4])
	}
}

func TestWriteXLSX_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, nil); err != nil {
		t.Fatalf("WriteXLSX failed: %v", err)
	}
	if buf.Len() == 0 {
		t.Error("expected a workbook even with no rows")
	}
}

func TestFileName(t *testing.T) {
	got := FileName(time.Date(2024, 3, 4, 5, 6, 7, 0, time.UTC))
	if got != "contact_messages_20240304_050607.xlsx" {
		t.Errorf("FileName = %q", got)
	}
}
