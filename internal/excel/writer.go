// Package excel renders a schema's display matrix as a styled .xlsx
// workbook for download/export. It shares the row pipeline with the live
// sync, so an exported file and a synced sheet always show the same cells.
package excel

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/OhMinsSup/jwc-platform-sub000/internal/schema"
	"github.com/OhMinsSup/jwc-platform-sub000/internal/store"
	"github.com/OhMinsSup/jwc-platform-sub000/internal/transform"
)

// ContentType is the MIME type of the generated workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// defaultColumnWidth is used for columns that do not set an explicit width.
const defaultColumnWidth = 14

// Write renders records into a single-sheet workbook and writes it to w.
func Write(w io.Writer, s *schema.Schema, records []store.Record) error {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := s.SheetName()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	matrix := transform.Matrix(s, records)
	for i, row := range matrix {
		cells := make([]interface{}, len(row))
		for j, cell := range row {
			cells[j] = cell
		}
		addr, err := excelize.JoinCellName("A", i+1)
		if err != nil {
			return fmt.Errorf("failed to build cell address: %w", err)
		}
		if err := f.SetSheetRow(sheetName, addr, &cells); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if err := styleHeader(f, sheetName, len(matrix[0])); err != nil {
		return err
	}
	if err := setColumnWidths(f, sheetName, s); err != nil {
		return err
	}
	if err := addDropdownValidation(f, sheetName, s, len(records)); err != nil {
		return err
	}

	// Keep the header row visible while scrolling.
	if err := f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze header row: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func styleHeader(f *excelize.File, sheetName string, columnCount int) error {
	styleID, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"4472C4"}},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: []excelize.Border{
			{Type: "bottom", Style: 1, Color: "999999"},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	last, err := excelize.ColumnNumberToName(columnCount)
	if err != nil {
		return fmt.Errorf("failed to resolve last column: %w", err)
	}
	if err := f.SetCellStyle(sheetName, "A1", last+"1", styleID); err != nil {
		return fmt.Errorf("failed to style header row: %w", err)
	}
	return nil
}

func setColumnWidths(f *excelize.File, sheetName string, s *schema.Schema) error {
	offset := 0
	if s.SequenceColumn != "" {
		name, err := excelize.ColumnNumberToName(1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheetName, name, name, 8); err != nil {
			return fmt.Errorf("failed to set sequence column width: %w", err)
		}
		offset = 1
	}

	for i, col := range s.Columns {
		width := float64(col.Width)
		if width == 0 {
			width = defaultColumnWidth
		}
		name, err := excelize.ColumnNumberToName(offset + i + 1)
		if err != nil {
			return fmt.Errorf("failed to resolve column %q: %w", col.Header, err)
		}
		if err := f.SetColWidth(sheetName, name, name, width); err != nil {
			return fmt.Errorf("failed to set width of column %q: %w", col.Header, err)
		}
	}
	return nil
}

// addDropdownValidation attaches a drop-list validation over each dropdown
// column's data range, mirroring the validation rule the live table carries.
func addDropdownValidation(f *excelize.File, sheetName string, s *schema.Schema, recordCount int) error {
	if recordCount == 0 {
		return nil
	}

	offset := 0
	if s.SequenceColumn != "" {
		offset = 1
	}

	for i, col := range s.Columns {
		if col.Type != schema.TypeDropdown {
			continue
		}
		name, err := excelize.ColumnNumberToName(offset + i + 1)
		if err != nil {
			return fmt.Errorf("failed to resolve column %q: %w", col.Header, err)
		}

		dv := excelize.NewDataValidation(true)
		dv.Sqref = fmt.Sprintf("%s2:%s%d", name, name, recordCount+1)
		if err := dv.SetDropList(col.Options); err != nil {
			return fmt.Errorf("failed to build drop list for %q: %w", col.Header, err)
		}
		if err := f.AddDataValidation(sheetName, dv); err != nil {
			return fmt.Errorf("failed to add validation for %q: %w", col.Header, err)
		}
	}
	return nil
}
