// Package sheets synchronizes a schema's display matrix onto a live
// spreadsheet document. The API interface abstracts the five provider
// primitives the sync needs; implementations include the Google Sheets
// adapter and an in-memory fake for tests and local development.
package sheets

import (
	"context"
	"errors"
)

// Common errors for spreadsheet API operations.
var (
	ErrSheetExists   = errors.New("sheet already exists")
	ErrSheetNotFound = errors.New("sheet not found")
	ErrTableNotFound = errors.New("table not found")
)

// GridRange is a half-open cell range on a sheet: start inclusive, end
// exclusive, both zero-based.
type GridRange struct {
	StartRow int64
	EndRow   int64
	StartCol int64
	EndCol   int64
}

// TableColumn carries the per-column metadata of a live table object.
type TableColumn struct {
	// Name is the column title shown in the table header.
	Name string

	// Type is the provider column type tag ("TEXT", "DOUBLE", "DROPDOWN", ...).
	Type string

	// Options holds the dropdown validation values for DROPDOWN columns.
	Options []string
}

// Table is a structured, named cell-range object bound to a sheet. Its id
// is the unit of identity a sync must preserve across updates so that
// validation rules and metadata are not orphaned.
type Table struct {
	ID      string
	Name    string
	SheetID int64
	Range   GridRange
	Columns []TableColumn
}

// SheetMeta is the resolved metadata of one sheet within a document.
type SheetMeta struct {
	SheetID int64
	Title   string

	// Table is the structured table bound to this sheet, nil if none.
	Table *Table
}

// API is the spreadsheet provider collaborator. Any provider exposing these
// five primitives (metadata by title, sheet creation, range clear, range
// write, table upsert via batch update) can back the sync engine.
type API interface {
	// SheetByTitle resolves a sheet's metadata by its title. The second
	// return is false when no sheet with that title exists.
	SheetByTitle(ctx context.Context, spreadsheetID, title string) (SheetMeta, bool, error)

	// CreateSheet adds an empty grid sheet and returns its sheet id.
	// Returns ErrSheetExists when a sheet with the title already exists;
	// concurrent first-syncs treat that as non-fatal and re-resolve.
	CreateSheet(ctx context.Context, spreadsheetID, title string) (int64, error)

	// Clear removes all cell values on the named sheet.
	Clear(ctx context.Context, spreadsheetID, title string) error

	// Write writes the matrix starting at the sheet's top-left cell.
	Write(ctx context.Context, spreadsheetID, title string, values [][]string) error

	// CreateTable creates a structured table over the given range and
	// returns the new table id.
	CreateTable(ctx context.Context, spreadsheetID string, table Table) (string, error)

	// UpdateTable updates an existing table in place, keyed by table.ID:
	// new bounding range, rebuilt column metadata.
	UpdateTable(ctx context.Context, spreadsheetID string, table Table) error
}
