package sheets

import (
	"context"
	"fmt"
	"sync"
)

// Fake is an in-memory API implementation for tests and local development,
// in the same spirit as a local filesystem backing an object store. It
// models exactly the observable surface the sync relies on: sheet titles,
// cell values, and one table per sheet.
type Fake struct {
	mu          sync.Mutex
	nextSheetID int64
	nextTableID int
	sheets      map[string]*fakeSheet // by title
}

type fakeSheet struct {
	id     int64
	values [][]string
	table  *Table
}

// NewFake creates an empty fake spreadsheet document.
func NewFake() *Fake {
	return &Fake{
		nextSheetID: 1000,
		sheets:      make(map[string]*fakeSheet),
	}
}

// SheetByTitle implements API.
func (f *Fake) SheetByTitle(_ context.Context, _ string, title string) (SheetMeta, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	sh, ok := f.sheets[title]
	if !ok {
		return SheetMeta{}, false, nil
	}
	return SheetMeta{SheetID: sh.id, Title: title, Table: sh.table}, true, nil
}

// CreateSheet implements API.
func (f *Fake) CreateSheet(_ context.Context, _ string, title string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.sheets[title]; ok {
		return 0, fmt.Errorf("%w: %q", ErrSheetExists, title)
	}
	f.nextSheetID++
	f.sheets[title] = &fakeSheet{id: f.nextSheetID}
	return f.nextSheetID, nil
}

// Clear implements API.
func (f *Fake) Clear(_ context.Context, _ string, title string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	sh, ok := f.sheets[title]
	if !ok {
		return fmt.Errorf("%w: %q", ErrSheetNotFound, title)
	}
	sh.values = nil
	return nil
}

// Write implements API.
func (f *Fake) Write(_ context.Context, _ string, title string, values [][]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	sh, ok := f.sheets[title]
	if !ok {
		return fmt.Errorf("%w: %q", ErrSheetNotFound, title)
	}
	copied := make([][]string, len(values))
	for i, row := range values {
		copied[i] = append([]string(nil), row...)
	}
	sh.values = copied
	return nil
}

// CreateTable implements API.
func (f *Fake) CreateTable(_ context.Context, _ string, table Table) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	sh, ok := f.sheetByID(table.SheetID)
	if !ok {
		return "", fmt.Errorf("%w: sheet %d", ErrSheetNotFound, table.SheetID)
	}
	f.nextTableID++
	table.ID = fmt.Sprintf("table-%d", f.nextTableID)
	sh.table = &table
	return table.ID, nil
}

// UpdateTable implements API.
func (f *Fake) UpdateTable(_ context.Context, _ string, table Table) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	sh, ok := f.sheetByID(table.SheetID)
	if !ok {
		return fmt.Errorf("%w: sheet %d", ErrSheetNotFound, table.SheetID)
	}
	if sh.table == nil || sh.table.ID != table.ID {
		return fmt.Errorf("%w: %q", ErrTableNotFound, table.ID)
	}
	sh.table = &table
	return nil
}

func (f *Fake) sheetByID(sheetID int64) (*fakeSheet, bool) {
	for _, sh := range f.sheets {
		if sh.id == sheetID {
			return sh, true
		}
	}
	return nil, false
}

// Values returns a copy of the sheet's current cell matrix. Test helper.
func (f *Fake) Values(title string) [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()

	sh, ok := f.sheets[title]
	if !ok {
		return nil
	}
	copied := make([][]string, len(sh.values))
	for i, row := range sh.values {
		copied[i] = append([]string(nil), row...)
	}
	return copied
}

// TableFor returns a copy of the sheet's table object. Test helper.
func (f *Fake) TableFor(title string) (Table, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	sh, ok := f.sheets[title]
	if !ok || sh.table == nil {
		return Table{}, false
	}
	return *sh.table, true
}
