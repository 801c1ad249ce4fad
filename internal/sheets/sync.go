package sheets

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/OhMinsSup/jwc-platform-sub000/internal/schema"
	"github.com/OhMinsSup/jwc-platform-sub000/internal/store"
	"github.com/OhMinsSup/jwc-platform-sub000/internal/transform"
)

// Target identifies the live sheet a sync writes to. It is passed by value
// into every sync; resolved ids come back in the SyncResult rather than
// living in shared state, so concurrent syncs of different sheets cannot
// bleed into each other.
type Target struct {
	SpreadsheetID string

	// SheetName overrides the schema's default sheet name when set.
	SheetName string
}

// SyncResult reports the observable outcome of one full-replace sync.
type SyncResult struct {
	SheetID      int64  `json:"sheetId"`
	TableID      string `json:"tableId"`
	RecordCount  int    `json:"recordCount"`
	ColumnCount  int    `json:"columnCount"`
	URL          string `json:"url"`
	CreatedSheet bool   `json:"createdSheet"`
	CreatedTable bool   `json:"createdTable"`
}

// SyncError wraps any provider failure during a sync step. The operation is
// idempotent given identical inputs, so callers may safely re-invoke.
type SyncError struct {
	Step string
	Err  error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("sync failed at %s: %v", e.Step, e.Err)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

// SyncManager performs full-replace synchronization of a schema's records
// onto a live sheet. It holds no per-target state.
type SyncManager struct {
	api API
}

// NewSyncManager creates a sync manager backed by the given provider.
func NewSyncManager(api API) *SyncManager {
	return &SyncManager{api: api}
}

// SyncFullReplace makes the live sheet's content exactly equal the display
// matrix of the given records. Steps are strictly sequential: resolve or
// create the sheet, build the matrix, clear the whole range, write the new
// matrix, then create or update the structured table over the written range.
// No diffing: a full rewrite trivially heals any external corruption and
// leaves no residual rows from a previous, larger sync.
func (m *SyncManager) SyncFullReplace(ctx context.Context, s *schema.Schema, records []store.Record, target Target) (*SyncResult, error) {
	title := target.SheetName
	if title == "" {
		title = s.SheetName()
	}

	// Step 1: resolve the sheet, creating it on first sync.
	meta, found, err := m.api.SheetByTitle(ctx, target.SpreadsheetID, title)
	if err != nil {
		return nil, &SyncError{Step: "resolve sheet", Err: err}
	}
	createdSheet := false
	if !found {
		sheetID, err := m.api.CreateSheet(ctx, target.SpreadsheetID, title)
		switch {
		case errors.Is(err, ErrSheetExists):
			// A concurrent first-sync won the creation race; re-resolve.
			meta, found, err = m.api.SheetByTitle(ctx, target.SpreadsheetID, title)
			if err != nil {
				return nil, &SyncError{Step: "resolve sheet", Err: err}
			}
			if !found {
				return nil, &SyncError{Step: "resolve sheet", Err: ErrSheetNotFound}
			}
		case err != nil:
			return nil, &SyncError{Step: "create sheet", Err: err}
		default:
			meta = SheetMeta{SheetID: sheetID, Title: title}
			createdSheet = true
		}
	}

	// Step 2: build the display matrix.
	matrix := transform.Matrix(s, records)

	// Step 3: clear the entire prior range, headers included.
	if err := m.api.Clear(ctx, target.SpreadsheetID, title); err != nil {
		return nil, &SyncError{Step: "clear", Err: err}
	}

	// Step 4: write the new matrix at the top-left cell.
	if err := m.api.Write(ctx, target.SpreadsheetID, title, matrix); err != nil {
		return nil, &SyncError{Step: "write", Err: err}
	}

	// Step 5: upsert the structured table over the freshly written range.
	// The range is recomputed from the current row count every sync; a
	// stale range left over from a larger previous sync is a correctness
	// bug.
	table := Table{
		Name:    s.Name,
		SheetID: meta.SheetID,
		Range: GridRange{
			StartRow: 0,
			EndRow:   int64(len(matrix)),
			StartCol: 0,
			EndCol:   int64(len(matrix[0])),
		},
		Columns: tableColumns(s),
	}

	result := &SyncResult{
		SheetID:      meta.SheetID,
		RecordCount:  len(records),
		ColumnCount:  len(matrix[0]),
		URL:          DocumentURL(target.SpreadsheetID, meta.SheetID),
		CreatedSheet: createdSheet,
	}

	if meta.Table != nil {
		table.ID = meta.Table.ID
		if err := m.api.UpdateTable(ctx, target.SpreadsheetID, table); err != nil {
			return nil, &SyncError{Step: "update table", Err: err}
		}
		result.TableID = meta.Table.ID
	} else {
		tableID, err := m.api.CreateTable(ctx, target.SpreadsheetID, table)
		if err != nil {
			return nil, &SyncError{Step: "create table", Err: err}
		}
		result.TableID = tableID
		result.CreatedTable = true
	}

	log.Printf("sheets: synced %d records to %q (sheet=%d table=%s)", len(records), title, meta.SheetID, result.TableID)
	return result, nil
}

// tableColumns rebuilds the table's column metadata, including dropdown
// validation values, from the schema.
func tableColumns(s *schema.Schema) []TableColumn {
	cols := make([]TableColumn, 0, len(s.Columns)+1)
	if s.SequenceColumn != "" {
		cols = append(cols, TableColumn{Name: s.SequenceColumn, Type: "DOUBLE"})
	}
	for _, col := range s.Columns {
		tc := TableColumn{Name: col.Header, Type: providerType(col.Type)}
		if col.Type == schema.TypeDropdown {
			tc.Options = append([]string(nil), col.Options...)
		}
		cols = append(cols, tc)
	}
	return cols
}

// providerType maps a schema column type to the provider's column type tag.
// The switch is exhaustive over schema.ColumnType.
func providerType(t schema.ColumnType) string {
	switch t {
	case schema.TypeNumber:
		return "DOUBLE"
	case schema.TypeBoolean:
		return "BOOLEAN"
	case schema.TypeDate:
		return "DATE"
	case schema.TypeDateTime:
		return "DATE_TIME"
	case schema.TypeTime:
		return "TIME"
	case schema.TypeDropdown:
		return "DROPDOWN"
	case schema.TypeCurrency:
		return "CURRENCY"
	case schema.TypePercent:
		return "PERCENT"
	case schema.TypeText:
		return "TEXT"
	default:
		return "TEXT"
	}
}

// DocumentURL returns the canonical browser URL of a sheet.
func DocumentURL(spreadsheetID string, sheetID int64) string {
	return fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/edit#gid=%d", spreadsheetID, sheetID)
}
