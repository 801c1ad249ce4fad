package sheets

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"
)

// GoogleAPI implements API against the Google Sheets v4 service.
type GoogleAPI struct {
	svc *gsheets.Service
}

// NewGoogleAPI creates a Google Sheets adapter authenticated with the given
// service-account credentials file.
func NewGoogleAPI(ctx context.Context, credentialsFile string) (*GoogleAPI, error) {
	svc, err := gsheets.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(gsheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	return &GoogleAPI{svc: svc}, nil
}

// SheetByTitle implements API via a spreadsheet metadata read.
func (g *GoogleAPI) SheetByTitle(ctx context.Context, spreadsheetID, title string) (SheetMeta, bool, error) {
	doc, err := g.svc.Spreadsheets.Get(spreadsheetID).
		Fields("sheets(properties(sheetId,title),tables)").
		Context(ctx).Do()
	if err != nil {
		return SheetMeta{}, false, fmt.Errorf("failed to read spreadsheet metadata: %w", err)
	}

	for _, sh := range doc.Sheets {
		if sh.Properties == nil || sh.Properties.Title != title {
			continue
		}
		meta := SheetMeta{SheetID: sh.Properties.SheetId, Title: title}
		if len(sh.Tables) > 0 {
			meta.Table = fromGoogleTable(sh.Tables[0], sh.Properties.SheetId)
		}
		return meta, true, nil
	}
	return SheetMeta{}, false, nil
}

// CreateSheet implements API. A provider "already exists" rejection is
// mapped to ErrSheetExists so a racing first-sync can re-resolve.
func (g *GoogleAPI) CreateSheet(ctx context.Context, spreadsheetID, title string) (int64, error) {
	req := &gsheets.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheets.Request{{
			AddSheet: &gsheets.AddSheetRequest{
				Properties: &gsheets.SheetProperties{Title: title},
			},
		}},
	}

	resp, err := g.svc.Spreadsheets.BatchUpdate(spreadsheetID, req).Context(ctx).Do()
	if err != nil {
		if apiErr, ok := err.(*googleapi.Error); ok && strings.Contains(apiErr.Message, "already exists") {
			return 0, fmt.Errorf("%w: %q", ErrSheetExists, title)
		}
		return 0, fmt.Errorf("failed to add sheet %q: %w", title, err)
	}

	if len(resp.Replies) == 0 || resp.Replies[0].AddSheet == nil || resp.Replies[0].AddSheet.Properties == nil {
		return 0, fmt.Errorf("add sheet %q: empty reply", title)
	}
	return resp.Replies[0].AddSheet.Properties.SheetId, nil
}

// Clear implements API over the whole named sheet.
func (g *GoogleAPI) Clear(ctx context.Context, spreadsheetID, title string) error {
	_, err := g.svc.Spreadsheets.Values.
		Clear(spreadsheetID, quoteTitle(title), &gsheets.ClearValuesRequest{}).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to clear sheet %q: %w", title, err)
	}
	return nil
}

// Write implements API starting at A1. Values are written RAW: the display
// strings are already formatted and must not be reinterpreted by the
// provider.
func (g *GoogleAPI) Write(ctx context.Context, spreadsheetID, title string, values [][]string) error {
	vr := &gsheets.ValueRange{Values: make([][]interface{}, len(values))}
	for i, row := range values {
		cells := make([]interface{}, len(row))
		for j, cell := range row {
			cells[j] = cell
		}
		vr.Values[i] = cells
	}

	_, err := g.svc.Spreadsheets.Values.
		Update(spreadsheetID, quoteTitle(title)+"!A1", vr).
		ValueInputOption("RAW").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to write sheet %q: %w", title, err)
	}
	return nil
}

// CreateTable implements API via an addTable batch request.
func (g *GoogleAPI) CreateTable(ctx context.Context, spreadsheetID string, table Table) (string, error) {
	req := &gsheets.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheets.Request{{
			AddTable: &gsheets.AddTableRequest{Table: toGoogleTable(table)},
		}},
	}

	resp, err := g.svc.Spreadsheets.BatchUpdate(spreadsheetID, req).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to create table %q: %w", table.Name, err)
	}
	if len(resp.Replies) == 0 || resp.Replies[0].AddTable == nil || resp.Replies[0].AddTable.Table == nil {
		return "", fmt.Errorf("create table %q: empty reply", table.Name)
	}
	return resp.Replies[0].AddTable.Table.TableId, nil
}

// UpdateTable implements API via an updateTable batch request keyed by the
// existing table id.
func (g *GoogleAPI) UpdateTable(ctx context.Context, spreadsheetID string, table Table) error {
	req := &gsheets.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheets.Request{{
			UpdateTable: &gsheets.UpdateTableRequest{
				Table:  toGoogleTable(table),
				Fields: "name,range,columnProperties",
			},
		}},
	}

	if _, err := g.svc.Spreadsheets.BatchUpdate(spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to update table %q: %w", table.ID, err)
	}
	return nil
}

func toGoogleTable(table Table) *gsheets.Table {
	cols := make([]*gsheets.TableColumnProperties, len(table.Columns))
	for i, col := range table.Columns {
		props := &gsheets.TableColumnProperties{
			ColumnIndex: int64(i),
			ColumnName:  col.Name,
			ColumnType:  col.Type,
		}
		if len(col.Options) > 0 {
			values := make([]*gsheets.ConditionValue, len(col.Options))
			for j, opt := range col.Options {
				values[j] = &gsheets.ConditionValue{UserEnteredValue: opt}
			}
			props.DataValidationRule = &gsheets.TableColumnDataValidationRule{
				Condition: &gsheets.BooleanCondition{
					Type:   "ONE_OF_LIST",
					Values: values,
				},
			}
		}
		cols[i] = props
	}

	return &gsheets.Table{
		TableId: table.ID,
		Name:    table.Name,
		Range: &gsheets.GridRange{
			SheetId:          table.SheetID,
			StartRowIndex:    table.Range.StartRow,
			EndRowIndex:      table.Range.EndRow,
			StartColumnIndex: table.Range.StartCol,
			EndColumnIndex:   table.Range.EndCol,
		},
		ColumnProperties: cols,
	}
}

func fromGoogleTable(t *gsheets.Table, sheetID int64) *Table {
	table := &Table{
		ID:      t.TableId,
		Name:    t.Name,
		SheetID: sheetID,
	}
	if t.Range != nil {
		table.Range = GridRange{
			StartRow: t.Range.StartRowIndex,
			EndRow:   t.Range.EndRowIndex,
			StartCol: t.Range.StartColumnIndex,
			EndCol:   t.Range.EndColumnIndex,
		}
	}
	for _, col := range t.ColumnProperties {
		tc := TableColumn{Name: col.ColumnName, Type: col.ColumnType}
		if col.DataValidationRule != nil && col.DataValidationRule.Condition != nil {
			for _, v := range col.DataValidationRule.Condition.Values {
				tc.Options = append(tc.Options, v.UserEnteredValue)
			}
		}
		table.Columns = append(table.Columns, tc)
	}
	return table
}

// quoteTitle wraps a sheet title for use in an A1-notation range.
func quoteTitle(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}
