// Package schema describes the column layout of a synced spreadsheet table.
// It is pure data: no I/O, no store or spreadsheet access.
package schema

import (
	"fmt"
)

// ColumnType identifies how a column's values are formatted for display and
// parsed back from edited cells.
type ColumnType int

const (
	TypeText ColumnType = iota
	TypeNumber
	TypeBoolean
	TypeDate
	TypeDateTime
	TypeTime
	TypeDropdown
	TypeCurrency
	TypePercent
)

var columnTypeNames = map[ColumnType]string{
	TypeText:     "text",
	TypeNumber:   "number",
	TypeBoolean:  "boolean",
	TypeDate:     "date",
	TypeDateTime: "datetime",
	TypeTime:     "time",
	TypeDropdown: "dropdown",
	TypeCurrency: "currency",
	TypePercent:  "percent",
}

// String returns the lowercase name of the column type.
func (t ColumnType) String() string {
	if name, ok := columnTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("columntype(%d)", int(t))
}

// ParseColumnType resolves a lowercase type name to a ColumnType.
func ParseColumnType(name string) (ColumnType, error) {
	for t, n := range columnTypeNames {
		if n == name {
			return t, nil
		}
	}
	return TypeText, fmt.Errorf("unknown column type %q", name)
}

// FormatFunc renders a canonical value as a display string. A column with a
// FormatFunc but no ParseFunc is display-only: inbound edits to it are
// rejected because the transformation cannot be inverted.
type FormatFunc func(value any) string

// ParseFunc converts an edited display string back to a canonical value.
type ParseFunc func(text string) (any, error)

// Column describes one spreadsheet column.
type Column struct {
	// Key is the canonical record field this column projects. Dot paths
	// address nested fields ("contact.phone").
	Key string

	// Header is the user-facing column title. Headers are the lookup key
	// for inbound edit events, so they must be unique within a schema.
	Header string

	Type ColumnType

	// Width is the display width in characters. Zero means provider default.
	Width int

	// Options holds the allowed display values for TypeDropdown columns.
	Options []string

	Required bool

	// Formatter, when set, takes precedence over the type-based formatter.
	Formatter FormatFunc

	// Parser, when set, inverts Formatter for inbound edits.
	Parser ParseFunc
}

// HasOption reports whether s is one of the column's dropdown options.
func (c Column) HasOption(s string) bool {
	for _, opt := range c.Options {
		if opt == s {
			return true
		}
	}
	return false
}

// ReadOnly reports whether the column cannot accept inbound edits: it has a
// custom formatter with no matching parser to invert it.
func (c Column) ReadOnly() bool {
	return c.Formatter != nil && c.Parser == nil
}

// Schema describes one logical table: a named, ordered set of columns.
type Schema struct {
	Name        string
	Description string

	// DefaultSheetName is the sheet title used when the sync target does
	// not specify one.
	DefaultSheetName string

	// SequenceColumn, when non-empty, is the header of a synthetic first
	// column stamped with the 1-based row index ("순번"). It has no record
	// field behind it and is always display-only.
	SequenceColumn string

	Columns []Column
}

// Validate checks the schema invariants: non-empty name and columns, unique
// keys, unique headers, and non-empty options on every dropdown column.
func (s *Schema) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("schema name is required")
	}
	if len(s.Columns) == 0 {
		return fmt.Errorf("schema %q has no columns", s.Name)
	}

	keys := make(map[string]bool, len(s.Columns))
	headers := make(map[string]bool, len(s.Columns))
	for _, col := range s.Columns {
		if col.Key == "" {
			return fmt.Errorf("schema %q: column %q has no key", s.Name, col.Header)
		}
		if col.Header == "" {
			return fmt.Errorf("schema %q: column %q has no header", s.Name, col.Key)
		}
		if keys[col.Key] {
			return fmt.Errorf("schema %q: duplicate column key %q", s.Name, col.Key)
		}
		if headers[col.Header] {
			return fmt.Errorf("schema %q: duplicate column header %q", s.Name, col.Header)
		}
		if col.Header == s.SequenceColumn {
			return fmt.Errorf("schema %q: column header %q collides with sequence column", s.Name, col.Header)
		}
		if col.Type == TypeDropdown && len(col.Options) == 0 {
			return fmt.Errorf("schema %q: dropdown column %q has no options", s.Name, col.Key)
		}
		keys[col.Key] = true
		headers[col.Header] = true
	}
	return nil
}

// ColumnByHeader resolves a column by its exact header text. Matching is
// case-sensitive: headers are localized display labels and the webhook path
// relies on exact matching to map an edited cell back to a field.
func (s *Schema) ColumnByHeader(header string) (Column, bool) {
	for _, col := range s.Columns {
		if col.Header == header {
			return col, true
		}
	}
	return Column{}, false
}

// ColumnByKey resolves a column by its record field key.
func (s *Schema) ColumnByKey(key string) (Column, bool) {
	for _, col := range s.Columns {
		if col.Key == key {
			return col, true
		}
	}
	return Column{}, false
}

// Headers returns the ordered header row, including the sequence column
// when configured.
func (s *Schema) Headers() []string {
	headers := make([]string, 0, len(s.Columns)+1)
	if s.SequenceColumn != "" {
		headers = append(headers, s.SequenceColumn)
	}
	for _, col := range s.Columns {
		headers = append(headers, col.Header)
	}
	return headers
}

// SheetName returns the explicit sheet name, falling back to the schema name.
func (s *Schema) SheetName() string {
	if s.DefaultSheetName != "" {
		return s.DefaultSheetName
	}
	return s.Name
}
