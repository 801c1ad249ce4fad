// Package transform converts canonical records into ordered rows of display
// strings. It is pure: no network or store access, and it never drops or
// reorders rows — row ordinals must match the rendered sheet so that webhook
// row/column coordinates stay meaningful.
package transform

import (
	"strconv"

	"github.com/OhMinsSup/jwc-platform-sub000/internal/format"
	"github.com/OhMinsSup/jwc-platform-sub000/internal/schema"
	"github.com/OhMinsSup/jwc-platform-sub000/internal/store"
)

// Row renders one record as an ordered row of display strings. seq is the
// 1-based row index stamped into the sequence column when the schema has
// one. Missing fields format to the empty string for every type except
// boolean, which formats to the "no" label.
func Row(s *schema.Schema, rec store.Record, seq int) []string {
	row := make([]string, 0, len(s.Columns)+1)
	if s.SequenceColumn != "" {
		row = append(row, strconv.Itoa(seq))
	}
	for _, col := range s.Columns {
		value, _ := rec.Lookup(col.Key)
		row = append(row, format.Format(value, col))
	}
	return row
}

// Rows renders a batch of records, preserving input order. De-duplication,
// if the caller needs it, must happen before transformation.
func Rows(s *schema.Schema, records []store.Record) [][]string {
	rows := make([][]string, 0, len(records))
	for i, rec := range records {
		rows = append(rows, Row(s, rec, i+1))
	}
	return rows
}

// Matrix renders the full display matrix with the header row at index 0.
// This is exactly what a full-replace sync writes to the sheet.
func Matrix(s *schema.Schema, records []store.Record) [][]string {
	matrix := make([][]string, 0, len(records)+1)
	matrix = append(matrix, s.Headers())
	matrix = append(matrix, Rows(s, records)...)
	return matrix
}
