// Package reconcile folds a single spreadsheet cell edit back into the
// canonical store and then resyncs the whole sheet. Each event runs through
// a fixed pipeline with two terminal outcomes, accepted or rejected; no
// state persists between events.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/OhMinsSup/jwc-platform-sub000/internal/format"
	"github.com/OhMinsSup/jwc-platform-sub000/internal/schema"
	"github.com/OhMinsSup/jwc-platform-sub000/internal/sheets"
	"github.com/OhMinsSup/jwc-platform-sub000/internal/store"
)

// Rejection errors. None of these mutate the canonical store; the human can
// fix the cell and the edit will be resent.
var (
	ErrUnauthorizedSource = errors.New("event source does not match configured spreadsheet")
	ErrMissingIdentity    = errors.New("event has no record id")
	ErrUnknownHeader      = errors.New("header does not match any column")
	ErrReadOnlyField      = errors.New("field is read-only")
)

// Event is one inbound cell-edit notification from the live sheet.
type Event struct {
	EventType     string `json:"eventType"`
	SpreadsheetID string `json:"spreadsheetId"`
	SheetName     string `json:"sheetName"`
	Range         string `json:"range"`
	Row           int    `json:"row"`
	Column        int    `json:"column"`
	Header        string `json:"header"`
	ID            string `json:"id"`
	OldValue      string `json:"oldValue,omitempty"`
	NewValue      string `json:"newValue,omitempty"`
	Timestamp     string `json:"timestamp"`
}

// Result is the acknowledgement of an accepted event.
type Result struct {
	RecordID string             `json:"recordId"`
	Field    string             `json:"field"`
	Value    any                `json:"value"`
	Sync     *sheets.SyncResult `json:"sync"`
}

// Reconciler applies inbound edit events for one schema/target pair.
type Reconciler struct {
	schema  *schema.Schema
	store   store.Store
	sync    *sheets.SyncManager
	target  sheets.Target
	backLim int

	readOnly map[string]bool
}

// New creates a reconciler. readOnlyHeaders lists headers that are rendered
// for display only (identity, creation timestamps, immutable contact
// fields); edits to them are rejected before parsing.
func New(s *schema.Schema, st store.Store, sync *sheets.SyncManager, target sheets.Target, readOnlyHeaders []string, resyncLimit int) *Reconciler {
	ro := make(map[string]bool, len(readOnlyHeaders)+1)
	for _, h := range readOnlyHeaders {
		ro[h] = true
	}
	if s.SequenceColumn != "" {
		ro[s.SequenceColumn] = true
	}
	return &Reconciler{
		schema:   s,
		store:    st,
		sync:     sync,
		target:   target,
		backLim:  resyncLimit,
		readOnly: ro,
	}
}

// Apply runs the pipeline for one event: validate, resolve the column,
// enforce the read-only guard, inverse-parse the value, persist it, then
// trigger a full resync. The resync is deliberate, not incidental: it
// redisplays the edited cell in canonical formatting and corrects any stray
// edits made to other cells in the same session.
func (r *Reconciler) Apply(ctx context.Context, ev Event) (*Result, error) {
	// Validate.
	if ev.SpreadsheetID != r.target.SpreadsheetID {
		return nil, fmt.Errorf("%w: %q", ErrUnauthorizedSource, ev.SpreadsheetID)
	}
	if ev.ID == "" {
		return nil, ErrMissingIdentity
	}

	// Resolve column. Exact, case-sensitive header match.
	col, ok := r.schema.ColumnByHeader(ev.Header)
	if !ok {
		if r.readOnly[ev.Header] {
			// Synthetic display columns (sequence) resolve to no field.
			return nil, fmt.Errorf("%w: %q", ErrReadOnlyField, ev.Header)
		}
		return nil, fmt.Errorf("%w: %q", ErrUnknownHeader, ev.Header)
	}

	// Read-only guard, before parsing: read-only columns may have no
	// registered parser at all.
	if r.readOnly[ev.Header] || col.ReadOnly() {
		return nil, fmt.Errorf("%w: %q", ErrReadOnlyField, ev.Header)
	}

	// Parse.
	value, err := format.Parse(ev.NewValue, col)
	if err != nil {
		return nil, err
	}

	// Persist: the single canonical-store mutation point of the engine.
	if err := r.store.UpdateField(ctx, ev.ID, col.Key, value); err != nil {
		return nil, err
	}
	log.Printf("reconcile: record %s field %s updated from sheet edit (row=%d col=%d)", ev.ID, col.Key, ev.Row, ev.Column)

	// Resync the full sheet so every cell reflects canonical truth again.
	records, err := r.store.FindAll(ctx, r.backLim)
	if err != nil {
		return nil, &sheets.SyncError{Step: "load records", Err: err}
	}
	syncResult, err := r.sync.SyncFullReplace(ctx, r.schema, records, r.target)
	if err != nil {
		return nil, err
	}

	return &Result{
		RecordID: ev.ID,
		Field:    col.Key,
		Value:    value,
		Sync:     syncResult,
	}, nil
}

// IsRejection reports whether err is a validation/parse rejection (4xx
// class) rather than a downstream sync failure.
func IsRejection(err error) bool {
	return errors.Is(err, ErrUnauthorizedSource) ||
		errors.Is(err, ErrMissingIdentity) ||
		errors.Is(err, ErrUnknownHeader) ||
		errors.Is(err, ErrReadOnlyField) ||
		errors.Is(err, format.ErrInvalidOption) ||
		errors.Is(err, format.ErrNumberParse) ||
		errors.Is(err, store.ErrRecordNotFound)
}
