// Package store provides the canonical record store the sync engine projects
// from and writes back to. Records are opaque key-value documents; the
// engine only reads the fields a schema column names and writes a single
// field per reconciled edit.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Common errors for store operations.
var (
	ErrRecordNotFound = errors.New("record not found")
	ErrMissingID      = errors.New("record has no id")
)

// Record is one canonical entry. Nested fields are addressed with dot paths.
type Record map[string]any

// ID returns the record's identity field as a string.
func (r Record) ID() string {
	switch v := r["id"].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// Lookup resolves a dot-path field ("contact.phone"). The second return is
// false when any path segment is absent or not an object.
func (r Record) Lookup(path string) (any, bool) {
	var cur any = map[string]any(r)
	for _, seg := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[seg]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// Set writes a dot-path field, creating intermediate objects as needed.
func (r Record) Set(path string, value any) {
	segs := strings.Split(path, ".")
	m := map[string]any(r)
	for _, seg := range segs[:len(segs)-1] {
		next, ok := m[seg].(map[string]any)
		if !ok {
			next = make(map[string]any)
			m[seg] = next
		}
		m = next
	}
	m[segs[len(segs)-1]] = value
}

// Store is the canonical record collaborator. The engine mutates it from
// exactly one place: the reconciler's persist step calling UpdateField.
type Store interface {
	// FindAll returns up to limit records in insertion order. limit <= 0
	// means no limit.
	FindAll(ctx context.Context, limit int) ([]Record, error)

	// FindByID returns the record with the given identity, or
	// ErrRecordNotFound.
	FindByID(ctx context.Context, id string) (Record, error)

	// UpdateField writes a single dot-path field of one record.
	UpdateField(ctx context.Context, id, fieldKey string, value any) error

	// Insert stores a new record and returns its id, generating one if the
	// record carries none.
	Insert(ctx context.Context, rec Record) (string, error)

	// Close releases the underlying resources.
	Close() error
}
