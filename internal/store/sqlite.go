package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore implements Store on a single SQLite file. Records are stored
// as JSON documents keyed by id; the single-writer lock mirrors SQLite's
// own write serialization.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteStore opens (and if necessary initializes) the store at dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open store database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS records (
			id         TEXT PRIMARY KEY,
			doc        TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to initialize store schema: %w", err)
	}
	return nil
}

// FindAll returns records in insertion order, capped at limit when positive.
func (s *SQLiteStore) FindAll(ctx context.Context, limit int) ([]Record, error) {
	query := `SELECT id, doc FROM records ORDER BY created_at, id`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var id, doc string
		if err := rows.Scan(&id, &doc); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		rec, err := decodeRecord(id, doc)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// FindByID returns one record or ErrRecordNotFound.
func (s *SQLiteStore) FindByID(ctx context.Context, id string) (Record, error) {
	var doc string
	err := s.db.QueryRowContext(ctx, `SELECT doc FROM records WHERE id = ?`, id).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %q", ErrRecordNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query record %q: %w", id, err)
	}
	return decodeRecord(id, doc)
}

// UpdateField rewrites a single dot-path field of one record's document.
func (s *SQLiteStore) UpdateField(ctx context.Context, id, fieldKey string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}
	rec.Set(fieldKey, normalizeValue(value))

	doc, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode record %q: %w", id, err)
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE records SET doc = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, string(doc), id)
	if err != nil {
		return fmt.Errorf("failed to update record %q: %w", id, err)
	}
	return nil
}

// Insert stores a new record, generating an id if the record carries none.
func (s *SQLiteStore) Insert(ctx context.Context, rec Record) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := rec.ID()
	if id == "" {
		id = uuid.New().String()
		rec["id"] = id
	}

	doc, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("failed to encode record: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `INSERT INTO records (id, doc) VALUES (?, ?)`, id, string(doc))
	if err != nil {
		return "", fmt.Errorf("failed to insert record %q: %w", id, err)
	}
	return id, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func decodeRecord(id, doc string) (Record, error) {
	var rec Record
	if err := json.Unmarshal([]byte(doc), &rec); err != nil {
		return nil, fmt.Errorf("failed to decode record %q: %w", id, err)
	}
	if rec.ID() == "" {
		rec["id"] = id
	}
	return rec, nil
}

// normalizeValue converts values to their JSON-stable representation before
// encoding, so a read-back record compares equal to what was written.
func normalizeValue(value any) any {
	switch v := value.(type) {
	case time.Time:
		return v.Format(time.RFC3339)
	default:
		return v
	}
}
