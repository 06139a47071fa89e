package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Snapshot resource keys.
const (
	ResourceStatus     = "status"
	ResourceProperties = "properties"
	ResourceTickets    = "tickets"
	ResourceUsers      = "users"
)

// SQLiteStore caches the last good snapshot of each polled resource and
// keeps a journal of local mutations. The backend stays the source of
// truth; this exists so a restart has something to show before the first
// poll lands, and so writes leave a local audit trail.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS snapshots (
		resource TEXT PRIMARY KEY,
		payload JSON NOT NULL,
		fetched_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS mutation_journal (
		id INTEGER PRIMARY KEY,
		request_id TEXT NOT NULL,
		op TEXT NOT NULL,
		subject_id INTEGER NOT NULL,
		at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_journal_at ON mutation_journal(at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// SaveSnapshot stores the JSON encoding of v under the resource key,
// replacing any previous snapshot.
func (s *SQLiteStore) SaveSnapshot(resource string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode snapshot %s: %w", resource, err)
	}
	_, err = s.db.Exec(`
		INSERT INTO snapshots (resource, payload, fetched_at)
		VALUES (?, ?, ?)
		ON CONFLICT(resource) DO UPDATE SET
			payload = excluded.payload,
			fetched_at = excluded.fetched_at`,
		resource, payload, time.Now())
	return err
}

// LoadSnapshot decodes the cached snapshot into out. ok is false when the
// resource was never cached.
func (s *SQLiteStore) LoadSnapshot(resource string, out any) (fetchedAt time.Time, ok bool, err error) {
	var payload []byte
	row := s.db.QueryRow(`SELECT payload, fetched_at FROM snapshots WHERE resource = ?`, resource)
	if err := row.Scan(&payload, &fetchedAt); err != nil {
		if err == sql.ErrNoRows {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, err
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return time.Time{}, false, fmt.Errorf("decode snapshot %s: %w", resource, err)
	}
	return fetchedAt, true, nil
}

// RecordMutation appends one journal entry. The request ID is the
// X-Request-ID the mutation went to the backend with.
func (s *SQLiteStore) RecordMutation(op string, subjectID int, requestID string) error {
	_, err := s.db.Exec(`
		INSERT INTO mutation_journal (request_id, op, subject_id)
		VALUES (?, ?, ?)`, requestID, op, subjectID)
	return err
}

// JournalEntry is one recorded local write.
type JournalEntry struct {
	ID        int64     `json:"id"`
	RequestID string    `json:"request_id"`
	Op        string    `json:"op"`
	SubjectID int       `json:"subject_id"`
	At        time.Time `json:"at"`
}

// RecentMutations returns the newest entries, most recent first.
func (s *SQLiteStore) RecentMutations(limit int) ([]JournalEntry, error) {
	rows, err := s.db.Query(`
		SELECT id, request_id, op, subject_id, at FROM mutation_journal
		ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []JournalEntry
	for rows.Next() {
		var e JournalEntry
		if err := rows.Scan(&e.ID, &e.RequestID, &e.Op, &e.SubjectID, &e.At); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// PruneJournal drops entries older than the cutoff and returns how many.
func (s *SQLiteStore) PruneJournal(olderThan time.Time) (int64, error) {
	result, err := s.db.Exec(`DELETE FROM mutation_journal WHERE at < ?`, olderThan)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
