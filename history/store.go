// Package history journals evaluated REPL lines in a SQLite database.
// Only source text and rendered results are stored; compiled programs are
// never persisted.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tliron/commonlog"

	_ "modernc.org/sqlite"
)

var log = commonlog.GetLogger("tpc.history")

// Store is an open journal.
type Store struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
}

// Record is a stored entry with its metadata.
type Record struct {
	ID      int64
	Session string
	Created time.Time
	Entry
}

// Open opens or creates the journal at path, creating parent directories.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Set busy timeout for concurrent REPLs sharing one journal
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS entries (
		id INTEGER PRIMARY KEY,
		session TEXT NOT NULL,
		created INTEGER NOT NULL,
		data BLOB NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating table: %w", err)
	}

	log.Infof("opened history %s", path)
	return &Store{db: db, path: path}, nil
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// NewSession starts a session with a fresh identifier.
func (s *Store) NewSession() *Session {
	id := uuid.New().String()
	log.Debugf("new history session %s", id)
	return &Session{store: s, id: id}
}

func (s *Store) insert(session string, created time.Time, e Entry) error {
	data, err := MarshalEntry(e)
	if err != nil {
		return fmt.Errorf("encoding entry: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.Exec(
		"INSERT INTO entries (session, created, data) VALUES (?, ?, ?)",
		session, created.UnixNano(), data,
	)
	if err != nil {
		return fmt.Errorf("saving entry: %w", err)
	}
	return nil
}

// Recent returns at most limit records, newest first.
func (s *Store) Recent(limit int) ([]Record, error) {
	return s.query("SELECT id, session, created, data FROM entries ORDER BY id DESC LIMIT ?", limit)
}

// SessionEntries returns every record of one session in insertion order.
func (s *Store) SessionEntries(session string) ([]Record, error) {
	return s.query("SELECT id, session, created, data FROM entries WHERE session = ? ORDER BY id", session)
}

func (s *Store) query(q string, args ...any) ([]Record, error) {
	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying entries: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			r       Record
			created int64
			data    []byte
		)
		if err := rows.Scan(&r.ID, &r.Session, &created, &data); err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}
		r.Created = time.Unix(0, created)
		if r.Entry, err = UnmarshalEntry(data); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading entries: %w", err)
	}
	return records, nil
}

// Session groups the entries recorded by one REPL run.
type Session struct {
	store *Store
	id    string
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Record appends e to the journal.
func (s *Session) Record(e Entry) error {
	return s.store.insert(s.id, time.Now(), e)
}

// Entries returns this session's records in order.
func (s *Session) Entries() ([]Record, error) {
	return s.store.SessionEntries(s.id)
}
