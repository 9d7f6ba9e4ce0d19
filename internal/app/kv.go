package app

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "modernc.org/sqlite"
)

// KVStore is the persistence primitive everything durable sits on: the current
// endpoint, the session id and the learning history are each one key. Reads
// report absence instead of failing; writes may fail and callers decide
// whether to care (in this client they log and move on).
type KVStore interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string) error
}

func DefaultStateRoot() string {
	if base := strings.TrimSpace(os.Getenv("XDG_DATA_HOME")); base != "" {
		return filepath.Join(base, "vocab-cli", "storage")
	}
	if base, err := os.UserHomeDir(); err == nil && base != "" {
		return filepath.Join(base, ".local", "share", "vocab-cli", "storage")
	}
	return filepath.Join(os.TempDir(), "vocab-cli", "storage")
}

// OpenDefaultKV prefers the SQLite backend and falls back to one JSON-less
// file per key when SQLite cannot be opened.
func OpenDefaultKV(root string) KVStore {
	if strings.TrimSpace(root) == "" {
		root = DefaultStateRoot()
	}
	if st, err := NewSQLiteKV(root); err == nil {
		return st
	}
	return NewFileKV(root)
}

// SQLiteKV stores keys in a single-table SQLite database under root.
type SQLiteKV struct {
	Root   string
	dbPath string

	mu   sync.Mutex
	db   *sql.DB
	once sync.Once
	err  error
}

func NewSQLiteKV(root string) (*SQLiteKV, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &SQLiteKV{Root: root, dbPath: filepath.Join(root, "state.db")}, nil
}

func (s *SQLiteKV) open() (*sql.DB, error) {
	s.once.Do(func() {
		db, err := sql.Open("sqlite", s.dbPath)
		if err != nil {
			s.err = err
			return
		}
		_, err = db.Exec(`CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TEXT NOT NULL DEFAULT (datetime('now'))
		)`)
		if err != nil {
			_ = db.Close()
			s.err = err
			return
		}
		s.db = db
	})
	return s.db, s.err
}

func (s *SQLiteKV) Get(key string) (string, bool) {
	db, err := s.open()
	if err != nil {
		return "", false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var value string
	err = db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err != nil {
		return "", false
	}
	return value, true
}

func (s *SQLiteKV) Set(key, value string) error {
	db, err := s.open()
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = db.Exec(`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, datetime('now'))
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`, key, value)
	return err
}

func (s *SQLiteKV) Delete(key string) error {
	db, err := s.open()
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = db.Exec(`DELETE FROM kv WHERE key = ?`, key)
	return err
}

// FileKV keeps one file per key under root. Key names are restricted to the
// fixed set this client uses, so no escaping is done beyond replacing
// path separators.
type FileKV struct {
	Root string
}

func NewFileKV(root string) *FileKV {
	return &FileKV{Root: root}
}

func (s *FileKV) path(key string) string {
	safe := strings.ReplaceAll(key, string(os.PathSeparator), "_")
	return filepath.Join(s.Root, safe+".val")
}

func (s *FileKV) Get(key string) (string, bool) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		return "", false
	}
	return string(data), true
}

func (s *FileKV) Set(key, value string) error {
	if err := os.MkdirAll(s.Root, 0o755); err != nil {
		return err
	}
	tmp := s.path(key) + ".tmp"
	if err := os.WriteFile(tmp, []byte(value), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path(key))
}

func (s *FileKV) Delete(key string) error {
	err := os.Remove(s.path(key))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
