package kv

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// MemoryDSN opens a private in-memory database.
const MemoryDSN = ":memory:"

// Compile-time interface checks.
var (
	_ Opener    = (*SQLiteStore)(nil)
	_ Namespace = (*sqliteNamespace)(nil)
)

// SQLiteStore keeps every namespace in a single SQLite table.
type SQLiteStore struct {
	db *sql.DB

	mu         sync.Mutex
	namespaces map[string]*sqliteNamespace
}

// Open opens (creating if needed) the database at path. Use MemoryDSN for a
// throwaway store. The caller owns the returned store and must Close it.
func Open(path string) (*SQLiteStore, error) {
	if path != MemoryDSN {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// A single connection keeps :memory: databases shared and serializes
	// writers on file databases.
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db, namespaces: make(map[string]*sqliteNamespace)}
	if err := store.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS kv (
		namespace TEXT NOT NULL,
		key TEXT NOT NULL,
		value TEXT NOT NULL,
		updated_at INTEGER NOT NULL,
		PRIMARY KEY (namespace, key)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Namespace returns the handle for name. Handles are cached so every caller
// asking for the same namespace shares one lock.
func (s *SQLiteStore) Namespace(name string) Namespace {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ns, ok := s.namespaces[name]; ok {
		return ns
	}
	ns := &sqliteNamespace{db: s.db, name: name}
	s.namespaces[name] = ns
	return ns
}

// Close releases the database.
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

type sqliteNamespace struct {
	db   *sql.DB
	name string
	mu   sync.RWMutex
}

func (n *sqliteNamespace) Get(ctx context.Context, key string) (string, bool, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	var value string
	err := n.db.QueryRowContext(ctx,
		"SELECT value FROM kv WHERE namespace = ? AND key = ?",
		n.name, key,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s/%s: %w", n.name, key, err)
	}
	return value, true, nil
}

func (n *sqliteNamespace) Put(ctx context.Context, key, value string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	n.mu.Lock()
	defer n.mu.Unlock()

	_, err := n.db.ExecContext(ctx,
		`INSERT INTO kv (namespace, key, value, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(namespace, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		n.name, key, value, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("put %s/%s: %w", n.name, key, err)
	}
	return nil
}

func (n *sqliteNamespace) Delete(ctx context.Context, key string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if _, err := n.db.ExecContext(ctx,
		"DELETE FROM kv WHERE namespace = ? AND key = ?",
		n.name, key,
	); err != nil {
		return fmt.Errorf("delete %s/%s: %w", n.name, key, err)
	}
	return nil
}

func (n *sqliteNamespace) Has(ctx context.Context, key string) (bool, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	var count int
	if err := n.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM kv WHERE namespace = ? AND key = ?",
		n.name, key,
	).Scan(&count); err != nil {
		return false, fmt.Errorf("has %s/%s: %w", n.name, key, err)
	}
	return count > 0, nil
}

func (n *sqliteNamespace) All(ctx context.Context) ([]Entry, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	rows, err := n.db.QueryContext(ctx,
		"SELECT key, value FROM kv WHERE namespace = ? ORDER BY key",
		n.name,
	)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", n.name, err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Key, &e.Value); err != nil {
			return nil, fmt.Errorf("scan %s: %w", n.name, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", n.name, err)
	}
	return entries, nil
}

func (n *sqliteNamespace) Clear(ctx context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if _, err := n.db.ExecContext(ctx, "DELETE FROM kv WHERE namespace = ?", n.name); err != nil {
		return fmt.Errorf("clear %s: %w", n.name, err)
	}
	return nil
}
