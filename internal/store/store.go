package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	"cinevault/internal/collection"
)

// ErrConflict reports a compare-and-swap write that lost to a concurrent
// mutation. Callers reload and retry or surface the conflict.
var ErrConflict = errors.New("collection changed since it was loaded")

const (
	recordsKey = "movies"
	apiKeyKey  = "tmdb_api_key"
)

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// Store manages collection persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
	lock *flock.Flock
}

// Open initializes or connects to the collection database at dbPath.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("ensure database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{
		db:   db,
		path: dbPath,
		lock: flock.New(dbPath + ".lock"),
	}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *Store) initSchema(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS storage (
	key     TEXT PRIMARY KEY,
	value   TEXT NOT NULL,
	version INTEGER NOT NULL DEFAULT 1
)`
	if err := s.execWithoutResultRetry(ctx, schema); err != nil {
		return fmt.Errorf("initialize schema: %w", err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// AcquireLock takes the mutation file lock without blocking. It fails when
// another process already holds it.
func (s *Store) AcquireLock() error {
	ok, err := s.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire collection lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("another process holds the collection lock at %s", s.lock.Path())
	}
	return nil
}

// ReleaseLock releases the mutation file lock.
func (s *Store) ReleaseLock() error {
	return s.lock.Unlock()
}

// LoadRecords reads the full record list and the version token to pass back
// to SaveRecords. A database with no records yet yields an empty slice and
// version zero.
func (s *Store) LoadRecords(ctx context.Context) ([]collection.Record, int64, error) {
	raw, version, err := s.get(ctx, recordsKey)
	if err != nil {
		return nil, 0, err
	}
	if raw == "" {
		return []collection.Record{}, version, nil
	}
	var records []collection.Record
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, 0, fmt.Errorf("decode stored records: %w", err)
	}
	return records, version, nil
}

// SaveRecords writes the full record list, compare-and-swapping against the
// version returned by the LoadRecords call that produced the snapshot.
func (s *Store) SaveRecords(ctx context.Context, records []collection.Record, version int64) error {
	if records == nil {
		records = []collection.Record{}
	}
	payload, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode records: %w", err)
	}
	return s.put(ctx, recordsKey, string(payload), version)
}

// APIKey returns the stored TMDB credential, or empty when none is set.
func (s *Store) APIKey(ctx context.Context) (string, error) {
	raw, _, err := s.get(ctx, apiKeyKey)
	if err != nil {
		return "", err
	}
	return raw, nil
}

// SetAPIKey stores the TMDB credential, replacing any previous value.
func (s *Store) SetAPIKey(ctx context.Context, key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("api key must not be empty")
	}
	return s.execWithoutResultRetry(ctx,
		`INSERT INTO storage (key, value, version) VALUES (?, ?, 1)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, version = storage.version + 1`,
		apiKeyKey, key)
}

// ClearAPIKey removes the stored TMDB credential.
func (s *Store) ClearAPIKey(ctx context.Context) error {
	return s.execWithoutResultRetry(ctx, `DELETE FROM storage WHERE key = ?`, apiKeyKey)
}

func (s *Store) get(ctx context.Context, key string) (string, int64, error) {
	ctx = ensureContext(ctx)
	var (
		value   string
		version int64
	)
	err := retryOnBusy(ctx, func() error {
		return s.db.QueryRowContext(ctx,
			`SELECT value, version FROM storage WHERE key = ?`, key).
			Scan(&value, &version)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return "", 0, nil
	}
	if err != nil {
		return "", 0, fmt.Errorf("read %s: %w", key, err)
	}
	return value, version, nil
}

// put inserts the key when version is zero and updates it otherwise; a
// mismatched version touches no rows and surfaces as ErrConflict.
func (s *Store) put(ctx context.Context, key, value string, version int64) error {
	if version == 0 {
		err := s.execWithoutResultRetry(ctx,
			`INSERT INTO storage (key, value, version) VALUES (?, ?, 1)`,
			key, value)
		if err != nil && strings.Contains(err.Error(), "UNIQUE constraint") {
			return ErrConflict
		}
		if err != nil {
			return fmt.Errorf("write %s: %w", key, err)
		}
		return nil
	}

	res, err := s.execWithRetry(ctx,
		`UPDATE storage SET value = ?, version = version + 1 WHERE key = ? AND version = ?`,
		value, key, version)
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	if affected == 0 {
		return ErrConflict
	}
	return nil
}

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

func (s *Store) execWithRetry(ctx context.Context, query string, args ...any) (sql.Result, error) {
	ctx = ensureContext(ctx)
	var (
		res     sql.Result
		execErr error
	)
	if err := retryOnBusy(ctx, func() error {
		res, execErr = s.db.ExecContext(ctx, query, args...)
		return execErr
	}); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *Store) execWithoutResultRetry(ctx context.Context, query string, args ...any) error {
	ctx = ensureContext(ctx)
	return retryOnBusy(ctx, func() error {
		_, err := s.db.ExecContext(ctx, query, args...)
		return err
	})
}
