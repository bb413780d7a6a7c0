/*
Package sqlite provides a SQLite-backed SnapshotStore.

PURPOSE:
  The persisted business record is one self-contained JSON document, read
  and written whole. SQLite is used as a durable single-key store: one row,
  replaced atomically on every save. There are no partial field updates and
  no schema migration beyond defaulting missing optional collections when
  loading older documents.

WHY A SINGLE DOCUMENT?
  The engine's atomicity model is "the whole snapshot is replaced or
  nothing". A row-per-entity schema would reintroduce exactly the partial
  update states the engine is designed to make impossible.

WAL MODE:
  Opened with WAL for crash safety; a save either lands completely or the
  previous document survives.

USAGE:
  st, err := sqlite.New("./roastery.db")
  if err != nil { log.Fatal(err) }
  defer st.Close()

  snap, err := st.Load(ctx)   // default snapshot when the table is empty
  err = st.Save(ctx, snap)
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/blackhorse/roastery/engine"
)

// Store implements engine.SnapshotStore using SQLite.
type Store struct {
	db *sql.DB
}

// New opens (and if needed creates) the database at dbPath.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	-- The whole business record as one JSON document. Single row, replaced
	-- wholesale on every save.
	CREATE TABLE IF NOT EXISTS snapshot (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		document TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Load reads the snapshot document. An empty table yields the default
// snapshot; a corrupt document surfaces as a persistence error.
func (s *Store) Load(ctx context.Context) (engine.Snapshot, error) {
	var doc string
	err := s.db.QueryRowContext(ctx, `SELECT document FROM snapshot WHERE id = 1`).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return engine.DefaultSnapshot(), nil
	}
	if err != nil {
		return engine.Snapshot{}, fmt.Errorf("%w: load snapshot: %v", engine.ErrPersistence, err)
	}

	var snap engine.Snapshot
	if err := json.Unmarshal([]byte(doc), &snap); err != nil {
		return engine.Snapshot{}, fmt.Errorf("%w: decode snapshot: %v", engine.ErrPersistence, err)
	}
	snap.Normalize()
	return snap, nil
}

// Save replaces the snapshot document atomically.
func (s *Store) Save(ctx context.Context, snap engine.Snapshot) error {
	doc, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("%w: encode snapshot: %v", engine.ErrPersistence, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO snapshot (id, document, updated_at) VALUES (1, ?, ?)
		ON CONFLICT (id) DO UPDATE SET document = excluded.document, updated_at = excluded.updated_at`,
		string(doc), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("%w: save snapshot: %v", engine.ErrPersistence, err)
	}
	return nil
}
