// Package sqlite provides a SQLite-backed Store.
//
// Structures and profiles are kept as JSON documents next to their id, name
// and creation time. The database is opened in WAL mode and the schema is
// created on New.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/iwvelando/payout-simulator/internal/config"
	"github.com/iwvelando/payout-simulator/internal/store"
)

// Store implements store.Store on SQLite.
type Store struct {
	db *sqlx.DB
}

var _ store.Store = (*Store)(nil)

type row struct {
	ID        string `db:"id"`
	Name      string `db:"name"`
	CreatedAt string `db:"created_at"`
	Body      string `db:"body"`
}

// New opens or creates the database at dbPath. Use ":memory:" for a
// throwaway database.
func New(dbPath string) (*Store, error) {
	db, err := sqlx.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS structures (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		created_at TEXT NOT NULL,
		body TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS profiles (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		created_at TEXT NOT NULL,
		body TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *Store) insert(ctx context.Context, table, name string, doc interface{}) (string, time.Time, error) {
	body, err := json.Marshal(doc)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to encode %s: %w", table, err)
	}
	id, created := store.NewID(), store.Now()
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO "+table+" (id, name, created_at, body) VALUES (?, ?, ?, ?)",
		id, name, created.Format(time.RFC3339Nano), string(body))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to insert into %s: %w", table, err)
	}
	return id, created, nil
}

func (s *Store) get(ctx context.Context, table, id string) (row, error) {
	var r row
	err := s.db.GetContext(ctx, &r, "SELECT id, name, created_at, body FROM "+table+" WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return row{}, fmt.Errorf("%s %s: %w", table, id, store.ErrNotFound)
	}
	if err != nil {
		return row{}, fmt.Errorf("failed to query %s: %w", table, err)
	}
	return r, nil
}

func (s *Store) list(ctx context.Context, table string) ([]row, error) {
	var rows []row
	if err := s.db.SelectContext(ctx, &rows, "SELECT id, name, created_at, body FROM "+table+" ORDER BY rowid"); err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", table, err)
	}
	return rows, nil
}

func (s *Store) delete(ctx context.Context, table, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM "+table+" WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete from %s: %w", table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", table, id, store.ErrNotFound)
	}
	return nil
}

func (r row) created() time.Time {
	t, _ := time.Parse(time.RFC3339Nano, r.CreatedAt)
	return t
}

func (r row) structure() (store.StructureRecord, error) {
	rec := store.StructureRecord{ID: r.ID, CreatedAt: r.created()}
	if err := json.Unmarshal([]byte(r.Body), &rec.Structure); err != nil {
		return store.StructureRecord{}, fmt.Errorf("failed to decode structure %s: %w", r.ID, err)
	}
	return rec, nil
}

func (r row) profile() (store.ProfileRecord, error) {
	rec := store.ProfileRecord{ID: r.ID, CreatedAt: r.created()}
	if err := json.Unmarshal([]byte(r.Body), &rec.Profile); err != nil {
		return store.ProfileRecord{}, fmt.Errorf("failed to decode profile %s: %w", r.ID, err)
	}
	return rec, nil
}

// SaveStructure stores sc under a new id.
func (s *Store) SaveStructure(ctx context.Context, sc config.StructureConfig) (store.StructureRecord, error) {
	id, created, err := s.insert(ctx, "structures", sc.Name, sc)
	if err != nil {
		return store.StructureRecord{}, err
	}
	return store.StructureRecord{ID: id, CreatedAt: created, Structure: sc}, nil
}

// GetStructure returns the structure saved under id.
func (s *Store) GetStructure(ctx context.Context, id string) (store.StructureRecord, error) {
	r, err := s.get(ctx, "structures", id)
	if err != nil {
		return store.StructureRecord{}, err
	}
	return r.structure()
}

// ListStructures returns every saved structure in save order.
func (s *Store) ListStructures(ctx context.Context) ([]store.StructureRecord, error) {
	rows, err := s.list(ctx, "structures")
	if err != nil {
		return nil, err
	}
	out := make([]store.StructureRecord, 0, len(rows))
	for _, r := range rows {
		rec, err := r.structure()
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// DeleteStructure removes the structure saved under id.
func (s *Store) DeleteStructure(ctx context.Context, id string) error {
	return s.delete(ctx, "structures", id)
}

// SaveProfile stores p under a new id.
func (s *Store) SaveProfile(ctx context.Context, p config.ProfileConfig) (store.ProfileRecord, error) {
	id, created, err := s.insert(ctx, "profiles", p.Name, p)
	if err != nil {
		return store.ProfileRecord{}, err
	}
	return store.ProfileRecord{ID: id, CreatedAt: created, Profile: p}, nil
}

// GetProfile returns the profile saved under id.
func (s *Store) GetProfile(ctx context.Context, id string) (store.ProfileRecord, error) {
	r, err := s.get(ctx, "profiles", id)
	if err != nil {
		return store.ProfileRecord{}, err
	}
	return r.profile()
}

// ListProfiles returns every saved profile in save order.
func (s *Store) ListProfiles(ctx context.Context) ([]store.ProfileRecord, error) {
	rows, err := s.list(ctx, "profiles")
	if err != nil {
		return nil, err
	}
	out := make([]store.ProfileRecord, 0, len(rows))
	for _, r := range rows {
		rec, err := r.profile()
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// DeleteProfile removes the profile saved under id.
func (s *Store) DeleteProfile(ctx context.Context, id string) error {
	return s.delete(ctx, "profiles", id)
}
