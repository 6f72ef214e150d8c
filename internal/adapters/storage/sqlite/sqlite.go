// Package sqlite persists challenges in a SQLite database, one row per
// date. Update runs inside an immediate transaction so concurrent
// writers, including other processes, serialize per database.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/courtside/fastbreak/internal/domain/challenge"
	"github.com/courtside/fastbreak/internal/domain/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS challenges (
	date       TEXT PRIMARY KEY,
	doc        TEXT NOT NULL,
	updated_at INTEGER NOT NULL
);`

// Store provides SQLite-backed persistence for daily challenges.
type Store struct {
	sqlDB *sql.DB
}

// Open opens (or creates) a SQLite store at path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("storage path is required")
	}

	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000&_txlock=immediate"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Load reads the challenge document for date.
func (s *Store) Load(ctx context.Context, date string) (model.Challenge, error) {
	var doc string
	err := s.sqlDB.QueryRowContext(ctx, `SELECT doc FROM challenges WHERE date = ?`, date).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Challenge{}, fmt.Errorf("%w: challenge %s", challenge.ErrNotFound, date)
	}
	if err != nil {
		return model.Challenge{}, fmt.Errorf("query challenge %s: %w", date, err)
	}
	return decode(doc, date)
}

// Save upserts the full challenge document.
func (s *Store) Save(ctx context.Context, ch model.Challenge) error {
	doc, err := encode(ch)
	if err != nil {
		return err
	}
	_, err = s.sqlDB.ExecContext(ctx, `
		INSERT INTO challenges (date, doc, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET doc = excluded.doc, updated_at = excluded.updated_at`,
		ch.Date, doc, time.Now().UTC().UnixMilli())
	if err != nil {
		return fmt.Errorf("save challenge %s: %w", ch.Date, err)
	}
	return nil
}

// Update applies fn to the stored document inside one transaction, so
// the read-modify-write cannot interleave with another writer.
func (s *Store) Update(ctx context.Context, date string, fn func(*model.Challenge) error) error {
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update %s: %w", date, err)
	}
	defer func() { _ = tx.Rollback() }()

	var doc string
	err = tx.QueryRowContext(ctx, `SELECT doc FROM challenges WHERE date = ?`, date).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: challenge %s", challenge.ErrNotFound, date)
	}
	if err != nil {
		return fmt.Errorf("query challenge %s: %w", date, err)
	}

	ch, err := decode(doc, date)
	if err != nil {
		return err
	}
	if err := fn(&ch); err != nil {
		return err
	}

	updated, err := encode(ch)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE challenges SET doc = ?, updated_at = ? WHERE date = ?`,
		updated, time.Now().UTC().UnixMilli(), date); err != nil {
		return fmt.Errorf("update challenge %s: %w", date, err)
	}
	return tx.Commit()
}

func encode(ch model.Challenge) (string, error) {
	data, err := json.Marshal(ch)
	if err != nil {
		return "", fmt.Errorf("encode challenge %s: %w", ch.Date, err)
	}
	return string(data), nil
}

func decode(doc, date string) (model.Challenge, error) {
	var ch model.Challenge
	if err := json.Unmarshal([]byte(doc), &ch); err != nil {
		return model.Challenge{}, fmt.Errorf("decode challenge %s: %w", date, err)
	}
	if ch.Submissions == nil {
		ch.Submissions = map[string]model.Submission{}
	}
	return ch, nil
}
