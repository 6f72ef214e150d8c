// Package file persists challenges as one JSON document per date,
// written atomically via a temp file and rename.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/courtside/fastbreak/internal/domain/challenge"
	"github.com/courtside/fastbreak/internal/domain/model"
)

const fileMode = 0o644

// Store writes one <date>.json per challenge under a data directory.
// Update serializes per date within the process; the rename keeps
// readers from ever observing a partial document.
type Store struct {
	dir string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New creates the data directory if needed and returns a Store.
func New(dir string) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("data directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &Store{dir: dir, locks: make(map[string]*sync.Mutex)}, nil
}

func (s *Store) path(date string) (string, error) {
	// Dates come pre-validated, but never let a key escape the dir.
	if strings.ContainsAny(date, `/\`) || date == "" {
		return "", fmt.Errorf("invalid challenge date %q", date)
	}
	return filepath.Join(s.dir, date+".json"), nil
}

func (s *Store) lock(date string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[date]
	if !ok {
		l = &sync.Mutex{}
		s.locks[date] = l
	}
	return l
}

// Load reads the challenge document for date.
func (s *Store) Load(_ context.Context, date string) (model.Challenge, error) {
	path, err := s.path(date)
	if err != nil {
		return model.Challenge{}, err
	}
	return s.read(path, date)
}

func (s *Store) read(path, date string) (model.Challenge, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.Challenge{}, fmt.Errorf("%w: challenge %s", challenge.ErrNotFound, date)
		}
		return model.Challenge{}, fmt.Errorf("read challenge %s: %w", date, err)
	}
	var ch model.Challenge
	if err := json.Unmarshal(data, &ch); err != nil {
		return model.Challenge{}, fmt.Errorf("decode challenge %s: %w", date, err)
	}
	if ch.Submissions == nil {
		ch.Submissions = map[string]model.Submission{}
	}
	return ch, nil
}

// Save writes the full document atomically.
func (s *Store) Save(_ context.Context, ch model.Challenge) error {
	path, err := s.path(ch.Date)
	if err != nil {
		return err
	}
	l := s.lock(ch.Date)
	l.Lock()
	defer l.Unlock()
	return s.write(path, ch)
}

func (s *Store) write(path string, ch model.Challenge) error {
	data, err := json.MarshalIndent(ch, "", "  ")
	if err != nil {
		return fmt.Errorf("encode challenge %s: %w", ch.Date, err)
	}

	tmp, err := os.CreateTemp(s.dir, ch.Date+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write challenge %s: %w", ch.Date, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, fileMode); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace challenge %s: %w", ch.Date, err)
	}
	return nil
}

// Update applies fn under the per-date lock: load, modify, atomic
// replace. Concurrent submissions for one date cannot lose updates
// within a single process.
func (s *Store) Update(_ context.Context, date string, fn func(*model.Challenge) error) error {
	path, err := s.path(date)
	if err != nil {
		return err
	}
	l := s.lock(date)
	l.Lock()
	defer l.Unlock()

	ch, err := s.read(path, date)
	if err != nil {
		return err
	}
	if err := fn(&ch); err != nil {
		return err
	}
	return s.write(path, ch)
}
