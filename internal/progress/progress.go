// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package progress persists a reviewer's accept/reject decisions in a JSON
// file of the form {"added_papers": [...], "deleted_papers": [...]}.
//
// Every operation re-reads the file; nothing is cached between calls. Writes
// within one process are serialized by a mutex, and on unix the mark
// operations also hold an advisory lock on "<path>.lock" for the whole
// read-modify-write cycle. Concurrent writers in separate processes are not
// supported on other platforms.
package progress

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/pdiddy/literature-helper/pkg/types"
)

// Store owns the progress file.
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore returns a store backed by path. The file is created on the
// first save.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Load returns the persisted progress. An absent or malformed file yields
// empty progress; Load only fails when the file exists but cannot be read.
func (s *Store) Load() (types.Progress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Save overwrites the file with p.
func (s *Store) Save(p types.Progress) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(p)
}

// MarkAdded appends id to the added list. Duplicates are kept.
func (s *Store) MarkAdded(id string) error {
	return s.update(func(p *types.Progress) {
		p.Added = append(p.Added, id)
	})
}

// MarkDeleted appends id to the deleted list. Duplicates are kept.
func (s *Store) MarkDeleted(id string) error {
	return s.update(func(p *types.Progress) {
		p.Deleted = append(p.Deleted, id)
	})
}

func (s *Store) update(mutate func(*types.Progress)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	unlock, err := lockFile(s.path + ".lock")
	if err != nil {
		return fmt.Errorf("locking progress file: %w", err)
	}
	defer unlock()

	p, err := s.load()
	if err != nil {
		return err
	}
	mutate(&p)
	return s.save(p)
}

func (s *Store) load() (types.Progress, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return types.NewProgress(), nil
		}
		return types.Progress{}, fmt.Errorf("reading progress file: %w", err)
	}

	var raw struct {
		Added   *[]string `json:"added_papers"`
		Deleted *[]string `json:"deleted_papers"`
	}
	if err := json.Unmarshal(data, &raw); err != nil || raw.Added == nil || raw.Deleted == nil {
		return types.NewProgress(), nil
	}

	p := types.Progress{Added: *raw.Added, Deleted: *raw.Deleted}
	if p.Added == nil {
		p.Added = []string{}
	}
	if p.Deleted == nil {
		p.Deleted = []string{}
	}
	return p, nil
}

// save writes to a temporary file in the same directory and renames it
// over the target so readers never observe a partial file.
func (s *Store) save(p types.Progress) error {
	if p.Added == nil {
		p.Added = []string{}
	}
	if p.Deleted == nil {
		p.Deleted = []string{}
	}

	data, err := json.MarshalIndent(p, "", "    ")
	if err != nil {
		return fmt.Errorf("marshaling progress: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating progress directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing progress: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("writing progress: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing progress file: %w", err)
	}
	return nil
}
