package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	apperrors "github.com/fumen-tools/fumetree/pkg/errors"
)

// FileStore keeps records as JSON files in a directory, one file per name.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a file-based store.
// If baseDir is empty, defaults to ~/.config/fumetree/trees/
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".config", "fumetree", "trees")
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) recordPath(name string) string {
	return filepath.Join(s.baseDir, name+".json")
}

// Save writes the record to disk, stamping CreatedAt on first save.
func (s *FileStore) Save(ctx context.Context, rec Record) error {
	if err := apperrors.ValidateTreeName(rec.Name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	rec.UpdatedAt = now
	if prev, err := s.read(rec.Name); err == nil {
		rec.CreatedAt = prev.CreatedAt
	} else {
		rec.CreatedAt = now
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	if err := os.WriteFile(s.recordPath(rec.Name), data, 0600); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeStore, err, "write record %q", rec.Name)
	}
	return nil
}

// Load reads a record by name.
func (s *FileStore) Load(ctx context.Context, name string) (Record, error) {
	if err := apperrors.ValidateTreeName(name); err != nil {
		return Record{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read(name)
}

func (s *FileStore) read(name string) (Record, error) {
	data, err := os.ReadFile(s.recordPath(name))
	if os.IsNotExist(err) {
		return Record{}, notFound(name)
	}
	if err != nil {
		return Record{}, apperrors.Wrap(apperrors.ErrCodeStore, err, "read record %q", name)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, apperrors.Wrap(apperrors.ErrCodeStore, err, "parse record %q", name)
	}
	return rec, nil
}

// List returns all stored names, sorted.
func (s *FileStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeStore, err, "list store dir")
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes a record; a missing name is not an error.
func (s *FileStore) Delete(ctx context.Context, name string) error {
	if err := apperrors.ValidateTreeName(name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.recordPath(name))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeStore, err, "delete record %q", name)
	}
	return nil
}

// Close is a no-op for the file backend.
func (s *FileStore) Close(ctx context.Context) error { return nil }

var _ Store = (*FileStore)(nil)
