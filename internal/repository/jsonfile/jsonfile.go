// Package jsonfile keeps the inventory record as a JSON array on the local disk.
package jsonfile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Houeta/yard-scout/internal/models"
	"github.com/Houeta/yard-scout/internal/repository"
	"github.com/goccy/go-json"
)

const filePerm = 0o644

// Store reads and writes the record file at a fixed path.
type Store struct {
	log  *slog.Logger
	path string
}

// NewStore creates a Store for the record file at path. The file itself is created on the first Save.
func NewStore(log *slog.Logger, path string) *Store {
	return &Store{log: log, path: path}
}

// Path returns the location of the record file.
func (s *Store) Path() string {
	return s.path
}

// Load reads the record file. A missing file yields an empty snapshot.
func (s *Store) Load(ctx context.Context) (models.Snapshot, error) {
	const opn = "repository.jsonfile.Load"
	log := s.log.With("op", opn)

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", opn, err)
	}

	log.InfoContext(ctx, "Loading previous inventory record", "path", s.path)
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.InfoContext(ctx, "No previous record found, starting from an empty one")
			return models.Snapshot{}, nil
		}
		return nil, fmt.Errorf("%s: failed to read record file %s: %w", opn, s.path, err)
	}

	var snapshot models.Snapshot
	if err = json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("%s: %w: %s: %w", opn, repository.ErrRecordCorrupt, s.path, err)
	}
	if snapshot == nil {
		snapshot = models.Snapshot{}
	}

	log.DebugContext(ctx, "Loaded inventory record", "count", len(snapshot))
	return snapshot, nil
}

// Save atomically replaces the record file with the given snapshot.
// The data goes to a temporary file in the same directory which is renamed over the record
// only after it was fully written and synced, so readers see either the old or the new record.
func (s *Store) Save(ctx context.Context, snapshot models.Snapshot) error {
	const opn = "repository.jsonfile.Save"
	log := s.log.With("op", opn)

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", opn, err)
	}

	if snapshot == nil {
		snapshot = models.Snapshot{}
	}
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("%s: failed to encode snapshot: %w", opn, err)
	}

	dir := filepath.Dir(s.path)
	if err = os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%s: failed to create record directory %s: %w", opn, dir, err)
	}

	log.InfoContext(ctx, "Saving new inventory record", "path", s.path, "count", len(snapshot))
	if err = writeAtomic(s.path, data); err != nil {
		return fmt.Errorf("%s: %w", opn, err)
	}
	log.InfoContext(ctx, "Inventory record saved successfully")

	return nil
}

// writeAtomic writes data next to path and renames it into place.
func writeAtomic(path string, data []byte) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpName := tmp.Name()

	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("failed to write temporary file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync temporary file: %w", err)
	}
	if err = tmp.Chmod(filePerm); err != nil {
		return fmt.Errorf("failed to set permissions on temporary file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file: %w", err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace record file: %w", err)
	}

	return nil
}
