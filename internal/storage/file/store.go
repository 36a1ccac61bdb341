// Package file keeps ledger records in a flat text file, five lines per
// record.
package file

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"wallet/internal/core"
	"wallet/internal/storage"
)

type Store struct {
	path string
}

var _ storage.Store = (*Store)(nil)

func New(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Location() string {
	return s.path
}

// Load implements storage.Store
func (s *Store) Load(ctx context.Context, fn func(core.Record) error) error {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", storage.ErrNotFound, s.path)
		}
		return fmt.Errorf("open records file: %w", err)
	}
	defer f.Close()

	dec := NewDecoder(f)
	count := 0
	for {
		r, err := dec.Decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("decode %s: %w", s.path, err)
		}
		if err := fn(r); err != nil {
			return err
		}
		count++
	}

	slog.DebugContext(ctx, "Records read from file", "path", s.path, "count", count)
	return nil
}

// Save implements storage.Store. The file is replaced through a temporary
// file in the same directory so a failed write leaves the old content.
func (s *Store) Save(ctx context.Context, records []core.Record) (err error) {
	// An existing file keeps its permissions across the replace.
	perm := fs.FileMode(0o644)
	if info, statErr := os.Stat(s.path); statErr == nil {
		perm = info.Mode().Perm()
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err := Encode(tmp, records); err != nil {
		return fmt.Errorf("write records: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync records file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close records file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), perm); err != nil {
		return fmt.Errorf("chmod records file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace records file: %w", err)
	}

	slog.DebugContext(ctx, "Records written to file", "path", s.path, "count", len(records))
	return nil
}
