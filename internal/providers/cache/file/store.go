// Package file is the durable cache backend: one JSON file per collection,
// made group and other writable after every write so hosts can share it
// between users.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/crmarques/srvinv/cache"
	"github.com/crmarques/srvinv/config"
	"github.com/crmarques/srvinv/faults"
	"github.com/crmarques/srvinv/inventory"
	"github.com/spf13/afero"
)

// FileMode is applied after each write.
const FileMode fs.FileMode = 0o766

var _ cache.Store = (*Store)(nil)

// Store overwrites the collection file in place on every save. Overlapping
// saves of one collection from different processes can interleave and leave
// a corrupt file; the next load then fails and triggers a refresh.
type Store struct {
	fs           afero.Fs
	pathTemplate string
}

type Option func(*Store)

func WithFs(fsys afero.Fs) Option {
	return func(s *Store) {
		if fsys != nil {
			s.fs = fsys
		}
	}
}

func NewStore(pathTemplate string, opts ...Option) (*Store, error) {
	pathTemplate = strings.TrimSpace(pathTemplate)
	if count := strings.Count(pathTemplate, config.PathPlaceholder); count != 1 {
		return nil, faults.NewTypedError(
			faults.ValidationError,
			fmt.Sprintf("cache path template %q must contain %s exactly once", pathTemplate, config.PathPlaceholder),
			nil,
		)
	}

	store := &Store{fs: afero.NewOsFs(), pathTemplate: pathTemplate}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(store)
	}
	return store, nil
}

// Path is the file holding collection.
func (s *Store) Path(collection string) string {
	return strings.Replace(s.pathTemplate, config.PathPlaceholder, collection, 1)
}

// Load uses the file modification time as the refresh time, so freshness
// survives process restarts.
func (s *Store) Load(_ context.Context, collection string) (cache.Entry, bool, error) {
	path := s.Path(collection)

	info, err := s.fs.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cache.Entry{}, false, nil
		}
		return cache.Entry{}, false, faults.NewTypedError(faults.InternalError, fmt.Sprintf("failed to stat cache file %q", path), err)
	}

	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return cache.Entry{}, false, faults.NewTypedError(faults.InternalError, fmt.Sprintf("failed to read cache file %q", path), err)
	}

	value, err := inventory.Parse(data)
	if err != nil {
		return cache.Entry{}, false, faults.NewTypedError(faults.DecodeError, fmt.Sprintf("cache file %q is corrupt", path), err)
	}
	snapshot, err := inventory.SnapshotFromValue(value)
	if err != nil {
		return cache.Entry{}, false, faults.NewTypedError(faults.DecodeError, fmt.Sprintf("cache file %q is corrupt", path), err)
	}

	return cache.Entry{Snapshot: snapshot, RefreshedAt: info.ModTime()}, true, nil
}

func (s *Store) Save(_ context.Context, collection string, entry cache.Entry) error {
	path := s.Path(collection)

	data, err := json.Marshal(entry.Snapshot.Value())
	if err != nil {
		return faults.NewTypedError(faults.InternalError, "failed to encode cache snapshot", err)
	}

	if err := afero.WriteFile(s.fs, path, data, FileMode); err != nil {
		return faults.NewTypedError(faults.InternalError, fmt.Sprintf("failed to write cache file %q", path), err)
	}
	// WriteFile's mode is filtered by the umask and ignored for existing files.
	if err := s.fs.Chmod(path, FileMode); err != nil {
		return faults.NewTypedError(faults.InternalError, fmt.Sprintf("failed to set permissions on cache file %q", path), err)
	}
	if !entry.RefreshedAt.IsZero() {
		if err := s.fs.Chtimes(path, entry.RefreshedAt, entry.RefreshedAt); err != nil {
			return faults.NewTypedError(faults.InternalError, fmt.Sprintf("failed to stamp cache file %q", path), err)
		}
	}
	return nil
}
