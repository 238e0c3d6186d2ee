// Package storage persists the annotation collection as a JSON file in the
// data directory. Writes are atomic (temp file + rename) and serialized
// across processes with an OS file lock.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/marcus/places/internal/models"
)

// FileName is the name of the annotation file inside the data directory.
const FileName = "SavedPlaces"

const (
	dirMode  = 0700
	fileMode = 0600

	lockTimeout = 2 * time.Second
)

// Gateway loads and saves the whole annotation collection.
//
// Load always returns a usable collection. A non-nil error from Load is a
// warning: the collection is empty and the caller should carry on.
type Gateway interface {
	Load() ([]models.Annotation, error)
	Save(annotations []models.Annotation) error
}

// ReadError reports a SavedPlaces file that exists but could not be read
// or decoded.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// WriteError reports a failed save. The previous file content is intact.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// File is a Gateway backed by <dir>/SavedPlaces.
type File struct {
	dir string
}

// NewFile returns a gateway rooted at dir. The directory is created lazily
// on the first save.
func NewFile(dir string) *File {
	return &File{dir: dir}
}

// Path returns the location of the annotation file.
func (f *File) Path() string {
	return filepath.Join(f.dir, FileName)
}

// Load reads the annotation file. A missing file is a fresh notebook and
// yields an empty collection with no error.
func (f *File) Load() ([]models.Annotation, error) {
	path := f.Path()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			slog.Debug("storage: no saved places yet", "path", path)
			return []models.Annotation{}, nil
		}
		return []models.Annotation{}, &ReadError{Path: path, Err: err}
	}

	var annotations []models.Annotation
	if err := json.Unmarshal(data, &annotations); err != nil {
		return []models.Annotation{}, &ReadError{Path: path, Err: fmt.Errorf("decode: %w", err)}
	}
	if annotations == nil {
		annotations = []models.Annotation{}
	}
	return annotations, nil
}

// Save writes the collection using atomic write (temp file + rename) while
// holding the write lock, so concurrent readers only ever see a complete
// file.
func (f *File) Save(annotations []models.Annotation) error {
	path := f.Path()
	if annotations == nil {
		annotations = []models.Annotation{}
	}

	data, err := json.MarshalIndent(annotations, "", "  ")
	if err != nil {
		return &WriteError{Path: path, Err: fmt.Errorf("encode: %w", err)}
	}

	if err := os.MkdirAll(f.dir, dirMode); err != nil {
		return &WriteError{Path: path, Err: err}
	}

	locker := newWriteLocker(f.dir)
	if err := locker.acquire(lockTimeout); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	defer locker.release()

	if err := writeAtomic(f.dir, path, data); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	return nil
}

// writeAtomic writes data to a temp file in dir, syncs it, and renames it
// over path.
func writeAtomic(dir, path string, data []byte) error {
	tmp, err := os.CreateTemp(dir, FileName+"-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Chmod(fileMode); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
