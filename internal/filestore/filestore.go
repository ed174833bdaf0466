// Package filestore manages on-disk storage paths for uploaded medical
// documents. The database only ever holds path strings produced here; file
// bytes never enter the database.
package filestore

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// StorageError marks filesystem failures so callers can distinguish "file"
// problems from "data" problems.
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("filestore %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

type Store struct {
	baseDir string
}

func New(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, &StorageError{Op: "mkdir", Path: baseDir, Err: err}
	}
	return &Store{baseDir: baseDir}, nil
}

func (s *Store) BaseDir() string {
	return s.baseDir
}

// ResolvePath builds a collision-free relative path for an upload:
// patient_<id>/<timestamp>_<random><ext>. The random component guarantees
// distinct paths even for identical filenames resolved within the same
// timestamp tick.
func (s *Store) ResolvePath(patientID uuid.UUID, originalName string) string {
	ext := filepath.Ext(originalName)
	base := strings.TrimSuffix(filepath.Base(originalName), ext)
	base = sanitize(base)
	if base == "" {
		base = "file"
	}

	name := fmt.Sprintf("%s_%s_%s%s",
		base,
		time.Now().Format("20060102_150405"),
		uuid.NewString()[:8],
		ext,
	)
	return filepath.Join(fmt.Sprintf("patient_%s", patientID), name)
}

// Store writes the stream to the resolved relative path and returns the
// persisted size. The destination handle is closed on every exit path.
func (s *Store) Store(relPath string, r io.Reader) (int64, error) {
	abs := filepath.Join(s.baseDir, relPath)

	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return 0, &StorageError{Op: "mkdir", Path: abs, Err: err}
	}

	f, err := os.Create(abs)
	if err != nil {
		return 0, &StorageError{Op: "create", Path: abs, Err: err}
	}

	n, err := io.Copy(f, r)
	if err != nil {
		f.Close()
		os.Remove(abs)
		return 0, &StorageError{Op: "write", Path: abs, Err: err}
	}

	if err := f.Close(); err != nil {
		return 0, &StorageError{Op: "close", Path: abs, Err: err}
	}

	return n, nil
}

// Open returns a reader over a stored file.
func (s *Store) Open(relPath string) (io.ReadCloser, error) {
	abs := filepath.Join(s.baseDir, relPath)
	f, err := os.Open(abs)
	if err != nil {
		return nil, &StorageError{Op: "open", Path: abs, Err: err}
	}
	return f, nil
}

// Delete removes a stored file, best-effort. It reports whether a file was
// actually present and never fails on an already-absent path.
func (s *Store) Delete(relPath string) (bool, error) {
	if relPath == "" {
		return false, nil
	}
	abs := filepath.Join(s.baseDir, relPath)

	err := os.Remove(abs)
	switch {
	case err == nil:
		return true, nil
	case os.IsNotExist(err):
		return false, nil
	default:
		return false, &StorageError{Op: "remove", Path: abs, Err: err}
	}
}

// RemovePatientDir deletes a patient's whole directory. Used by the patient
// cascade; an absent directory is not an error.
func (s *Store) RemovePatientDir(patientID uuid.UUID) error {
	dir := filepath.Join(s.baseDir, fmt.Sprintf("patient_%s", patientID))
	if err := os.RemoveAll(dir); err != nil {
		return &StorageError{Op: "removeall", Path: dir, Err: err}
	}
	return nil
}

// Stats reports total bytes and file count under the store root.
type Stats struct {
	TotalBytes int64 `json:"total_bytes"`
	TotalFiles int64 `json:"total_files"`
}

func (s *Store) Stats() (Stats, error) {
	var st Stats
	err := filepath.WalkDir(s.baseDir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		st.TotalBytes += info.Size()
		st.TotalFiles++
		return nil
	})
	if err != nil {
		return Stats{}, &StorageError{Op: "walk", Path: s.baseDir, Err: err}
	}
	return st, nil
}

func sanitize(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		}
	}
	return b.String()
}
