// Package upload persists multipart image uploads and serves as the optional
// cleanup hook for files a record stops referencing.
package upload

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"sync"
	"time"
)

var ErrOutsideDir = errors.New("path escapes upload directory")

// Saver writes uploads under Dir and hands back the relative path clients
// fetch them at (PublicPrefix + "/" + filename). Filenames are the upload's
// unix milliseconds plus the original extension; a mutex-guarded bump keeps
// them unique when two uploads land in the same millisecond.
type Saver struct {
	Dir          string
	PublicPrefix string

	// RemoveOrphans enables Cleanup. Off by default: the historical behavior
	// is to let replaced and deleted images accumulate on disk.
	RemoveOrphans bool

	mu   sync.Mutex
	last int64
}

func (s *Saver) Save(fh *multipart.FileHeader) (string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	name := s.nextName(filepath.Ext(fh.Filename))

	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(s.Dir, name))
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return "", err
	}
	if err := dst.Close(); err != nil {
		return "", err
	}

	return path.Join(s.PublicPrefix, name), nil
}

// Cleanup removes a previously stored file given its public relative path.
// A no-op unless RemoveOrphans is set.
func (s *Saver) Cleanup(relPath string) error {
	if !s.RemoveOrphans || relPath == "" {
		return nil
	}

	name := path.Base(relPath)
	full := filepath.Join(s.Dir, name)

	// Base() above already strips any directory part, but refuse to step
	// outside Dir even if it somehow survives.
	if rel, err := filepath.Rel(s.Dir, full); err != nil || rel != name {
		return ErrOutsideDir
	}

	err := os.Remove(full)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (s *Saver) nextName(ext string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UnixMilli()
	if now <= s.last {
		now = s.last + 1
	}
	s.last = now

	return strconv.FormatInt(now, 10) + ext
}
