// Package pagestore persists captured frames under a session-scoped
// directory with filenames whose lexicographic order matches capture order.
package pagestore

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"
)

const (
	// framePattern yields names like page_0001.png; zero-padding keeps
	// lexicographic order equal to capture order through 9999 pages.
	framePattern = "page_%04d.png"

	sessionPrefix = "book_capture_"
	sessionStamp  = "20060102_150405"
)

// Store writes frames for one capture session.
type Store struct {
	dir string
}

// Open creates (if needed) the session directory for startedAt under root and
// returns a Store bound to it. Layout: <root>/book_capture_<YYYYMMDD_HHMMSS>.
func Open(root string, startedAt time.Time) (*Store, error) {
	dir := filepath.Join(root, sessionPrefix+startedAt.Format(sessionStamp))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating session directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// At returns a Store bound to an existing directory.
func At(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) Dir() string { return s.dir }

// FramePath returns the on-disk path for the given 1-based page index.
func (s *Store) FramePath(page int) string {
	return filepath.Join(s.dir, fmt.Sprintf(framePattern, page))
}

// SaveFrame writes the image for the given page index and returns its path.
func (s *Store) SaveFrame(page int, img image.Image) (string, error) {
	path := s.FramePath(page)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating frame %d: %w", page, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("encoding frame %d: %w", page, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("writing frame %d: %w", page, err)
	}
	return path, nil
}

// RemoveFrame deletes the frame for the given page index. Used only to drop
// the trailing duplicate page.
func (s *Store) RemoveFrame(page int) error {
	if err := os.Remove(s.FramePath(page)); err != nil {
		return fmt.Errorf("removing frame %d: %w", page, err)
	}
	return nil
}

// Frames lists the saved frame paths in page order.
func (s *Store) Frames() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir, "page_*.png"))
	if err != nil {
		return nil, err
	}
	// Glob output is sorted, and frame names sort in capture order.
	return matches, nil
}
