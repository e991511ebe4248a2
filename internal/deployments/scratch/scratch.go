package scratch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Space hands out request-scoped working directories under a single root.
type Space struct {
	root    string
	newName func() string
	// held contains the paths of acquired, not yet released directories.
	held sync.Map
}

// NewSpace creates the root directory if needed.
func NewSpace(root string) (*Space, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create scratch root: %w", err)
	}
	return &Space{root: root, newName: func() string { return uuid.New().String() }}, nil
}

// WithNameFunc replaces the directory name source.
func (s *Space) WithNameFunc(fn func() string) *Space {
	s.newName = fn
	return s
}

func (s *Space) Root() string { return s.root }

// Dir is one acquired scratch directory. Release must be called on every path.
type Dir struct {
	Path  string
	space *Space
}

// Acquire creates a fresh directory. A name collision is retried exactly once.
func (s *Space) Acquire() (*Dir, error) {
	var err error
	for attempt := 0; attempt < 2; attempt++ {
		path := filepath.Join(s.root, s.newName())
		err = os.Mkdir(path, 0o755)
		if err == nil {
			s.held.Store(path, struct{}{})
			return &Dir{Path: path, space: s}, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create scratch dir: %w", err)
		}
	}
	return nil, fmt.Errorf("create scratch dir: %w", err)
}

// Release removes the directory tree.
func (d *Dir) Release() error {
	if d == nil || d.Path == "" {
		return nil
	}
	err := os.RemoveAll(d.Path)
	if d.space != nil {
		d.space.held.Delete(d.Path)
	}
	return err
}

// InFlight reports whether path was acquired from s and not yet released.
func (s *Space) InFlight(path string) bool {
	_, ok := s.held.Load(path)
	return ok
}

// Sweep removes directories under the root last modified before now-maxAge.
// Directories still held by a request of this process are skipped.
func (s *Space) Sweep(maxAge time.Duration, now time.Time) ([]string, error) {
	if maxAge <= 0 {
		return nil, fmt.Errorf("sweep max age must be positive, got %s", maxAge)
	}

	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("read scratch root: %w", err)
	}

	cutoff := now.Add(-maxAge)
	var removed []string
	var errs []error
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(s.root, e.Name())
		if s.InFlight(path) {
			continue
		}
		if err := os.RemoveAll(path); err != nil {
			errs = append(errs, err)
			continue
		}
		removed = append(removed, path)
	}
	return removed, errors.Join(errs...)
}
