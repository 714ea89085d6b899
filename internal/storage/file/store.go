// Package file loads authored property documents from a directory.
package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"eiendom_showcase/internal/adapters/observability"
	"eiendom_showcase/internal/domain"
)

// Problem describes a file that was skipped during a load.
type Problem struct {
	Path string
	Err  error
}

func (p Problem) Error() string { return p.Path + ": " + p.Err.Error() }

var errDuplicateID = errors.New("duplicate id")

type snapshot struct {
	items    []domain.Property
	sources  []string // file path per item
	byID     map[string]int
	problems []Problem
	loadedAt time.Time
}

func (s *snapshot) ids() []string {
	out := make([]string, len(s.items))
	for i, p := range s.items {
		out[i] = p.ID
	}
	return out
}

// Store serves an immutable snapshot of the data directory. Reload swaps it atomically.
type Store struct {
	dir      string
	snap     atomic.Pointer[snapshot]
	reloadMu sync.Mutex
	debounce time.Duration
}

// Open reads dir once. A missing or unreadable directory is an error; bad files are not.
func Open(dir string) (*Store, error) {
	s := &Store{dir: dir, debounce: 250 * time.Millisecond}
	if _, err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) Dir() string { return s.dir }

func (s *Store) GetAll(ctx context.Context) ([]domain.Property, error) {
	return slices.Clone(s.snap.Load().items), nil
}

func (s *Store) GetByID(ctx context.Context, id string) (domain.Property, error) {
	snap := s.snap.Load()
	i, ok := snap.byID[id]
	if !ok {
		return domain.Property{}, domain.ErrNotFound
	}
	return snap.items[i], nil
}

// Problems lists the files skipped by the last successful load.
func (s *Store) Problems() []Problem {
	return slices.Clone(s.snap.Load().problems)
}

// Source returns the file a property was read from.
func (s *Store) Source(id string) (string, bool) {
	snap := s.snap.Load()
	i, ok := snap.byID[id]
	if !ok {
		return "", false
	}
	return snap.sources[i], true
}

// Reload rereads the directory and returns the ids present before or after,
// so callers can evict anything derived from them. On error the previous
// snapshot stays in place.
func (s *Store) Reload() ([]string, error) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	next, err := readDir(s.dir)
	if err != nil {
		observability.ObserveReload("error")
		return nil, err
	}
	prev := s.snap.Swap(next)
	observability.ObserveReload("ok")

	log.Info().
		Str("dir", s.dir).
		Int("properties", len(next.items)).
		Int("problems", len(next.problems)).
		Msg("property data loaded")
	for _, p := range next.problems {
		log.Warn().Str("file", p.Path).Err(p.Err).Msg("property file skipped")
	}

	touched := next.ids()
	if prev != nil {
		touched = append(touched, prev.ids()...)
		slices.Sort(touched)
		touched = slices.Compact(touched)
	}
	return touched, nil
}

func isDataFile(name string) (ok, isYAML bool) {
	if strings.HasPrefix(name, ".") {
		return false, false
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return true, false
	case ".yaml", ".yml":
		return true, true
	}
	return false, false
}

func readDir(dir string) (*snapshot, error) {
	ents, err := os.ReadDir(dir) // sorted by name
	if err != nil {
		return nil, fmt.Errorf("read data dir: %w", err)
	}
	snap := &snapshot{byID: make(map[string]int, len(ents)), loadedAt: time.Now()}
	for _, e := range ents {
		if e.IsDir() {
			continue
		}
		ok, isYAML := isDataFile(e.Name())
		if !ok {
			continue
		}
		path := filepath.Join(dir, e.Name())
		p, err := readFile(path, isYAML)
		if err != nil {
			snap.problems = append(snap.problems, Problem{Path: path, Err: err})
			continue
		}
		if _, dup := snap.byID[p.ID]; dup {
			snap.problems = append(snap.problems, Problem{Path: path, Err: fmt.Errorf("%w %q", errDuplicateID, p.ID)})
			continue
		}
		snap.byID[p.ID] = len(snap.items)
		snap.items = append(snap.items, p)
		snap.sources = append(snap.sources, path)
	}
	return snap, nil
}

func readFile(path string, isYAML bool) (domain.Property, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return domain.Property{}, err
	}
	doc, err := decodeDocument(b, isYAML)
	if err != nil {
		return domain.Property{}, err
	}
	if err := validate(doc); err != nil {
		return domain.Property{}, err
	}
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return mapProperty(doc, stem), nil
}
