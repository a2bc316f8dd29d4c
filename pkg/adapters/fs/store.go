// Package fs provides a filesystem-backed core.Store: one JSON document
// per review under a data directory, with atomic writes and an optional
// watcher that turns out-of-band file edits into broadcast events.
package fs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/revio/revio/pkg/core"
)

const recordPattern = "*.json"

// Config holds the configuration for the filesystem store.
type Config struct {
	Path      string
	AutoInit  bool // create the directory if missing
	MustExist bool // fail Initialize if the directory is missing
	Logger    *slog.Logger
}

// Store implements core.Store on a directory of JSON documents. An
// in-memory index mirrors the directory; all disk writes go through
// atomic temp-file renames so the watcher and concurrent readers never
// observe partial records.
type Store struct {
	Path   string
	config Config
	logger *slog.Logger

	mu      sync.RWMutex
	reviews map[string]core.Review
	order   []string
}

// NewStore creates a filesystem-backed store rooted at config.Path.
func NewStore(config Config) *Store {
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{
		Path:    config.Path,
		config:  config,
		logger:  logger,
		reviews: make(map[string]core.Review),
	}
}

// Initialize ensures the data directory exists and loads every record
// into the index.
func (s *Store) Initialize(ctx context.Context) error {
	info, err := os.Stat(s.Path)
	switch {
	case os.IsNotExist(err):
		if s.config.MustExist {
			return fmt.Errorf("data directory does not exist: %s", s.Path)
		}
		if err := os.MkdirAll(s.Path, 0755); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}
	case err != nil:
		return err
	case !info.IsDir():
		return fmt.Errorf("data path is not a directory: %s", s.Path)
	}

	return s.scan(ctx)
}

// scan rebuilds the index from disk. Records load in filename order;
// since filenames are ULIDs this reproduces insertion order.
func (s *Store) scan(ctx context.Context) error {
	matches, err := doublestar.Glob(os.DirFS(s.Path), recordPattern)
	if err != nil {
		return fmt.Errorf("failed to scan data directory: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.reviews = make(map[string]core.Review, len(matches))
	s.order = s.order[:0]
	for _, name := range matches {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		r, err := s.load(name)
		if err != nil {
			s.logger.Warn("skipping unreadable record", "file", name, "error", err)
			continue
		}
		s.reviews[r.ID] = r
		s.order = append(s.order, r.ID)
	}

	s.logger.Debug("data directory scanned", "records", len(s.order))
	return nil
}

// load reads and decodes a single record file (path relative to the data
// directory).
func (s *Store) load(name string) (core.Review, error) {
	data, err := os.ReadFile(filepath.Join(s.Path, name))
	if err != nil {
		return core.Review{}, err
	}
	var r core.Review
	if err := json.Unmarshal(data, &r); err != nil {
		return core.Review{}, fmt.Errorf("failed to parse record %s: %w", name, err)
	}
	if r.ID == "" {
		r.ID = strings.TrimSuffix(name, ".json")
	}
	return r, nil
}

func (s *Store) filename(id string) string {
	return filepath.Join(s.Path, id+".json")
}

// write persists a record to disk. Caller holds the write lock.
func (s *Store) write(r core.Review) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize review: %w", err)
	}
	return writeFileAtomic(s.filename(r.ID), data, 0644)
}

// Insert implements core.Store.
func (s *Store) Insert(ctx context.Context, r core.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.reviews[r.ID]; exists {
		return fmt.Errorf("duplicate id %s", r.ID)
	}
	if err := s.write(r); err != nil {
		return err
	}
	s.reviews[r.ID] = r
	s.order = append(s.order, r.ID)
	return nil
}

// Get implements core.Store.
func (s *Store) Get(ctx context.Context, id string) (core.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.reviews[id]
	if !ok {
		return core.Review{}, core.ErrNotFound
	}
	return r, nil
}

// Update implements core.Store. The read-modify-write and the disk write
// happen under the write lock; the index only changes after the file
// rename succeeded.
func (s *Store) Update(ctx context.Context, id string, mutate func(core.Review) (core.Review, error)) (core.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.reviews[id]
	if !ok {
		return core.Review{}, core.ErrNotFound
	}
	updated, err := mutate(r)
	if err != nil {
		return core.Review{}, err
	}
	updated.ID = id
	if err := s.write(updated); err != nil {
		return core.Review{}, err
	}
	s.reviews[id] = updated
	return updated, nil
}

// List implements core.Store.
func (s *Store) List(ctx context.Context, q core.Query) ([]core.Review, int, error) {
	s.mu.RLock()
	all := make([]core.Review, 0, len(s.order))
	for _, id := range s.order {
		all = append(all, s.reviews[id])
	}
	s.mu.RUnlock()

	page, total := core.Select(all, q)
	return page, total, nil
}

// applyExternal folds a change observed on disk (not made through this
// process) into the index. It returns the event to broadcast, or nil when
// the index already matches.
func (s *Store) applyExternal(name string) (*core.Event, error) {
	ok, err := doublestar.Match(recordPattern, name)
	if err != nil || !ok {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := strings.TrimSuffix(name, ".json")
	r, err := s.load(name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s.dropLocked(id), nil
		}
		return nil, err
	}

	if cur, known := s.reviews[r.ID]; known {
		if reviewEqual(cur, r) {
			// Our own write coming back through the watcher.
			return nil, nil
		}
		s.reviews[r.ID] = r
		return &core.Event{Kind: core.EventUpdated, Review: &r, ID: r.ID}, nil
	}
	s.reviews[r.ID] = r
	s.order = append(s.order, r.ID)
	return &core.Event{Kind: core.EventAdded, Review: &r, ID: r.ID}, nil
}

// dropExternal removes a record whose file disappeared from disk.
func (s *Store) dropExternal(name string) *core.Event {
	ok, err := doublestar.Match(recordPattern, name)
	if err != nil || !ok {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropLocked(strings.TrimSuffix(name, ".json"))
}

func (s *Store) dropLocked(id string) *core.Event {
	if _, known := s.reviews[id]; !known {
		return nil
	}
	delete(s.reviews, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return &core.Event{Kind: core.EventDeleted, ID: id}
}

// reviewEqual compares field by field; time.Time needs Equal to ignore
// monotonic clock readings that never survive a JSON round trip.
func reviewEqual(a, b core.Review) bool {
	if a.ID != b.ID || a.Title != b.Title || a.Content != b.Content {
		return false
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return false
	}
	if (a.DeletedAt == nil) != (b.DeletedAt == nil) {
		return false
	}
	return a.DeletedAt == nil || a.DeletedAt.Equal(*b.DeletedAt)
}

var _ core.Store = (*Store)(nil)

