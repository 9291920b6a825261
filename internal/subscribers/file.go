package subscribers

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"kinobot/core/logger"
	"kinobot/core/metrics"
	"log/slog"
)

// fileLayout is the on-disk shape. Unknown fields are ignored on read.
type fileLayout struct {
	Subscribers []int64 `json:"subscribers"`
}

// File keeps the subscriber set in memory and mirrors every change into a
// single JSON file. Writes go through a temp file and rename so a crash never
// leaves a truncated file in place of a good one.
type File struct {
	path string

	mu  sync.Mutex
	ids map[int64]struct{}
}

// NewFile loads the set stored at path, creating parent directories as
// needed. A missing or unreadable file starts the set empty.
func NewFile(path string) (*File, error) {
	if path == "" {
		return nil, fmt.Errorf("subscribers: empty storage path")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("subscribers: create storage dir: %w", err)
		}
	}

	s := &File{path: path, ids: make(map[int64]struct{})}
	s.load()

	logger.Info(context.Background(), "store", "store.load",
		slog.String("driver", "file"),
		slog.String("path", path),
		slog.Int("count", len(s.ids)),
	)
	return s, nil
}

func (s *File) load() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn(context.Background(), "store", "store.load",
				slog.String("status", "fail"),
				slog.String("driver", "file"),
				slog.String("path", s.path),
				slog.String("err", err.Error()),
			)
		}
		return
	}
	var layout fileLayout
	if err := json.Unmarshal(data, &layout); err != nil {
		logger.Warn(context.Background(), "store", "store.load",
			slog.String("status", "fail"),
			slog.String("driver", "file"),
			slog.String("path", s.path),
			slog.String("err", err.Error()),
		)
		return
	}
	for _, id := range layout.Subscribers {
		s.ids[id] = struct{}{}
	}
}

// Add inserts id and persists the full set. It reports true when id was not
// present before. A failed write returns true together with ErrPersist; the
// in-memory membership keeps the change.
func (s *File) Add(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ids[id]; ok {
		return false, nil
	}
	s.ids[id] = struct{}{}
	return true, s.persist(ctx)
}

// Remove deletes id and persists the full set. It reports true when id was
// present. A failed write returns true together with ErrPersist.
func (s *File) Remove(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ids[id]; !ok {
		return false, nil
	}
	delete(s.ids, id)
	return true, s.persist(ctx)
}

// Contains reports whether id is subscribed.
func (s *File) Contains(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.ids[id]
	return ok, nil
}

// Count returns the current cardinality of the set.
func (s *File) Count(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ids), nil
}

// All returns a sorted snapshot of the set.
func (s *File) All(ctx context.Context) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot(), nil
}

// snapshot must be called with the lock held.
func (s *File) snapshot() []int64 {
	ids := make([]int64, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// persist rewrites the whole file. Must be called with the lock held.
func (s *File) persist(ctx context.Context) error {
	data, err := json.MarshalIndent(fileLayout{Subscribers: s.snapshot()}, "", "  ")
	if err != nil {
		return s.persistFailed(ctx, err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return s.persistFailed(ctx, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return s.persistFailed(ctx, err)
	}

	metrics.StoreWrites.WithLabelValues("ok").Inc()
	logger.Debug(ctx, "store", "store.persist",
		slog.String("status", "ok"),
		slog.String("driver", "file"),
		slog.Int("count", len(s.ids)),
	)
	return nil
}

func (s *File) persistFailed(ctx context.Context, err error) error {
	metrics.StoreWrites.WithLabelValues("fail").Inc()
	logger.Error(ctx, "store", "store.persist",
		slog.String("status", "fail"),
		slog.String("driver", "file"),
		slog.String("path", s.path),
		slog.Int("count", len(s.ids)),
		slog.String("err", err.Error()),
	)
	return fmt.Errorf("%w: %v", ErrPersist, err)
}
