package subscribers

import (
	"context"
	"sort"
	"sync"
)

// Memory keeps the subscriber set in process memory only. State is lost on
// restart; meant for tests and throwaway deployments.
type Memory struct {
	mu  sync.Mutex
	ids map[int64]struct{}
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{ids: make(map[int64]struct{})}
}

// Add inserts id and reports true when it was not present before.
func (s *Memory) Add(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ids[id]; ok {
		return false, nil
	}
	s.ids[id] = struct{}{}
	return true, nil
}

// Remove deletes id and reports true when it was present.
func (s *Memory) Remove(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ids[id]; !ok {
		return false, nil
	}
	delete(s.ids, id)
	return true, nil
}

// Contains reports whether id is subscribed.
func (s *Memory) Contains(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.ids[id]
	return ok, nil
}

// Count returns the current cardinality of the set.
func (s *Memory) Count(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ids), nil
}

// All returns a sorted snapshot of the set.
func (s *Memory) All(ctx context.Context) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]int64, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}
