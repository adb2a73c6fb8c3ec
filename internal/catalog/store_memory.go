package catalog

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemStore keeps items in a map. It backs tests and local development.
type MemStore struct {
	mu sync.RWMutex
	m  map[string]Item
}

func NewMemStore() *MemStore {
	return &MemStore{m: map[string]Item{}}
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) Insert(ctx context.Context, it Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[it.ID] = it
	return nil
}

func (s *MemStore) Get(ctx context.Context, id string) (Item, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	it, ok := s.m[id]
	return it, ok, nil
}

func (s *MemStore) ListNewestFirst(ctx context.Context) ([]Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(func(Item) bool { return true }), nil
}

func (s *MemStore) SearchNewestFirst(ctx context.Context, query string) ([]Item, error) {
	q := strings.ToLower(query)

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(func(it Item) bool {
		return strings.Contains(strings.ToLower(it.Name), q) ||
			strings.Contains(strings.ToLower(it.Description), q)
	}), nil
}

func (s *MemStore) Replace(ctx context.Context, it Item) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.m[it.ID]; !ok {
		return false, nil
	}
	s.m[it.ID] = it
	return true, nil
}

func (s *MemStore) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.m[id]; !ok {
		return false, nil
	}
	delete(s.m, id)
	return true, nil
}

// collect expects the read lock to be held.
func (s *MemStore) collect(keep func(Item) bool) []Item {
	out := make([]Item, 0, len(s.m))
	for _, it := range s.m {
		if keep(it) {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}
