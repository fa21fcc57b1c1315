package catalog

import (
	"context"
	"sync"

	"recordhub/pkg/domain"
	"recordhub/pkg/platform/sentinel"
)

// InMemoryStore holds the item collection. A single RWMutex guards the map
// and the insertion-order index so every mutation is atomic and reads never
// observe a half-applied change. Items are hard-deleted: the catalog domain
// has no dependents and no retention requirement.
type InMemoryStore struct {
	mu    sync.RWMutex
	items map[domain.ItemID]*Item
	order []domain.ItemID
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{items: make(map[domain.ItemID]*Item)}
}

func (s *InMemoryStore) Create(_ context.Context, item *Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[item.ID]; ok {
		return sentinel.ErrConflict
	}
	s.items[item.ID] = item
	s.order = append(s.order, item.ID)
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id domain.ItemID) (*Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *item
	return &copied, nil
}

// Execute runs validate then mutate on the item under the write lock, making
// validate-then-mutate atomic. Nothing is changed when validate fails.
func (s *InMemoryStore) Execute(_ context.Context, id domain.ItemID, validate func(*Item) error, mutate func(*Item)) (*Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if err := validate(item); err != nil {
		return nil, err
	}
	mutate(item)
	copied := *item
	return &copied, nil
}

// Delete removes the item and returns the pre-deletion snapshot.
func (s *InMemoryStore) Delete(_ context.Context, id domain.ItemID) (*Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	delete(s.items, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	snapshot := *item
	return &snapshot, nil
}

// List returns items matching the filter in insertion order.
func (s *InMemoryStore) List(_ context.Context, filter Filter) ([]*Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Item
	for _, id := range s.order {
		item := s.items[id]
		if !filter.matches(item) {
			continue
		}
		copied := *item
		out = append(out, &copied)
	}
	return out, nil
}

// Count returns the number of stored items, for the health endpoint.
func (s *InMemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}
