package worker

import (
	"context"
	"sync"

	"linecut/internal/model"
)

// StatusStore remembers the last status seen for each order.
type StatusStore interface {
	// Swap records status and returns the one recorded before. seen is false
	// the first time an order shows up.
	Swap(ctx context.Context, orderID string, status model.OrderStatus) (prev model.OrderStatus, seen bool, err error)
	// Retain forgets orders not in keep.
	Retain(ctx context.Context, keep map[string]struct{}) error
}

type MemoryStatusStore struct {
	mu       sync.Mutex
	statuses map[string]model.OrderStatus
}

func NewMemoryStatusStore() *MemoryStatusStore {
	return &MemoryStatusStore{statuses: make(map[string]model.OrderStatus)}
}

func (s *MemoryStatusStore) Swap(_ context.Context, orderID string, status model.OrderStatus) (model.OrderStatus, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, seen := s.statuses[orderID]
	s.statuses[orderID] = status
	return prev, seen, nil
}

func (s *MemoryStatusStore) Retain(_ context.Context, keep map[string]struct{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id := range s.statuses {
		if _, ok := keep[id]; !ok {
			delete(s.statuses, id)
		}
	}
	return nil
}

func (s *MemoryStatusStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.statuses)
}
