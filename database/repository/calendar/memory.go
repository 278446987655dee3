// File: database/repository/calendar/memory.go
package calendarRepo

import (
	"context"
	"sync"
)

// memorySlotStore keeps the calendar in process memory, date -> hour -> payload.
// Lifecycle is process start to process end, no persistence.
type memorySlotStore struct {
	mu       sync.RWMutex
	calendar map[string]map[int]map[string]any
}

// NewMemorySlotStore constructs the in-memory SlotStore.
func NewMemorySlotStore() SlotStore {
	return &memorySlotStore{
		calendar: make(map[string]map[int]map[string]any),
	}
}

func (s *memorySlotStore) IsFree(ctx context.Context, date string, hour int) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.calendar[date][hour] == nil, nil
}

func (s *memorySlotStore) Reserve(ctx context.Context, date string, hour int, payload map[string]any) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	day, ok := s.calendar[date]
	if !ok {
		day = make(map[int]map[string]any)
		s.calendar[date] = day
	}
	day[hour] = payload
	return SlotKey(date, hour), nil
}
