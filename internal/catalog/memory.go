package catalog

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

type memorySession struct {
	// everything except AvailableSlots is fixed once seeded
	session ClassSession
	slots   atomic.Int64
}

func (m *memorySession) current() ClassSession {
	cs := m.session
	cs.AvailableSlots = int(m.slots.Load())
	return cs
}

// MemoryRepository keeps sessions in process. Reservations on one class
// never wait on another: each counter is decremented with a CAS loop.
type MemoryRepository struct {
	mu    sync.RWMutex
	byID  map[int]*memorySession
	order []*memorySession
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byID: make(map[int]*memorySession)}
}

func (r *MemoryRepository) ListUpcoming(_ context.Context, asOf time.Time) ([]ClassSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]ClassSession, 0, len(r.order))
	for _, s := range r.order {
		if s.session.StartsAt.After(asOf) {
			result = append(result, s.current())
		}
	}
	return result, nil
}

func (r *MemoryRepository) ListAll(_ context.Context) ([]ClassSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]ClassSession, 0, len(r.order))
	for _, s := range r.order {
		result = append(result, s.current())
	}
	return result, nil
}

func (r *MemoryRepository) ReserveSlot(_ context.Context, classID int) (*Snapshot, error) {
	r.mu.RLock()
	s, ok := r.byID[classID]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrClassNotFound
	}

	for {
		left := s.slots.Load()
		if left <= 0 {
			return nil, ErrNoSlotsAvailable
		}
		if s.slots.CompareAndSwap(left, left-1) {
			return &Snapshot{
				ID:             s.session.ID,
				Name:           s.session.Name,
				StartsAt:       s.session.StartsAt,
				RemainingSlots: int(left - 1),
			}, nil
		}
	}
}

// Seed adds sessions whose ids are not present yet. Existing ids are left
// untouched so a restart never resets live counters.
func (r *MemoryRepository) Seed(_ context.Context, sessions []ClassSession) error {
	for _, cs := range sessions {
		if err := validateSession(cs); err != nil {
			return err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, cs := range sessions {
		if _, exists := r.byID[cs.ID]; exists {
			continue
		}
		s := &memorySession{session: cs}
		s.slots.Store(int64(cs.AvailableSlots))
		r.byID[cs.ID] = s
		r.order = append(r.order, s)
	}
	return nil
}

func validateSession(cs ClassSession) error {
	switch {
	case cs.ID <= 0:
		return fmt.Errorf("%w: id must be positive, got %d", ErrInvalidSession, cs.ID)
	case cs.AvailableSlots < 0:
		return fmt.Errorf("%w: class %d has negative slots", ErrInvalidSession, cs.ID)
	case cs.AvailableSlots > cs.Capacity:
		return fmt.Errorf("%w: class %d has more slots than capacity", ErrInvalidSession, cs.ID)
	case cs.StartsAt.IsZero():
		return fmt.Errorf("%w: class %d has no start time", ErrInvalidSession, cs.ID)
	}
	return nil
}
