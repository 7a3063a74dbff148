package booking

import (
	"context"
	"sync"
	"time"
)

type MemoryRepository struct {
	mu      sync.RWMutex
	nextID  int
	entries []Booking
	byEmail map[string][]int
	byClass map[int]int
	now     func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		nextID:  1,
		byEmail: make(map[string][]int),
		byClass: make(map[int]int),
		now:     time.Now,
	}
}

func (r *MemoryRepository) Append(_ context.Context, nb NewBooking) (*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b := Booking{
		ID:            r.nextID,
		ClassID:       nb.ClassID,
		ClassName:     nb.ClassName,
		ClassStartsAt: nb.ClassStartsAt,
		ClientName:    nb.ClientName,
		ClientEmail:   nb.ClientEmail,
		CreatedAt:     r.now(),
	}
	r.nextID++

	r.byEmail[b.ClientEmail] = append(r.byEmail[b.ClientEmail], len(r.entries))
	r.byClass[b.ClassID]++
	r.entries = append(r.entries, b)

	return &b, nil
}

func (r *MemoryRepository) FindByEmail(_ context.Context, email string) ([]Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx := r.byEmail[email]
	result := make([]Booking, 0, len(idx))
	for _, i := range idx {
		result = append(result, r.entries[i])
	}
	return result, nil
}

func (r *MemoryRepository) CountByClass(_ context.Context) (map[int]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[int]int, len(r.byClass))
	for id, n := range r.byClass {
		counts[id] = n
	}
	return counts, nil
}
