package ids

import "sync"

// Allocator produces unique, monotonically increasing ids
type Allocator struct {
	mu   sync.Mutex
	next int
}

// NewAllocator returns an allocator whose first id is 1
func NewAllocator() *Allocator {
	return &Allocator{next: 1}
}

// Next returns a fresh id and advances the counter
func (a *Allocator) Next() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.next < 1 {
		a.next = 1
	}
	id := a.next
	a.next++
	return id
}

// Reseed moves the counter up to floor. It never moves it down.
func (a *Allocator) Reseed(floor int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if floor > a.next {
		a.next = floor
	}
}

// Peek returns the id the next call to Next will hand out
func (a *Allocator) Peek() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.next < 1 {
		return 1
	}
	return a.next
}
