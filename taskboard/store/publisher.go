package store

import "sync"

// publisher delivers notifications in the order their mutations committed.
// A ticket is drawn while the state lock is held; delivery happens after the
// lock is released and waits for every earlier ticket to be delivered.
type publisher struct {
	mu        sync.Mutex
	cond      *sync.Cond
	issued    uint64
	delivered uint64
}

func newPublisher() *publisher {
	p := &publisher{}
	p.cond = sync.NewCond(&p.mu)
	return p
}

// ticket must be called with the store's write lock held
func (p *publisher) ticket() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.issued++
	return p.issued
}

// publish runs fn once every earlier ticket has been published
func (p *publisher) publish(ticket uint64, fn func()) {
	p.mu.Lock()
	for p.delivered != ticket-1 {
		p.cond.Wait()
	}
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.delivered = ticket
		p.cond.Broadcast()
		p.mu.Unlock()
	}()
	fn()
}
