package httpapi

import (
	"sync"

	"github.com/arthur-debert/taskboard/types"
	"github.com/google/uuid"
)

// updateBroker hands the latest snapshot to every connected stream client.
// Each client has a one-slot buffer; a slow client skips intermediate
// snapshots and only sees the newest one.
type updateBroker struct {
	mu   sync.Mutex
	subs map[uuid.UUID]chan types.Snapshot
}

func newUpdateBroker() *updateBroker {
	return &updateBroker{subs: make(map[uuid.UUID]chan types.Snapshot)}
}

func (b *updateBroker) subscribe() (uuid.UUID, <-chan types.Snapshot) {
	id := uuid.New()
	ch := make(chan types.Snapshot, 1)
	b.mu.Lock()
	b.subs[id] = ch
	b.mu.Unlock()
	return id, ch
}

func (b *updateBroker) unsubscribe(id uuid.UUID) {
	b.mu.Lock()
	delete(b.subs, id)
	b.mu.Unlock()
}

func (b *updateBroker) clients() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// publish is registered as a store subscriber
func (b *updateBroker) publish(snap types.Snapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- snap:
			continue
		default:
		}
		// Full: replace the stale snapshot with this one
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}
