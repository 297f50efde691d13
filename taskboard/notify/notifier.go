// Package notify is a small synchronous publish/subscribe bus for board snapshots.
package notify

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/arthur-debert/taskboard/types"
	"github.com/google/uuid"
)

// Callback receives every snapshot published after it subscribed
type Callback func(types.Snapshot)

// Subscription identifies one registered callback
type Subscription struct {
	ID          uuid.UUID
	unsubscribe func()
}

// Unsubscribe removes the callback. Calling it more than once is harmless.
func (s Subscription) Unsubscribe() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
}

type subscriber struct {
	id uuid.UUID
	fn Callback
}

// Notifier fans a snapshot out to subscribers in subscription order
type Notifier struct {
	mu     sync.RWMutex
	subs   []subscriber
	logger *slog.Logger
}

// New creates a notifier that reports callback failures to logger.
// A nil logger falls back to slog.Default().
func New(logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{logger: logger}
}

// Subscribe registers fn. There is no replay of earlier snapshots.
func (n *Notifier) Subscribe(fn Callback) Subscription {
	id := uuid.New()
	n.mu.Lock()
	n.subs = append(n.subs, subscriber{id: id, fn: fn})
	n.mu.Unlock()

	var once sync.Once
	return Subscription{
		ID: id,
		unsubscribe: func() {
			once.Do(func() { n.remove(id) })
		},
	}
}

// Len returns the number of active subscribers
func (n *Notifier) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.subs)
}

// Notify calls every subscriber with snap, in order, on the calling goroutine.
// A callback that panics is logged and skipped; the rest still run.
// It returns the number of callbacks that failed.
func (n *Notifier) Notify(snap types.Snapshot) int {
	// Copy so callbacks can subscribe or unsubscribe without deadlocking
	n.mu.RLock()
	subs := make([]subscriber, len(n.subs))
	copy(subs, n.subs)
	n.mu.RUnlock()

	failed := 0
	for _, sub := range subs {
		if err := deliver(sub, snap); err != nil {
			failed++
			n.logger.Error("subscriber failed",
				"subscription", sub.id.String(),
				"error", err)
		}
	}
	return failed
}

func (n *Notifier) remove(id uuid.UUID) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i, sub := range n.subs {
		if sub.id == id {
			n.subs = append(n.subs[:i:i], n.subs[i+1:]...)
			return
		}
	}
}

func deliver(sub subscriber, snap types.Snapshot) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in subscriber: %v", r)
		}
	}()
	sub.fn(snap)
	return nil
}
