// Package assignees keeps the ordered set of names that have ever been assigned
// to a task. Input adapters use it for autocomplete.
package assignees

import (
	"fmt"
	"strings"
	"sync"

	"github.com/arthur-debert/taskboard/internal/validation"
)

// Saver persists the full set of names
type Saver interface {
	SaveAssignees(names []string) error
}

// Registry is an append-only, insertion-ordered set of assignee names.
// Names are compared after trimming, case-sensitively.
type Registry struct {
	mu    sync.RWMutex
	names []string
	index map[string]struct{}
	saver Saver
}

// New builds a registry from previously persisted names. Blank and duplicate
// entries in initial are dropped. saver may be nil for a memory-only registry.
func New(initial []string, saver Saver) *Registry {
	r := &Registry{
		index: make(map[string]struct{}, len(initial)),
		saver: saver,
	}
	for _, name := range initial {
		r.add(name)
	}
	return r
}

// Known returns a copy of the names in insertion order
func (r *Registry) Known() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Contains reports whether the trimmed name is already known
func (r *Registry) Contains(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.index[strings.TrimSpace(name)]
	return ok
}

// Len returns the number of known names
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.names)
}

// Record adds name if it is new and persists the set. It reports whether the
// name was added. A returned error is a persistence failure only: the name stays
// recorded in memory.
func (r *Registry) Record(name string) (bool, error) {
	added, err := r.RecordAll([]string{name})
	return added > 0, err
}

// RecordAll adds every new distinct name, in order, and persists once
func (r *Registry) RecordAll(names []string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	added := 0
	for _, name := range names {
		if r.add(name) {
			added++
		}
	}
	if added == 0 {
		return 0, nil
	}
	return added, r.save()
}

// Replace swaps the whole set for names without persisting. Used when the
// backing store was changed by someone else and is already up to date.
func (r *Registry) Replace(names []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.names = nil
	r.index = make(map[string]struct{}, len(names))
	for _, name := range names {
		r.add(name)
	}
}

// add must be called with the write lock held (or during construction)
func (r *Registry) add(name string) bool {
	if validation.IsBlank(name) {
		return false
	}
	name = strings.TrimSpace(name)
	if _, exists := r.index[name]; exists {
		return false
	}
	r.index[name] = struct{}{}
	r.names = append(r.names, name)
	return true
}

func (r *Registry) save() error {
	if r.saver == nil {
		return nil
	}
	snapshot := make([]string, len(r.names))
	copy(snapshot, r.names)
	if err := r.saver.SaveAssignees(snapshot); err != nil {
		return fmt.Errorf("failed to save assignees: %w", err)
	}
	return nil
}
