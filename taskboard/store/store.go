// Package store owns the canonical task list of a board.
//
// Every mutation follows the same protocol: compute a new snapshot, swap it in,
// persist it, then notify subscribers. Persisting before notifying means a
// subscriber that reads storage sees what it was just told about. Mutations are
// serialized by a write lock; notifications are delivered after the lock is
// released, in commit order, so subscribers may read the store from their
// callback. Subscribers must not mutate the store from inside a callback.
package store

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/arthur-debert/taskboard/taskboard/assignees"
	"github.com/arthur-debert/taskboard/taskboard/ids"
	"github.com/arthur-debert/taskboard/taskboard/imports"
	"github.com/arthur-debert/taskboard/taskboard/notify"
	"github.com/arthur-debert/taskboard/taskboard/storage"
	"github.com/arthur-debert/taskboard/types"
)

// Store is the single writer of a board's tasks
type Store struct {
	adapter   storage.Adapter
	allocator *ids.Allocator
	registry  *assignees.Registry
	notifier  *notify.Notifier
	logger    *slog.Logger

	seed           SeedPolicy
	persistRetries int

	locks     *LockManager
	publisher *publisher
	snapshot  types.Snapshot
}

// New creates a store over adapter. Call Initialize before use to load
// persisted state.
func New(adapter storage.Adapter, opts ...Option) *Store {
	s := &Store{
		adapter:        adapter,
		persistRetries: 1,
		locks:          NewLockManager(),
		publisher:      newPublisher(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.allocator == nil {
		s.allocator = ids.NewAllocator()
	}
	if s.notifier == nil {
		s.notifier = notify.New(s.logger)
	}
	s.registry = assignees.New(nil, adapter)
	return s
}

// Initialize loads the persisted board. A non-empty persisted list is adopted
// as is and the id allocator moves past its highest id. An absent or empty list
// is handled by the seed policy. Initialize does not notify subscribers.
func (s *Store) Initialize() error {
	tasks, found, err := s.adapter.LoadTasks()
	if err != nil {
		return fmt.Errorf("failed to load tasks: %w", err)
	}
	names, err := s.adapter.LoadAssignees()
	if err != nil {
		return fmt.Errorf("failed to load assignees: %w", err)
	}

	var warning error
	err = s.locks.Execute(WriteOperation, func() error {
		s.registry.Replace(names)

		if found && len(tasks) > 0 {
			s.snapshot = types.NewSnapshot(tasks)
			s.allocator.Reseed(s.snapshot.MaxID() + 1)
			s.warnDuplicateIDs(s.snapshot)
			s.logger.Debug("board loaded",
				"tasks", s.snapshot.Len(),
				"next_id", s.allocator.Peek(),
				"assignees", s.registry.Len())
			return nil
		}

		s.snapshot = types.Snapshot{}
		if s.seed == SeedExamples {
			warning = s.seedExamples()
		}
		s.logger.Debug("board initialized empty", "seed", s.seed.String())
		return nil
	})
	if err != nil {
		return err
	}
	return warning
}

// seedExamples must be called with the write lock held
func (s *Store) seedExamples() error {
	examples := exampleTasks()
	names := make([]string, 0, len(examples))
	for i := range examples {
		examples[i].ID = s.allocator.Next()
		names = append(names, examples[i].Assignee)
	}
	s.snapshot = types.NewSnapshot(examples)

	_, regErr := s.registry.RecordAll(names)
	return errors.Join(s.persist("seed", s.snapshot), s.registryWarning(regErr))
}

// Reload re-reads persisted state, typically after another process changed it.
// Subscribers are notified when the task list differs from the current one.
func (s *Store) Reload() error {
	var (
		next   types.Snapshot
		ticket uint64
	)
	err := s.locks.Execute(WriteOperation, func() error {
		tasks, _, err := s.adapter.LoadTasks()
		if err != nil {
			return fmt.Errorf("failed to reload tasks: %w", err)
		}
		names, err := s.adapter.LoadAssignees()
		if err != nil {
			return fmt.Errorf("failed to reload assignees: %w", err)
		}

		next = types.NewSnapshot(tasks)
		s.registry.Replace(names)
		s.allocator.Reseed(next.MaxID() + 1)
		if next.Equal(s.snapshot) {
			return nil
		}
		s.snapshot = next
		ticket = s.publisher.ticket()
		return nil
	})
	if err != nil {
		return err
	}

	if ticket == 0 {
		s.logger.Debug("reload found no changes")
		return nil
	}
	s.logger.Info("board reloaded from storage", "tasks", next.Len())
	s.publisher.publish(ticket, func() { s.notifier.Notify(next) })
	return nil
}

// CreateTask adds a task to the end of the list. Title and description may be
// blank; status must be one of the three columns.
func (s *Store) CreateTask(title, description string, status types.Status, assignee string) (types.Task, error) {
	if !status.Valid() {
		return types.Task{}, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	var (
		task   types.Task
		regErr error
	)
	_, err := s.mutate("create", func(current types.Snapshot) (types.Snapshot, bool, error) {
		task = types.Task{
			ID:          s.allocator.Next(),
			Title:       title,
			Description: description,
			Status:      status,
			Assignee:    assignee,
		}
		_, regErr = s.registry.Record(assignee)
		return current.Append(task), true, nil
	})
	return task, errors.Join(err, s.registryWarning(regErr))
}

// MoveTask changes the status of task id. It reports whether anything changed.
// An unknown id, an invalid status, or a move to the current column is a
// no-op: nothing is persisted and nobody is notified.
func (s *Store) MoveTask(id int, status types.Status) (bool, error) {
	if !status.Valid() {
		s.logger.Debug("move ignored: invalid status", "id", id, "status", string(status))
		return false, nil
	}

	return s.mutate("move", func(current types.Snapshot) (types.Snapshot, bool, error) {
		task, ok := current.Find(id)
		if !ok || task.Status == status {
			s.logger.Debug("move ignored", "id", id, "status", string(status), "found", ok)
			return current, false, nil
		}
		next, _ := current.Replace(task.WithStatus(status))
		return next, true, nil
	})
}

// EditTask replaces the task with updated.ID by updated. It reports whether a
// task was replaced. An unknown id is a silent no-op whatever the status; a
// known id with an invalid status fails with ErrInvalidStatus.
func (s *Store) EditTask(updated types.Task) (bool, error) {
	var regErr error
	changed, err := s.mutate("edit", func(current types.Snapshot) (types.Snapshot, bool, error) {
		if _, ok := current.Find(updated.ID); !ok {
			s.logger.Debug("edit ignored: unknown id", "id", updated.ID)
			return current, false, nil
		}
		if !updated.Status.Valid() {
			return current, false, fmt.Errorf("%w: %q", ErrInvalidStatus, updated.Status)
		}
		next, _ := current.Replace(updated)
		_, regErr = s.registry.Record(updated.Assignee)
		return next, true, nil
	})
	return changed, errors.Join(err, s.registryWarning(regErr))
}

// BulkImport validates raw and appends every task it describes. A rejected
// batch returns an *imports.Error and leaves the board untouched.
func (s *Store) BulkImport(raw string) (int, error) {
	var (
		count  int
		regErr error
	)
	_, err := s.mutate("import", func(current types.Snapshot) (types.Snapshot, bool, error) {
		batch, err := imports.Parse(raw, s.registry.Contains)
		if err != nil {
			return current, false, err
		}
		if batch.Len() == 0 {
			return current, false, nil
		}

		tasks := make([]types.Task, batch.Len())
		for i, rec := range batch.Records {
			tasks[i] = rec.Task(s.allocator.Next())
		}
		_, regErr = s.registry.RecordAll(batch.NewAssignees)
		count = len(tasks)
		return current.Append(tasks...), true, nil
	})

	var rejected *imports.Error
	if errors.As(err, &rejected) {
		s.logger.Info("import rejected",
			"reason", rejected.Reason.String(),
			"state", rejected.State.String(),
			"index", rejected.Index)
		return 0, err
	}
	return count, errors.Join(err, s.registryWarning(regErr))
}

// Snapshot returns the current task list
func (s *Store) Snapshot() types.Snapshot {
	return Read(s.locks, func() types.Snapshot { return s.snapshot })
}

// Tasks returns a copy of the current task list
func (s *Store) Tasks() []types.Task {
	return s.Snapshot().Tasks()
}

// TasksByStatus returns the tasks in one column
func (s *Store) TasksByStatus(status types.Status) []types.Task {
	return s.Snapshot().ByStatus(status)
}

// Get returns the task with the given id
func (s *Store) Get(id int) (types.Task, bool) {
	return s.Snapshot().Find(id)
}

// IsEmpty reports whether the board has no tasks
func (s *Store) IsEmpty() bool {
	return s.Snapshot().Len() == 0
}

// KnownAssignees returns every assignee name seen so far, for autocomplete
func (s *Store) KnownAssignees() []string {
	return s.registry.Known()
}

// Subscribe registers fn for every future change
func (s *Store) Subscribe(fn notify.Callback) notify.Subscription {
	return s.notifier.Subscribe(fn)
}

// mutate applies fn under the write lock. When fn reports a change the new
// snapshot is installed, persisted and then published. The returned error is
// fn's error, or a persistence warning wrapping ErrPersistenceFailure.
func (s *Store) mutate(op string, fn func(current types.Snapshot) (types.Snapshot, bool, error)) (bool, error) {
	var (
		next       types.Snapshot
		changed    bool
		persistErr error
		ticket     uint64
	)
	err := s.locks.Execute(WriteOperation, func() error {
		n, ok, err := fn(s.snapshot)
		if err != nil || !ok {
			return err
		}
		s.snapshot = n
		persistErr = s.persist(op, n)
		next, changed = n, true
		ticket = s.publisher.ticket()
		return nil
	})
	if err != nil || !changed {
		return false, err
	}

	s.logger.Debug("board changed", "operation", op, "tasks", next.Len())
	s.publisher.publish(ticket, func() {
		if failed := s.notifier.Notify(next); failed > 0 {
			s.logger.Warn("some subscribers failed", "operation", op, "failed", failed)
		}
	})
	return true, persistErr
}

// persist saves snap, retrying on failure. It never rolls back.
func (s *Store) persist(op string, snap types.Snapshot) error {
	var err error
	for attempt := 0; attempt <= s.persistRetries; attempt++ {
		if err = s.adapter.SaveTasks(snap.Tasks()); err == nil {
			return nil
		}
		s.logger.Debug("save attempt failed", "operation", op, "attempt", attempt+1, "error", err)
	}
	s.logger.Warn("tasks not persisted, keeping in-memory state",
		"operation", op,
		"error", err)
	return persistenceError("tasks", err)
}

func (s *Store) registryWarning(err error) error {
	if err == nil {
		return nil
	}
	s.logger.Warn("assignees not persisted, keeping in-memory state", "error", err)
	return persistenceError("assignees", err)
}

func (s *Store) warnDuplicateIDs(snap types.Snapshot) {
	seen := make(map[int]bool, snap.Len())
	var dups []string
	for i := 0; i < snap.Len(); i++ {
		id := snap.At(i).ID
		if seen[id] {
			dups = append(dups, fmt.Sprint(id))
		}
		seen[id] = true
	}
	if len(dups) > 0 {
		s.logger.Warn("persisted board contains duplicate ids", "ids", strings.Join(dups, ","))
	}
}
