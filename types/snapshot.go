package types

import "encoding/json"

// Snapshot is an immutable, ordered view of the task list at one instant.
// The zero value is an empty snapshot.
type Snapshot struct {
	tasks []Task
}

// NewSnapshot copies tasks into a new snapshot
func NewSnapshot(tasks []Task) Snapshot {
	if len(tasks) == 0 {
		return Snapshot{}
	}
	cp := make([]Task, len(tasks))
	copy(cp, tasks)
	return Snapshot{tasks: cp}
}

// Len returns the number of tasks
func (s Snapshot) Len() int {
	return len(s.tasks)
}

// At returns the task at position i
func (s Snapshot) At(i int) Task {
	return s.tasks[i]
}

// Tasks returns a copy of the tasks; callers may modify it freely
func (s Snapshot) Tasks() []Task {
	cp := make([]Task, len(s.tasks))
	copy(cp, s.tasks)
	return cp
}

// Find returns the task with the given id
func (s Snapshot) Find(id int) (Task, bool) {
	if i := s.indexOf(id); i >= 0 {
		return s.tasks[i], true
	}
	return Task{}, false
}

// ByStatus returns the tasks in one column, preserving list order
func (s Snapshot) ByStatus(status Status) []Task {
	var out []Task
	for _, t := range s.tasks {
		if t.Status == status {
			out = append(out, t)
		}
	}
	return out
}

// MaxID returns the largest id in the snapshot, or 0 when empty
func (s Snapshot) MaxID() int {
	highest := 0
	for _, t := range s.tasks {
		if t.ID > highest {
			highest = t.ID
		}
	}
	return highest
}

// Equal compares two snapshots task by task
func (s Snapshot) Equal(other Snapshot) bool {
	if len(s.tasks) != len(other.tasks) {
		return false
	}
	for i := range s.tasks {
		if !s.tasks[i].Equal(other.tasks[i]) {
			return false
		}
	}
	return true
}

// Append returns a new snapshot with tasks added at the end
func (s Snapshot) Append(tasks ...Task) Snapshot {
	next := make([]Task, 0, len(s.tasks)+len(tasks))
	next = append(next, s.tasks...)
	next = append(next, tasks...)
	return Snapshot{tasks: next}
}

// Replace returns a new snapshot where the task with task.ID is swapped for task.
// The second result is false when no such task exists.
func (s Snapshot) Replace(task Task) (Snapshot, bool) {
	i := s.indexOf(task.ID)
	if i < 0 {
		return s, false
	}
	next := s.Tasks()
	next[i] = task
	return Snapshot{tasks: next}, true
}

// MarshalJSON encodes the snapshot as a plain array; an empty snapshot is []
func (s Snapshot) MarshalJSON() ([]byte, error) {
	if s.tasks == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.tasks)
}

// MarshalYAML encodes the snapshot as a plain sequence
func (s Snapshot) MarshalYAML() (interface{}, error) {
	return s.Tasks(), nil
}

func (s Snapshot) indexOf(id int) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
