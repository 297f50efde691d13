package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Status is the column a task belongs to. Only the three values below are valid.
type Status string

const (
	StatusToDo       Status = "To Do"
	StatusInProgress Status = "In Progress"
	StatusDone       Status = "Done"
)

// statusAliases maps normalized spellings to their canonical status
var statusAliases = map[string]Status{
	"to do":       StatusToDo,
	"todo":        StatusToDo,
	"to-do":       StatusToDo,
	"to_do":       StatusToDo,
	"in progress": StatusInProgress,
	"in-progress": StatusInProgress,
	"in_progress": StatusInProgress,
	"inprogress":  StatusInProgress,
	"doing":       StatusInProgress,
	"done":        StatusDone,
	"completed":   StatusDone,
}

// Statuses returns the board columns in display order
func Statuses() []Status {
	return []Status{StatusToDo, StatusInProgress, StatusDone}
}

// Valid reports whether s is one of the canonical statuses
func (s Status) Valid() bool {
	switch s {
	case StatusToDo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

// ParseStatus normalizes user or file input into a canonical Status.
// Matching is case-insensitive and ignores surrounding whitespace.
func ParseStatus(value string) (Status, error) {
	key := strings.ToLower(strings.Join(strings.Fields(value), " "))
	if status, ok := statusAliases[key]; ok {
		return status, nil
	}
	return "", fmt.Errorf("invalid status %q: must be one of %q, %q, %q",
		value, StatusToDo, StatusInProgress, StatusDone)
}

// UnmarshalJSON accepts any spelling ParseStatus understands
func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("status must be a string: %w", err)
	}
	parsed, err := ParseStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
