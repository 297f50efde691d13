package imports

import (
	"errors"
	"fmt"

	"github.com/arthur-debert/taskboard/types"
)

// State is a step of the import pipeline
type State int

const (
	StateParsing State = iota
	StateArrayCheck
	StateFieldValidation
	StateStatusCheck
	StateAssigneeMerge
	StateCommit
)

var stateNames = map[State]string{
	StateParsing:         "parsing",
	StateArrayCheck:      "array-check",
	StateFieldValidation: "field-validation",
	StateStatusCheck:     "status-check",
	StateAssigneeMerge:   "assignee-merge",
	StateCommit:          "commit",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Reason tags why a batch was rejected. Input adapters map it to a message.
type Reason int

const (
	ReasonMalformedInput Reason = iota + 1
	ReasonNotAnArray
	ReasonMissingFields
	ReasonInvalidStatus
)

// Sentinel errors, one per Reason, for use with errors.Is
var (
	ErrMalformedInput = errors.New("malformed input")
	ErrNotAnArray     = errors.New("input is not an array")
	ErrMissingFields  = errors.New("missing required fields")
	ErrInvalidStatus  = errors.New("invalid status")
)

var reasonNames = map[Reason]string{
	ReasonMalformedInput: "MalformedInput",
	ReasonNotAnArray:     "NotAnArray",
	ReasonMissingFields:  "MissingFields",
	ReasonInvalidStatus:  "InvalidStatus",
}

var reasonSentinels = map[Reason]error{
	ReasonMalformedInput: ErrMalformedInput,
	ReasonNotAnArray:     ErrNotAnArray,
	ReasonMissingFields:  ErrMissingFields,
	ReasonInvalidStatus:  ErrInvalidStatus,
}

func (r Reason) String() string {
	if name, ok := reasonNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Reason(%d)", int(r))
}

// Error is a rejected batch. Index is the zero-based position of the first
// offending element, or -1 when the whole input was rejected.
type Error struct {
	Reason Reason
	State  State
	Index  int
	Err    error
}

// Error implements the error interface
func (e *Error) Error() string {
	msg := fmt.Sprintf("import rejected (%s)", e.Reason)
	if e.Index >= 0 {
		msg += fmt.Sprintf(" at element %d", e.Index)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for e.Reason
func (e *Error) Is(target error) bool {
	return reasonSentinels[e.Reason] == target
}

// Record is one validated element of a batch, values trimmed
type Record struct {
	Title       string
	Description string
	Status      types.Status
	Assignee    string
}

// Task builds the task for this record under the given id
func (r Record) Task(id int) types.Task {
	return types.Task{
		ID:          id,
		Title:       r.Title,
		Description: r.Description,
		Status:      r.Status,
		Assignee:    r.Assignee,
	}
}

// Batch is a fully validated import, ready to commit
type Batch struct {
	Records []Record

	// NewAssignees lists names not yet known, deduplicated, in first-seen order
	NewAssignees []string
}

// Len returns the number of records
func (b *Batch) Len() int {
	return len(b.Records)
}
