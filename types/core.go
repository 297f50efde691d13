package types

// Task represents a single card on the board
type Task struct {
	ID          int    `json:"id" yaml:"id"`                   // Assigned at creation, immutable
	Title       string `json:"title" yaml:"title"`             // Card title
	Description string `json:"description" yaml:"description"` // Optional longer text
	Status      Status `json:"status" yaml:"status"`           // Column the card lives in
	Assignee    string `json:"assignee" yaml:"assignee"`       // Optional owner name
}

// Equal reports whether two tasks match on every field
func (t Task) Equal(other Task) bool {
	return t.ID == other.ID &&
		t.Title == other.Title &&
		t.Description == other.Description &&
		t.Status == other.Status &&
		t.Assignee == other.Assignee
}

// WithStatus returns a copy of the task moved to status
func (t Task) WithStatus(status Status) Task {
	t.Status = status
	return t
}
