package store

import "github.com/arthur-debert/taskboard/types"

// EmptyStateMessage is what renderers show for a board with no tasks
const EmptyStateMessage = "No tasks yet. Add a task manually or upload a JSON object to get started."

// exampleTasks returns one example per column, without ids
func exampleTasks() []types.Task {
	return []types.Task{
		{
			Title:       "Import your backlog",
			Description: "Paste a JSON array of tasks into the import dialog",
			Status:      types.StatusToDo,
			Assignee:    "Alice",
		},
		{
			Title:       "Design task cards",
			Description: "Sketch the card layout for each column",
			Status:      types.StatusInProgress,
			Assignee:    "Bob",
		},
		{
			Title:       "Set up the board",
			Description: "Create the To Do, In Progress and Done columns",
			Status:      types.StatusDone,
			Assignee:    "Alice",
		},
	}
}
