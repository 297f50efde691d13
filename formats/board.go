package formats

import (
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/taskboard/taskboard/store"
	"github.com/arthur-debert/taskboard/types"
	"github.com/charmbracelet/lipgloss"
)

// DefaultBoardWidth is used by the registered board format
const DefaultBoardWidth = 96

const (
	columnGap     = 1
	minColumnSize = 12
)

var (
	colorMuted  = lipgloss.Color("#565f89")
	colorAccent = lipgloss.Color("#7aa2f7")

	columnColors = map[types.Status]lipgloss.Color{
		types.StatusToDo:       lipgloss.Color("#e0af68"),
		types.StatusInProgress: lipgloss.Color("#7aa2f7"),
		types.StatusDone:       lipgloss.Color("#9ece6a"),
	}
)

// BoardView renders the three columns side by side at DefaultBoardWidth
var BoardView = &OutputFormat{
	Name: "board",
	Write: func(w io.Writer, snap types.Snapshot) error {
		_, err := fmt.Fprintln(w, Board(snap, DefaultBoardWidth))
		return err
	},
}

func init() {
	mustRegister(BoardView)
}

// Board renders one column per status, each listing its cards in list order.
// An empty board renders the empty-state message instead.
func Board(snap types.Snapshot, width int) string {
	if snap.Len() == 0 {
		return lipgloss.NewStyle().Foreground(colorMuted).Italic(true).Render(store.EmptyStateMessage)
	}

	statuses := types.Statuses()
	colWidth := (width - columnGap*(len(statuses)-1)) / len(statuses)
	if colWidth < minColumnSize {
		colWidth = minColumnSize
	}

	columns := make([]string, 0, len(statuses)*2-1)
	for i, status := range statuses {
		if i > 0 {
			columns = append(columns, strings.Repeat(" ", columnGap))
		}
		columns = append(columns, renderColumn(status, snap.ByStatus(status), colWidth))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, columns...)
}

func renderColumn(status types.Status, tasks []types.Task, width int) string {
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(columnColors[status]).
		Width(width)
	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorAccent).
		Padding(0, 1).
		Width(width - 2)
	mutedStyle := lipgloss.NewStyle().Foreground(colorMuted)

	parts := []string{headerStyle.Render(fmt.Sprintf("%s (%d)", status, len(tasks)))}
	for _, task := range tasks {
		lines := []string{fmt.Sprintf("#%d %s", task.ID, task.Title)}
		if task.Description != "" {
			lines = append(lines, mutedStyle.Render(task.Description))
		}
		if task.Assignee != "" {
			lines = append(lines, mutedStyle.Render("@"+task.Assignee))
		}
		parts = append(parts, cardStyle.Render(strings.Join(lines, "\n")))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
