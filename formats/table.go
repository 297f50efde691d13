package formats

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/arthur-debert/taskboard/taskboard/store"
	"github.com/arthur-debert/taskboard/types"
)

// Table prints one aligned row per task in list order
var Table = &OutputFormat{
	Name: "table",
	Write: func(w io.Writer, snap types.Snapshot) error {
		if snap.Len() == 0 {
			_, err := fmt.Fprintln(w, store.EmptyStateMessage)
			return err
		}

		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tSTATUS\tTITLE\tASSIGNEE\tDESCRIPTION")
		for i := 0; i < snap.Len(); i++ {
			task := snap.At(i)
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
				task.ID,
				task.Status,
				oneLine(task.Title),
				orDash(task.Assignee),
				oneLine(task.Description))
		}
		return tw.Flush()
	},
}

func init() {
	mustRegister(Table)
}

// oneLine keeps multi-line text from breaking table rows
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
