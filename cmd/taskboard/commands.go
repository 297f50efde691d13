package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/taskboard/formats"
	"github.com/arthur-debert/taskboard/taskboard/search"
	"github.com/arthur-debert/taskboard/types"
)

func (cli *CLI) newAddCommand() *cobra.Command {
	var description, status, assignee string

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a task to the board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := types.ParseStatus(status)
			if err != nil {
				return NewStatusError("add task", status)
			}
			board, err := cli.openBoard(cmd)
			if err != nil {
				return err
			}

			task, err := board.CreateTask(args[0], description, st, assignee)
			if err := persistOnly(cmd, err); err != nil {
				return WrapError("add task", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created task #%d in %s\n", task.ID, task.Status)
			return nil
		},
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "task description")
	cmd.Flags().StringVarP(&status, "status", "s", string(types.StatusToDo), "column: To Do, In Progress or Done")
	cmd.Flags().StringVarP(&assignee, "assignee", "a", "", "who owns the task")
	return cmd
}

func (cli *CLI) newEditCommand() *cobra.Command {
	var title, description, status, assignee string

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of a task",
		Long:  "Change fields of a task. Only the flags you pass are changed.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("edit task", args[0])
			if err != nil {
				return err
			}
			board, err := cli.openBoard(cmd)
			if err != nil {
				return err
			}

			task, ok := board.Get(id)
			if !ok {
				return NewNotFoundError("edit task", id, CommonSuggestions.CheckID)
			}
			flags := cmd.Flags()
			if flags.Changed("title") {
				task.Title = title
			}
			if flags.Changed("description") {
				task.Description = description
			}
			if flags.Changed("assignee") {
				task.Assignee = assignee
			}
			if flags.Changed("status") {
				st, err := types.ParseStatus(status)
				if err != nil {
					return NewStatusError("edit task", status)
				}
				task.Status = st
			}

			changed, err := board.EditTask(task)
			if err := persistOnly(cmd, err); err != nil {
				return WrapError("edit task", err)
			}
			if !changed {
				return NewNotFoundError("edit task", id, CommonSuggestions.CheckID)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated task #%d\n", id)
			return nil
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "new title")
	cmd.Flags().StringVarP(&description, "description", "d", "", "new description")
	cmd.Flags().StringVarP(&status, "status", "s", "", "new column")
	cmd.Flags().StringVarP(&assignee, "assignee", "a", "", "new assignee")
	return cmd
}

func (cli *CLI) newMoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "move <id> <status>",
		Short: "Move a task to another column",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("move task", args[0])
			if err != nil {
				return err
			}
			status, err := types.ParseStatus(args[1])
			if err != nil {
				return NewStatusError("move task", args[1])
			}
			board, err := cli.openBoard(cmd)
			if err != nil {
				return err
			}
			if _, ok := board.Get(id); !ok {
				return NewNotFoundError("move task", id, CommonSuggestions.CheckID)
			}

			moved, err := board.MoveTask(id, status)
			if err := persistOnly(cmd, err); err != nil {
				return WrapError("move task", err)
			}
			if moved {
				fmt.Fprintf(cmd.OutOrStdout(), "Moved task #%d to %s\n", id, status)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Task #%d is already in %s\n", id, status)
			}
			return nil
		},
	}
}

func (cli *CLI) newImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import [file|-]",
		Short: "Add every task from a JSON array",
		Long: `Add every task from a JSON array. Reads stdin when no file (or -) is given.

Each element needs non-empty title, description, status and assignee fields.
The import is all or nothing: if any element is rejected, no task is added.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			board, err := cli.openBoard(cmd)
			if err != nil {
				return err
			}

			count, err := board.BulkImport(string(raw))
			if err := persistOnly(cmd, err); err != nil {
				return WrapError("import tasks", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d tasks\n", count)
			return nil
		},
	}
}

func (cli *CLI) newListCommand() *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := cli.formatFor(cmd)
			if err != nil {
				return err
			}
			board, err := cli.openBoard(cmd)
			if err != nil {
				return err
			}

			snap := board.Snapshot()
			if status != "" {
				st, err := types.ParseStatus(status)
				if err != nil {
					return NewStatusError("list tasks", status)
				}
				snap = types.NewSnapshot(snap.ByStatus(st))
			}
			return formats.Write(cmd.OutOrStdout(), format, snap)
		},
	}
	cmd.Flags().StringVarP(&status, "status", "s", "", "only list one column")
	addFormatFlag(cmd)
	return cmd
}

func (cli *CLI) newSearchCommand() *cobra.Command {
	var (
		fields        []string
		caseSensitive bool
		exact         bool
		limit         int
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Find tasks by title, description or assignee",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := cli.formatFor(cmd)
			if err != nil {
				return err
			}
			board, err := cli.openBoard(cmd)
			if err != nil {
				return err
			}

			results, err := search.Search(board.Tasks(), search.Options{
				Query:         args[0],
				Fields:        fields,
				CaseSensitive: caseSensitive,
				ExactMatch:    exact,
				MaxResults:    limit,
			})
			if err != nil {
				return NewValidationError("search tasks", "field", strings.Join(fields, ","),
					fmt.Sprintf("Searchable fields: %v", search.DefaultFields))
			}

			matched := make([]types.Task, 0, len(results))
			for _, r := range results {
				matched = append(matched, r.Task)
			}
			return formats.Write(cmd.OutOrStdout(), format, types.NewSnapshot(matched))
		},
	}
	cmd.Flags().StringSliceVar(&fields, "field", nil, "limit the search to these fields")
	cmd.Flags().BoolVar(&caseSensitive, "case-sensitive", false, "match case exactly")
	cmd.Flags().BoolVar(&exact, "exact", false, "require the whole field to match")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "show at most this many results")
	addFormatFlag(cmd)
	return cmd
}

func (cli *CLI) newBoardCommand() *cobra.Command {
	var width int

	cmd := &cobra.Command{
		Use:   "board",
		Short: "Show the board as three columns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			board, err := cli.openBoard(cmd)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formats.Board(board.Snapshot(), width))
			return nil
		},
	}
	cmd.Flags().IntVarP(&width, "width", "w", formats.DefaultBoardWidth, "total width in columns")
	return cmd
}

func (cli *CLI) newAssigneesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "assignees",
		Short: "List every name ever assigned to a task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			board, err := cli.openBoard(cmd)
			if err != nil {
				return err
			}
			for _, name := range board.KnownAssignees() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func addFormatFlag(cmd *cobra.Command) {
	cmd.Flags().StringP(keyFormat, "f", "", fmt.Sprintf("output format: %v", formats.List()))
}

// formatFor prefers the command's --format flag over configuration
func (cli *CLI) formatFor(cmd *cobra.Command) (string, error) {
	format := cli.viperInst.GetString(keyFormat)
	if cmd.Flags().Changed(keyFormat) {
		format, _ = cmd.Flags().GetString(keyFormat)
	}
	if _, err := formats.Get(format); err != nil {
		return "", NewValidationError("render output", "format", format,
			fmt.Sprintf("Available formats: %v", formats.List()))
	}
	return format, nil
}

func parseID(operation, raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, NewValidationError(operation, "task id", raw, "Task ids are positive numbers (see 'taskboard list')")
	}
	return id, nil
}

func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, NewStoreError("read import", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, NewStoreError("read import", err, CommonSuggestions.CheckPerms)
	}
	return data, nil
}
