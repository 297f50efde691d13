package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/taskboard/formats"
	"github.com/arthur-debert/taskboard/internal/httpapi"
	"github.com/arthur-debert/taskboard/types"
)

func (cli *CLI) newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the board over HTTP with a live event stream",
		Long: `Serve the board over HTTP.

Routes:
  GET  /tasks[?status=]     list tasks
  POST /tasks               create a task
  PUT  /tasks/:id           edit a task
  POST /tasks/:id/move      move a task ({"status": "Done"})
  POST /import              bulk import a JSON array
  GET  /assignees           known assignee names
  GET  /stream              server-sent events, one snapshot per change

Changes made by other processes to the board files are picked up and streamed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			addr := cli.viperInst.GetString(keyAddr)
			if cmd.Flags().Changed(keyAddr) {
				addr, _ = cmd.Flags().GetString(keyAddr)
			}
			board, err := cli.openBoard(cmd)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			srv := httpapi.New(board, cli.logger)
			defer srv.Close()

			watchErr := make(chan error, 1)
			go func() { watchErr <- board.Watch(ctx) }()

			fmt.Fprintf(cmd.OutOrStdout(), "Serving %s on http://%s\n", board.Dir(), addr)
			if err := srv.ListenAndServe(ctx, addr); err != nil {
				return WrapError("serve board", err, "Check that the address is free: --addr host:port")
			}
			cancel()
			if err := <-watchErr; err != nil {
				cli.logger.Warn("watcher stopped", "error", err)
			}
			return nil
		},
	}
	cmd.Flags().String(keyAddr, "", "listen address (default 127.0.0.1:8080)")
	return cmd
}

func (cli *CLI) newWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print the board every time it changes",
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

			out := cmd.OutOrStdout()
			render := func(snap types.Snapshot) {
				if err := formats.Write(out, format, snap); err != nil {
					cli.logger.Error("failed to render board", "error", err)
				}
			}
			render(board.Snapshot())
			sub := board.Subscribe(render)
			defer sub.Unsubscribe()

			if err := board.Watch(cmd.Context()); err != nil {
				return WrapError("watch board", err, CommonSuggestions.CheckDir)
			}
			return nil
		},
	}
	addFormatFlag(cmd)
	return cmd
}
