// Package taskboard provides a kanban task store that keeps its board in JSON
// files and tells subscribers about every change.
//
// A board owns one ordered task list split into three columns (To Do, In
// Progress, Done). All changes go through the store, which persists the new
// list and then notifies subscribers with an immutable snapshot of it.
package taskboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/arthur-debert/taskboard/taskboard/dropzone"
	"github.com/arthur-debert/taskboard/taskboard/imports"
	"github.com/arthur-debert/taskboard/taskboard/storage"
	"github.com/arthur-debert/taskboard/taskboard/store"
	"github.com/arthur-debert/taskboard/taskboard/watch"
	"github.com/arthur-debert/taskboard/types"
)

// Task is a single card on the board
type Task = types.Task

// Status is one of the three board columns
type Status = types.Status

// Snapshot is an immutable view of the task list
type Snapshot = types.Snapshot

// Store is the single writer of a board
type Store = store.Store

// SeedPolicy decides what an empty board starts with
type SeedPolicy = store.SeedPolicy

// ImportError describes a rejected bulk import
type ImportError = imports.Error

const (
	StatusToDo       = types.StatusToDo
	StatusInProgress = types.StatusInProgress
	StatusDone       = types.StatusDone

	SeedNone     = store.SeedNone
	SeedExamples = store.SeedExamples

	// EmptyStateMessage is shown by renderers when the board has no tasks
	EmptyStateMessage = store.EmptyStateMessage
)

// ErrPersistenceFailure marks a change that was applied but not saved
var ErrPersistenceFailure = store.ErrPersistenceFailure

// Config selects where a board lives and how it starts
type Config struct {
	// Dir holds tasks.json and assignees.json; DefaultDir() when empty
	Dir string

	Seed           SeedPolicy
	PersistRetries int
	Logger         *slog.Logger
}

// Board is an opened, file-backed store
type Board struct {
	*store.Store

	blobs  *storage.FileBlobStore
	logger *slog.Logger
}

// Open loads (or creates) the board in cfg.Dir. When the only problem is that
// seeding could not be saved, Open returns both the board and an error
// matching ErrPersistenceFailure.
func Open(cfg Config) (*Board, error) {
	if cfg.Dir == "" {
		dir, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		cfg.Dir = dir
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	logger := cfg.Logger.With("dir", cfg.Dir)

	blobs, err := storage.NewFileBlobStore(cfg.Dir)
	if err != nil {
		return nil, err
	}

	opts := []store.Option{
		store.WithLogger(logger),
		store.WithSeedPolicy(cfg.Seed),
	}
	if cfg.PersistRetries > 0 {
		opts = append(opts, store.WithPersistRetries(cfg.PersistRetries))
	}
	s := store.New(storage.NewJSONAdapter(blobs), opts...)

	b := &Board{Store: s, blobs: blobs, logger: logger}
	if err := s.Initialize(); err != nil {
		if errors.Is(err, ErrPersistenceFailure) {
			return b, err
		}
		return nil, fmt.Errorf("failed to open board: %w", err)
	}
	return b, nil
}

// Dir returns the board's data directory
func (b *Board) Dir() string {
	return b.blobs.Dir()
}

// Files returns the paths of the files backing the board
func (b *Board) Files() []string {
	return []string{
		b.blobs.Path(storage.TasksKey),
		b.blobs.Path(storage.AssigneesKey),
	}
}

// Watch reloads the board whenever another process rewrites its files. It
// blocks until ctx is done.
func (b *Board) Watch(ctx context.Context, opts ...watch.Option) error {
	opts = append([]watch.Option{watch.WithLogger(b.logger)}, opts...)
	w, err := watch.New(b.Store, b.Files(), opts...)
	if err != nil {
		return err
	}
	return w.Run(ctx)
}

// Drop moves task id to whichever column contains p. It reports whether the
// task moved; a point outside every column is ignored.
func (b *Board) Drop(id int, p dropzone.Point, columns []dropzone.Column) (bool, error) {
	status, ok := dropzone.ResolveDropTarget(p, columns)
	if !ok {
		b.logger.Debug("drop outside any column", "id", id, "x", p.X, "y", p.Y)
		return false, nil
	}
	return b.MoveTask(id, status)
}

// DefaultDir returns $XDG_DATA_HOME/taskboard, or ~/.local/share/taskboard
func DefaultDir() (string, error) {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "taskboard"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", "taskboard"), nil
}
