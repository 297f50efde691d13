// Package httpapi exposes a board over HTTP, with a server-sent event stream
// of snapshots for live views.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/arthur-debert/taskboard/taskboard/imports"
	"github.com/arthur-debert/taskboard/taskboard/notify"
	"github.com/arthur-debert/taskboard/taskboard/search"
	"github.com/arthur-debert/taskboard/taskboard/store"
	"github.com/arthur-debert/taskboard/types"
)

const (
	importMaxSize   = 4 << 20
	sseDataPrefix   = "data: "
	shutdownTimeout = 5 * time.Second
)

// Board is the part of *store.Store the API drives
type Board interface {
	Snapshot() types.Snapshot
	Get(id int) (types.Task, bool)
	CreateTask(title, description string, status types.Status, assignee string) (types.Task, error)
	EditTask(updated types.Task) (bool, error)
	MoveTask(id int, status types.Status) (bool, error)
	BulkImport(raw string) (int, error)
	KnownAssignees() []string
	Subscribe(fn notify.Callback) notify.Subscription
}

// Server routes HTTP requests to a Board
type Server struct {
	echo   *echo.Echo
	board  Board
	broker *updateBroker
	sub    notify.Subscription
	logger *slog.Logger
}

type taskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Assignee    *string `json:"assignee"`
}

type moveRequest struct {
	Status string `json:"status"`
}

type importResponse struct {
	Imported int `json:"imported"`
}

type rejectionResponse struct {
	Reason string `json:"reason"`
	Index  int    `json:"index"`
	Error  string `json:"error"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// New builds the routes for board. Close releases the store subscription.
func New(board Board, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:   e,
		board:  board,
		broker: newUpdateBroker(),
		logger: logger,
	}
	s.sub = board.Subscribe(s.broker.publish)

	e.GET("/tasks", s.listTasks)
	e.POST("/tasks", s.createTask)
	e.PUT("/tasks/:id", s.editTask)
	e.POST("/tasks/:id/move", s.moveTask)
	e.POST("/import", s.importTasks)
	e.GET("/assignees", s.listAssignees)
	e.GET("/stream", s.streamTasks)
	return s
}

// Handler returns the router, for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Close stops forwarding store changes to stream clients
func (s *Server) Close() {
	s.sub.Unsubscribe()
}

// ListenAndServe serves on addr until ctx is done, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http api listening", "addr", addr)
		errCh <- s.echo.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down http api: %w", err)
	}
	return nil
}

func (s *Server) listTasks(c echo.Context) error {
	snap := s.board.Snapshot()
	raw := strings.TrimSpace(c.QueryParam("status"))
	query := strings.TrimSpace(c.QueryParam("q"))
	if raw == "" && query == "" {
		return c.JSON(http.StatusOK, snap)
	}

	tasks := snap.Tasks()
	if raw != "" {
		status, err := types.ParseStatus(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		}
		tasks = snap.ByStatus(status)
	}
	if query != "" {
		results, err := search.Search(tasks, search.Options{Query: query})
		if err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		}
		tasks = make([]types.Task, 0, len(results))
		for _, r := range results {
			tasks = append(tasks, r.Task)
		}
	}
	if tasks == nil {
		tasks = []types.Task{}
	}
	return c.JSON(http.StatusOK, tasks)
}

func (s *Server) createTask(c echo.Context) error {
	var req taskRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid body"})
	}

	status := types.StatusToDo
	if req.Status != nil {
		parsed, err := types.ParseStatus(*req.Status)
		if err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		}
		status = parsed
	}

	task, err := s.board.CreateTask(deref(req.Title), deref(req.Description), status, deref(req.Assignee))
	if done, respErr := s.mutationFailed(c, err); done {
		return respErr
	}
	return c.JSON(http.StatusCreated, task)
}

func (s *Server) editTask(c echo.Context) error {
	id, ok := taskID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid task id"})
	}
	var req taskRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid body"})
	}

	task, ok := s.board.Get(id)
	if !ok {
		return c.JSON(http.StatusNotFound, errorResponse{Error: fmt.Sprintf("task %d not found", id)})
	}
	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Assignee != nil {
		task.Assignee = *req.Assignee
	}
	if req.Status != nil {
		status, err := types.ParseStatus(*req.Status)
		if err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		}
		task.Status = status
	}

	changed, err := s.board.EditTask(task)
	if done, respErr := s.mutationFailed(c, err); done {
		return respErr
	}
	if !changed {
		// Removed between Get and EditTask
		return c.JSON(http.StatusNotFound, errorResponse{Error: fmt.Sprintf("task %d not found", id)})
	}
	return c.JSON(http.StatusOK, task)
}

func (s *Server) moveTask(c echo.Context) error {
	id, ok := taskID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid task id"})
	}
	var req moveRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid body"})
	}
	status, err := types.ParseStatus(req.Status)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}
	if _, ok := s.board.Get(id); !ok {
		return c.JSON(http.StatusNotFound, errorResponse{Error: fmt.Sprintf("task %d not found", id)})
	}

	_, err = s.board.MoveTask(id, status)
	if done, respErr := s.mutationFailed(c, err); done {
		return respErr
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) importTasks(c echo.Context) error {
	raw, err := io.ReadAll(io.LimitReader(c.Request().Body, importMaxSize))
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "failed to read body"})
	}

	count, err := s.board.BulkImport(string(raw))
	var rejected *imports.Error
	if errors.As(err, &rejected) {
		return c.JSON(http.StatusUnprocessableEntity, rejectionResponse{
			Reason: rejected.Reason.String(),
			Index:  rejected.Index,
			Error:  rejected.Error(),
		})
	}
	if done, respErr := s.mutationFailed(c, err); done {
		return respErr
	}
	return c.JSON(http.StatusOK, importResponse{Imported: count})
}

func (s *Server) listAssignees(c echo.Context) error {
	return c.JSON(http.StatusOK, s.board.KnownAssignees())
}

// streamTasks sends the current snapshot, then one event per change
func (s *Server) streamTasks(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderContentType, "text/event-stream")
	c.Response().Header().Set(echo.HeaderCacheControl, "no-cache")
	c.Response().Header().Set(echo.HeaderConnection, "keep-alive")
	c.Response().Header().Set("X-Accel-Buffering", "no")
	flusher, ok := c.Response().Writer.(http.Flusher)
	if !ok {
		return c.String(http.StatusInternalServerError, "stream unsupported")
	}

	ctx := c.Request().Context()
	id, updates := s.broker.subscribe()
	defer s.broker.unsubscribe(id)
	s.logger.Debug("stream client connected", "client", id.String())

	snap := s.board.Snapshot()
	for {
		if err := writeEvent(c.Response(), snap); err != nil {
			s.logger.Debug("stream client gone", "client", id.String(), "error", err)
			return nil
		}
		flusher.Flush()

		select {
		case <-ctx.Done():
			return nil
		case snap = <-updates:
		}
	}
}

func writeEvent(w io.Writer, snap types.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s%s\n\n", sseDataPrefix, data)
	return err
}

// mutationFailed writes the response for a failed mutation and reports true.
// A persistence warning only adds a Warning header: the change was applied, so
// it reports false and the handler carries on.
func (s *Server) mutationFailed(c echo.Context, err error) (bool, error) {
	if err == nil {
		return false, nil
	}
	if errors.Is(err, store.ErrPersistenceFailure) {
		s.logger.Warn("change applied but not saved", "path", c.Path(), "error", err)
		c.Response().Header().Set("Warning", fmt.Sprintf("199 taskboard %q", "changes not saved: "+err.Error()))
		return false, nil
	}
	if errors.Is(err, store.ErrInvalidStatus) {
		return true, c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}
	s.logger.Error("request failed", "path", c.Path(), "error", err)
	return true, c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
}

func taskID(c echo.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
