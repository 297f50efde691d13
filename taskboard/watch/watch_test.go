package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/arthur-debert/taskboard/taskboard/storage"
	"github.com/arthur-debert/taskboard/taskboard/store"
	"github.com/arthur-debert/taskboard/types"
)

type countingReloader struct {
	calls  atomic.Int32
	err    error
	notify chan struct{}
}

func newCountingReloader() *countingReloader {
	return &countingReloader{notify: make(chan struct{}, 16)}
}

func (r *countingReloader) Reload() error {
	r.calls.Add(1)
	r.notify <- struct{}{}
	return r.err
}

// startWatcher runs w until the test ends
func startWatcher(t *testing.T, w *Watcher) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		if err := <-done; err != nil {
			t.Errorf("run: %v", err)
		}
	})

	select {
	case <-w.Ready():
	case err := <-done:
		t.Fatalf("watcher stopped early: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher never became ready")
	}
}

func waitForReload(t *testing.T, r *countingReloader) {
	t.Helper()
	select {
	case <-r.notify:
	case <-time.After(2 * time.Second):
		t.Fatal("expected a reload")
	}
}

func TestNewValidation(t *testing.T) {
	if _, err := New(nil, []string{"x"}); err == nil {
		t.Error("expected error without reloader")
	}
	if _, err := New(newCountingReloader(), nil); err == nil {
		t.Error("expected error without paths")
	}
}

func TestWatcherDebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "tasks.json")
	reloader := newCountingReloader()

	w, err := New(reloader, []string{target}, WithDebounce(50*time.Millisecond))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	startWatcher(t, w)

	for i := 0; i < 5; i++ {
		if err := os.WriteFile(target, []byte("[]"), 0644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	waitForReload(t, reloader)

	// Give any stray second reload a chance to show up
	time.Sleep(200 * time.Millisecond)
	if got := reloader.calls.Load(); got != 1 {
		t.Errorf("expected the burst to produce 1 reload, got %d", got)
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	reloader := newCountingReloader()

	w, err := New(reloader, []string{filepath.Join(dir, "tasks.json")}, WithDebounce(10*time.Millisecond))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	startWatcher(t, w)

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	time.Sleep(150 * time.Millisecond)
	if got := reloader.calls.Load(); got != 0 {
		t.Errorf("expected no reload for unrelated files, got %d", got)
	}
}

func TestWatcherKeepsRunningAfterReloadError(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "assignees.json")
	reloader := newCountingReloader()
	reloader.err = errors.New("corrupt")

	w, err := New(reloader, []string{target}, WithDebounce(10*time.Millisecond))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	startWatcher(t, w)

	_ = os.WriteFile(target, []byte("{"), 0644)
	waitForReload(t, reloader)

	time.Sleep(50 * time.Millisecond)
	_ = os.WriteFile(target, []byte("[]"), 0644)
	waitForReload(t, reloader)
}

func TestWatcherReloadsStoreFromOtherProcess(t *testing.T) {
	dir := t.TempDir()
	blobs, err := storage.NewFileBlobStore(dir)
	if err != nil {
		t.Fatalf("blob store: %v", err)
	}
	s := store.New(storage.NewJSONAdapter(blobs))
	if err := s.Initialize(); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	changed := make(chan types.Snapshot, 4)
	s.Subscribe(func(snap types.Snapshot) { changed <- snap })

	w, err := New(s, []string{blobs.Path(storage.TasksKey), blobs.Path(storage.AssigneesKey)},
		WithDebounce(20*time.Millisecond))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	startWatcher(t, w)

	// A second handle on the same directory plays the other process
	otherBlobs, err := storage.NewFileBlobStore(dir)
	if err != nil {
		t.Fatalf("blob store: %v", err)
	}
	other := storage.NewJSONAdapter(otherBlobs)
	if err := other.SaveTasks([]types.Task{{ID: 7, Title: "remote", Status: types.StatusDone}}); err != nil {
		t.Fatalf("save: %v", err)
	}

	select {
	case snap := <-changed:
		if snap.Len() != 1 || snap.At(0).ID != 7 {
			t.Errorf("unexpected snapshot after reload: %+v", snap.Tasks())
		}
	case <-time.After(2 * time.Second):
		t.Fatal("store was not reloaded")
	}
}
