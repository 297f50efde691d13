// Package testutil provides a populated board and assertion helpers for tests.
package testutil

import (
	_ "embed"
	"sync"
	"testing"

	"github.com/arthur-debert/taskboard/taskboard/storage"
	"github.com/arthur-debert/taskboard/taskboard/store"
	"github.com/arthur-debert/taskboard/types"
)

//go:embed board.json
var boardFixture string

// BoardData provides typed access to the fixture tasks
type BoardData struct {
	// To Do
	BuyGroceries types.Task // ID 1, Ana
	PlanSprint   types.Task // ID 2, Ben

	// In Progress
	ReleaseNotes types.Task // ID 3, Ana
	TouchDrag    types.Task // ID 4, Chen

	// Done
	SetupCI     types.Task // ID 5, Ben
	UnicodeCafe types.Task // ID 6, Dana, unicode title

	// Assignees in first-seen order
	Assignees []string
}

// Fixture is a populated in-memory board
type Fixture struct {
	Store *store.Store
	Blobs *storage.MemoryBlobStore
	Data  *BoardData
}

// LoadBoard returns a store populated with the fixture through a bulk import,
// backed by an in-memory blob store.
func LoadBoard(t *testing.T, opts ...store.Option) *Fixture {
	t.Helper()

	blobs := storage.NewMemoryBlobStore()
	s := store.New(storage.NewJSONAdapter(blobs), opts...)
	if err := s.Initialize(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	count, err := s.BulkImport(boardFixture)
	if err != nil {
		t.Fatalf("failed to import fixture: %v", err)
	}

	tasks := s.Tasks()
	if count != 6 || len(tasks) != 6 {
		t.Fatalf("fixture should hold 6 tasks, got %d", len(tasks))
	}

	data := &BoardData{
		BuyGroceries: tasks[0],
		PlanSprint:   tasks[1],
		ReleaseNotes: tasks[2],
		TouchDrag:    tasks[3],
		SetupCI:      tasks[4],
		UnicodeCafe:  tasks[5],
		Assignees:    s.KnownAssignees(),
	}
	return &Fixture{Store: s, Blobs: blobs, Data: data}
}

// Recorder collects every snapshot published by a store
type Recorder struct {
	mu    sync.Mutex
	snaps []types.Snapshot
}

// Record is a notify.Callback
func (r *Recorder) Record(snap types.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snaps = append(r.snaps, snap)
}

// Count returns how many snapshots were received
func (r *Recorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.snaps)
}

// Last returns the most recent snapshot
func (r *Recorder) Last() (types.Snapshot, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.snaps) == 0 {
		return types.Snapshot{}, false
	}
	return r.snaps[len(r.snaps)-1], true
}

// Record subscribes a new Recorder to s
func Record(s *store.Store) *Recorder {
	r := &Recorder{}
	s.Subscribe(r.Record)
	return r
}
