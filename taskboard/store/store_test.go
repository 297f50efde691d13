package store

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/arthur-debert/taskboard/taskboard/ids"
	"github.com/arthur-debert/taskboard/taskboard/imports"
	"github.com/arthur-debert/taskboard/taskboard/storage"
	"github.com/arthur-debert/taskboard/types"
	"github.com/google/go-cmp/cmp"
)

// newTestStore returns an initialized store over an in-memory blob store
func newTestStore(t *testing.T, opts ...Option) (*Store, *storage.MemoryBlobStore) {
	t.Helper()
	blobs := storage.NewMemoryBlobStore()
	s := New(storage.NewJSONAdapter(blobs), opts...)
	if err := s.Initialize(); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	return s, blobs
}

// recorder collects every snapshot a subscriber receives
type recorder struct {
	mu    sync.Mutex
	snaps []types.Snapshot
}

func (r *recorder) record(s types.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snaps = append(r.snaps, s)
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.snaps)
}

func assertUniqueIDs(t *testing.T, tasks []types.Task) {
	t.Helper()
	seen := make(map[int]bool)
	for _, task := range tasks {
		if seen[task.ID] {
			t.Fatalf("duplicate id %d in %+v", task.ID, tasks)
		}
		seen[task.ID] = true
	}
}

func TestInitializeEmptyBoard(t *testing.T) {
	t.Run("seed none starts empty", func(t *testing.T) {
		s, blobs := newTestStore(t)
		if !s.IsEmpty() {
			t.Errorf("expected empty board, got %d tasks", len(s.Tasks()))
		}
		if blobs.Puts(storage.TasksKey) != 0 {
			t.Error("empty initialization must not write")
		}
		if len(s.KnownAssignees()) != 0 {
			t.Errorf("expected no assignees, got %v", s.KnownAssignees())
		}
	})

	t.Run("seed examples covers every column", func(t *testing.T) {
		s, blobs := newTestStore(t, WithSeedPolicy(SeedExamples))
		for _, status := range types.Statuses() {
			if got := len(s.TasksByStatus(status)); got != 1 {
				t.Errorf("expected 1 example in %q, got %d", status, got)
			}
		}
		assertUniqueIDs(t, s.Tasks())
		if blobs.Puts(storage.TasksKey) != 1 {
			t.Errorf("expected seeded board to be persisted once, got %d", blobs.Puts(storage.TasksKey))
		}
		if diff := cmp.Diff([]string{"Alice", "Bob"}, s.KnownAssignees()); diff != "" {
			t.Errorf("assignees mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("persisted empty list counts as empty", func(t *testing.T) {
		blobs := storage.NewMemoryBlobStore()
		_ = blobs.Put(storage.TasksKey, []byte("[]"))
		s := New(storage.NewJSONAdapter(blobs), WithSeedPolicy(SeedExamples))
		if err := s.Initialize(); err != nil {
			t.Fatalf("initialize: %v", err)
		}
		if s.IsEmpty() {
			t.Error("expected examples to be seeded over an empty persisted list")
		}
	})
}

func TestInitializeAdoptsPersistedBoard(t *testing.T) {
	blobs := storage.NewMemoryBlobStore()
	adapter := storage.NewJSONAdapter(blobs)
	persisted := []types.Task{
		{ID: 12, Title: "Old", Description: "from last week", Status: types.StatusDone, Assignee: "Ana"},
		{ID: 3, Title: "Older", Status: types.StatusToDo},
	}
	if err := adapter.SaveTasks(persisted); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := adapter.SaveAssignees([]string{"Ana", "Kim"}); err != nil {
		t.Fatalf("save: %v", err)
	}

	s := New(adapter, WithSeedPolicy(SeedExamples))
	if err := s.Initialize(); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	if diff := cmp.Diff(persisted, s.Tasks()); diff != "" {
		t.Errorf("tasks mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Ana", "Kim"}, s.KnownAssignees()); diff != "" {
		t.Errorf("assignees mismatch (-want +got):\n%s", diff)
	}

	// Reseed monotonicity: the next id is past the highest persisted one
	task, err := s.CreateTask("New", "", types.StatusToDo, "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if task.ID <= 12 {
		t.Errorf("expected id > 12, got %d", task.ID)
	}
}

func TestInitializeLoadErrors(t *testing.T) {
	blobs := storage.NewMemoryBlobStore()
	_ = blobs.Put(storage.TasksKey, []byte("{broken"))
	if err := New(storage.NewJSONAdapter(blobs)).Initialize(); err == nil {
		t.Error("expected error for corrupt tasks")
	}

	blobs = storage.NewMemoryBlobStore()
	_ = blobs.Put(storage.AssigneesKey, []byte("{broken"))
	if err := New(storage.NewJSONAdapter(blobs)).Initialize(); err == nil {
		t.Error("expected error for corrupt assignees")
	}
}

func TestCreateTask(t *testing.T) {
	s, blobs := newTestStore(t)
	rec := &recorder{}
	s.Subscribe(rec.record)

	task, err := s.CreateTask("Write tests", "", types.StatusInProgress, " Dana ")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	want := types.Task{ID: 1, Title: "Write tests", Status: types.StatusInProgress, Assignee: " Dana "}
	if task != want {
		t.Errorf("expected %+v, got %+v", want, task)
	}
	if diff := cmp.Diff([]string{"Dana"}, s.KnownAssignees()); diff != "" {
		t.Errorf("assignees mismatch (-want +got):\n%s", diff)
	}
	if blobs.Puts(storage.TasksKey) != 1 || blobs.Puts(storage.AssigneesKey) != 1 {
		t.Error("expected tasks and assignees to be persisted once")
	}
	if rec.count() != 1 {
		t.Fatalf("expected one notification, got %d", rec.count())
	}

	// Blank fields are allowed on the single-create path
	blank, err := s.CreateTask("", "", types.StatusToDo, "")
	if err != nil {
		t.Fatalf("create blank: %v", err)
	}
	if blank.ID != 2 {
		t.Errorf("expected id 2, got %d", blank.ID)
	}
	if blobs.Puts(storage.AssigneesKey) != 1 {
		t.Error("blank assignee must not touch the registry")
	}
}

func TestCreateTaskRejectsInvalidStatus(t *testing.T) {
	s, blobs := newTestStore(t)
	rec := &recorder{}
	s.Subscribe(rec.record)

	_, err := s.CreateTask("x", "", types.Status("Blocked"), "")
	if !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
	if !s.IsEmpty() || rec.count() != 0 || blobs.Puts(storage.TasksKey) != 0 {
		t.Error("rejected create must not change, persist or notify")
	}
}

func TestMoveTask(t *testing.T) {
	s, blobs := newTestStore(t)
	task, _ := s.CreateTask("Card", "desc", types.StatusToDo, "Ana")
	rec := &recorder{}
	s.Subscribe(rec.record)
	puts := blobs.Puts(storage.TasksKey)

	moved, err := s.MoveTask(task.ID, types.StatusDone)
	if err != nil || !moved {
		t.Fatalf("expected move, got moved=%v err=%v", moved, err)
	}
	got, _ := s.Get(task.ID)
	if diff := cmp.Diff(task.WithStatus(types.StatusDone), got); diff != "" {
		t.Errorf("only status should change (-want +got):\n%s", diff)
	}
	if blobs.Puts(storage.TasksKey) != puts+1 || rec.count() != 1 {
		t.Error("move should persist and notify once")
	}

	noops := []struct {
		name   string
		id     int
		status types.Status
	}{
		{name: "unknown id", id: 9999, status: types.StatusDone},
		{name: "invalid status", id: task.ID, status: types.Status("Archive")},
		{name: "same column", id: task.ID, status: types.StatusDone},
	}
	for _, tt := range noops {
		t.Run(tt.name, func(t *testing.T) {
			before := s.Snapshot()
			puts := blobs.Puts(storage.TasksKey)
			notifications := rec.count()

			moved, err := s.MoveTask(tt.id, tt.status)
			if err != nil || moved {
				t.Errorf("expected no-op, got moved=%v err=%v", moved, err)
			}
			if !s.Snapshot().Equal(before) {
				t.Error("no-op move changed the board")
			}
			if blobs.Puts(storage.TasksKey) != puts || rec.count() != notifications {
				t.Error("no-op move must not persist or notify")
			}
		})
	}
}

func TestEditTask(t *testing.T) {
	s, _ := newTestStore(t)
	first, _ := s.CreateTask("First", "", types.StatusToDo, "Ana")
	second, _ := s.CreateTask("Second", "", types.StatusToDo, "Ana")
	rec := &recorder{}
	s.Subscribe(rec.record)

	updated := types.Task{ID: second.ID, Title: "Renamed", Description: "now with text", Status: types.StatusInProgress, Assignee: "Ben"}
	changed, err := s.EditTask(updated)
	if err != nil || !changed {
		t.Fatalf("expected edit, got changed=%v err=%v", changed, err)
	}
	if diff := cmp.Diff([]types.Task{first, updated}, s.Tasks()); diff != "" {
		t.Errorf("tasks mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Ana", "Ben"}, s.KnownAssignees()); diff != "" {
		t.Errorf("assignees mismatch (-want +got):\n%s", diff)
	}
	if rec.count() != 1 {
		t.Errorf("expected one notification, got %d", rec.count())
	}

	changed, err = s.EditTask(types.Task{ID: 404, Title: "ghost", Status: types.StatusDone, Assignee: "Zed"})
	if err != nil || changed {
		t.Errorf("expected no-op for unknown id, got changed=%v err=%v", changed, err)
	}
	if s.KnownAssignees()[len(s.KnownAssignees())-1] == "Zed" {
		t.Error("no-op edit must not record its assignee")
	}

	changed, err = s.EditTask(types.Task{ID: 404, Title: "ghost", Status: types.Status("nope")})
	if err != nil || changed {
		t.Errorf("expected unknown id to win over invalid status, got changed=%v err=%v", changed, err)
	}

	_, err = s.EditTask(types.Task{ID: first.ID, Status: types.Status("nope")})
	if !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("expected ErrInvalidStatus, got %v", err)
	}
	if rec.count() != 1 {
		t.Error("rejected edits must not notify")
	}
}

func TestBulkImportAtomicity(t *testing.T) {
	s, blobs := newTestStore(t)
	s.CreateTask("Existing", "", types.StatusToDo, "")
	before := s.Snapshot()
	rec := &recorder{}
	s.Subscribe(rec.record)
	puts := blobs.Puts(storage.TasksKey)

	input := `[{"title":"A","description":"d","status":"To Do","assignee":"X"},{"title":"","description":"d","status":"To Do","assignee":"Y"}]`
	count, err := s.BulkImport(input)

	if count != 0 {
		t.Errorf("expected 0 imported, got %d", count)
	}
	var importErr *imports.Error
	if !errors.As(err, &importErr) || importErr.Reason != imports.ReasonMissingFields {
		t.Fatalf("expected MissingFields rejection, got %v", err)
	}
	if !s.Snapshot().Equal(before) {
		t.Error("rejected import must not change the board")
	}
	if len(s.KnownAssignees()) != 0 {
		t.Errorf("rejected import must not record assignees, got %v", s.KnownAssignees())
	}
	if blobs.Puts(storage.TasksKey) != puts || rec.count() != 0 {
		t.Error("rejected import must not persist or notify")
	}
}

func TestBulkImportRejectionReasons(t *testing.T) {
	tests := []struct {
		input    string
		sentinel error
	}{
		{input: `not json`, sentinel: imports.ErrMalformedInput},
		{input: `{"title":"x"}`, sentinel: imports.ErrNotAnArray},
		{input: `[{"title":"x"}]`, sentinel: imports.ErrMissingFields},
		{input: `[{"title":"x","description":"d","status":"Later","assignee":"A"}]`, sentinel: imports.ErrInvalidStatus},
	}
	for _, tt := range tests {
		t.Run(tt.sentinel.Error(), func(t *testing.T) {
			s, _ := newTestStore(t)
			if _, err := s.BulkImport(tt.input); !errors.Is(err, tt.sentinel) {
				t.Errorf("expected %v, got %v", tt.sentinel, err)
			}
			if !s.IsEmpty() {
				t.Error("rejected import changed the board")
			}
		})
	}
}

func TestBulkImportCommit(t *testing.T) {
	s, blobs := newTestStore(t)
	existing, _ := s.CreateTask("Existing", "", types.StatusDone, "Kim")
	rec := &recorder{}
	s.Subscribe(rec.record)

	input := `[
		{"title":"One","description":"first","status":"To Do","assignee":"Sam"},
		{"title":"Two","description":"second","status":"in progress","assignee":"Sam"},
		{"title":"Three","description":"third","status":"Done","assignee":"Kim"}
	]`
	count, err := s.BulkImport(input)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if count != 3 {
		t.Errorf("expected 3 imported, got %d", count)
	}

	want := []types.Task{
		existing,
		{ID: 2, Title: "One", Description: "first", Status: types.StatusToDo, Assignee: "Sam"},
		{ID: 3, Title: "Two", Description: "second", Status: types.StatusInProgress, Assignee: "Sam"},
		{ID: 4, Title: "Three", Description: "third", Status: types.StatusDone, Assignee: "Kim"},
	}
	if diff := cmp.Diff(want, s.Tasks()); diff != "" {
		t.Errorf("tasks mismatch (-want +got):\n%s", diff)
	}

	// Assignee dedup: Sam recorded exactly once, Kim not re-added
	if diff := cmp.Diff([]string{"Kim", "Sam"}, s.KnownAssignees()); diff != "" {
		t.Errorf("assignees mismatch (-want +got):\n%s", diff)
	}
	if blobs.Puts(storage.AssigneesKey) != 2 {
		t.Errorf("expected one assignee write per operation, got %d", blobs.Puts(storage.AssigneesKey))
	}
	if rec.count() != 1 {
		t.Errorf("expected a single notification for the batch, got %d", rec.count())
	}
}

func TestBulkImportEmptyArrayIsNoop(t *testing.T) {
	s, blobs := newTestStore(t)
	rec := &recorder{}
	s.Subscribe(rec.record)

	count, err := s.BulkImport(`[]`)
	if err != nil || count != 0 {
		t.Errorf("expected 0, nil; got %d, %v", count, err)
	}
	if blobs.Puts(storage.TasksKey) != 0 || rec.count() != 0 {
		t.Error("empty import must not persist or notify")
	}
}

func TestUniqueIDsAcrossOperations(t *testing.T) {
	s, _ := newTestStore(t)
	batch := `[{"title":"a","description":"b","status":"To Do","assignee":"c"},{"title":"d","description":"e","status":"Done","assignee":"f"}]`

	for i := 0; i < 5; i++ {
		if _, err := s.CreateTask(fmt.Sprintf("task %d", i), "", types.StatusToDo, ""); err != nil {
			t.Fatalf("create: %v", err)
		}
		if _, err := s.BulkImport(batch); err != nil {
			t.Fatalf("import: %v", err)
		}
	}
	tasks := s.Tasks()
	if len(tasks) != 15 {
		t.Fatalf("expected 15 tasks, got %d", len(tasks))
	}
	assertUniqueIDs(t, tasks)
}

func TestRoundTrip(t *testing.T) {
	blobs := storage.NewMemoryBlobStore()
	s := New(storage.NewJSONAdapter(blobs))
	if err := s.Initialize(); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	s.CreateTask("a", "alpha", types.StatusToDo, "Ana")
	s.BulkImport(`[{"title":"b","description":"beta","status":"Done","assignee":"Ben"}]`)
	s.MoveTask(1, types.StatusInProgress)
	s.EditTask(types.Task{ID: 2, Title: "b2", Description: "beta2", Status: types.StatusDone, Assignee: "Cy"})
	want := s.Snapshot()

	reloaded := New(storage.NewJSONAdapter(blobs))
	if err := reloaded.Initialize(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if diff := cmp.Diff(want.Tasks(), reloaded.Tasks()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(s.KnownAssignees(), reloaded.KnownAssignees()); diff != "" {
		t.Errorf("assignees mismatch (-want +got):\n%s", diff)
	}
}

func TestNotificationFanOut(t *testing.T) {
	s, _ := newTestStore(t)

	var order []string
	var first, second []types.Snapshot
	s.Subscribe(func(snap types.Snapshot) {
		order = append(order, "first")
		first = append(first, snap)
	})
	s.Subscribe(func(snap types.Snapshot) {
		order = append(order, "second")
		second = append(second, snap)
	})

	if _, err := s.CreateTask("fan", "out", types.StatusToDo, ""); err != nil {
		t.Fatalf("create: %v", err)
	}

	if diff := cmp.Diff([]string{"first", "second"}, order); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("expected exactly one delivery each, got %d and %d", len(first), len(second))
	}
	if !first[0].Equal(second[0]) || !first[0].Equal(s.Snapshot()) {
		t.Error("subscribers should receive the identical updated list")
	}
}

func TestSubscriberCanReadStoreDuringCallback(t *testing.T) {
	s, _ := newTestStore(t)

	var seen int
	s.Subscribe(func(types.Snapshot) {
		seen = len(s.Tasks())
	})
	s.CreateTask("a", "", types.StatusToDo, "")
	if seen != 1 {
		t.Errorf("expected callback to read 1 task, got %d", seen)
	}
}

func TestPersistenceFailureKeepsMutation(t *testing.T) {
	s, blobs := newTestStore(t, WithPersistRetries(2))
	rec := &recorder{}
	s.Subscribe(rec.record)

	diskErr := errors.New("quota exceeded")
	blobs.SetPutError(diskErr)

	task, err := s.CreateTask("kept", "", types.StatusToDo, "Ana")
	if !errors.Is(err, ErrPersistenceFailure) {
		t.Fatalf("expected ErrPersistenceFailure, got %v", err)
	}
	if !errors.Is(err, diskErr) {
		t.Errorf("expected the disk error to be wrapped, got %v", err)
	}
	if _, ok := s.Get(task.ID); !ok {
		t.Error("in-memory mutation must not be rolled back")
	}
	if rec.count() != 1 {
		t.Error("subscribers should still be notified")
	}
	if blobs.Puts(storage.TasksKey) != 3 {
		t.Errorf("expected 1 attempt + 2 retries, got %d", blobs.Puts(storage.TasksKey))
	}
	if !s.registry.Contains("Ana") {
		t.Error("assignee should stay recorded in memory")
	}

	blobs.SetPutError(nil)
	if _, err := s.MoveTask(task.ID, types.StatusDone); err != nil {
		t.Fatalf("move after recovery: %v", err)
	}
	reloaded := New(storage.NewJSONAdapter(blobs))
	if err := reloaded.Initialize(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if diff := cmp.Diff(s.Tasks(), reloaded.Tasks()); diff != "" {
		t.Errorf("next successful save should catch up (-want +got):\n%s", diff)
	}
}

func TestReload(t *testing.T) {
	blobs := storage.NewMemoryBlobStore()
	s := New(storage.NewJSONAdapter(blobs))
	if err := s.Initialize(); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	rec := &recorder{}
	s.Subscribe(rec.record)

	// Nothing changed
	if err := s.Reload(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if rec.count() != 0 {
		t.Error("unchanged reload must not notify")
	}

	// Another process writes the board
	other := storage.NewJSONAdapter(blobs)
	external := []types.Task{{ID: 40, Title: "From elsewhere", Status: types.StatusInProgress, Assignee: "Lee"}}
	_ = other.SaveTasks(external)
	_ = other.SaveAssignees([]string{"Lee"})

	if err := s.Reload(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if diff := cmp.Diff(external, s.Tasks()); diff != "" {
		t.Errorf("tasks mismatch (-want +got):\n%s", diff)
	}
	if rec.count() != 1 {
		t.Errorf("expected one notification, got %d", rec.count())
	}
	if diff := cmp.Diff([]string{"Lee"}, s.KnownAssignees()); diff != "" {
		t.Errorf("assignees mismatch (-want +got):\n%s", diff)
	}

	task, _ := s.CreateTask("after reload", "", types.StatusToDo, "")
	if task.ID <= 40 {
		t.Errorf("expected id > 40 after reload, got %d", task.ID)
	}
}

// pausingAdapter runs pause after LoadTasks has read the blobs
type pausingAdapter struct {
	storage.Adapter
	pause func()
}

func (a *pausingAdapter) LoadTasks() ([]types.Task, bool, error) {
	tasks, found, err := a.Adapter.LoadTasks()
	if a.pause != nil {
		a.pause()
	}
	return tasks, found, err
}

func TestReloadDoesNotLoseConcurrentMutation(t *testing.T) {
	blobs := storage.NewMemoryBlobStore()
	adapter := &pausingAdapter{Adapter: storage.NewJSONAdapter(blobs)}
	s := New(adapter)
	if err := s.Initialize(); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if _, err := s.CreateTask("first", "", types.StatusToDo, ""); err != nil {
		t.Fatalf("create: %v", err)
	}

	loading := make(chan struct{})
	release := make(chan struct{})
	adapter.pause = func() {
		close(loading)
		<-release
	}

	reloaded := make(chan error, 1)
	go func() { reloaded <- s.Reload() }()
	<-loading

	created := make(chan types.Task, 1)
	go func() {
		task, _ := s.CreateTask("second", "", types.StatusDone, "Kim")
		created <- task
	}()

	select {
	case <-created:
		t.Fatal("create committed while reload was reading storage")
	case <-time.After(50 * time.Millisecond):
	}
	close(release)

	if err := <-reloaded; err != nil {
		t.Fatalf("reload: %v", err)
	}
	task := <-created
	if _, ok := s.Get(task.ID); !ok {
		t.Fatalf("task #%d missing from memory after reload", task.ID)
	}
	if diff := cmp.Diff([]string{"Kim"}, s.KnownAssignees()); diff != "" {
		t.Errorf("assignees mismatch (-want +got):\n%s", diff)
	}

	// The next save must keep the concurrent task on disk
	adapter.pause = nil
	if _, err := s.CreateTask("third", "", types.StatusToDo, ""); err != nil {
		t.Fatalf("create: %v", err)
	}
	saved, _, err := storage.NewJSONAdapter(blobs).LoadTasks()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(s.Tasks(), saved); diff != "" {
		t.Errorf("persisted tasks mismatch (-want +got):\n%s", diff)
	}
	if len(saved) != 3 {
		t.Errorf("expected 3 persisted tasks, got %d", len(saved))
	}
}

func TestSharedAllocator(t *testing.T) {
	alloc := ids.NewAllocator()
	alloc.Reseed(100)
	s, _ := newTestStore(t, WithAllocator(alloc))

	task, _ := s.CreateTask("x", "", types.StatusToDo, "")
	if task.ID != 100 {
		t.Errorf("expected injected allocator to be used, got id %d", task.ID)
	}

	// A second store has its own counter
	other, _ := newTestStore(t)
	task, _ = other.CreateTask("y", "", types.StatusToDo, "")
	if task.ID != 1 {
		t.Errorf("expected independent counter, got id %d", task.ID)
	}
}

func TestConcurrentMutationsAreSerialized(t *testing.T) {
	s, _ := newTestStore(t)

	var mu sync.Mutex
	var lengths []int
	s.Subscribe(func(snap types.Snapshot) {
		mu.Lock()
		lengths = append(lengths, snap.Len())
		mu.Unlock()
	})

	const workers, perWorker = 6, 25
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				if _, err := s.CreateTask(fmt.Sprintf("%d-%d", w, i), "", types.StatusToDo, ""); err != nil {
					t.Errorf("create: %v", err)
				}
			}
		}(w)
	}
	wg.Wait()

	tasks := s.Tasks()
	if len(tasks) != workers*perWorker {
		t.Fatalf("expected %d tasks, got %d", workers*perWorker, len(tasks))
	}
	assertUniqueIDs(t, tasks)

	// Notifications arrive in commit order, so list lengths strictly increase
	for i := 1; i < len(lengths); i++ {
		if lengths[i] != lengths[i-1]+1 {
			t.Fatalf("notifications out of order at %d: %v", i, lengths[i-1:i+1])
		}
	}
}

func TestParseSeedPolicy(t *testing.T) {
	tests := []struct {
		input    string
		expected SeedPolicy
		wantErr  bool
	}{
		{input: "", expected: SeedNone},
		{input: "none", expected: SeedNone},
		{input: "Examples", expected: SeedExamples},
		{input: "lots", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseSeedPolicy(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("%q: unexpected error state %v", tt.input, err)
		}
		if err == nil && got != tt.expected {
			t.Errorf("%q: expected %s, got %s", tt.input, tt.expected, got)
		}
	}
}
