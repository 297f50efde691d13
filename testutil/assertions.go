package testutil

import (
	"testing"

	"github.com/arthur-debert/taskboard/taskboard/storage"
	"github.com/arthur-debert/taskboard/types"
	"github.com/google/go-cmp/cmp"
)

// AssertTaskCount checks the number of tasks, with optional context
func AssertTaskCount(t *testing.T, tasks []types.Task, expected int, context ...string) {
	t.Helper()
	if len(tasks) != expected {
		msg := ""
		if len(context) > 0 {
			msg = " " + context[0]
		}
		t.Errorf("expected %d tasks%s, got %d", expected, msg, len(tasks))
	}
}

// AssertTaskExists checks that a task with id is in tasks
func AssertTaskExists(t *testing.T, tasks []types.Task, id int) {
	t.Helper()
	for _, task := range tasks {
		if task.ID == id {
			return
		}
	}
	t.Errorf("expected task #%d to be present", id)
}

// AssertTaskNotExists checks that no task with id is in tasks
func AssertTaskNotExists(t *testing.T, tasks []types.Task, id int) {
	t.Helper()
	for _, task := range tasks {
		if task.ID == id {
			t.Errorf("expected task #%d to be absent", id)
			return
		}
	}
}

// AssertColumn checks which task ids sit in a column, in order
func AssertColumn(t *testing.T, snap types.Snapshot, status types.Status, ids ...int) {
	t.Helper()
	got := []int{}
	for _, task := range snap.ByStatus(status) {
		got = append(got, task.ID)
	}
	if ids == nil {
		ids = []int{}
	}
	if diff := cmp.Diff(ids, got); diff != "" {
		t.Errorf("column %q mismatch (-want +got):\n%s", status, diff)
	}
}

// AssertUniqueIDs checks that no two tasks share an id
func AssertUniqueIDs(t *testing.T, tasks []types.Task) {
	t.Helper()
	seen := make(map[int]bool, len(tasks))
	for _, task := range tasks {
		if seen[task.ID] {
			t.Errorf("duplicate task id %d", task.ID)
		}
		seen[task.ID] = true
	}
}

// AssertPersisted checks that the tasks saved in blobs match want
func AssertPersisted(t *testing.T, blobs storage.BlobStore, want []types.Task) {
	t.Helper()
	saved, _, err := storage.NewJSONAdapter(blobs).LoadTasks()
	if err != nil {
		t.Fatalf("failed to load persisted tasks: %v", err)
	}
	if diff := cmp.Diff(want, saved); diff != "" {
		t.Errorf("persisted tasks mismatch (-want +got):\n%s", diff)
	}
}
