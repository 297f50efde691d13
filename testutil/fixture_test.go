// Package testutil_test demonstrates the fixture and assertion helpers
package testutil_test

import (
	"testing"

	"github.com/arthur-debert/taskboard/testutil"
	"github.com/arthur-debert/taskboard/types"
	"github.com/google/go-cmp/cmp"
)

func TestLoadBoard(t *testing.T) {
	fx := testutil.LoadBoard(t)
	snap := fx.Store.Snapshot()

	testutil.AssertUniqueIDs(t, snap.Tasks())
	testutil.AssertColumn(t, snap, types.StatusToDo, 1, 2)
	testutil.AssertColumn(t, snap, types.StatusInProgress, 3, 4)
	testutil.AssertColumn(t, snap, types.StatusDone, 5, 6)

	if diff := cmp.Diff([]string{"Ana", "Ben", "Chen", "Dana"}, fx.Data.Assignees); diff != "" {
		t.Errorf("assignees mismatch (-want +got):\n%s", diff)
	}
	if fx.Data.UnicodeCafe.Title != "Café ☕ supplies" {
		t.Errorf("unicode title mangled: %q", fx.Data.UnicodeCafe.Title)
	}
	testutil.AssertPersisted(t, fx.Blobs, snap.Tasks())
}

func TestFixtureWorkflow(t *testing.T) {
	fx := testutil.LoadBoard(t)
	rec := testutil.Record(fx.Store)

	if _, err := fx.Store.MoveTask(fx.Data.TouchDrag.ID, types.StatusDone); err != nil {
		t.Fatalf("move: %v", err)
	}
	if _, err := fx.Store.MoveTask(999, types.StatusDone); err != nil {
		t.Fatalf("move unknown: %v", err)
	}

	if rec.Count() != 1 {
		t.Fatalf("expected one notification, got %d", rec.Count())
	}
	last, _ := rec.Last()
	testutil.AssertColumn(t, last, types.StatusInProgress, fx.Data.ReleaseNotes.ID)
	testutil.AssertColumn(t, last, types.StatusDone, 4, 5, 6)

	done := last.ByStatus(types.StatusDone)
	testutil.AssertTaskCount(t, done, 3, "in Done")
	testutil.AssertTaskExists(t, done, fx.Data.TouchDrag.ID)
	testutil.AssertTaskNotExists(t, done, fx.Data.BuyGroceries.ID)
	testutil.AssertPersisted(t, fx.Blobs, last.Tasks())
}
