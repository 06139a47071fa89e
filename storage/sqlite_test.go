package storage

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"propsense/models"
)

func newStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSnapshotRoundTrip(t *testing.T) {
	store := newStore(t)

	in := []models.Ticket{
		{ID: 1, Title: "Boiler losing pressure", Status: models.StatusOpen},
		{ID: 2, Title: "Damp patch", Status: models.StatusResolved},
	}
	if err := store.SaveSnapshot(ResourceTickets, in); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}

	var out []models.Ticket
	fetchedAt, ok, err := store.LoadSnapshot(ResourceTickets, &out)
	if err != nil || !ok {
		t.Fatalf("LoadSnapshot: ok=%v err=%v", ok, err)
	}
	if len(out) != 2 || out[0].Title != in[0].Title || out[1].Status != models.StatusResolved {
		t.Errorf("round trip mismatch: %+v", out)
	}
	if time.Since(fetchedAt) > time.Minute {
		t.Errorf("fetched_at too old: %v", fetchedAt)
	}
}

func TestSnapshotOverwrite(t *testing.T) {
	store := newStore(t)
	store.SaveSnapshot(ResourceStatus, models.StatusResponse{Status: "Live"})
	store.SaveSnapshot(ResourceStatus, models.StatusResponse{Status: models.StatusOffline})

	var out models.StatusResponse
	if _, ok, err := store.LoadSnapshot(ResourceStatus, &out); err != nil || !ok {
		t.Fatalf("LoadSnapshot: ok=%v err=%v", ok, err)
	}
	if out.Status != models.StatusOffline {
		t.Errorf("last write should win, got %q", out.Status)
	}
}

func TestLoadSnapshotMissing(t *testing.T) {
	store := newStore(t)
	var out []models.User
	_, ok, err := store.LoadSnapshot(ResourceUsers, &out)
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if ok {
		t.Error("missing resource reported ok")
	}
}

func TestJournalRecordAndPrune(t *testing.T) {
	store := newStore(t)
	for i, op := range []string{"ticket.create", "ticket.status", "user.delete"} {
		rid := fmt.Sprintf("req-%d", i)
		if err := store.RecordMutation(op, 1, rid); err != nil {
			t.Fatalf("RecordMutation(%s): %v", op, err)
		}
	}

	entries, err := store.RecentMutations(10)
	if err != nil {
		t.Fatalf("RecentMutations: %v", err)
	}
	if len(entries) != 3 || entries[0].Op != "user.delete" {
		t.Errorf("entries = %+v, want newest first", entries)
	}
	if entries[0].RequestID != "req-2" || entries[2].RequestID != "req-0" {
		t.Errorf("request ids = %q, %q; want req-2, req-0", entries[0].RequestID, entries[2].RequestID)
	}

	pruned, err := store.PruneJournal(time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("PruneJournal: %v", err)
	}
	if pruned != 3 {
		t.Errorf("pruned = %d, want 3", pruned)
	}
}
