package journal

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/soocke/dotcount/domain/annotation"
)

func openTestDB(t *testing.T) *Session {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "journal", "edits.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	s, err := NewSession(db, "dots.npy", nil)
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	return s
}

func TestSession_RecordsStoreEvents(t *testing.T) {
	sess := openTestDB(t)
	base := time.Unix(1000, 0)
	sess.now = func() time.Time { return base }

	canvas, _ := annotation.NewCanvas(10, 10, 0)
	store := annotation.NewStore(canvas, nil, sess)
	store.Add(1, 2)
	store.Add(1, 2) // no-op, not journaled
	store.Add(3, 4)
	if err := store.Remove(1, 2); err != nil {
		t.Fatalf("remove: %v", err)
	}
	sess.Saved(store.Len())

	events, err := sess.Events(context.Background())
	if err != nil {
		t.Fatalf("events: %v", err)
	}
	want := []Event{
		{Kind: KindCreated, Point: annotation.Point{X: 1, Y: 2}},
		{Kind: KindCreated, Point: annotation.Point{X: 3, Y: 4}},
		{Kind: KindDeleted, Point: annotation.Point{X: 1, Y: 2}},
		{Kind: KindSaved, Dots: 1},
	}
	if len(events) != len(want) {
		t.Fatalf("got %d events, want %d: %+v", len(events), len(want), events)
	}
	for i, e := range events {
		if e.Kind != want[i].Kind || e.Point != want[i].Point || e.Dots != want[i].Dots {
			t.Fatalf("event %d = %+v, want %+v", i, e, want[i])
		}
		if !e.At.Equal(base) {
			t.Fatalf("event %d timestamp %v", i, e.At)
		}
	}
}

func TestSession_SeparatesSessions(t *testing.T) {
	a := openTestDB(t)
	b, err := NewSession(a.db, "other.npy", nil)
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	if a.ID() == b.ID() {
		t.Fatalf("sessions share an id")
	}
	a.Created(annotation.Point{X: 1, Y: 1})
	b.Created(annotation.Point{X: 2, Y: 2})
	b.Deleted(annotation.Point{X: 2, Y: 2})

	ea, err := a.Events(context.Background())
	if err != nil {
		t.Fatalf("events: %v", err)
	}
	eb, err := b.Events(context.Background())
	if err != nil {
		t.Fatalf("events: %v", err)
	}
	if len(ea) != 1 || len(eb) != 2 {
		t.Fatalf("unexpected counts a=%d b=%d", len(ea), len(eb))
	}
}

func TestNewSession_NilDB(t *testing.T) {
	if _, err := NewSession(nil, "x", nil); err == nil {
		t.Fatalf("expected error")
	}
}
