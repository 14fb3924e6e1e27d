package annotation

import (
	"errors"
	"log/slog"
	"math/rand"
	"slices"
	"testing"
)

var discardLogger = slog.New(slog.NewTextHandler(&discardWriter{}, nil))

type discardWriter struct{}

func (d *discardWriter) Write(p []byte) (int, error) { return len(p), nil }

type recorder struct {
	created []Point
	deleted []Point
}

func (r *recorder) Created(p Point) { r.created = append(r.created, p) }
func (r *recorder) Deleted(p Point) { r.deleted = append(r.deleted, p) }

func newTestStore(t *testing.T, w, h, margin int, obs ...Observer) *Store {
	t.Helper()
	c, err := NewCanvas(w, h, margin)
	if err != nil {
		t.Fatalf("canvas: %v", err)
	}
	return NewStore(c, discardLogger, obs...)
}

func TestNewCanvas_RejectsNonPositive(t *testing.T) {
	for _, tc := range []struct{ w, h int }{{0, 5}, {5, 0}, {-1, 3}} {
		if _, err := NewCanvas(tc.w, tc.h, 0); err == nil {
			t.Fatalf("expected error for %dx%d", tc.w, tc.h)
		}
	}
}

func TestStore_AddIsIdempotent(t *testing.T) {
	rec := &recorder{}
	s := newTestStore(t, 10, 10, 0, rec)
	if !s.Add(3, 4) {
		t.Fatalf("first add should insert")
	}
	if s.Add(3, 4) {
		t.Fatalf("second add should be a no-op")
	}
	if s.Len() != 1 || len(rec.created) != 1 {
		t.Fatalf("expected one point and one notification, got len=%d created=%d", s.Len(), len(rec.created))
	}
	if !s.Dirty() {
		t.Fatalf("add should mark the store dirty")
	}
}

func TestStore_AddOutOfBoundsIgnored(t *testing.T) {
	rec := &recorder{}
	s := newTestStore(t, 8, 6, 0, rec)
	for _, p := range []Point{{-1, 0}, {6, 0}, {0, -1}, {0, 8}, {6, 8}} {
		if s.Add(p.X, p.Y) {
			t.Fatalf("add %v should be ignored", p)
		}
	}
	if s.Len() != 0 || s.Dirty() || len(rec.created) != 0 {
		t.Fatalf("out of bounds adds mutated the store: len=%d dirty=%v created=%d", s.Len(), s.Dirty(), len(rec.created))
	}
	if !s.Add(5, 7) {
		t.Fatalf("last valid cell should be accepted")
	}
}

func TestStore_MarginBounds(t *testing.T) {
	s := newTestStore(t, 10, 10, 2)
	cases := []struct {
		p    Point
		want bool
	}{
		{Point{1, 5}, false},
		{Point{2, 5}, true},
		{Point{7, 7}, true},
		{Point{8, 5}, false},
		{Point{5, 8}, false},
	}
	for _, tc := range cases {
		if got := s.Add(tc.p.X, tc.p.Y); got != tc.want {
			t.Fatalf("add %v: got %v want %v", tc.p, got, tc.want)
		}
	}
}

func TestStore_RemoveAbsentFails(t *testing.T) {
	rec := &recorder{}
	s := newTestStore(t, 10, 10, 0, rec)
	s.Add(1, 1)
	s.MarkClean()
	err := s.Remove(2, 2)
	if !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}
	if s.Len() != 1 || s.Dirty() || len(rec.deleted) != 0 {
		t.Fatalf("failed remove mutated the store")
	}
}

func TestStore_RemoveNotifies(t *testing.T) {
	rec := &recorder{}
	s := newTestStore(t, 10, 10, 0, rec)
	s.Add(4, 4)
	s.MarkClean()
	if err := s.Remove(4, 4); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if s.Contains(4, 4) || !s.Dirty() {
		t.Fatalf("remove did not delete or mark dirty")
	}
	if len(rec.deleted) != 1 || rec.deleted[0] != (Point{4, 4}) {
		t.Fatalf("unexpected deleted notifications %v", rec.deleted)
	}
}

func TestStore_Scenario10x10(t *testing.T) {
	s := newTestStore(t, 10, 10, 0)
	s.Add(2, 3)
	s.Add(5, 5)
	if err := s.Remove(2, 3); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if got := s.All(); !slices.Equal(got, []Point{{5, 5}}) {
		t.Fatalf("All() = %v", got)
	}
	m := s.ToMask()
	if m.Rows != 10 || m.Cols != 10 {
		t.Fatalf("mask shape (%d, %d)", m.Rows, m.Cols)
	}
	for r := 0; r < 10; r++ {
		for c := 0; c < 10; c++ {
			want := uint8(0)
			if r == 5 && c == 5 {
				want = 1
			}
			if m.At(r, c) != want {
				t.Fatalf("mask[%d][%d] = %d, want %d", r, c, m.At(r, c), want)
			}
		}
	}
}

func TestStore_AllSorted(t *testing.T) {
	s := newTestStore(t, 10, 10, 0)
	s.Add(3, 1)
	s.Add(0, 9)
	s.Add(3, 0)
	want := []Point{{0, 9}, {3, 0}, {3, 1}}
	if got := s.All(); !slices.Equal(got, want) {
		t.Fatalf("All() = %v, want %v", got, want)
	}
}

func TestStore_RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for iter := 0; iter < 20; iter++ {
		w, h := 1+rng.Intn(40), 1+rng.Intn(40)
		s := newTestStore(t, w, h, 0)
		n := rng.Intn(60)
		for i := 0; i < n; i++ {
			x, y := rng.Intn(h), rng.Intn(w)
			if rng.Intn(4) == 0 && s.Contains(x, y) {
				_ = s.Remove(x, y)
				continue
			}
			s.Add(x, y)
		}
		want := s.All()
		other := newTestStore(t, w, h, 0)
		if err := other.LoadFromMask(s.ToMask()); err != nil {
			t.Fatalf("load: %v", err)
		}
		if got := other.All(); !slices.Equal(got, want) {
			t.Fatalf("round trip mismatch: got %v want %v", got, want)
		}
	}
}

func TestStore_LoadFromMaskRejectsInvalidValue(t *testing.T) {
	s := newTestStore(t, 4, 3, 0)
	s.Add(1, 1)
	m := NewMask(3, 4)
	m.Set(0, 0, 1)
	m.Set(2, 3, 2)
	err := s.LoadFromMask(m)
	var ime *InvalidMaskError
	if !errors.As(err, &ime) || !errors.Is(err, ErrInvalidMask) {
		t.Fatalf("expected InvalidMaskError, got %v", err)
	}
	if ime.Row != 2 || ime.Col != 3 || ime.Value != 2 {
		t.Fatalf("unexpected error location %+v", ime)
	}
	if got := s.All(); !slices.Equal(got, []Point{{1, 1}}) {
		t.Fatalf("previous set was modified: %v", got)
	}
}

func TestStore_LoadFromMaskShapeMismatch(t *testing.T) {
	s := newTestStore(t, 4, 3, 0)
	if err := s.LoadFromMask(NewMask(4, 3)); !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("expected ErrShapeMismatch, got %v", err)
	}
}

func TestStore_LoadFromMaskReplacesAndNotifies(t *testing.T) {
	rec := &recorder{}
	s := newTestStore(t, 5, 5, 0, rec)
	s.Add(0, 0)
	rec.created = nil
	m := NewMask(5, 5)
	m.Set(1, 2, 1)
	m.Set(4, 4, 1)
	if err := s.LoadFromMask(m); err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.Dirty() {
		t.Fatalf("a freshly loaded set should be clean")
	}
	if !slices.Equal(rec.deleted, []Point{{0, 0}}) {
		t.Fatalf("deleted = %v", rec.deleted)
	}
	if !slices.Equal(rec.created, []Point{{1, 2}, {4, 4}}) {
		t.Fatalf("created = %v", rec.created)
	}
}

func TestStore_LoadFromMaskSkipsMargin(t *testing.T) {
	s := newTestStore(t, 6, 6, 1)
	m := NewMask(6, 6)
	m.Set(0, 3, 1)
	m.Set(3, 3, 1)
	if err := s.LoadFromMask(m); err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := s.All(); !slices.Equal(got, []Point{{3, 3}}) {
		t.Fatalf("All() = %v", got)
	}
}

func TestObserverFuncs_NilSafe(t *testing.T) {
	var created int
	s := newTestStore(t, 3, 3, 0, ObserverFuncs{OnCreated: func(Point) { created++ }})
	s.Add(1, 1)
	if err := s.Remove(1, 1); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if created != 1 {
		t.Fatalf("created callback count %d", created)
	}
}
