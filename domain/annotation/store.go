package annotation

import (
	"fmt"
	"log/slog"
	"slices"
)

// Store is the authoritative set of annotated points on a canvas.
//
// It is not safe for concurrent use: a single UI event loop is the only
// mutator. Observers are notified synchronously after each mutation.
type Store struct {
	canvas    Canvas
	points    map[Point]struct{}
	dirty     bool
	observers []Observer
	logger    *slog.Logger
}

// NewStore returns an empty store bound to canvas.
func NewStore(canvas Canvas, logger *slog.Logger, observers ...Observer) *Store {
	s := &Store{canvas: canvas, points: make(map[Point]struct{}), logger: logger}
	for _, o := range observers {
		s.Observe(o)
	}
	return s
}

// Observe registers an additional observer. Nil observers are ignored.
func (s *Store) Observe(o Observer) {
	if s == nil || o == nil {
		return
	}
	s.observers = append(s.observers, o)
}

// Canvas returns the canvas the store was created with.
func (s *Store) Canvas() Canvas { return s.canvas }

// Add annotates (x, y). It returns false when the point is out of bounds or
// already present; neither case mutates the store or notifies observers.
func (s *Store) Add(x, y int) bool {
	p := Point{X: x, Y: y}
	if !s.canvas.Contains(p) {
		return false
	}
	if _, ok := s.points[p]; ok {
		return false
	}
	s.points[p] = struct{}{}
	s.dirty = true
	if s.logger != nil {
		s.logger.Info("adding dot", "x", x, "y", y)
	}
	for _, o := range s.observers {
		o.Created(p)
	}
	return true
}

// Remove deletes (x, y). Removing an absent point returns ErrKeyNotFound
// since it means the caller's view of the set is out of date.
func (s *Store) Remove(x, y int) error {
	p := Point{X: x, Y: y}
	if _, ok := s.points[p]; !ok {
		return fmt.Errorf("remove %s: %w", p, ErrKeyNotFound)
	}
	delete(s.points, p)
	s.dirty = true
	if s.logger != nil {
		s.logger.Info("removing dot", "x", x, "y", y)
	}
	for _, o := range s.observers {
		o.Deleted(p)
	}
	return nil
}

// Contains reports whether (x, y) is annotated.
func (s *Store) Contains(x, y int) bool {
	_, ok := s.points[Point{X: x, Y: y}]
	return ok
}

// Len returns the number of annotated points.
func (s *Store) Len() int { return len(s.points) }

// All returns every annotated point sorted by row, then column.
func (s *Store) All() []Point {
	out := make([]Point, 0, len(s.points))
	for p := range s.points {
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b Point) int {
		switch {
		case a.Less(b):
			return -1
		case b.Less(a):
			return 1
		}
		return 0
	})
	return out
}

// Dirty reports whether the set changed since it was loaded or last marked clean.
func (s *Store) Dirty() bool { return s.dirty }

// MarkClean clears the dirty flag, typically after a successful save.
func (s *Store) MarkClean() { s.dirty = false }

// ToMask renders the set into a (Height, Width) binary mask.
func (s *Store) ToMask() *Mask {
	m := NewMask(s.canvas.Height, s.canvas.Width)
	for p := range s.points {
		m.Set(p.X, p.Y, 1)
	}
	return m
}

// LoadFromMask replaces the whole set with the nonzero cells of m.
//
// The mask is validated before anything changes: a shape different from the
// canvas or any value outside {0, 1} leaves the current set untouched.
// Nonzero cells inside the margin band are skipped.
func (s *Store) LoadFromMask(m *Mask) error {
	if m == nil {
		return fmt.Errorf("%w: nil mask", ErrInvalidMask)
	}
	if m.Rows != s.canvas.Height || m.Cols != s.canvas.Width {
		return fmt.Errorf("%w: mask (%d, %d), canvas (%d, %d)", ErrShapeMismatch, m.Rows, m.Cols, s.canvas.Height, s.canvas.Width)
	}
	if err := m.Validate(); err != nil {
		return err
	}
	next := make(map[Point]struct{}, m.Count())
	skipped := 0
	for _, p := range m.Points() {
		if !s.canvas.Contains(p) {
			skipped++
			continue
		}
		next[p] = struct{}{}
	}
	if skipped > 0 && s.logger != nil {
		s.logger.Warn("mask points inside margin skipped", "count", skipped, "margin", s.canvas.Margin)
	}
	prev := s.All()
	s.points = next
	s.dirty = false
	for _, p := range prev {
		for _, o := range s.observers {
			o.Deleted(p)
		}
	}
	for _, p := range s.All() {
		for _, o := range s.observers {
			o.Created(p)
		}
	}
	return nil
}
