package annotation

import (
	"errors"
	"fmt"
)

// Point is an annotated pixel. X is the row and Y the column, matching the
// (height, width) layout of the mask array.
type Point struct {
	X int
	Y int
}

func (p Point) String() string { return fmt.Sprintf("(%d, %d)", p.X, p.Y) }

// Less orders points by row, then column.
func (p Point) Less(o Point) bool {
	if p.X != o.X {
		return p.X < o.X
	}
	return p.Y < o.Y
}

// Canvas is the fixed coordinate space of a session.
// Margin reserves a band on every edge in which no annotation may be placed.
type Canvas struct {
	Width  int
	Height int
	Margin int
}

// NewCanvas validates the dimensions and returns a canvas.
func NewCanvas(width, height, margin int) (Canvas, error) {
	if width <= 0 || height <= 0 {
		return Canvas{}, fmt.Errorf("annotation: canvas must be positive, got %dx%d", width, height)
	}
	if margin < 0 {
		margin = 0
	}
	return Canvas{Width: width, Height: height, Margin: margin}, nil
}

// Contains reports whether p lies inside the canvas once the margin is applied.
func (c Canvas) Contains(p Point) bool {
	m := c.Margin
	return p.X >= m && p.X < c.Height-m && p.Y >= m && p.Y < c.Width-m
}

// Observer receives store mutations. Implementations run synchronously on the
// mutating goroutine and must not call back into the store.
type Observer interface {
	Created(p Point)
	Deleted(p Point)
}

// ObserverFuncs adapts plain functions to Observer. Nil fields are skipped.
type ObserverFuncs struct {
	OnCreated func(Point)
	OnDeleted func(Point)
}

func (o ObserverFuncs) Created(p Point) {
	if o.OnCreated != nil {
		o.OnCreated(p)
	}
}

func (o ObserverFuncs) Deleted(p Point) {
	if o.OnDeleted != nil {
		o.OnDeleted(p)
	}
}

var (
	// ErrKeyNotFound is returned when removing a point that is not annotated.
	ErrKeyNotFound = errors.New("annotation: point not found")
	// ErrInvalidMask matches every *InvalidMaskError.
	ErrInvalidMask = errors.New("annotation: invalid mask")
	// ErrShapeMismatch is returned when a mask does not match the canvas.
	ErrShapeMismatch = errors.New("annotation: mask shape does not match canvas")
)

// InvalidMaskError reports the first cell holding a value other than 0 or 1.
type InvalidMaskError struct {
	Row   int
	Col   int
	Value float64
}

func (e *InvalidMaskError) Error() string {
	return fmt.Sprintf("annotation: invalid mask value %v at row %d, column %d (want 0 or 1)", e.Value, e.Row, e.Col)
}

func (e *InvalidMaskError) Is(target error) bool { return target == ErrInvalidMask }
