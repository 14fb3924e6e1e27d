package annotation

import "fmt"

// Mask is a dense row-major binary array of shape (Rows, Cols).
type Mask struct {
	Rows int
	Cols int
	Data []uint8
}

// NewMask returns an all-zero mask.
func NewMask(rows, cols int) *Mask {
	if rows < 0 {
		rows = 0
	}
	if cols < 0 {
		cols = 0
	}
	return &Mask{Rows: rows, Cols: cols, Data: make([]uint8, rows*cols)}
}

// At returns the cell value. Out of range cells read as 0.
func (m *Mask) At(row, col int) uint8 {
	if m == nil || row < 0 || row >= m.Rows || col < 0 || col >= m.Cols {
		return 0
	}
	return m.Data[row*m.Cols+col]
}

// Set writes a cell value. Out of range writes are dropped.
func (m *Mask) Set(row, col int, v uint8) {
	if m == nil || row < 0 || row >= m.Rows || col < 0 || col >= m.Cols {
		return
	}
	m.Data[row*m.Cols+col] = v
}

// Validate checks the backing slice length and that every cell is 0 or 1.
func (m *Mask) Validate() error {
	if m == nil {
		return fmt.Errorf("%w: nil mask", ErrInvalidMask)
	}
	if len(m.Data) != m.Rows*m.Cols {
		return fmt.Errorf("%w: %d cells for shape (%d, %d)", ErrInvalidMask, len(m.Data), m.Rows, m.Cols)
	}
	for i, v := range m.Data {
		if v > 1 {
			return &InvalidMaskError{Row: i / m.Cols, Col: i % m.Cols, Value: float64(v)}
		}
	}
	return nil
}

// Count returns the number of nonzero cells.
func (m *Mask) Count() int {
	if m == nil {
		return 0
	}
	n := 0
	for _, v := range m.Data {
		if v != 0 {
			n++
		}
	}
	return n
}

// Points returns the nonzero cells in row-major order.
func (m *Mask) Points() []Point {
	if m == nil {
		return nil
	}
	pts := make([]Point, 0, m.Count())
	for i, v := range m.Data {
		if v != 0 {
			pts = append(pts, Point{X: i / m.Cols, Y: i % m.Cols})
		}
	}
	return pts
}
