package maskio

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/sbinet/npyio"

	"github.com/soocke/dotcount/domain/annotation"
)

// npyMagic prefixes every .npy file, followed by a major and minor version byte.
const npyMagic = "\x93NUMPY"

// ErrBadHeader is returned for .npy files whose header cannot be understood.
var ErrBadHeader = errors.New("maskio: bad npy header")

// newNPYReader parses the header. Version 3.0 differs from 2.0 only in the
// header text encoding, so it is presented to npyio as 2.0.
func newNPYReader(r io.Reader) (*npyio.Reader, error) {
	br := bufio.NewReader(r)
	pre, err := br.Peek(8)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadHeader, err)
	}
	if string(pre[:6]) != npyMagic {
		return nil, fmt.Errorf("%w: missing magic", ErrBadHeader)
	}
	var src io.Reader = br
	if pre[6] == 3 {
		head := append([]byte(nil), pre...)
		head[6] = 2
		if _, err := br.Discard(8); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadHeader, err)
		}
		src = io.MultiReader(bytes.NewReader(head), br)
	}
	nr, err := npyio.NewReader(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadHeader, err)
	}
	return nr, nil
}

// checkShape validates the header shape against the expected mask shape
// before any element storage is allocated.
func checkShape(shape []int, rows, cols int) error {
	if len(shape) != 2 {
		return fmt.Errorf("maskio: mask must be 2-D, got shape %v", shape)
	}
	r, c := shape[0], shape[1]
	if r < 0 || c < 0 || (r > 0 && c > math.MaxInt/r) {
		return fmt.Errorf("%w: shape %v", ErrBadHeader, shape)
	}
	if r != rows || c != cols {
		return fmt.Errorf("%w: mask (%d, %d), image (%d, %d)", annotation.ErrShapeMismatch, r, c, rows, cols)
	}
	return nil
}

type npyElement interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~float32 | ~float64
}

func readElements[T npyElement](r *npyio.Reader, n int) ([]float64, error) {
	vals := make([]T, n)
	if err := r.Read(&vals); err != nil {
		return nil, err
	}
	out := make([]float64, len(vals))
	for i, v := range vals {
		out[i] = float64(v)
	}
	return out, nil
}

func readBools(r *npyio.Reader, n int) ([]float64, error) {
	vals := make([]bool, n)
	if err := r.Read(&vals); err != nil {
		return nil, err
	}
	out := make([]float64, len(vals))
	for i, v := range vals {
		if v {
			out[i] = 1
		}
	}
	return out, nil
}

// readValues decodes every element as float64 according to the header dtype.
func readValues(r *npyio.Reader, n int) ([]float64, error) {
	descr := r.Header.Descr.Type
	if len(descr) < 2 {
		return nil, fmt.Errorf("%w: descr %q", ErrBadHeader, descr)
	}
	switch descr[1:] {
	case "b1":
		return readBools(r, n)
	case "u1":
		return readElements[uint8](r, n)
	case "i1":
		return readElements[int8](r, n)
	case "u2":
		return readElements[uint16](r, n)
	case "i2":
		return readElements[int16](r, n)
	case "u4":
		return readElements[uint32](r, n)
	case "i4":
		return readElements[int32](r, n)
	case "u8":
		return readElements[uint64](r, n)
	case "i8":
		return readElements[int64](r, n)
	case "f4":
		return readElements[float32](r, n)
	case "f8":
		return readElements[float64](r, n)
	default:
		return nil, fmt.Errorf("maskio: unsupported dtype %q", descr)
	}
}

// ReadNPY decodes a 2-D .npy array of shape (rows, cols) into a mask. The
// header shape is checked before the data is read. Every element must be
// exactly 0 or 1; the first other value is reported as
// *annotation.InvalidMaskError.
func ReadNPY(r io.Reader, rows, cols int) (*annotation.Mask, error) {
	nr, err := newNPYReader(r)
	if err != nil {
		return nil, err
	}
	if err := checkShape(nr.Header.Descr.Shape, rows, cols); err != nil {
		return nil, err
	}
	n := rows * cols
	vals, err := readValues(nr, n)
	if err != nil {
		return nil, fmt.Errorf("maskio: npy data: %w", err)
	}
	if len(vals) != n {
		return nil, fmt.Errorf("maskio: npy data has %d elements, want %d", len(vals), n)
	}
	fortran := nr.Header.Descr.Fortran
	mask := annotation.NewMask(rows, cols)
	for i, v := range vals {
		row, col := i/cols, i%cols
		if fortran {
			row, col = i%rows, i/rows
		}
		switch v {
		case 0:
		case 1:
			mask.Set(row, col, 1)
		default:
			return nil, &annotation.InvalidMaskError{Row: row, Col: col, Value: v}
		}
	}
	return mask, nil
}

// WriteNPY encodes the mask as a version 1.0 .npy file of dtype uint8 in C order.
func WriteNPY(w io.Writer, m *annotation.Mask) error {
	if err := m.Validate(); err != nil {
		return err
	}
	dict := fmt.Sprintf("{'descr': '|u1', 'fortran_order': False, 'shape': (%d, %d), }", m.Rows, m.Cols)
	// magic(6) + version(2) + length(2) + dict + padding + '\n' is a multiple of 64.
	total := 10 + len(dict) + 1
	pad := (64 - total%64) % 64
	header := dict + strings.Repeat(" ", pad) + "\n"

	var buf bytes.Buffer
	buf.WriteString(npyMagic)
	buf.Write([]byte{1, 0})
	var l [2]byte
	binary.LittleEndian.PutUint16(l[:], uint16(len(header)))
	buf.Write(l[:])
	buf.WriteString(header)
	if _, err := w.Write(buf.Bytes()); err != nil {
		return err
	}
	_, err := w.Write(m.Data)
	return err
}
