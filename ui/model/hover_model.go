package model

import "github.com/soocke/dotcount/domain/annotation"

// HoverModel tracks which marker, if any, is under the pointer.
// The zero value has no hovered marker and is usable.
type HoverModel struct {
	point annotation.Point
	ok    bool
}

// Hovered returns the hovered marker position.
func (m *HoverModel) Hovered() (annotation.Point, bool) {
	if m == nil {
		return annotation.Point{}, false
	}
	return m.point, m.ok
}

// Set stores the hovered marker and reports whether it changed.
func (m *HoverModel) Set(p annotation.Point, ok bool) bool {
	if m == nil {
		return false
	}
	if !ok {
		p = annotation.Point{}
	}
	if m.ok == ok && m.point == p { // no change
		return false
	}
	m.point, m.ok = p, ok
	return true
}

// Clear drops the hovered marker and reports whether one was set.
func (m *HoverModel) Clear() bool { return m.Set(annotation.Point{}, false) }
