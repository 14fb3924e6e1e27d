package model

import (
	"image"
	"math"

	"github.com/soocke/dotcount/domain/annotation"
)

const (
	MinZoom = 0.125
	MaxZoom = 32.0
)

// DisplayModel holds the view state of the annotation canvas: zoom, pan
// origin, contrast and marker style. Screen coordinates are pixels of the
// rendered view; image coordinates are pixels of the source image.
// No synchronization needed: updates occur on the UI thread.
type DisplayModel struct {
	imgW, imgH   int
	viewW, viewH int
	zoom         float64
	origin       image.Point // top-left visible image pixel
	contrast     float64
	style        Style
}

// NewDisplayModel returns a model for an imgW x imgH image shown in a
// viewW x viewH screen area at zoom 1 and contrast 1.
func NewDisplayModel(imgW, imgH, viewW, viewH int, style Style) *DisplayModel {
	m := &DisplayModel{imgW: imgW, imgH: imgH, zoom: 1, contrast: 1, style: style}
	m.SetViewSize(viewW, viewH)
	return m
}

// ImageSize returns the source image dimensions.
func (m *DisplayModel) ImageSize() (w, h int) { return m.imgW, m.imgH }

// ViewSize returns the screen area dimensions.
func (m *DisplayModel) ViewSize() (w, h int) { return m.viewW, m.viewH }

// SetViewSize updates the screen area and re-clamps the pan origin.
func (m *DisplayModel) SetViewSize(w, h int) {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	m.viewW, m.viewH = w, h
	m.clampOrigin()
}

// Zoom returns the current scale factor (screen pixels per image pixel).
func (m *DisplayModel) Zoom() float64 { return m.zoom }

// SetZoom sets the scale factor, clamped to [MinZoom, MaxZoom], keeping the
// image pixel at the view centre in place.
func (m *DisplayModel) SetZoom(z float64) {
	if math.IsNaN(z) || z <= 0 {
		return
	}
	z = math.Min(math.Max(z, MinZoom), MaxZoom)
	cx := float64(m.origin.X) + float64(m.viewW)/(2*m.zoom)
	cy := float64(m.origin.Y) + float64(m.viewH)/(2*m.zoom)
	m.zoom = z
	m.origin = image.Pt(
		int(math.Round(cx-float64(m.viewW)/(2*z))),
		int(math.Round(cy-float64(m.viewH)/(2*z))),
	)
	m.clampOrigin()
}

// ZoomBy multiplies the zoom by factor.
func (m *DisplayModel) ZoomBy(factor float64) { m.SetZoom(m.zoom * factor) }

// Pan moves the view by (dx, dy) screen pixels.
func (m *DisplayModel) Pan(dx, dy int) {
	m.origin.X += int(math.Round(float64(dx) / m.zoom))
	m.origin.Y += int(math.Round(float64(dy) / m.zoom))
	m.clampOrigin()
}

// Origin returns the top-left visible image pixel.
func (m *DisplayModel) Origin() image.Point { return m.origin }

func (m *DisplayModel) visibleSpan() (w, h int) {
	w = int(math.Ceil(float64(m.viewW) / m.zoom))
	h = int(math.Ceil(float64(m.viewH) / m.zoom))
	return w, h
}

func (m *DisplayModel) clampOrigin() {
	w, h := m.visibleSpan()
	maxX, maxY := m.imgW-w, m.imgH-h
	if maxX < 0 {
		maxX = 0
	}
	if maxY < 0 {
		maxY = 0
	}
	m.origin.X = min(max(m.origin.X, 0), maxX)
	m.origin.Y = min(max(m.origin.Y, 0), maxY)
}

// Viewport returns the visible part of the image in image coordinates.
func (m *DisplayModel) Viewport() image.Rectangle {
	w, h := m.visibleSpan()
	r := image.Rect(m.origin.X, m.origin.Y, m.origin.X+w, m.origin.Y+h)
	return r.Intersect(image.Rect(0, 0, m.imgW, m.imgH))
}

// ScreenToImage maps a screen pixel to the image pixel under it. ok is false
// when the screen pixel is outside the rendered image.
func (m *DisplayModel) ScreenToImage(sx, sy int) (p annotation.Point, ok bool) {
	if sx < 0 || sy < 0 {
		return annotation.Point{}, false
	}
	col := m.origin.X + int(math.Floor(float64(sx)/m.zoom))
	row := m.origin.Y + int(math.Floor(float64(sy)/m.zoom))
	if col >= m.imgW || row >= m.imgH {
		return annotation.Point{}, false
	}
	return annotation.Point{X: row, Y: col}, true
}

// ImageToScreen maps an image pixel to the screen position of its centre.
func (m *DisplayModel) ImageToScreen(p annotation.Point) (sx, sy float64) {
	sx = (float64(p.Y-m.origin.X) + 0.5) * m.zoom
	sy = (float64(p.X-m.origin.Y) + 0.5) * m.zoom
	return sx, sy
}

// Contrast returns the contrast factor; 1 leaves the image unchanged.
func (m *DisplayModel) Contrast() float64 { return m.contrast }

// SetContrast stores the contrast factor, clamped at 0.
func (m *DisplayModel) SetContrast(c float64) {
	if math.IsNaN(c) || c < 0 {
		c = 0
	}
	m.contrast = c
}

// Style returns the marker style.
func (m *DisplayModel) Style() Style { return m.style }

// SetStyle replaces the marker style.
func (m *DisplayModel) SetStyle(s Style) {
	if s.Radius < 1 {
		s.Radius = 1
	}
	m.style = s
}
