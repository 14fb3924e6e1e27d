package presenter

import (
	"image/color"
	"log/slog"
	"math"
	"math/rand/v2"

	"github.com/soocke/dotcount/ui/model"
)

const (
	zoomStep     = 2.0
	panStep      = 64 // screen pixels
	contrastStep = 1.0
	alphaStep    = 20
)

// DisplayPresenter applies keyboard-driven view changes to the display model.
// Every change requests a redraw; none touches the annotation store.
type DisplayPresenter struct {
	display    *model.DisplayModel
	invalidate func()
	rand       func() float64
	logger     *slog.Logger
}

// NewDisplayPresenter returns a presenter. rnd supplies uniform values in
// [0,1) for random colours; nil uses math/rand/v2.
func NewDisplayPresenter(display *model.DisplayModel, invalidate func(), rnd func() float64, logger *slog.Logger) *DisplayPresenter {
	if rnd == nil {
		rnd = rand.Float64
	}
	return &DisplayPresenter{display: display, invalidate: invalidate, rand: rnd, logger: logger}
}

func (p *DisplayPresenter) changed(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Debug(msg, args...)
	}
	if p.invalidate != nil {
		p.invalidate()
	}
}

func (p *DisplayPresenter) ZoomIn() {
	if p == nil || p.display == nil {
		return
	}
	p.display.ZoomBy(zoomStep)
	p.changed("zoom", "zoom", p.display.Zoom())
}

func (p *DisplayPresenter) ZoomOut() {
	if p == nil || p.display == nil {
		return
	}
	p.display.ZoomBy(1 / zoomStep)
	p.changed("zoom", "zoom", p.display.Zoom())
}

// Pan scrolls by (dx, dy) steps; positive values move right and down.
func (p *DisplayPresenter) Pan(dx, dy int) {
	if p == nil || p.display == nil {
		return
	}
	p.display.Pan(dx*panStep, dy*panStep)
	o := p.display.Origin()
	p.changed("pan", "x", o.X, "y", o.Y)
}

// AdjustContrast adds steps to the contrast factor.
func (p *DisplayPresenter) AdjustContrast(steps int) {
	if p == nil || p.display == nil {
		return
	}
	p.display.SetContrast(p.display.Contrast() + float64(steps)*contrastStep)
	p.changed("contrast", "factor", p.display.Contrast())
}

// AdjustAlpha changes the marker opacity by steps of 20, clamped to 0..255.
func (p *DisplayPresenter) AdjustAlpha(steps int) {
	if p == nil || p.display == nil {
		return
	}
	s := p.display.Style()
	a := min(max(int(s.Alpha)+steps*alphaStep, 0), 255)
	s.Alpha = uint8(a)
	p.display.SetStyle(s)
	p.changed("alpha", "alpha", a)
}

// AdjustRadius changes the marker radius, never below 1.
func (p *DisplayPresenter) AdjustRadius(steps int) {
	if p == nil || p.display == nil {
		return
	}
	s := p.display.Style()
	s.Radius = max(s.Radius+steps, 1)
	p.display.SetStyle(s)
	p.changed("radius", "radius", s.Radius)
}

// RandomNormalColor picks a new saturated colour for markers.
func (p *DisplayPresenter) RandomNormalColor() {
	if p == nil || p.display == nil {
		return
	}
	s := p.display.Style()
	s.Normal = p.randomColor()
	p.display.SetStyle(s)
	p.changed("normal colour", "rgb", s.Normal)
}

// RandomHoverColor picks a new saturated colour for the hovered marker.
func (p *DisplayPresenter) RandomHoverColor() {
	if p == nil || p.display == nil {
		return
	}
	s := p.display.Style()
	s.Hover = p.randomColor()
	p.display.SetStyle(s)
	p.changed("hover colour", "rgb", s.Hover)
}

// ApplyStyle replaces the style and contrast, e.g. from the settings panel.
func (p *DisplayPresenter) ApplyStyle(s model.Style, contrast float64) {
	if p == nil || p.display == nil {
		return
	}
	p.display.SetStyle(s)
	p.display.SetContrast(contrast)
	p.changed("style applied", "radius", s.Radius, "alpha", s.Alpha, "contrast", contrast)
}

func (p *DisplayPresenter) randomColor() color.NRGBA {
	return hsvToNRGBA(p.rand()*360, 1, 1)
}

// hsvToNRGBA converts h in degrees and s, v in [0,1] to an opaque colour.
func hsvToNRGBA(h, s, v float64) color.NRGBA {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	c := v * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := v - c
	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	to8 := func(f float64) uint8 { return uint8(math.Round((f + m) * 255)) }
	return color.NRGBA{R: to8(r), G: to8(g), B: to8(b), A: 0xff}
}
