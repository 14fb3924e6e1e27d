package presenter

import (
	"image/color"
	"testing"

	"github.com/soocke/dotcount/ui/model"
)

func newDisplayFixture() (*DisplayPresenter, *model.DisplayModel, *int) {
	d := model.NewDisplayModel(1000, 1000, 100, 100, model.DefaultStyle())
	n := 0
	vals := []float64{0, 0.5}
	i := 0
	rnd := func() float64 { v := vals[i%len(vals)]; i++; return v }
	return NewDisplayPresenter(d, func() { n++ }, rnd, discardLogger), d, &n
}

func TestDisplayPresenter_Zoom(t *testing.T) {
	p, d, n := newDisplayFixture()
	p.ZoomIn()
	p.ZoomIn()
	if d.Zoom() != 4 || *n != 2 {
		t.Fatalf("zoom=%v redraws=%d", d.Zoom(), *n)
	}
	p.ZoomOut()
	if d.Zoom() != 2 {
		t.Fatalf("zoom=%v", d.Zoom())
	}
	for range 20 {
		p.ZoomIn()
	}
	if d.Zoom() != model.MaxZoom {
		t.Fatalf("zoom not clamped: %v", d.Zoom())
	}
}

func TestDisplayPresenter_Pan(t *testing.T) {
	p, d, _ := newDisplayFixture()
	p.Pan(1, 2)
	if o := d.Origin(); o.X != panStep || o.Y != 2*panStep {
		t.Fatalf("origin %v", o)
	}
	p.Pan(-10, -10)
	if o := d.Origin(); o.X != 0 || o.Y != 0 {
		t.Fatalf("origin not clamped %v", o)
	}
}

func TestDisplayPresenter_ContrastAlphaRadius(t *testing.T) {
	p, d, _ := newDisplayFixture()
	p.AdjustContrast(1)
	if d.Contrast() != 2 {
		t.Fatalf("contrast %v", d.Contrast())
	}
	p.AdjustContrast(-5)
	if d.Contrast() != 0 {
		t.Fatalf("contrast should clamp at 0, got %v", d.Contrast())
	}

	p.AdjustAlpha(1) // 180 -> 200
	if d.Style().Alpha != 200 {
		t.Fatalf("alpha %d", d.Style().Alpha)
	}
	p.AdjustAlpha(5)
	if d.Style().Alpha != 255 {
		t.Fatalf("alpha should clamp at 255, got %d", d.Style().Alpha)
	}
	p.AdjustAlpha(-20)
	if d.Style().Alpha != 0 {
		t.Fatalf("alpha should clamp at 0, got %d", d.Style().Alpha)
	}

	p.AdjustRadius(2)
	if d.Style().Radius != 3 {
		t.Fatalf("radius %d", d.Style().Radius)
	}
	p.AdjustRadius(-10)
	if d.Style().Radius != 1 {
		t.Fatalf("radius should stay >= 1, got %d", d.Style().Radius)
	}
}

func TestDisplayPresenter_RandomColours(t *testing.T) {
	p, d, _ := newDisplayFixture()
	p.RandomNormalColor() // hue 0
	p.RandomHoverColor()  // hue 180
	s := d.Style()
	if s.Normal != (color.NRGBA{R: 255, A: 255}) {
		t.Fatalf("normal %+v", s.Normal)
	}
	if s.Hover != (color.NRGBA{G: 255, B: 255, A: 255}) {
		t.Fatalf("hover %+v", s.Hover)
	}
}

func TestHSVToNRGBA(t *testing.T) {
	tests := []struct {
		h    float64
		want color.NRGBA
	}{
		{0, color.NRGBA{R: 255, A: 255}},
		{60, color.NRGBA{R: 255, G: 255, A: 255}},
		{240, color.NRGBA{B: 255, A: 255}},
		{300, color.NRGBA{R: 255, B: 255, A: 255}},
		{-60, color.NRGBA{R: 255, B: 255, A: 255}},
	}
	for _, tc := range tests {
		if got := hsvToNRGBA(tc.h, 1, 1); got != tc.want {
			t.Fatalf("h=%v got %+v want %+v", tc.h, got, tc.want)
		}
	}
}
