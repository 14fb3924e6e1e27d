package images

import (
	"image"
	"image/color"
	"testing"
)

func TestContrastPercentage(t *testing.T) {
	cases := map[float64]float64{0: -100, -3: -100, 0.5: -50, 1: 0, 2: 50, 4: 75}
	for factor, want := range cases {
		if got := ContrastPercentage(factor); got != want {
			t.Fatalf("factor %v: got %v want %v", factor, got, want)
		}
	}
}

func TestContrastCache_ReusesResults(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 2, 1))
	src.SetGray(0, 0, color.Gray{Y: 64})
	src.SetGray(1, 0, color.Gray{Y: 192})
	c, err := NewContrastCache(src, 2)
	if err != nil {
		t.Fatalf("cache: %v", err)
	}
	a := c.Get(2)
	b := c.Get(2)
	if a != b || c.Len() != 1 {
		t.Fatalf("expected cached result, len=%d", c.Len())
	}
	if lo, hi := a.NRGBAAt(0, 0).R, a.NRGBAAt(1, 0).R; lo >= 64 || hi <= 192 {
		t.Fatalf("contrast not increased: %d %d", lo, hi)
	}
	flat := c.Get(0)
	if flat.NRGBAAt(0, 0).R != flat.NRGBAAt(1, 0).R {
		t.Fatalf("zero contrast should flatten the image")
	}
	c.Get(1)
	if c.Len() != 2 {
		t.Fatalf("cache should be bounded to 2, got %d", c.Len())
	}
}

func TestNewContrastCache_NilImage(t *testing.T) {
	if _, err := NewContrastCache(nil, 1); err == nil {
		t.Fatalf("expected error")
	}
}
