package images

import (
	"errors"
	"image"

	"github.com/disintegration/imaging"
)

// ExtractViewport crops src to r (in src coordinates). The rectangle is
// clamped to the source bounds and is at least 1x1. The result is rebased to
// the origin and the clamped rectangle is returned alongside it.
func ExtractViewport(src image.Image, r image.Rectangle) (*image.NRGBA, image.Rectangle, error) {
	if src == nil {
		return nil, image.Rectangle{}, errors.New("nil image")
	}
	b := src.Bounds()
	if b.Empty() {
		return nil, image.Rectangle{}, errors.New("empty image")
	}
	r = r.Canon().Intersect(b)
	if r.Empty() {
		// keep a single pixel at the nearest corner
		x := min(max(r.Min.X, b.Min.X), b.Max.X-1)
		y := min(max(r.Min.Y, b.Min.Y), b.Max.Y-1)
		r = image.Rect(x, y, x+1, y+1)
	}
	return imaging.Crop(src, r), r, nil
}
