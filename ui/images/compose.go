package images

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/disintegration/imaging"

	"github.com/soocke/dotcount/domain/annotation"
	"github.com/soocke/dotcount/ui/model"
)

// Marker is a drawable view of one annotated point.
type Marker struct {
	Point    annotation.Point
	Hovering bool
}

// Renderer composes the visible frame: the contrast-adjusted source image,
// cropped to the viewport, scaled by the zoom, with markers on top.
type Renderer struct {
	contrast *ContrastCache
}

// NewRenderer builds a renderer over src caching up to cacheSize contrast levels.
func NewRenderer(src image.Image, cacheSize int) (*Renderer, error) {
	cc, err := NewContrastCache(src, cacheSize)
	if err != nil {
		return nil, err
	}
	return &Renderer{contrast: cc}, nil
}

// Render draws the frame described by d. The result is at most the view size.
func (r *Renderer) Render(d *model.DisplayModel, markers []Marker) *image.NRGBA {
	base := r.contrast.Get(d.Contrast())
	crop, vp, err := ExtractViewport(base, d.Viewport())
	if err != nil {
		return image.NewNRGBA(image.Rect(0, 0, 1, 1))
	}
	zoom := d.Zoom()
	w := max(1, int(math.Round(float64(vp.Dx())*zoom)))
	h := max(1, int(math.Round(float64(vp.Dy())*zoom)))
	frame := crop
	if w != vp.Dx() || h != vp.Dy() {
		frame = imaging.Resize(crop, w, h, imaging.NearestNeighbor)
	}
	viewW, viewH := d.ViewSize()
	if w > viewW || h > viewH {
		frame = imaging.Crop(frame, image.Rect(0, 0, min(w, viewW), min(h, viewH)))
	}
	DrawMarkers(frame, d, markers)
	return frame
}

// DrawMarkers paints markers onto dst, which must be the frame rendered for d.
func DrawMarkers(dst draw.Image, d *model.DisplayModel, markers []Marker) {
	style := d.Style()
	zoom := d.Zoom()
	bounds := dst.Bounds()
	for _, m := range markers {
		sx, sy := d.ImageToScreen(m.Point)
		radius := math.Max(float64(style.EffectiveRadius(m.Hovering))*zoom, 1)
		c := &circle{cx: sx, cy: sy, r: radius}
		cb := c.Bounds()
		if !cb.Overlaps(bounds) {
			continue
		}
		src := image.NewUniform(style.Fill(m.Hovering))
		draw.DrawMask(dst, cb, src, image.Point{}, c, cb.Min, draw.Over)
	}
}

// circle is an alpha mask of a filled disc centred at (cx, cy).
type circle struct {
	cx, cy, r float64
}

func (c *circle) ColorModel() color.Model { return color.AlphaModel }

func (c *circle) Bounds() image.Rectangle {
	return image.Rect(
		int(math.Floor(c.cx-c.r)), int(math.Floor(c.cy-c.r)),
		int(math.Ceil(c.cx+c.r)), int(math.Ceil(c.cy+c.r)),
	)
}

func (c *circle) At(x, y int) color.Color {
	dx := float64(x) + 0.5 - c.cx
	dy := float64(y) + 0.5 - c.cy
	if dx*dx+dy*dy <= c.r*c.r {
		return color.Alpha{A: 255}
	}
	return color.Alpha{}
}

// HitTest returns the marker whose disc contains the image point p, preferring
// the closest centre. Radii are in image pixels.
func HitTest(markers []annotation.Point, p annotation.Point, radius int) (annotation.Point, bool) {
	best, bestD := annotation.Point{}, math.MaxFloat64
	found := false
	r := float64(max(radius, 1))
	for _, m := range markers {
		dx, dy := float64(m.X-p.X), float64(m.Y-p.Y)
		d := dx*dx + dy*dy
		if d <= r*r && d < bestD {
			best, bestD, found = m, d, true
		}
	}
	return best, found
}
