package presenter

import (
	"image"

	"github.com/soocke/dotcount/ui/images"
	"github.com/soocke/dotcount/ui/model"
)

// FrameRenderer composes one frame; images.Renderer satisfies it.
type FrameRenderer interface {
	Render(d *model.DisplayModel, markers []images.Marker) *image.NRGBA
}

// MarkerSource supplies the markers to draw.
type MarkerSource interface {
	Markers() []images.Marker
}

// CanvasView displays a rendered frame.
type CanvasView interface {
	UpdateCanvas(img image.Image)
}

// CanvasPresenter coalesces redraw requests. Invalidate only marks the frame
// stale; the frame is rendered at most once per Tick.
type CanvasPresenter struct {
	display  *model.DisplayModel
	renderer FrameRenderer
	markers  MarkerSource
	view     CanvasView
	stale    bool
	frames   int
}

func NewCanvasPresenter(display *model.DisplayModel, renderer FrameRenderer, markers MarkerSource, view CanvasView) *CanvasPresenter {
	return &CanvasPresenter{display: display, renderer: renderer, markers: markers, view: view, stale: true}
}

// Invalidate marks the frame for redraw.
func (p *CanvasPresenter) Invalidate() {
	if p == nil {
		return
	}
	p.stale = true
}

// Tick renders and pushes the frame if it is stale.
func (p *CanvasPresenter) Tick() {
	if p == nil || !p.stale || p.display == nil || p.renderer == nil || p.view == nil {
		return
	}
	p.stale = false
	var markers []images.Marker
	if p.markers != nil {
		markers = p.markers.Markers()
	}
	p.view.UpdateCanvas(p.renderer.Render(p.display, markers))
	p.frames++
}

// Frames returns how many frames were pushed to the view.
func (p *CanvasPresenter) Frames() int {
	if p == nil {
		return 0
	}
	return p.frames
}
