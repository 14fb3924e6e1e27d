package presenter

import (
	"errors"
	"log/slog"
	"slices"

	"github.com/soocke/dotcount/domain/annotation"
	"github.com/soocke/dotcount/ui/images"
	"github.com/soocke/dotcount/ui/model"
)

// AnnotationStore is the subset of the store the presenter mutates.
type AnnotationStore interface {
	Add(x, y int) bool
	Remove(x, y int) error
	Len() int
	Dirty() bool
}

// AnnotationPresenter translates pointer events into store calls and keeps
// the derived marker views in sync with store notifications. The store stays
// the source of truth; markers are rebuilt only from Created/Deleted.
type AnnotationPresenter struct {
	store      AnnotationStore
	display    *model.DisplayModel
	hover      *model.HoverModel
	session    *model.SessionModel
	markers    map[annotation.Point]struct{}
	invalidate func()
	logger     *slog.Logger
}

// NewAnnotationPresenter returns a presenter. Register it as a store observer
// before the initial mask is loaded so markers exist for every loaded point.
func NewAnnotationPresenter(display *model.DisplayModel, hover *model.HoverModel, session *model.SessionModel, invalidate func(), logger *slog.Logger) *AnnotationPresenter {
	if hover == nil {
		hover = &model.HoverModel{}
	}
	return &AnnotationPresenter{
		display:    display,
		hover:      hover,
		session:    session,
		markers:    make(map[annotation.Point]struct{}),
		invalidate: invalidate,
		logger:     logger,
	}
}

// Bind attaches the store the pointer handlers mutate.
func (p *AnnotationPresenter) Bind(store AnnotationStore) {
	if p == nil {
		return
	}
	p.store = store
}

func (p *AnnotationPresenter) redraw() {
	if p.invalidate != nil {
		p.invalidate()
	}
}

// Created implements annotation.Observer.
func (p *AnnotationPresenter) Created(pt annotation.Point) {
	if p == nil {
		return
	}
	p.markers[pt] = struct{}{}
	p.session.OnCreated()
	p.redraw()
}

// Deleted implements annotation.Observer.
func (p *AnnotationPresenter) Deleted(pt annotation.Point) {
	if p == nil {
		return
	}
	delete(p.markers, pt)
	if h, ok := p.hover.Hovered(); ok && h == pt {
		p.hover.Clear()
	}
	p.session.OnDeleted()
	p.redraw()
}

// OnPrimaryClick annotates the image pixel under the screen position.
// Clicks outside the image or the canvas margin are ignored.
func (p *AnnotationPresenter) OnPrimaryClick(sx, sy int) {
	if p == nil || p.store == nil || p.display == nil {
		return
	}
	pt, ok := p.display.ScreenToImage(sx, sy)
	if !ok {
		return
	}
	p.store.Add(pt.X, pt.Y)
}

// OnSecondaryClick removes the marker under the screen position, if any.
func (p *AnnotationPresenter) OnSecondaryClick(sx, sy int) {
	if p == nil || p.store == nil || p.display == nil {
		return
	}
	pt, ok := p.display.ScreenToImage(sx, sy)
	if !ok {
		return
	}
	target, ok := p.markerAt(pt)
	if !ok {
		return
	}
	if err := p.store.Remove(target.X, target.Y); err != nil {
		if errors.Is(err, annotation.ErrKeyNotFound) && p.logger != nil {
			p.logger.Error("marker without annotation, views out of sync", "x", target.X, "y", target.Y, "error", err)
		}
		delete(p.markers, target)
		p.redraw()
	}
}

// OnMotion updates the hovered marker.
func (p *AnnotationPresenter) OnMotion(sx, sy int) {
	if p == nil || p.display == nil {
		return
	}
	var changed bool
	if pt, ok := p.display.ScreenToImage(sx, sy); ok {
		target, hit := p.markerAt(pt)
		changed = p.hover.Set(target, hit)
	} else {
		changed = p.hover.Clear()
	}
	if changed {
		p.redraw()
	}
}

// OnLeave clears the hover state when the pointer leaves the canvas.
func (p *AnnotationPresenter) OnLeave() {
	if p == nil {
		return
	}
	if p.hover.Clear() {
		p.redraw()
	}
}

// markerAt finds the marker covering image point pt. A hovered marker is
// drawn enlarged, so it keeps the hover while the pointer is inside its
// enlarged disc.
func (p *AnnotationPresenter) markerAt(pt annotation.Point) (annotation.Point, bool) {
	style := p.display.Style()
	if h, ok := p.hover.Hovered(); ok {
		if _, exists := p.markers[h]; exists {
			if _, hit := images.HitTest([]annotation.Point{h}, pt, style.EffectiveRadius(true)); hit {
				return h, true
			}
		}
	}
	return images.HitTest(p.points(), pt, style.EffectiveRadius(false))
}

func (p *AnnotationPresenter) points() []annotation.Point {
	pts := make([]annotation.Point, 0, len(p.markers))
	for pt := range p.markers {
		pts = append(pts, pt)
	}
	slices.SortFunc(pts, func(a, b annotation.Point) int {
		switch {
		case a.Less(b):
			return -1
		case b.Less(a):
			return 1
		}
		return 0
	})
	return pts
}

// Markers returns the drawable markers with the hovered one last so it is
// painted on top.
func (p *AnnotationPresenter) Markers() []images.Marker {
	if p == nil {
		return nil
	}
	h, hovering := p.hover.Hovered()
	out := make([]images.Marker, 0, len(p.markers))
	for _, pt := range p.points() {
		if hovering && pt == h {
			continue
		}
		out = append(out, images.Marker{Point: pt})
	}
	if _, ok := p.markers[h]; hovering && ok {
		out = append(out, images.Marker{Point: h, Hovering: true})
	}
	return out
}

// Count returns the number of markers currently shown.
func (p *AnnotationPresenter) Count() int {
	if p == nil {
		return 0
	}
	return len(p.markers)
}

var _ annotation.Observer = (*AnnotationPresenter)(nil)
