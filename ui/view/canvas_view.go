package view

import (
	"image"

	"github.com/soocke/dotcount/ui/images"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// CanvasArea shows rendered frames in a fixed-size label and reports pointer
// positions relative to its top-left corner.
type CanvasArea interface {
	UpdateCanvas(img image.Image)
	Widget() *LabelWidget
}

type canvasArea struct {
	label     *LabelWidget
	prevPhoto *Img // last Tk photo image instance
}

// PointerHandlers receive label-relative pixel positions.
type PointerHandlers struct {
	Primary   func(x, y int)
	Secondary func(x, y int)
	Motion    func(x, y int)
	Leave     func()
}

// newCanvasArea creates a label of w x h pixels. parent may be nil for the
// root window.
func newCanvasArea(parent *ToplevelWidget, w, h int) *canvasArea {
	placeholder := image.NewNRGBA(image.Rect(0, 0, w, h))
	photo := NewPhoto(Data(images.EncodePNG(placeholder)))
	var lbl *LabelWidget
	if parent != nil {
		lbl = parent.Label(Image(photo), Width(w), Height(h), Anchor("nw"), Borderwidth(0))
	} else {
		lbl = Label(Image(photo), Width(w), Height(h), Anchor("nw"), Borderwidth(0))
	}
	return &canvasArea{label: lbl, prevPhoto: photo}
}

func (v *canvasArea) Widget() *LabelWidget { return v.label }

// bindPointer routes mouse events on the label to h. Button-3 is the right
// button on X11 and Windows; Control-click covers one-button mice.
func (v *canvasArea) bindPointer(h PointerHandlers) {
	if v == nil || v.label == nil {
		return
	}
	if h.Primary != nil {
		Bind(v.label, "<Button-1>", Command(func(e *Event) { h.Primary(e.X, e.Y) }))
	}
	if h.Secondary != nil {
		Bind(v.label, "<Button-3>", Command(func(e *Event) { h.Secondary(e.X, e.Y) }))
		Bind(v.label, "<Control-Button-1>", Command(func(e *Event) { h.Secondary(e.X, e.Y) }))
	}
	if h.Motion != nil {
		Bind(v.label, "<Motion>", Command(func(e *Event) { h.Motion(e.X, e.Y) }))
	}
	if h.Leave != nil {
		Bind(v.label, "<Leave>", Command(h.Leave))
	}
}

// UpdateCanvas replaces the shown frame. The previous photo is deleted so
// off-screen pixel data does not accumulate.
func (v *canvasArea) UpdateCanvas(img image.Image) {
	if v == nil || v.label == nil || img == nil {
		return
	}
	pngBytes := images.EncodePNG(img)
	if v.prevPhoto != nil {
		v.prevPhoto.Delete()
	}
	photo := NewPhoto(Data(pngBytes))
	v.prevPhoto = photo
	v.label.Configure(Image(photo))
}
