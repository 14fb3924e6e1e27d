package view

import (
	"image"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders
	. "modernc.org/tk9.0"
)

// ReferenceWindow shows a second image (e.g. another channel of the same
// sample) with the same viewport and markers as the main canvas. The window
// may be closed and reopened; frames pushed while it is closed are dropped.
type ReferenceWindow interface {
	OpenOrFocus()
	Close()
	Open() bool
	UpdateCanvas(img image.Image)
}

type referenceWindow struct {
	logger   *slog.Logger
	title    string
	w, h     int
	win      *ToplevelWidget
	canvas   *canvasArea
	pointer  PointerHandlers
	geometry string // last known "WxH+X+Y", restored on reopen
	onOpen   func()
}

// NewReferenceWindow creates the window manager. The window itself is not
// created until OpenOrFocus. onOpen runs after the window is (re)created so
// the caller can request a fresh frame.
func NewReferenceWindow(title string, w, h int, pointer PointerHandlers, onOpen func(), logger *slog.Logger) ReferenceWindow {
	return &referenceWindow{logger: logger, title: title, w: w, h: h, pointer: pointer, onOpen: onOpen}
}

func (v *referenceWindow) Open() bool { return v != nil && v.win != nil }

func (v *referenceWindow) OpenOrFocus() {
	if v.win != nil {
		WmGeometry(v.win.Window)
		return
	}
	win := App.Toplevel(Borderwidth(0))
	win.WmTitle(v.title)
	v.win = win
	if _, ok := parseGeometry(v.geometry); ok {
		WmGeometry(win.Window, v.geometry)
	}
	v.canvas = newCanvasArea(win, v.w, v.h)
	Grid(v.canvas.Widget(), Row(0), Column(0), Sticky("nw"))
	v.canvas.bindPointer(v.pointer)
	Bind(win, "<Escape>", Command(v.Close))
	WmProtocol(win.Window, "WM_DELETE_WINDOW", v.Close)
	if v.logger != nil {
		v.logger.Debug("reference window opened", "title", v.title)
	}
	if v.onOpen != nil {
		v.onOpen()
	}
}

func (v *referenceWindow) Close() {
	if v.win == nil {
		return
	}
	geom := WmGeometry(v.win.Window)
	if _, ok := parseGeometry(geom); ok {
		v.geometry = strings.TrimSpace(geom)
	}
	Destroy(v.win)
	v.win = nil
	v.canvas = nil
}

func (v *referenceWindow) UpdateCanvas(img image.Image) {
	if v == nil || v.canvas == nil {
		return
	}
	v.canvas.UpdateCanvas(img)
}

// geomRe matches window geometry strings in the format "WIDTHxHEIGHT+X+Y"
var geomRe = regexp.MustCompile(`^(\d+)x(\d+)\+(-?\d+)\+(-?\d+)$`)

// parseGeometry parses a Tk geometry string and returns the corresponding rectangle.
func parseGeometry(g string) (image.Rectangle, bool) {
	g = strings.TrimSpace(g)
	m := geomRe.FindStringSubmatch(g)
	if len(m) != 5 {
		return image.Rectangle{}, false
	}
	w, _ := strconv.Atoi(m[1])
	h, _ := strconv.Atoi(m[2])
	x, _ := strconv.Atoi(m[3])
	y, _ := strconv.Atoi(m[4])
	if w <= 0 || h <= 0 {
		return image.Rectangle{}, false
	}
	return image.Rect(x, y, x+w, y+h), true
}
