package view

import (
	"image"
	"log/slog"

	"github.com/soocke/dotcount/config"
	"github.com/soocke/dotcount/ui/theme"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// RootView composes the top-level application layout and wires UI callbacks.
// It owns high-level subviews but exposes minimal exported fields for presenters.
type RootView struct {
	cfg     *config.Config
	cfgPath string
	logger  *slog.Logger

	// Subviews
	Canvas    CanvasArea
	Status    StatusBar
	Settings  SettingsPanel
	Reference ReferenceWindow
}

// UI abstracts the subset of view operations needed by presenters, enabling decoupling
// from the concrete RootView implementation.
type UI interface {
	UpdateCanvas(img image.Image)
	SetStatusLabel(text string)
	SetCountLabel(text string)
	Confirm(title, message string) bool
}

// Handlers are invoked on user actions.
type Handlers struct {
	Pointer       PointerHandlers
	Keys          []KeyBinding
	Save          func()
	Close         func()
	ApplySettings func(*config.Config)
}

// KeyBinding maps a Tk event sequence such as "<Control-s>" to an action.
type KeyBinding struct {
	Sequence string
	Action   func()
}

func NewRootView(cfg *config.Config, cfgPath string, logger *slog.Logger) *RootView {
	return &RootView{cfg: cfg, cfgPath: cfgPath, logger: logger}
}

// Build constructs the layout: the canvas on row 0, buttons and status on row 1.
// reference is nil when no reference image was given.
func (rv *RootView) Build(title string, viewW, viewH int, h Handlers, reference ReferenceWindow) {
	if rv == nil {
		return
	}
	App.WmTitle(title)
	theme.InitStyles()

	canvas := newCanvasArea(nil, viewW, viewH)
	Grid(canvas.Widget(), Row(0), Column(0), Columnspan(6), Sticky("nw"))
	canvas.bindPointer(h.Pointer)
	rv.Canvas = canvas

	rv.Status = NewStatusBar(1, 0, 1)

	btnFrame := Frame()
	Grid(btnFrame, Row(1), Column(2), Columnspan(4), Sticky("e"), Padx("0.3m"), Pady("0.3m"))
	col := 0
	addButton := func(style, text string, cmd func()) {
		b := TButton(Style(style), Txt(text), Command(cmd))
		Grid(b, In(btnFrame), Row(0), Column(col), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
		col++
	}
	addButton(theme.StylePrimaryButton, "Save [Ctrl+S]", h.Save)
	rv.Settings = NewSettingsPanel(rv.cfg, rv.cfgPath, rv.logger, h.ApplySettings)
	addButton(theme.StyleButton, "Settings", rv.Settings.OpenOrFocus)
	if reference != nil {
		rv.Reference = reference
		addButton(theme.StyleButton, "Reference", reference.OpenOrFocus)
	}
	addButton(theme.StyleDangerButton, "Exit [Q]", h.Close)

	for _, kb := range h.Keys {
		if kb.Action == nil {
			continue
		}
		Bind(App, kb.Sequence, Command(kb.Action))
	}
	WmProtocol(App, "WM_DELETE_WINDOW", h.Close)
}

// UpdateCanvas shows a rendered frame on the main canvas.
func (rv *RootView) UpdateCanvas(img image.Image) {
	if rv != nil && rv.Canvas != nil {
		rv.Canvas.UpdateCanvas(img)
	}
}

// SetStatusLabel updates the status message.
func (rv *RootView) SetStatusLabel(text string) {
	if rv != nil && rv.Status != nil {
		rv.Status.SetStatusLabel(text)
	}
}

// SetCountLabel updates the dot count line.
func (rv *RootView) SetCountLabel(text string) {
	if rv != nil && rv.Status != nil {
		rv.Status.SetCountLabel(text)
	}
}

// Confirm asks a yes/no question in a modal dialog.
func (rv *RootView) Confirm(title, message string) bool {
	return MessageBox(Icon("question"), Title(title), Msg(message), Type("yesno")) == "yes"
}

var _ UI = (*RootView)(nil)
