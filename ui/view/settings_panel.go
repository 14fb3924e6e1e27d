package view

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/soocke/dotcount/config"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// SettingsPanel is the marker style form. It runs in its own window so that
// typing into its fields never reaches the canvas key bindings.
type SettingsPanel interface {
	OpenOrFocus()
	ApplyChanges() // parses widget text into the config, notifies and persists the form fields
}

type settingsPanel struct {
	cfg     *config.Config
	cfgPath string
	logger  *slog.Logger
	onApply func(*config.Config)
	win     *ToplevelWidget
	widgets map[string]*TextWidget // keyed by config field
}

// NewSettingsPanel creates the panel bound to cfg. onApply runs after a
// successful apply with the updated config.
func NewSettingsPanel(cfg *config.Config, cfgPath string, logger *slog.Logger, onApply func(*config.Config)) SettingsPanel {
	return &settingsPanel{cfg: cfg, cfgPath: cfgPath, logger: logger, onApply: onApply, widgets: make(map[string]*TextWidget)}
}

func (v *settingsPanel) OpenOrFocus() {
	if v.win != nil {
		WmGeometry(v.win.Window)
		return
	}
	win := App.Toplevel(Borderwidth(2))
	win.WmTitle("Marker settings")
	v.win = win
	c := v.cfg
	row := 0
	makeRow := func(id, label, value string) {
		lbl := win.Label(Txt(label), Anchor("w"))
		Grid(lbl, Row(row), Column(0), Sticky("w"), Padx("0.4m"), Pady("0.15m"))
		w := win.Text(Height(1), Width(16))
		Grid(w, Row(row), Column(1), Sticky("we"), Padx("0.4m"), Pady("0.15m"))
		w.Delete("1.0", END)
		w.Insert("1.0", value)
		v.widgets[id] = w
		row++
	}
	makeRow("radius", "Radius (px)", fmt.Sprintf("%d", c.Radius))
	makeRow("alpha", "Alpha (0-255)", fmt.Sprintf("%d", c.Alpha))
	makeRow("contrast", "Contrast", fmt.Sprintf("%.2f", c.Contrast))
	makeRow("normalColor", "Colour (#rrggbb)", c.NormalColor)
	makeRow("hoverColor", "Hover colour (#rrggbb)", c.HoverColor)
	makeRow("confirmUnsaved", "Confirm unsaved (true/false)", fmt.Sprintf("%t", c.ConfirmUnsaved))
	controls := win.Frame()
	Grid(controls, Row(row), Column(0), Columnspan(2), Sticky("we"))
	apply := win.Button(Txt("Apply [Enter]"), Command(v.confirm))
	Grid(apply, In(controls), Row(0), Column(0), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	cancel := win.Button(Txt("Close [Esc]"), Command(v.destroy))
	Grid(cancel, In(controls), Row(0), Column(1), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	Bind(win, "<Return>", Command(v.confirm))
	Bind(win, "<Escape>", Command(v.destroy))
	WmProtocol(win.Window, "WM_DELETE_WINDOW", v.destroy)
}

func (v *settingsPanel) confirm() {
	v.ApplyChanges()
	v.destroy()
}

func (v *settingsPanel) destroy() {
	if v.win != nil {
		Destroy(v.win)
		v.win = nil
	}
	clear(v.widgets)
}

func (v *settingsPanel) text(w *TextWidget) string {
	if w == nil {
		return ""
	}
	parts := w.Get("1.0", END)
	return strings.Join(parts, "")
}

func (v *settingsPanel) ApplyChanges() {
	if v.cfg == nil {
		return
	}
	values := make(map[string]string, len(v.widgets))
	for id, w := range v.widgets {
		values[id] = strings.TrimSpace(v.text(w))
	}
	cfg := applySettings(*v.cfg, values)
	*v.cfg = cfg
	if v.onApply != nil {
		v.onApply(v.cfg)
	}
	if v.cfgPath == "" {
		return
	}
	if err := persistSettings(v.cfgPath, values); err != nil {
		if v.logger != nil {
			v.logger.Error("config save failed", "error", err)
		}
	} else {
		if v.logger != nil {
			v.logger.Info("config saved", "path", v.cfgPath)
		}
	}
}

// persistSettings applies the form values to the config stored at path and
// writes it back. Command-line overrides live only in the running config and
// never reach the file. A stored file that cannot be decoded is left alone.
func persistSettings(path string, values map[string]string) error {
	stored, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	cfg := applySettings(*stored, values)
	return cfg.Save(path)
}

// applySettings returns cfg with the parseable form values applied and
// normalized. Fields that fail to parse keep their previous value.
func applySettings(cfg config.Config, values map[string]string) config.Config {
	if i, ok := parseIntField(values["radius"]); ok {
		cfg.Radius = i
	}
	if i, ok := parseIntField(values["alpha"]); ok {
		cfg.Alpha = i
	}
	if f, ok := parseFloatField(values["contrast"]); ok {
		cfg.Contrast = f
	}
	if s := values["normalColor"]; s != "" {
		if _, err := config.ParseColor(s); err == nil {
			cfg.NormalColor = strings.ToLower(s)
		}
	}
	if s := values["hoverColor"]; s != "" {
		if _, err := config.ParseColor(s); err == nil {
			cfg.HoverColor = strings.ToLower(s)
		}
	}
	if b, ok := parseBoolLoose(values["confirmUnsaved"]); ok {
		cfg.ConfirmUnsaved = b
	}
	_ = cfg.Validate()
	return cfg
}

// parsing helpers (unexported)
func parseFloatField(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
func parseIntField(s string) (int, bool) {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return i, true
}
func parseBoolLoose(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "y", "on", "t":
		return true, true
	case "false", "0", "no", "n", "off", "f":
		return false, true
	default:
		return false, false
	}
}
