package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// relPath is the config file location below the XDG config home.
const relPath = "dotcount/config.json"

// Config holds runtime configuration for display and session behaviour.
// Fields may be loaded from a JSON or YAML file and overridden by command-line flags.
type Config struct {
	Debug bool `json:"debug" yaml:"debug"`

	// Marker style
	Radius      int    `json:"radius" yaml:"radius"`
	Alpha       int    `json:"alpha" yaml:"alpha"`
	NormalColor string `json:"normal_color" yaml:"normal_color"`
	HoverColor  string `json:"hover_color" yaml:"hover_color"`

	// Image display
	Contrast          float64 `json:"contrast" yaml:"contrast"`
	Zoom              float64 `json:"zoom" yaml:"zoom"`
	ContrastCacheSize int     `json:"contrast_cache_size" yaml:"contrast_cache_size"`
	ViewWidth         int     `json:"view_width" yaml:"view_width"`
	ViewHeight        int     `json:"view_height" yaml:"view_height"`

	// Session
	Margin         int    `json:"margin" yaml:"margin"`
	ConfirmUnsaved bool   `json:"confirm_unsaved" yaml:"confirm_unsaved"`
	JournalPath    string `json:"journal_path" yaml:"journal_path"`
}

// DefaultConfig returns a Config populated with standard defaults.
func DefaultConfig() *Config {
	return &Config{
		Debug:             false,
		Radius:            1,
		Alpha:             180,
		NormalColor:       "#0000ff",
		HoverColor:        "#ff0000",
		Contrast:          1.0,
		Zoom:              1.0,
		ContrastCacheSize: 8,
		ViewWidth:         1024,
		ViewHeight:        768,
		Margin:            0,
		ConfirmUnsaved:    true,
		JournalPath:       "",
	}
}

// ErrNotFinite reports a NaN or infinite float field. Validate resets such
// fields to their defaults and returns it.
var ErrNotFinite = errors.New("config: value is not finite")

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

// Validate clamps/normalizes values to safe ranges.
func (c *Config) Validate() error {
	var err error
	if !finite(c.Contrast) {
		err = fmt.Errorf("%w: contrast %v", ErrNotFinite, c.Contrast)
		c.Contrast = 1.0
	}
	if !finite(c.Zoom) {
		err = fmt.Errorf("%w: zoom %v", ErrNotFinite, c.Zoom)
		c.Zoom = 1.0
	}
	if c.Radius < 1 {
		c.Radius = 1
	}
	if c.Alpha < 0 {
		c.Alpha = 0
	}
	if c.Alpha > 255 {
		c.Alpha = 255
	}
	if _, err := ParseColor(c.NormalColor); err != nil {
		c.NormalColor = "#0000ff"
	}
	if _, err := ParseColor(c.HoverColor); err != nil {
		c.HoverColor = "#ff0000"
	}
	if c.Contrast < 0 {
		c.Contrast = 0
	}
	if c.Zoom <= 0 {
		c.Zoom = 1.0
	}
	if c.ContrastCacheSize <= 0 {
		c.ContrastCacheSize = 8
	}
	if c.ViewWidth < 100 {
		c.ViewWidth = 100
	}
	if c.ViewHeight < 100 {
		c.ViewHeight = 100
	}
	if c.Margin < 0 {
		c.Margin = 0
	}
	return err
}

// DefaultPath returns the config file location under the XDG config home,
// creating its parent directory.
func DefaultPath() (string, error) {
	return xdg.ConfigFile(relPath)
}

// FindDefault returns the path of an existing config file in the XDG search
// path, or "" if there is none.
func FindDefault() string {
	p, err := xdg.SearchConfigFile(relPath)
	if err != nil {
		return ""
	}
	return p
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// Load attempts to read configuration from the given file path. JSON is the
// default; .yaml/.yml files are decoded as YAML. If the file does not exist it
// returns DefaultConfig(). On decode error it returns defaults with the error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}
	defer f.Close()
	if isYAML(path) {
		err = yaml.NewDecoder(f).Decode(cfg)
	} else {
		err = json.NewDecoder(f).Decode(cfg)
	}
	if err != nil {
		return DefaultConfig(), fmt.Errorf("config: decode %s: %w", path, err)
	}
	_ = cfg.Validate()
	return cfg, nil
}

// Save writes the configuration to the given path in JSON or YAML format.
func (c *Config) Save(path string) error {
	_ = c.Validate()
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if isYAML(path) {
		enc := yaml.NewEncoder(f)
		enc.SetIndent(2)
		if err := enc.Encode(c); err != nil {
			return err
		}
		return enc.Close()
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}

// ParseColor parses "#rrggbb" into an opaque colour.
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.TrimSpace(s)
	var r, g, b uint8
	if len(s) != 7 || s[0] != '#' {
		return color.NRGBA{}, fmt.Errorf("config: colour %q is not #rrggbb", s)
	}
	if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return color.NRGBA{}, fmt.Errorf("config: colour %q: %w", s, err)
	}
	return color.NRGBA{R: r, G: g, B: b, A: 0xff}, nil
}

// FormatColor renders c as "#rrggbb".
func FormatColor(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
