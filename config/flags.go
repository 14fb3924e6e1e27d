package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
)

// ErrUsage reports invalid command-line arguments.
var ErrUsage = errors.New("invalid arguments")

// Args holds the parsed command line. Override fields are nil when the flag
// was not given so that config file values survive.
type Args struct {
	ImagePath     string
	MaskPath      string
	ReferencePath string
	ConfigPath    string

	Contrast    *float64
	Radius      *int
	JournalPath *string
	Debug       bool
}

const usage = `usage: dotcount <image-path> <mask-path> [flags]

Annotate dots on an image; the mask is read from and saved to <mask-path>
(.npy, or a legacy image format).

flags:
`

// ParseArgs parses args (without the program name). Flags may appear before
// or after the positional arguments. It returns flag.ErrHelp for -h/--help
// and an error wrapping ErrUsage for anything else that is wrong; usage text
// is written to out in both cases.
func ParseArgs(args []string, out io.Writer) (Args, error) {
	var a Args
	fs := flag.NewFlagSet("dotcount", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.Usage = func() {
		fmt.Fprint(out, usage)
		fs.PrintDefaults()
	}
	fs.StringVar(&a.ReferencePath, "reference", "", "reference image shown in a second window")
	fs.StringVar(&a.ConfigPath, "config", "", "config file (.json, .yaml); default is the XDG config location")
	contrast := fs.Float64("contrast", 1, "initial contrast factor (>= 0)")
	radius := fs.Int("radius", 1, "marker radius in image pixels (>= 1)")
	journal := fs.String("journal", "", "SQLite database recording every edit")
	fs.BoolVar(&a.Debug, "debug", false, "debug logging and runtime stats")

	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			if errors.Is(err, flag.ErrHelp) {
				return a, err
			}
			return a, fmt.Errorf("%w: %v", ErrUsage, err)
		}
		args = fs.Args()
		if len(args) == 0 {
			break
		}
		positional = append(positional, args[0])
		args = args[1:]
	}
	if len(positional) != 2 {
		fs.Usage()
		return a, fmt.Errorf("%w: expected <image-path> <mask-path>, got %d positional arguments", ErrUsage, len(positional))
	}
	a.ImagePath, a.MaskPath = positional[0], positional[1]

	var bad error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "contrast":
			if *contrast < 0 || !finite(*contrast) {
				bad = fmt.Errorf("%w: contrast must be a finite number >= 0, got %v", ErrUsage, *contrast)
			}
			a.Contrast = contrast
		case "radius":
			if *radius < 1 {
				bad = fmt.Errorf("%w: radius must be >= 1, got %d", ErrUsage, *radius)
			}
			a.Radius = radius
		case "journal":
			a.JournalPath = journal
		}
	})
	return a, bad
}

// Apply copies the given overrides into cfg and re-validates it.
func (a Args) Apply(cfg *Config) {
	if cfg == nil {
		return
	}
	if a.Contrast != nil {
		cfg.Contrast = *a.Contrast
	}
	if a.Radius != nil {
		cfg.Radius = *a.Radius
	}
	if a.JournalPath != nil {
		cfg.JournalPath = *a.JournalPath
	}
	if a.Debug {
		cfg.Debug = true
	}
	_ = cfg.Validate()
}
