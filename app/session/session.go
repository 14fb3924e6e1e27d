// Package session assembles one annotation session: the source image, the
// mask on disk, the annotation store, the optional edit journal, the models
// and the presenters. It has no toolkit dependency; the Tk layer attaches its
// views through the presenter interfaces.
package session

import (
	"database/sql"
	"fmt"
	"image"
	"log/slog"

	"github.com/disintegration/imaging"

	"github.com/soocke/dotcount/config"
	"github.com/soocke/dotcount/domain/annotation"
	"github.com/soocke/dotcount/domain/journal"
	"github.com/soocke/dotcount/domain/maskio"
	"github.com/soocke/dotcount/ui/images"
	"github.com/soocke/dotcount/ui/model"
	"github.com/soocke/dotcount/ui/presenter"
)

// Options selects the files of a session.
type Options struct {
	ImagePath     string
	MaskPath      string
	ReferencePath string // optional
}

// Session holds the assembled components. Fields are exported for the Tk
// layer and tests; presenters created by Attach are nil before it.
type Session struct {
	Config *config.Config
	Logger *slog.Logger
	Opts   Options

	Image     image.Image
	Reference image.Image // nil without a reference image

	Store   *annotation.Store
	Journal *journal.Session // nil when journaling is off
	db      *sql.DB

	Display *model.DisplayModel
	Hover   *model.HoverModel
	Edits   *model.SessionModel

	Annotations *presenter.AnnotationPresenter
	View        *presenter.DisplayPresenter
	Save        *presenter.SavePresenter
	Status      *presenter.StatusPresenter
	Canvas      *presenter.CanvasPresenter
	RefCanvas   *presenter.CanvasPresenter
	Loop        *presenter.Loop

	renderer    *images.Renderer
	refRenderer *images.Renderer
}

// Views are the toolkit-side sinks a session pushes to. Reference may be nil.
type Views struct {
	Canvas    presenter.CanvasView
	Reference presenter.CanvasView
	Status    presenter.StatusView
	Confirm   presenter.ConfirmView
}

// Open loads the image and mask and builds the store and models. Malformed
// mask content or a mask whose shape differs from the image is an error; a
// missing mask file starts an empty session.
func Open(opts Options, cfg *config.Config, logger *slog.Logger) (*Session, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	s := &Session{Config: cfg, Logger: logger, Opts: opts}

	img, err := images.Open(opts.ImagePath)
	if err != nil {
		return nil, err
	}
	s.Image = img
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if opts.ReferencePath != "" {
		ref, err := images.Open(opts.ReferencePath)
		if err != nil {
			return nil, fmt.Errorf("reference: %w", err)
		}
		if rb := ref.Bounds(); rb.Dx() != w || rb.Dy() != h {
			if logger != nil {
				logger.Warn("reference image resized to match", "reference", fmt.Sprintf("%dx%d", rb.Dx(), rb.Dy()), "image", fmt.Sprintf("%dx%d", w, h))
			}
			ref = imaging.Resize(ref, w, h, imaging.Lanczos)
		}
		s.Reference = ref
	}

	style, err := StyleFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	s.Display = model.NewDisplayModel(w, h, cfg.ViewWidth, cfg.ViewHeight, style)
	s.Display.SetContrast(cfg.Contrast)
	s.Display.SetZoom(cfg.Zoom)
	s.Hover = &model.HoverModel{}
	s.Edits = model.NewSessionModel()
	s.Annotations = presenter.NewAnnotationPresenter(s.Display, s.Hover, s.Edits, s.invalidate, logger)
	s.View = presenter.NewDisplayPresenter(s.Display, s.invalidate, nil, logger)

	canvas, err := annotation.NewCanvas(w, h, cfg.Margin)
	if err != nil {
		return nil, err
	}
	s.Store = annotation.NewStore(canvas, logger, s.Annotations)
	s.Annotations.Bind(s.Store)

	mask, err := maskio.Load(opts.MaskPath, h, w, logger)
	if err != nil {
		return nil, err
	}
	if err := s.Store.LoadFromMask(mask); err != nil {
		return nil, fmt.Errorf("load mask %s: %w", opts.MaskPath, err)
	}
	s.Edits.OnReset()

	// Journal after the initial load so loaded dots are not recorded as edits.
	if cfg.JournalPath != "" {
		db, err := journal.Open(cfg.JournalPath)
		if err != nil {
			return nil, err
		}
		js, err := journal.NewSession(db, opts.MaskPath, logger)
		if err != nil {
			db.Close()
			return nil, err
		}
		s.db, s.Journal = db, js
		s.Store.Observe(js)
		if logger != nil {
			logger.Info("journal enabled", "path", cfg.JournalPath, "session", js.ID())
		}
	}

	if s.renderer, err = images.NewRenderer(s.Image, cfg.ContrastCacheSize); err != nil {
		s.Close()
		return nil, err
	}
	if s.Reference != nil {
		if s.refRenderer, err = images.NewRenderer(s.Reference, cfg.ContrastCacheSize); err != nil {
			s.Close()
			return nil, err
		}
	}
	if logger != nil {
		logger.Info("session opened", "image", opts.ImagePath, "width", w, "height", h, "mask", opts.MaskPath, "dots", s.Store.Len())
	}
	return s, nil
}

// StyleFromConfig builds the marker style from config values.
func StyleFromConfig(cfg *config.Config) (model.Style, error) {
	normal, err := config.ParseColor(cfg.NormalColor)
	if err != nil {
		return model.Style{}, err
	}
	hover, err := config.ParseColor(cfg.HoverColor)
	if err != nil {
		return model.Style{}, err
	}
	return model.Style{
		Normal: normal,
		Hover:  hover,
		Alpha:  uint8(min(max(cfg.Alpha, 0), 255)),
		Radius: max(cfg.Radius, 1),
	}, nil
}

// Attach connects the views and creates the presenters that push to them.
// schedule is invoked at the end of every Loop tick.
func (s *Session) Attach(v Views, schedule func()) {
	s.Status = presenter.NewStatusPresenter(s.Store, s.Edits, v.Status)
	var recorder presenter.SaveRecorder
	if s.Journal != nil {
		recorder = s.Journal
	}
	s.Save = presenter.NewSavePresenter(s.Store, s.Opts.MaskPath, maskio.Save, presenter.SaveOptions{
		Recorder:       recorder,
		Session:        s.Edits,
		Confirm:        v.Confirm,
		Status:         s.Status,
		ConfirmUnsaved: s.Config.ConfirmUnsaved,
	}, s.Logger)
	s.Canvas = presenter.NewCanvasPresenter(s.Display, s.renderer, s.Annotations, v.Canvas)
	if s.refRenderer != nil && v.Reference != nil {
		s.RefCanvas = presenter.NewCanvasPresenter(s.Display, s.refRenderer, s.Annotations, v.Reference)
	}
	s.Loop = presenter.NewLoop(s.Canvas, s.RefCanvas, s.Status, schedule)
	s.Status.OnMessage(fmt.Sprintf("Loaded %d dots from %s", s.Store.Len(), s.Opts.MaskPath))
}

func (s *Session) invalidate() {
	if s.Loop != nil {
		s.Loop.Invalidate()
	}
}

// InvalidateReference forces a redraw of the reference canvas, e.g. after
// its window was reopened.
func (s *Session) InvalidateReference() {
	s.RefCanvas.Invalidate()
}

// ApplyConfig takes style, contrast and confirmation settings from cfg.
func (s *Session) ApplyConfig(cfg *config.Config) {
	style, err := StyleFromConfig(cfg)
	if err != nil {
		if s.Logger != nil {
			s.Logger.Warn("settings not applied", "error", err)
		}
		return
	}
	s.View.ApplyStyle(style, cfg.Contrast)
	s.Save.SetConfirmUnsaved(cfg.ConfirmUnsaved)
}

// Close releases the journal database.
func (s *Session) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
