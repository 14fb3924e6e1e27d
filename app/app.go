package app

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	tk "modernc.org/tk9.0"

	"github.com/soocke/dotcount/app/session"
	"github.com/soocke/dotcount/config"
	"github.com/soocke/dotcount/debug"
	"github.com/soocke/dotcount/ui/view"
)

const (
	tick = 30 * time.Millisecond
)

type app struct {
	sess    *session.Session
	root    *view.RootView
	logger  *slog.Logger
	afterID string
	cancel  context.CancelFunc
	started time.Time
}

// Run opens the session and runs the Tk event loop until the window closes.
// Errors opening the image or mask are returned before any window is shown.
func Run(opts session.Options, cfg *config.Config, cfgPath string, logger *slog.Logger) error {
	sess, err := session.Open(opts, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := sess.Close(); err != nil && logger != nil {
			logger.Error("close journal", "error", err)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if cfg.Debug {
		debug.StartGoroutineLogger(ctx, 5*time.Second, logger)
		debug.StartMemLogger(ctx, 5*time.Second, logger)
	}

	a := &app{sess: sess, logger: logger, cancel: cancel, started: time.Now()}
	a.root = view.NewRootView(cfg, cfgPath, logger)
	pointer := view.PointerHandlers{
		Primary:   a.guardXY("primary click", sess.Annotations.OnPrimaryClick),
		Secondary: a.guardXY("secondary click", sess.Annotations.OnSecondaryClick),
		Motion:    a.guardXY("motion", sess.Annotations.OnMotion),
		Leave:     a.guard("leave", sess.Annotations.OnLeave),
	}

	views := session.Views{Canvas: a.root, Status: a.root, Confirm: a.root}
	var reference view.ReferenceWindow
	if sess.Reference != nil {
		title := "Reference: " + filepath.Base(opts.ReferencePath)
		reference = view.NewReferenceWindow(title, cfg.ViewWidth, cfg.ViewHeight, pointer, sess.InvalidateReference, logger)
		views.Reference = reference
	}

	a.root.Build(
		fmt.Sprintf("dotcount: %s", filepath.Base(opts.ImagePath)),
		cfg.ViewWidth, cfg.ViewHeight,
		view.Handlers{
			Pointer:       pointer,
			Keys:          a.keyBindings(),
			Save:          a.guard("save", a.save),
			Close:         a.guard("close", a.exitHandler),
			ApplySettings: sess.ApplyConfig,
		},
		reference,
	)
	sess.Attach(views, a.scheduleUpdate)
	if reference != nil {
		reference.OpenOrFocus()
	}

	// Kick off update loop.
	a.scheduleUpdate()
	tk.App.Wait()
	if logger != nil {
		logger.Info("session closed", "dots", sess.Store.Len(), "saves", sess.Edits.Saves(), "uptime", time.Since(a.started).Round(time.Second).String())
	}
	return nil
}

func (a *app) save() {
	_ = a.sess.Save.Save()
}

func (a *app) exitHandler() {
	if !a.sess.Save.RequestClose() {
		return
	}
	// Cancel scheduled after event if any.
	if a.afterID != "" {
		tk.TclAfterCancel(a.afterID)
	}
	a.cancel()
	tk.Destroy(tk.App)
}

func (a *app) scheduleUpdate() {
	// Schedule the next update using TclAfter to stay on Tk's event loop thread.
	a.afterID = tk.TclAfter(tick, a.update)
}

// update ticks the presenters. The loop reschedules itself at the end of a
// tick; after a panic it is rescheduled here so the UI keeps refreshing.
func (a *app) update() {
	defer func() {
		if r := recover(); r != nil {
			if a.logger != nil {
				a.logger.Error("update panic", "error", r)
			}
			a.scheduleUpdate()
		}
	}()
	a.sess.Loop.Tick()
}

// guard runs fn, logging instead of propagating a panic into Tk.
func (a *app) guard(msg string, fn func()) func() {
	return func() {
		defer recoverLog(a.logger, msg+" panic")
		fn()
	}
}

func (a *app) guardXY(msg string, fn func(x, y int)) func(x, y int) {
	return func(x, y int) {
		defer recoverLog(a.logger, msg+" panic")
		fn(x, y)
	}
}

func recoverLog(logger *slog.Logger, msg string) {
	if r := recover(); r != nil {
		if logger != nil {
			logger.Error(msg, "error", r)
		}
	}
}
