package presenter

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/soocke/dotcount/domain/annotation"
)

// MaskSource is the store as seen by the save path.
type MaskSource interface {
	ToMask() *annotation.Mask
	Dirty() bool
	MarkClean()
	Len() int
}

// SaveFunc persists a mask; maskio.Save satisfies it.
type SaveFunc func(path string, m *annotation.Mask, logger *slog.Logger) error

// SaveRecorder is notified after a successful save.
type SaveRecorder interface{ Saved(dots int) }

// ConfirmView asks the user a yes/no question.
type ConfirmView interface {
	Confirm(title, message string) bool
}

// StatusSink receives one-line status messages.
type StatusSink interface{ OnMessage(string) }

// SavePresenter writes the store to the mask path and guards closing the
// window while there are unsaved edits.
type SavePresenter struct {
	store          MaskSource
	path           string
	save           SaveFunc
	recorder       SaveRecorder
	session        interface{ OnSaved(time.Time) }
	confirm        ConfirmView
	status         StatusSink
	confirmUnsaved bool
	now            func() time.Time
	logger         *slog.Logger
}

// SaveOptions carries the optional collaborators of a SavePresenter.
type SaveOptions struct {
	Recorder       SaveRecorder
	Session        interface{ OnSaved(time.Time) }
	Confirm        ConfirmView
	Status         StatusSink
	ConfirmUnsaved bool
	Now            func() time.Time
}

func NewSavePresenter(store MaskSource, path string, save SaveFunc, opts SaveOptions, logger *slog.Logger) *SavePresenter {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &SavePresenter{
		store:          store,
		path:           path,
		save:           save,
		recorder:       opts.Recorder,
		session:        opts.Session,
		confirm:        opts.Confirm,
		status:         opts.Status,
		confirmUnsaved: opts.ConfirmUnsaved,
		now:            opts.Now,
		logger:         logger,
	}
}

// Save writes the current annotation set. The store is marked clean only
// after the file is in place.
func (p *SavePresenter) Save() error {
	if p == nil || p.store == nil || p.save == nil {
		return nil
	}
	m := p.store.ToMask()
	if err := p.save(p.path, m, p.logger); err != nil {
		p.message(fmt.Sprintf("Save failed: %v", err))
		if p.logger != nil {
			p.logger.Error("save mask", "path", p.path, "error", err)
		}
		return fmt.Errorf("save %s: %w", p.path, err)
	}
	p.store.MarkClean()
	n := p.store.Len()
	if p.recorder != nil {
		p.recorder.Saved(n)
	}
	now := p.now()
	if p.session != nil {
		p.session.OnSaved(now)
	}
	p.message(fmt.Sprintf("Saved %d dots to %s", n, p.path))
	return nil
}

// RequestClose reports whether the window may close. With unsaved edits the
// user is asked first; answering yes saves, and a failed save keeps the
// window open.
func (p *SavePresenter) RequestClose() bool {
	if p == nil || p.store == nil {
		return true
	}
	if !p.store.Dirty() || !p.confirmUnsaved || p.confirm == nil {
		return true
	}
	if !p.confirm.Confirm("Unsaved annotations", "Save changes before closing?") {
		if p.logger != nil {
			p.logger.Info("closing without saving", "dots", p.store.Len())
		}
		return true
	}
	return p.Save() == nil
}

// SetConfirmUnsaved toggles the close confirmation.
func (p *SavePresenter) SetConfirmUnsaved(on bool) {
	if p == nil {
		return
	}
	p.confirmUnsaved = on
}

func (p *SavePresenter) message(s string) {
	if p.status != nil {
		p.status.OnMessage(s)
	}
}
