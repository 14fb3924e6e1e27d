package presenter

import "time"

// Loop aggregates feature presenters and drives periodic updates.
//
// It ticks the canvas presenters, the status presenter and then invokes a
// scheduler callback. The zero value is usable (methods are nil-safe).
type Loop struct {
	Canvas    *CanvasPresenter
	Reference *CanvasPresenter
	Status    *StatusPresenter
	Schedule  func()
}

func NewLoop(canvas, reference *CanvasPresenter, status *StatusPresenter, schedule func()) *Loop {
	return &Loop{Canvas: canvas, Reference: reference, Status: status, Schedule: schedule}
}

// Invalidate marks every canvas for redraw.
func (l *Loop) Invalidate() {
	if l == nil {
		return
	}
	l.Canvas.Invalidate()
	l.Reference.Invalidate()
}

func (l *Loop) Tick() {
	if l == nil {
		return
	}
	now := time.Now()
	l.Canvas.Tick()
	l.Reference.Tick()
	l.Status.Tick(now)
	if l.Schedule != nil {
		l.Schedule()
	}
}
