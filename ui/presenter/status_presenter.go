package presenter

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

// CountSource reports the size and dirty state of the annotation set.
type CountSource interface {
	Len() int
	Dirty() bool
}

// EditCounter reports edits since the last save.
type EditCounter interface {
	Values() (added, removed int, lastSaved time.Time)
}

// StatusView shows the message line and the count line.
type StatusView interface {
	SetStatusLabel(string)
	SetCountLabel(string)
}

// StatusPresenter queues status messages and refreshes the count line. Both
// are reflected on the next Tick.
type StatusPresenter struct {
	counts    CountSource
	edits     EditCounter
	view      StatusView
	latest    string
	lastCount string
	pending   []string
}

func NewStatusPresenter(counts CountSource, edits EditCounter, view StatusView) *StatusPresenter {
	return &StatusPresenter{counts: counts, edits: edits, view: view}
}

// OnMessage queues a status message. Only the latest queued message is shown.
func (p *StatusPresenter) OnMessage(s string) {
	if p == nil {
		return
	}
	p.pending = append(p.pending, s)
}

// Tick flushes the latest message and updates the count line when it changed.
func (p *StatusPresenter) Tick(now time.Time) {
	if p == nil || p.view == nil {
		return
	}
	if len(p.pending) > 0 {
		last := p.pending[len(p.pending)-1]
		p.pending = p.pending[:0]
		if last != p.latest {
			p.latest = last
			p.view.SetStatusLabel(last)
		}
	}
	if p.counts == nil {
		return
	}
	line := p.countLine(now)
	if line != p.lastCount {
		p.lastCount = line
		p.view.SetCountLabel(line)
	}
}

func (p *StatusPresenter) countLine(now time.Time) string {
	line := fmt.Sprintf("Dots: %d", p.counts.Len())
	if p.edits != nil {
		added, removed, saved := p.edits.Values()
		line += fmt.Sprintf("  +%d / -%d", added, removed)
		if !saved.IsZero() {
			line += "  saved " + humanize.RelTime(saved, now, "ago", "from now")
		}
	}
	if p.counts.Dirty() {
		line += "  (unsaved)"
	}
	return line
}
