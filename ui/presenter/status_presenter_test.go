package presenter

import (
	"image"
	"strings"
	"testing"
	"time"

	"github.com/soocke/dotcount/ui/images"
	"github.com/soocke/dotcount/ui/model"
)

type mockCounts struct {
	n     int
	dirty bool
}

func (m *mockCounts) Len() int    { return m.n }
func (m *mockCounts) Dirty() bool { return m.dirty }

type mockStatusView struct {
	status, count []string
}

func (v *mockStatusView) SetStatusLabel(s string) { v.status = append(v.status, s) }
func (v *mockStatusView) SetCountLabel(s string)  { v.count = append(v.count, s) }

func TestStatusPresenter_LatestMessageWins(t *testing.T) {
	v := &mockStatusView{}
	p := NewStatusPresenter(nil, nil, v)
	p.OnMessage("a")
	p.OnMessage("b")
	p.Tick(time.Now())
	if len(v.status) != 1 || v.status[0] != "b" {
		t.Fatalf("status %v", v.status)
	}
	p.OnMessage("b")
	p.Tick(time.Now())
	if len(v.status) != 1 {
		t.Fatalf("repeated message pushed again: %v", v.status)
	}
}

func TestStatusPresenter_CountLine(t *testing.T) {
	counts := &mockCounts{n: 2, dirty: true}
	sess := model.NewSessionModel()
	sess.OnCreated()
	sess.OnCreated()
	v := &mockStatusView{}
	p := NewStatusPresenter(counts, sess, v)
	now := time.Now()
	p.Tick(now)
	if len(v.count) != 1 || v.count[0] != "Dots: 2  +2 / -0  (unsaved)" {
		t.Fatalf("count %q", v.count)
	}
	p.Tick(now)
	if len(v.count) != 1 {
		t.Fatalf("unchanged count line pushed again")
	}
	sess.OnSaved(now.Add(-2 * time.Minute))
	counts.dirty = false
	p.Tick(now)
	if len(v.count) != 2 || !strings.Contains(v.count[1], "saved 2 minutes ago") || strings.Contains(v.count[1], "unsaved") {
		t.Fatalf("count %q", v.count)
	}
}

type mockRenderer struct{ calls int }

func (r *mockRenderer) Render(d *model.DisplayModel, markers []images.Marker) *image.NRGBA {
	r.calls++
	return image.NewNRGBA(image.Rect(0, 0, 1, 1))
}

type mockCanvasView struct{ frames int }

func (v *mockCanvasView) UpdateCanvas(img image.Image) { v.frames++ }

func TestLoop_CoalescesRedraws(t *testing.T) {
	d := model.NewDisplayModel(4, 4, 4, 4, model.DefaultStyle())
	r := &mockRenderer{}
	cv := &mockCanvasView{}
	canvas := NewCanvasPresenter(d, r, nil, cv)
	scheduled := 0
	l := NewLoop(canvas, nil, nil, func() { scheduled++ })

	l.Tick() // initial frame
	l.Invalidate()
	l.Invalidate()
	l.Invalidate()
	l.Tick()
	l.Tick()
	if r.calls != 2 || cv.frames != 2 || canvas.Frames() != 2 {
		t.Fatalf("renders=%d frames=%d", r.calls, cv.frames)
	}
	if scheduled != 3 {
		t.Fatalf("scheduled=%d", scheduled)
	}
}

func TestLoop_NilSafe(t *testing.T) {
	var l *Loop
	l.Tick()
	l.Invalidate()
	(&Loop{}).Tick()
}
