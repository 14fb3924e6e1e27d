package presenter

import (
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/soocke/dotcount/domain/annotation"
	"github.com/soocke/dotcount/ui/model"
)

type mockMaskSource struct {
	dirty   bool
	cleaned int
	n       int
}

func (m *mockMaskSource) ToMask() *annotation.Mask { return annotation.NewMask(2, 2) }
func (m *mockMaskSource) Dirty() bool              { return m.dirty }
func (m *mockMaskSource) MarkClean()               { m.dirty = false; m.cleaned++ }
func (m *mockMaskSource) Len() int                 { return m.n }

type mockSaver struct {
	calls int
	path  string
	err   error
}

func (s *mockSaver) save(path string, m *annotation.Mask, _ *slog.Logger) error {
	s.calls++
	s.path = path
	return s.err
}

type mockRecorder struct{ dots []int }

func (r *mockRecorder) Saved(n int) { r.dots = append(r.dots, n) }

type mockConfirm struct {
	answer bool
	asked  int
}

func (c *mockConfirm) Confirm(title, message string) bool { c.asked++; return c.answer }

type mockStatus struct{ msgs []string }

func (s *mockStatus) OnMessage(m string) { s.msgs = append(s.msgs, m) }

func TestSavePresenter_Save(t *testing.T) {
	src := &mockMaskSource{dirty: true, n: 3}
	sv := &mockSaver{}
	rec := &mockRecorder{}
	sess := model.NewSessionModel()
	sess.OnCreated()
	st := &mockStatus{}
	when := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	p := NewSavePresenter(src, "mask.npy", sv.save, SaveOptions{
		Recorder: rec, Session: sess, Status: st, Now: func() time.Time { return when },
	}, discardLogger)

	if err := p.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}
	if sv.calls != 1 || sv.path != "mask.npy" || src.dirty || src.cleaned != 1 {
		t.Fatalf("calls=%d path=%q dirty=%v", sv.calls, sv.path, src.dirty)
	}
	if len(rec.dots) != 1 || rec.dots[0] != 3 {
		t.Fatalf("recorder %v", rec.dots)
	}
	if added, _, saved := sess.Values(); added != 0 || !saved.Equal(when) {
		t.Fatalf("session added=%d saved=%v", added, saved)
	}
	if len(st.msgs) != 1 || !strings.Contains(st.msgs[0], "Saved 3 dots") {
		t.Fatalf("status %v", st.msgs)
	}
}

func TestSavePresenter_SaveFailureKeepsDirty(t *testing.T) {
	src := &mockMaskSource{dirty: true}
	boom := errors.New("disk full")
	sv := &mockSaver{err: boom}
	rec := &mockRecorder{}
	st := &mockStatus{}
	p := NewSavePresenter(src, "mask.npy", sv.save, SaveOptions{Recorder: rec, Status: st}, discardLogger)
	err := p.Save()
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
	if !src.dirty || src.cleaned != 0 || len(rec.dots) != 0 {
		t.Fatalf("failed save changed state")
	}
	if len(st.msgs) != 1 || !strings.HasPrefix(st.msgs[0], "Save failed") {
		t.Fatalf("status %v", st.msgs)
	}
}

func TestSavePresenter_RequestClose(t *testing.T) {
	tests := []struct {
		name           string
		dirty, confirm bool
		answer         bool
		saveErr        error
		wantClose      bool
		wantAsked      int
		wantSaves      int
	}{
		{name: "clean", dirty: false, confirm: true, wantClose: true},
		{name: "dirty no confirm", dirty: true, confirm: false, wantClose: true},
		{name: "dirty discard", dirty: true, confirm: true, answer: false, wantClose: true, wantAsked: 1},
		{name: "dirty save", dirty: true, confirm: true, answer: true, wantClose: true, wantAsked: 1, wantSaves: 1},
		{name: "dirty save fails", dirty: true, confirm: true, answer: true, saveErr: errors.New("x"), wantClose: false, wantAsked: 1, wantSaves: 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			src := &mockMaskSource{dirty: tc.dirty}
			sv := &mockSaver{err: tc.saveErr}
			c := &mockConfirm{answer: tc.answer}
			p := NewSavePresenter(src, "m.npy", sv.save, SaveOptions{Confirm: c, ConfirmUnsaved: tc.confirm}, discardLogger)
			if got := p.RequestClose(); got != tc.wantClose {
				t.Fatalf("close=%v want %v", got, tc.wantClose)
			}
			if c.asked != tc.wantAsked || sv.calls != tc.wantSaves {
				t.Fatalf("asked=%d saves=%d", c.asked, sv.calls)
			}
		})
	}
}

func TestSavePresenter_NilSafe(t *testing.T) {
	var p *SavePresenter
	if err := p.Save(); err != nil {
		t.Fatalf("nil save: %v", err)
	}
	if !p.RequestClose() {
		t.Fatalf("nil presenter should allow close")
	}
}
