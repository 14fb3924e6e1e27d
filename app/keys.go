package app

import "github.com/soocke/dotcount/ui/view"

// keyBindings maps the canvas shortcuts to presenter actions. Bindings are
// installed on the root window, so they do not fire while a settings field
// in its own window has focus.
func (a *app) keyBindings() []view.KeyBinding {
	d := a.sess.View
	bind := func(seq, name string, fn func()) view.KeyBinding {
		return view.KeyBinding{Sequence: seq, Action: a.guard(name, fn)}
	}
	return []view.KeyBinding{
		bind("<Control-s>", "save", a.save),
		bind("<Key-equal>", "zoom in", d.ZoomIn),
		bind("<Key-plus>", "zoom in", d.ZoomIn),
		bind("<Key-minus>", "zoom out", d.ZoomOut),
		bind("<Left>", "pan", func() { d.Pan(-1, 0) }),
		bind("<Right>", "pan", func() { d.Pan(1, 0) }),
		bind("<Up>", "pan", func() { d.Pan(0, -1) }),
		bind("<Down>", "pan", func() { d.Pan(0, 1) }),
		bind("<Key-r>", "radius", func() { d.AdjustRadius(1) }),
		bind("<Key-f>", "radius", func() { d.AdjustRadius(-1) }),
		bind("<Key-e>", "alpha", func() { d.AdjustAlpha(1) }),
		bind("<Key-d>", "alpha", func() { d.AdjustAlpha(-1) }),
		bind("<Key-w>", "contrast", func() { d.AdjustContrast(1) }),
		bind("<Key-s>", "contrast", func() { d.AdjustContrast(-1) }),
		bind("<Key-c>", "colour", d.RandomNormalColor),
		bind("<Key-h>", "colour", d.RandomHoverColor),
		bind("<Key-q>", "close", a.exitHandler),
		bind("<Escape>", "close", a.exitHandler),
	}
}
