package view

import (
	"github.com/soocke/dotcount/ui/theme"

	//lint:ignore ST1001 Dot import for concise Tk widget DSL.
	. "modernc.org/tk9.0"
)

// StatusBar shows the last status message and the dot count line.
type StatusBar interface {
	SetStatusLabel(text string)
	SetCountLabel(text string)
}

type statusBar struct {
	statusLbl *TLabelWidget
	countLbl  *TLabelWidget
}

// NewStatusBar creates the message and count labels in a grid layout.
// The count label is placed at (row, startCol) and the message label at
// (row, startCol+1), spanning span columns.
func NewStatusBar(row, startCol, span int) StatusBar {
	s := &statusBar{
		countLbl:  TLabel(Style(theme.StyleStatusLabel), Txt("Dots: 0")),
		statusLbl: TLabel(Txt("Ready"), Anchor("w")),
	}
	Grid(s.countLbl, Row(row), Column(startCol), Sticky("w"), Padx("0.4m"), Pady("0.3m"))
	Grid(s.statusLbl, Row(row), Column(startCol+1), Columnspan(span), Sticky("we"), Padx("0.4m"), Pady("0.3m"))
	return s
}

// SetStatusLabel updates the message text.
func (s *statusBar) SetStatusLabel(text string) {
	if s == nil || s.statusLbl == nil {
		return
	}
	s.statusLbl.Configure(Txt(text))
}

// SetCountLabel updates the count text.
func (s *statusBar) SetCountLabel(text string) {
	if s == nil || s.countLbl == nil {
		return
	}
	s.countLbl.Configure(Txt(text))
}
