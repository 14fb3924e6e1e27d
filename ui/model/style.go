package model

import "image/color"

// Style describes how markers are drawn. It is a value owned by the display
// model and passed down to renderers; markers never carry their own defaults.
type Style struct {
	Normal color.NRGBA
	Hover  color.NRGBA
	Alpha  uint8
	Radius int
}

// DefaultStyle mirrors the config defaults: blue markers, red on hover.
func DefaultStyle() Style {
	return Style{
		Normal: color.NRGBA{R: 0, G: 0, B: 255, A: 255},
		Hover:  color.NRGBA{R: 255, G: 0, B: 0, A: 255},
		Alpha:  180,
		Radius: 1,
	}
}

// Fill returns the marker colour with the style alpha applied.
func (s Style) Fill(hovering bool) color.NRGBA {
	c := s.Normal
	if hovering {
		c = s.Hover
	}
	c.A = s.Alpha
	return c
}

// EffectiveRadius is the marker radius in image pixels; hovered markers double.
func (s Style) EffectiveRadius(hovering bool) int {
	r := s.Radius
	if r < 1 {
		r = 1
	}
	if hovering {
		r *= 2
	}
	return r
}
