package surface

import (
	"fmt"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// Stroke width bounds accepted from the brush controls.
const (
	MinWidth = 2.0
	MaxWidth = 30.0
)

// White is the background color. Erasing paints with it.
var White = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

// Brush is the active paint selection sampled for every recorded point.
type Brush struct {
	Color color.Color
	Width float64
}

// DefaultBrush is red at width 10.
func DefaultBrush() Brush {
	return Brush{Color: color.NRGBA{R: 0xff, A: 0xff}, Width: 10}
}

// Eraser returns b painting with the background color.
func (b Brush) Eraser() Brush {
	b.Color = White
	return b
}

// normalize clamps the width and resolves a nil color to black.
func (b Brush) normalize() (color.NRGBA, float64) {
	w := b.Width
	switch {
	case w < MinWidth:
		w = MinWidth
	case w > MaxWidth:
		w = MaxWidth
	}
	if b.Color == nil {
		return color.NRGBA{A: 0xff}, w
	}
	return color.NRGBAModel.Convert(b.Color).(color.NRGBA), w
}

// ParseColor parses a "#RGB" or "#RRGGBB" hex color into an opaque color.
func ParseColor(s string) (color.NRGBA, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 0xff}, nil
}

// HexColor formats c as "#RRGGBB".
func HexColor(c color.Color) string {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return fmt.Sprintf("#%02X%02X%02X", n.R, n.G, n.B)
}
