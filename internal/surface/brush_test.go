package surface

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#F00")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 0xff, A: 0xff}, c)

	c, err = ParseColor("#8B4513")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 0x8b, G: 0x45, B: 0x13, A: 0xff}, c)
	assert.Equal(t, "#8B4513", HexColor(c))

	_, err = ParseColor("red")
	assert.Error(t, err)
}

func TestEraserPaintsWhite(t *testing.T) {
	b := DefaultBrush().Eraser()
	assert.Equal(t, White, b.Color)
	assert.Equal(t, 10.0, b.Width)
}
