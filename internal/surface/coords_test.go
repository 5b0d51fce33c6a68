package surface

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapToBufferCenterIsScaleInvariant(t *testing.T) {
	tests := []struct {
		name string
		box  Box
		buf  Size
	}{
		{"identity", Box{Width: 100, Height: 100}, Size{100, 100}},
		{"downscaled display", Box{Left: 12, Top: 40, Width: 320, Height: 320}, Size{1024, 1024}},
		{"upscaled display", Box{Left: 3, Top: 7, Width: 900, Height: 450}, Size{512, 512}},
		{"odd ratio", Box{Left: 0.5, Top: 1.25, Width: 333, Height: 71}, Size{1000, 37}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := MapToBuffer(tt.box.Center(), tt.box, tt.buf)
			require.True(t, ok)
			assert.InDelta(t, float64(tt.buf.Width)/2, got.X, 1e-9)
			assert.InDelta(t, float64(tt.buf.Height)/2, got.Y, 1e-9)
		})
	}
}

func TestMapToBufferIndependentAxes(t *testing.T) {
	box := Box{Left: 10, Top: 20, Width: 200, Height: 100}
	got, ok := MapToBuffer(Point{X: 60, Y: 45}, box, Size{1000, 1000})
	require.True(t, ok)
	assert.InDelta(t, 250, got.X, 1e-9)
	assert.InDelta(t, 250, got.Y, 1e-9)
}

func TestMapToBufferUnmeasurable(t *testing.T) {
	_, ok := MapToBuffer(Point{X: 1, Y: 1}, Box{}, Size{100, 100})
	assert.False(t, ok)

	_, ok = MapToBuffer(Point{X: 1, Y: 1}, Box{Width: 10, Height: 0}, Size{100, 100})
	assert.False(t, ok)
}

func TestFitBox(t *testing.T) {
	got := FitBox(Box{Left: 0, Top: 0, Width: 400, Height: 200}, Size{1024, 1024})
	assert.Equal(t, Box{Left: 100, Top: 0, Width: 200, Height: 200}, got)

	got = FitBox(Box{Left: 5, Top: 5, Width: 100, Height: 300}, Size{200, 100})
	assert.Equal(t, Box{Left: 5, Top: 130, Width: 100, Height: 50}, got)

	assert.False(t, FitBox(Box{}, Size{10, 10}).Measurable())
}
