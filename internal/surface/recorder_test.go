package surface

import (
	"image/color"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedBrush(c color.Color, w float64) BrushSource {
	return func() Brush { return Brush{Color: c, Width: w} }
}

func TestRecorderSeparatorsMatchCompletedStrokes(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for run := 0; run < 50; run++ {
		r := NewRecorder(nil)
		completed := 0
		for i := 0; i < 200; i++ {
			p := Point{X: rng.Float64() * 100, Y: rng.Float64() * 100}
			switch rng.IntN(4) {
			case 0:
				r.PointerDown(MousePointer, p)
			case 1, 2:
				r.PointerMove(MousePointer, p)
			case 3:
				if r.PointerUp(MousePointer) {
					completed++
				}
			}
		}
		assert.Equal(t, completed, r.Strokes())
	}
}

func TestRecorderTapAndStroke(t *testing.T) {
	r := NewRecorder(fixedBrush(color.NRGBA{R: 0xff, A: 0xff}, 10))

	require.True(t, r.PointerDown(MousePointer, Point{X: 1, Y: 2}))
	assert.True(t, r.Drawing())
	require.True(t, r.PointerUp(MousePointer))
	assert.False(t, r.Drawing())

	h := r.History()
	require.Len(t, h, 2)
	assert.Equal(t, StrokePoint{X: 1, Y: 2, Color: color.NRGBA{R: 0xff, A: 0xff}, Width: 10}, h[0].Point)
	assert.True(t, h[1].Separator)
}

func TestRecorderIdleEventsAreNoops(t *testing.T) {
	r := NewRecorder(nil)
	assert.False(t, r.PointerMove(MousePointer, Point{}))
	assert.False(t, r.PointerUp(MousePointer))
	assert.False(t, r.PointerCancel(MousePointer))
	assert.Zero(t, r.Len())
}

func TestRecorderDuplicateMovesAreKept(t *testing.T) {
	r := NewRecorder(nil)
	r.PointerDown(MousePointer, Point{X: 5, Y: 5})
	r.PointerMove(MousePointer, Point{X: 5, Y: 5})
	r.PointerMove(MousePointer, Point{X: 5, Y: 5})
	assert.Equal(t, 3, r.Len())
}

func TestRecorderIgnoresSecondPointer(t *testing.T) {
	r := NewRecorder(nil)
	require.True(t, r.PointerDown(1, Point{X: 1, Y: 1}))
	assert.False(t, r.PointerDown(2, Point{X: 9, Y: 9}))
	assert.False(t, r.PointerMove(2, Point{X: 9, Y: 9}))
	assert.False(t, r.PointerUp(2))
	assert.True(t, r.Drawing())

	require.True(t, r.PointerMove(1, Point{X: 2, Y: 2}))
	require.True(t, r.PointerCancel(1))
	assert.False(t, r.Drawing())
	assert.Equal(t, 3, r.Len())
}

func TestRecorderClearFromBothStates(t *testing.T) {
	r := NewRecorder(nil)
	r.PointerDown(MousePointer, Point{})
	r.PointerMove(MousePointer, Point{X: 1})
	r.Clear()
	assert.Zero(t, r.Len())
	assert.True(t, r.Drawing(), "clear keeps the capture")

	// the pen-up after a clear has no point to terminate
	assert.False(t, r.PointerUp(MousePointer))
	assert.Zero(t, r.Len())

	r.PointerDown(MousePointer, Point{})
	r.PointerUp(MousePointer)
	r.Clear()
	assert.Zero(t, r.Len())
	assert.False(t, r.Drawing())
}

func TestRecorderSamplesBrushPerPoint(t *testing.T) {
	active := Brush{Color: color.NRGBA{R: 0xff, A: 0xff}, Width: 10}
	r := NewRecorder(func() Brush { return active })

	r.PointerDown(MousePointer, Point{X: 0})
	r.PointerMove(MousePointer, Point{X: 1})
	active = Brush{Color: color.NRGBA{B: 0xff, A: 0xff}, Width: 20}
	r.PointerMove(MousePointer, Point{X: 2})
	r.PointerUp(MousePointer)

	h := r.History()
	require.Len(t, h, 4)
	assert.Equal(t, uint8(0xff), h[0].Point.Color.R)
	assert.Equal(t, uint8(0xff), h[1].Point.Color.R)
	assert.Equal(t, 10.0, h[1].Point.Width)
	assert.Equal(t, uint8(0xff), h[2].Point.Color.B)
	assert.Equal(t, 20.0, h[2].Point.Width)
}

func TestRecorderClampsWidth(t *testing.T) {
	r := NewRecorder(fixedBrush(color.Black, 100))
	r.PointerDown(MousePointer, Point{})
	assert.Equal(t, MaxWidth, r.History()[0].Point.Width)

	r = NewRecorder(fixedBrush(nil, -3))
	r.PointerDown(MousePointer, Point{})
	assert.Equal(t, MinWidth, r.History()[0].Point.Width)
	assert.Equal(t, color.NRGBA{A: 0xff}, r.History()[0].Point.Color)
}
