package surface

import "image/color"

// StrokePoint is one recorded input sample in buffer coordinates.
type StrokePoint struct {
	X, Y  float64
	Color color.NRGBA
	Width float64
}

// Entry is one element of the stroke history: a point, or a separator
// marking the pen-up that ends a stroke.
type Entry struct {
	Point     StrokePoint
	Separator bool
}

// PointerID identifies the input device holding the capture.
type PointerID int

// MousePointer is the id hosts use for a single mouse.
const MousePointer PointerID = 0

// BrushSource supplies the brush active at the instant a point is appended.
type BrushSource func() Brush

// Recorder accumulates pointer input into an append-only stroke history.
// It is not safe for concurrent use; Surface serializes access.
type Recorder struct {
	history []Entry
	drawing bool
	pointer PointerID
	brush   BrushSource
}

// NewRecorder returns an idle recorder with an empty history.
func NewRecorder(brush BrushSource) *Recorder {
	if brush == nil {
		brush = DefaultBrush
	}
	return &Recorder{brush: brush}
}

// Drawing reports whether a pointer is currently captured.
func (r *Recorder) Drawing() bool {
	return r.drawing
}

// Len returns the number of history entries, separators included.
func (r *Recorder) Len() int {
	return len(r.history)
}

// History returns a copy of the stroke history.
func (r *Recorder) History() []Entry {
	out := make([]Entry, len(r.history))
	copy(out, r.history)
	return out
}

// entries exposes the live history to the renderer without copying.
func (r *Recorder) entries() []Entry {
	return r.history
}

// PointerDown starts a stroke at p and captures id. A second pointer going
// down while one is captured is ignored.
func (r *Recorder) PointerDown(id PointerID, p Point) bool {
	if r.drawing {
		return false
	}
	r.drawing = true
	r.pointer = id
	r.appendPoint(p)
	return true
}

// PointerMove appends p when id holds the capture.
func (r *Recorder) PointerMove(id PointerID, p Point) bool {
	if !r.drawing || id != r.pointer {
		return false
	}
	r.appendPoint(p)
	return true
}

// PointerUp ends the stroke owned by id and releases the capture.
func (r *Recorder) PointerUp(id PointerID) bool {
	if !r.drawing || id != r.pointer {
		return false
	}
	r.drawing = false
	return r.appendSeparator()
}

// PointerCancel behaves like PointerUp; a device interruption still ends
// the stroke.
func (r *Recorder) PointerCancel(id PointerID) bool {
	return r.PointerUp(id)
}

// Clear empties the history. The capture state is left as is.
func (r *Recorder) Clear() bool {
	changed := len(r.history) > 0
	r.history = nil
	return changed
}

func (r *Recorder) appendPoint(p Point) {
	c, w := r.brush().normalize()
	r.history = append(r.history, Entry{Point: StrokePoint{X: p.X, Y: p.Y, Color: c, Width: w}})
}

// appendSeparator adds a pen-up mark unless it would lead the history or
// follow another separator.
func (r *Recorder) appendSeparator() bool {
	n := len(r.history)
	if n == 0 || r.history[n-1].Separator {
		return false
	}
	r.history = append(r.history, Entry{Separator: true})
	return true
}

// Strokes counts the completed strokes in the history.
func (r *Recorder) Strokes() int {
	n := 0
	for _, e := range r.history {
		if e.Separator {
			n++
		}
	}
	return n
}
