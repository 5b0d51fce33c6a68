package surface

import "image"

// Point is a position in either device space or buffer space.
type Point struct {
	X, Y float64
}

// Size is the pixel size of the backing buffers.
type Size struct {
	Width  int
	Height int
}

// Rect returns the buffer bounds anchored at the origin.
func (s Size) Rect() image.Rectangle {
	return image.Rect(0, 0, s.Width, s.Height)
}

// Valid reports whether both dimensions are positive.
func (s Size) Valid() bool {
	return s.Width > 0 && s.Height > 0
}

// Box is the bounding box of the displayed element in device space.
type Box struct {
	Left, Top     float64
	Width, Height float64
}

// Measurable reports whether the box can be used for mapping.
func (b Box) Measurable() bool {
	return b.Width > 0 && b.Height > 0
}

// Center returns the middle of the box.
func (b Box) Center() Point {
	return Point{X: b.Left + b.Width/2, Y: b.Top + b.Height/2}
}

// MapToBuffer converts a device-space point into buffer pixel coordinates
// using independent X/Y scale factors between the displayed box and the
// buffer. It returns false when the box is not measurable yet, in which case
// the event must be dropped.
func MapToBuffer(p Point, box Box, buf Size) (Point, bool) {
	if !box.Measurable() || !buf.Valid() {
		return Point{}, false
	}
	scaleX := float64(buf.Width) / box.Width
	scaleY := float64(buf.Height) / box.Height
	return Point{
		X: (p.X - box.Left) * scaleX,
		Y: (p.Y - box.Top) * scaleY,
	}, true
}

// FitBox returns the largest box with the buffer's aspect ratio that fits
// inside container, centered. Hosts display the layers in this box and pass
// it to MapToBuffer.
func FitBox(container Box, buf Size) Box {
	if !container.Measurable() || !buf.Valid() {
		return Box{Left: container.Left, Top: container.Top}
	}
	scale := container.Width / float64(buf.Width)
	if s := container.Height / float64(buf.Height); s < scale {
		scale = s
	}
	w := float64(buf.Width) * scale
	h := float64(buf.Height) * scale
	return Box{
		Left:   container.Left + (container.Width-w)/2,
		Top:    container.Top + (container.Height-h)/2,
		Width:  w,
		Height: h,
	}
}
