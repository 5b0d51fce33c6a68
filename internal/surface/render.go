package surface

import (
	"image"
	"math"

	"github.com/gogpu/gg"
	"golang.org/x/image/draw"
)

// painter receives the primitives produced by walking a stroke history.
type painter interface {
	Segment(from, to StrokePoint) error
	Dot(p StrokePoint) error
}

// walkHistory emits a segment for every pair of adjacent points and a dot
// for every point followed by a separator or by the end of the history.
// Entries are visited strictly in append order.
func walkHistory(history []Entry, p painter) error {
	for i, e := range history {
		if e.Separator {
			continue
		}
		if i+1 < len(history) && !history[i+1].Separator {
			if err := p.Segment(e.Point, history[i+1].Point); err != nil {
				return err
			}
			continue
		}
		if err := p.Dot(e.Point); err != nil {
			return err
		}
	}
	return nil
}

// layer is one raster buffer backed by a gg context.
type layer struct {
	dc *gg.Context
}

func newLayer(size Size) *layer {
	return &layer{dc: gg.NewContext(size.Width, size.Height)}
}

func (l *layer) size() Size {
	return Size{Width: l.dc.Width(), Height: l.dc.Height()}
}

// resize reallocates the pixels when size differs. Content is dropped.
func (l *layer) resize(size Size) error {
	return l.dc.Resize(size.Width, size.Height)
}

func (l *layer) clear() {
	l.dc.ClearPath()
	l.dc.Clear()
}

// image returns a snapshot of the layer pixels.
func (l *layer) image() *image.RGBA {
	src := l.dc.Image()
	if img, ok := src.(*image.RGBA); ok {
		return img
	}
	out := image.NewRGBA(src.Bounds())
	draw.Draw(out, out.Bounds(), src, src.Bounds().Min, draw.Src)
	return out
}

func (l *layer) close() {
	_ = l.dc.Close()
}

// inkPainter draws round-capped segments and dots onto a gg context.
type inkPainter struct {
	dc *gg.Context
}

func (p inkPainter) Segment(from, to StrokePoint) error {
	if from.X == to.X && from.Y == to.Y {
		// a zero-length round-capped segment covers the same pixels as a dot
		return p.Dot(from)
	}
	p.dc.SetColor(from.Color)
	p.dc.SetLineWidth(from.Width)
	p.dc.SetLineCap(gg.LineCapRound)
	p.dc.SetLineJoin(gg.LineJoinRound)
	p.dc.MoveTo(from.X, from.Y)
	p.dc.LineTo(to.X, to.Y)
	return p.dc.Stroke()
}

func (p inkPainter) Dot(pt StrokePoint) error {
	p.dc.SetColor(pt.Color)
	p.dc.DrawCircle(pt.X, pt.Y, math.Max(pt.Width/2, 0.5))
	return p.dc.Fill()
}

// renderInk clears the ink layer to transparent and replays the history.
func renderInk(l *layer, history []Entry) error {
	l.clear()
	return walkHistory(history, inkPainter{dc: l.dc})
}

// renderTemplate clears the template layer and draws img at opacity.
func renderTemplate(l *layer, img image.Image, opacity float64) {
	l.clear()
	if opacity <= 0 {
		return
	}
	b := img.Bounds()
	l.dc.DrawImageEx(gg.ImageBufFromImage(img), gg.DrawImageOptions{
		X:             0,
		Y:             0,
		DstWidth:      float64(b.Dx()),
		DstHeight:     float64(b.Dy()),
		Interpolation: gg.InterpBilinear,
		Opacity:       math.Min(opacity, 1),
		BlendMode:     gg.BlendNormal,
	})
}
