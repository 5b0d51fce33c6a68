package ui

import (
	"context"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"ColoringStudio/internal/surface"
)

var tableColor = color.NRGBA{R: 0xf3, G: 0xec, B: 0xe2, A: 0xff}

// SurfaceWidget displays a drawing surface fitted into its area and feeds
// it mouse input.
type SurfaceWidget struct {
	widget.BaseWidget
	surface *surface.Surface
	rate    int

	// OnError receives failed redraws.
	OnError func(error)

	// layer images, touched on the UI goroutine only
	tmpl    *canvas.Image
	ink     *canvas.Image
	inkGen  uint64
	tmplGen uint64

	stop context.CancelFunc
}

var _ fyne.Widget = (*SurfaceWidget)(nil)
var _ fyne.Draggable = (*SurfaceWidget)(nil)
var _ desktop.Mouseable = (*SurfaceWidget)(nil)

// NewSurfaceWidget wraps s. frameRate is the paint tick frequency.
func NewSurfaceWidget(s *surface.Surface, frameRate int) *SurfaceWidget {
	w := &SurfaceWidget{
		surface: s,
		rate:    frameRate,
		tmpl:    canvas.NewImageFromImage(nil),
		ink:     canvas.NewImageFromImage(nil),
	}
	for _, img := range []*canvas.Image{w.tmpl, w.ink} {
		img.FillMode = canvas.ImageFillStretch
		img.ScaleMode = canvas.ImageScaleSmooth
	}
	w.ExtendBaseWidget(w)
	return w
}

// Surface returns the wrapped surface.
func (w *SurfaceWidget) Surface() *surface.Surface { return w.surface }

// Start runs the paint ticker until Stop.
func (w *SurfaceWidget) Start() {
	if w.stop != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	w.stop = cancel
	frames := &surface.Frames{
		Target:  w.surface,
		Rate:    w.rate,
		OnFrame: func() { fyne.Do(w.SyncLayers) },
		OnError: func(err error) {
			if w.OnError != nil {
				w.OnError(err)
			}
		},
	}
	go frames.Run(ctx)
}

// Stop ends the paint ticker.
func (w *SurfaceWidget) Stop() {
	if w.stop != nil {
		w.stop()
		w.stop = nil
	}
}

// SyncLayers pulls redrawn layers from the surface. It must run on the UI
// goroutine.
func (w *SurfaceWidget) SyncLayers() {
	inkChanged, tmplChanged := w.pull()
	switch {
	case tmplChanged:
		w.Refresh()
	case inkChanged:
		w.ink.Refresh()
	}
}

// pull swaps in layer snapshots whose generation moved.
func (w *SurfaceWidget) pull() (inkChanged, tmplChanged bool) {
	ink, inkGen, tmpl, tmplGen, err := w.surface.Layers()
	if err != nil {
		return false, false
	}
	if inkGen != w.inkGen || w.ink.Image == nil {
		w.inkGen = inkGen
		w.ink.Image = ink
		inkChanged = true
	}
	if tmplGen != w.tmplGen || w.tmpl.Image == nil {
		w.tmplGen = tmplGen
		w.tmpl.Image = tmpl
		tmplChanged = true
	}
	return inkChanged, tmplChanged
}

func (w *SurfaceWidget) MouseDown(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	w.surface.PointerDown(surface.MousePointer, toPoint(e.Position))
}

func (w *SurfaceWidget) MouseUp(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	w.surface.PointerUp(surface.MousePointer)
}

func (w *SurfaceWidget) Dragged(e *fyne.DragEvent) {
	w.surface.PointerMove(surface.MousePointer, toPoint(e.Position))
}

func (w *SurfaceWidget) DragEnd() {
	w.surface.PointerUp(surface.MousePointer)
}

func toPoint(p fyne.Position) surface.Point {
	return surface.Point{X: float64(p.X), Y: float64(p.Y)}
}

func (w *SurfaceWidget) CreateRenderer() fyne.WidgetRenderer {
	r := &surfaceRenderer{
		w:     w,
		table: canvas.NewRectangle(tableColor),
		paper: canvas.NewRectangle(color.White),
	}
	w.pull()
	return r
}

type surfaceRenderer struct {
	w     *SurfaceWidget
	table *canvas.Rectangle
	paper *canvas.Rectangle
}

func (r *surfaceRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.table, r.paper, r.w.tmpl, r.w.ink}
}

// Layout fits the buffer into size and tells the surface where it is shown
// so pointer positions map onto buffer pixels.
func (r *surfaceRenderer) Layout(size fyne.Size) {
	r.table.Resize(size)
	box := surface.FitBox(surface.Box{Width: float64(size.Width), Height: float64(size.Height)}, r.w.surface.Size())
	pos := fyne.NewPos(float32(box.Left), float32(box.Top))
	fit := fyne.NewSize(float32(box.Width), float32(box.Height))
	for _, o := range []fyne.CanvasObject{r.paper, r.w.tmpl, r.w.ink} {
		o.Move(pos)
		o.Resize(fit)
	}
	r.w.surface.SetViewport(box)
}

func (r *surfaceRenderer) MinSize() fyne.Size { return fyne.NewSize(300, 300) }

func (r *surfaceRenderer) Refresh() {
	r.Layout(r.w.Size())
	r.w.tmpl.Refresh()
	r.w.ink.Refresh()
	canvas.Refresh(r.w)
}

func (r *surfaceRenderer) Destroy() {}
