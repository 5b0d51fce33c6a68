// Package surface implements the interactive drawing surface of the studio:
// pointer input recorded as strokes, a dimmed template layer under an ink
// layer, and flattening of both into one exported PNG.
package surface

import (
	"context"
	"fmt"
	"image"
	"sync"

	"github.com/google/uuid"

	"ColoringStudio/internal/templates"
)

// DefaultSize is the buffer size used until a template decodes.
var DefaultSize = Size{Width: 1024, Height: 1024}

// DefaultTemplateOpacity dims the on-screen tracing guide.
const DefaultTemplateOpacity = 0.3

// TemplateState is the load status of the template image.
type TemplateState int

const (
	Loading TemplateState = iota
	Loaded
	Failed
)

func (s TemplateState) String() string {
	switch s {
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("TemplateState(%d)", int(s))
}

// Handle is the capability a drawing surface hands to its owner.
type Handle interface {
	Clear() error
	ExportImage(ctx context.Context) ([]byte, error)
}

// Config configures a new Surface.
type Config struct {
	// Size is the buffer size before a template decodes. DefaultSize when zero.
	Size Size
	// TemplateOpacity is the alpha of the on-screen template layer.
	// DefaultTemplateOpacity when zero.
	TemplateOpacity float64
	// Loader decodes templates. A SourceLoader without root when nil.
	Loader templates.Loader
	// Brush is the initial active brush. DefaultBrush when zero.
	Brush Brush
	// OnTemplateState is called after every template state change. It runs
	// without the surface lock held.
	OnTemplateState func(TemplateState)
}

// Surface is one drawing session. All methods are safe for concurrent use;
// calls are serialized so the session behaves like a single event loop.
type Surface struct {
	mu sync.Mutex

	id      string
	opacity float64
	loader  templates.Loader
	notify  func(TemplateState)

	rec   *Recorder
	brush Brush
	box   Box

	size     Size
	ink      *layer
	tmpl     *layer
	inkDirty bool
	inkGen   uint64
	tmplGen  uint64

	state    TemplateState
	source   string
	template image.Image // decoded at full strength, used by export
	loadGen  uint64
	cancel   context.CancelFunc
	settled  chan struct{}
	closed   bool
}

var _ Handle = (*Surface)(nil)

// New allocates both layers at the configured size. The template state is
// Loading until LoadTemplate settles.
func New(cfg Config) *Surface {
	size := cfg.Size
	if !size.Valid() {
		size = DefaultSize
	}
	opacity := cfg.TemplateOpacity
	if opacity <= 0 {
		opacity = DefaultTemplateOpacity
	}
	loader := cfg.Loader
	if loader == nil {
		loader = templates.NewLoader("")
	}
	brush := cfg.Brush
	if brush.Color == nil && brush.Width == 0 {
		brush = DefaultBrush()
	}
	s := &Surface{
		id:      uuid.NewString(),
		opacity: opacity,
		loader:  loader,
		notify:  cfg.OnTemplateState,
		brush:   brush,
		size:    size,
		ink:     newLayer(size),
		tmpl:    newLayer(size),
		state:   Loading,
		settled: make(chan struct{}),
	}
	s.rec = NewRecorder(s.activeBrush)
	Logger().Debug("[SURFACE] session opened", "session", s.id, "width", size.Width, "height", size.Height)
	return s
}

// ID identifies the session in logs.
func (s *Surface) ID() string {
	return s.id
}

// activeBrush is called by the recorder with s.mu held.
func (s *Surface) activeBrush() Brush {
	return s.brush
}

// SetBrush changes the brush used for points appended from now on.
func (s *Surface) SetBrush(b Brush) {
	s.mu.Lock()
	s.brush = b
	s.mu.Unlock()
}

// Brush returns the active brush.
func (s *Surface) Brush() Brush {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.brush
}

// SetViewport records where the layers are displayed in device space.
func (s *Surface) SetViewport(box Box) {
	s.mu.Lock()
	s.box = box
	s.mu.Unlock()
}

// Size returns the current buffer size.
func (s *Surface) Size() Size {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.size
}

// Drawing reports whether a pointer is captured.
func (s *Surface) Drawing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rec.Drawing()
}

// History returns a copy of the stroke history.
func (s *Surface) History() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rec.History()
}

// PointerDown maps the device point p and starts a stroke. The event is
// dropped when the viewport is not measurable or the surface is closed.
func (s *Surface) PointerDown(id PointerID, p Point) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	bp, ok := s.mapLocked(p)
	if !ok {
		return false
	}
	return s.touch(s.rec.PointerDown(id, bp))
}

// PointerMove maps p and extends the stroke owned by id.
func (s *Surface) PointerMove(id PointerID, p Point) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.rec.Drawing() {
		return false
	}
	bp, ok := s.mapLocked(p)
	if !ok {
		return false
	}
	return s.touch(s.rec.PointerMove(id, bp))
}

// PointerUp ends the stroke owned by id.
func (s *Surface) PointerUp(id PointerID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touch(s.rec.PointerUp(id))
}

// PointerCancel ends the stroke owned by id after a device interruption.
func (s *Surface) PointerCancel(id PointerID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touch(s.rec.PointerCancel(id))
}

// Clear empties the stroke history.
func (s *Surface) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSurfaceNotReady
	}
	s.touch(s.rec.Clear())
	return nil
}

func (s *Surface) mapLocked(p Point) (Point, bool) {
	if s.closed {
		return Point{}, false
	}
	return MapToBuffer(p, s.box, s.size)
}

// touch marks the ink layer dirty when changed is true.
func (s *Surface) touch(changed bool) bool {
	if changed {
		s.inkDirty = true
	}
	return changed
}

// Render redraws the ink layer if anything changed since the last call and
// reports whether it did.
func (s *Surface) Render() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false, ErrSurfaceNotReady
	}
	return s.renderLocked()
}

func (s *Surface) renderLocked() (bool, error) {
	if !s.inkDirty {
		return false, nil
	}
	if err := renderInk(s.ink, s.rec.entries()); err != nil {
		return false, fmt.Errorf("render ink: %w", err)
	}
	s.inkDirty = false
	s.inkGen++
	return true, nil
}

// Layers returns snapshots of the ink and template layers together with
// generation counters that change whenever the respective layer is redrawn.
func (s *Surface) Layers() (ink *image.RGBA, inkGen uint64, tmpl *image.RGBA, tmplGen uint64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, 0, nil, 0, ErrSurfaceNotReady
	}
	return s.ink.image(), s.inkGen, s.tmpl.image(), s.tmplGen, nil
}

// resizeLocked resizes both layers to size and invalidates the ink layer.
// Recorded points keep their coordinates.
func (s *Surface) resizeLocked(size Size) error {
	if size == s.size {
		return nil
	}
	if err := s.ink.resize(size); err != nil {
		return err
	}
	if err := s.tmpl.resize(size); err != nil {
		return err
	}
	s.size = size
	s.inkDirty = true
	s.tmplGen++
	return nil
}

// Close releases the layers and abandons any pending template load.
// Further exports and clears fail with ErrSurfaceNotReady.
func (s *Surface) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.ink.close()
	s.tmpl.close()
	s.template = nil
	Logger().Debug("[SURFACE] session closed", "session", s.id)
	return nil
}
