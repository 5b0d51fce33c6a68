package surface

import (
	"context"
	"errors"
	"time"
)

// DefaultFrameRate is the paint tick frequency used by Frames.
const DefaultFrameRate = 60

// Renderer redraws pending changes and reports whether it did.
type Renderer interface {
	Render() (bool, error)
}

// Frames batches ink redraws into at most one per paint tick. Mutations only
// mark the surface dirty; the ticker performs the redraw and then notifies
// the host.
type Frames struct {
	Target  Renderer
	Rate    int
	OnFrame func()
	OnError func(error)
}

// Run ticks until ctx is done or the target reports ErrSurfaceNotReady.
func (f *Frames) Run(ctx context.Context) {
	rate := f.Rate
	if rate <= 0 {
		rate = DefaultFrameRate
	}
	ticker := time.NewTicker(time.Second / time.Duration(rate))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !f.Tick() {
				return
			}
		}
	}
}

// Tick performs one paint tick. It returns false once the target is gone.
func (f *Frames) Tick() bool {
	drawn, err := f.Target.Render()
	if errors.Is(err, ErrSurfaceNotReady) {
		return false
	}
	if err != nil {
		if f.OnError != nil {
			f.OnError(err)
		}
		return true
	}
	if drawn && f.OnFrame != nil {
		f.OnFrame()
	}
	return true
}
