package surface

import (
	"context"
	"errors"
	"image"
)

// TemplateState returns the current template load status.
func (s *Surface) TemplateState() TemplateState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// TemplateSource returns the identifier passed to the last LoadTemplate.
func (s *Surface) TemplateSource() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.source
}

// LoadTemplate switches the template to src. The state becomes Loading and
// the image decodes in the background; drawing continues meanwhile. A load
// superseded by a later call is discarded when it completes.
func (s *Surface) LoadTemplate(src string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.loadGen++
	gen := s.loadGen
	if s.template != nil && src != s.source {
		s.tmpl.clear()
		s.tmplGen++
	}
	s.source = src
	s.template = nil
	settled := make(chan struct{})
	s.settled = settled
	loader := s.loader
	notify := s.setStateLocked(Loading)
	s.mu.Unlock()
	notify()

	Logger().Debug("[SURFACE] loading template", "session", s.id, "source", src)
	go func() {
		defer close(settled)
		defer cancel()
		img, err := loader.Load(ctx, src)
		s.finishTemplate(gen, src, img, err)
	}()
}

// WaitTemplate blocks until the most recent LoadTemplate settles or ctx is
// done, and returns the resulting state.
func (s *Surface) WaitTemplate(ctx context.Context) (TemplateState, error) {
	s.mu.Lock()
	settled := s.settled
	s.mu.Unlock()
	select {
	case <-settled:
		return s.TemplateState(), nil
	case <-ctx.Done():
		return s.TemplateState(), ctx.Err()
	}
}

func (s *Surface) finishTemplate(gen uint64, src string, img image.Image, err error) {
	s.mu.Lock()
	if s.closed || gen != s.loadGen {
		s.mu.Unlock()
		Logger().Debug("[SURFACE] discarding stale template", "session", s.id, "source", src)
		return
	}
	s.cancel = nil
	if err == nil {
		err = s.applyTemplateLocked(img)
	}
	state := Loaded
	if err != nil {
		state = Failed
		Logger().Warn("[SURFACE] template failed, drawing stays available",
			"session", s.id, "source", src, "err", err)
	}
	notify := s.setStateLocked(state)
	s.mu.Unlock()
	notify()
}

// applyTemplateLocked adopts the decoded image size as the buffer size and
// draws the dimmed tracing guide.
func (s *Surface) applyTemplateLocked(img image.Image) error {
	if img == nil {
		return errors.New("no image decoded")
	}
	b := img.Bounds()
	size := Size{Width: b.Dx(), Height: b.Dy()}
	if !size.Valid() {
		return errors.New("template has no pixels")
	}
	if err := s.resizeLocked(size); err != nil {
		return err
	}
	renderTemplate(s.tmpl, img, s.opacity)
	s.tmplGen++
	s.template = img
	Logger().Info("[SURFACE] template loaded", "session", s.id, "width", size.Width, "height", size.Height)
	return nil
}

// setStateLocked stores state and returns the notification to run once the
// lock is released.
func (s *Surface) setStateLocked(state TemplateState) func() {
	s.state = state
	if s.notify == nil {
		return func() {}
	}
	fn := s.notify
	return func() { fn(state) }
}
