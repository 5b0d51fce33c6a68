package surface

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"

	"golang.org/x/image/draw"
)

// Flatten composites, bottom to top, an opaque white base, the template at
// full opacity when it is loaded, and the ink layer. Pending ink changes are
// rendered first.
func (s *Surface) Flatten() (*image.RGBA, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrSurfaceNotReady
	}
	if _, err := s.renderLocked(); err != nil {
		return nil, err
	}

	out := image.NewRGBA(s.size.Rect())
	draw.Draw(out, out.Bounds(), image.NewUniform(White), image.Point{}, draw.Src)
	// the retained source, never the dimmed on-screen layer
	if s.state == Loaded && s.template != nil {
		draw.Draw(out, out.Bounds(), s.template, s.template.Bounds().Min, draw.Over)
	}
	draw.Draw(out, out.Bounds(), s.ink.image(), image.Point{}, draw.Over)
	return out, nil
}

// ExportImage flattens the surface and encodes it as PNG. It returns either
// a complete image or an error.
func (s *Surface) ExportImage(ctx context.Context) ([]byte, error) {
	img, err := s.Flatten()
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := encodePNG(img)
	if err != nil {
		return nil, err
	}
	Logger().Debug("[SURFACE] exported image", "session", s.id, "bytes", len(data))
	return data, nil
}

var pngEncoder = png.Encoder{CompressionLevel: png.DefaultCompression}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := pngEncoder.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncode, err)
	}
	return buf.Bytes(), nil
}
