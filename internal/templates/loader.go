// Package templates resolves template identifiers to decoded line-art images.
package templates

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// DefaultMaxBytes bounds how much of a template source is read.
const DefaultMaxBytes = 32 << 20

var (
	// ErrNotImage is returned when the source content is not a known image type.
	ErrNotImage = errors.New("template is not an image")

	// ErrFetch is returned when a remote template cannot be retrieved.
	ErrFetch = errors.New("fetch template")
)

// Loader resolves a template identifier to a decoded image.
type Loader interface {
	Load(ctx context.Context, src string) (image.Image, error)
}

// SourceLoader loads templates from local files or http(s) URLs.
type SourceLoader struct {
	// Root is prepended to relative file paths.
	Root string
	// Client performs remote fetches. http.DefaultClient when nil.
	Client *http.Client
	// MaxBytes caps the source size. DefaultMaxBytes when zero.
	MaxBytes int64
}

var _ Loader = (*SourceLoader)(nil)

// NewLoader returns a loader resolving relative paths against root.
func NewLoader(root string) *SourceLoader {
	return &SourceLoader{Root: root}
}

// Load reads and decodes src.
func (l *SourceLoader) Load(ctx context.Context, src string) (image.Image, error) {
	data, err := l.read(ctx, src)
	if err != nil {
		return nil, err
	}
	img, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", src, err)
	}
	return img, nil
}

// Resolve returns the file path or URL that src refers to. With a Root set,
// slash-rooted paths are web-style and resolve under Root; use a file:// URL
// for an absolute file system path.
func (l *SourceLoader) Resolve(src string) string {
	if isRemote(src) {
		return src
	}
	if after, ok := strings.CutPrefix(src, "file://"); ok {
		return after
	}
	if l.Root != "" && (strings.HasPrefix(src, "/") || !filepath.IsAbs(src)) {
		return filepath.Join(l.Root, filepath.FromSlash(strings.TrimPrefix(src, "/")))
	}
	return src
}

func (l *SourceLoader) read(ctx context.Context, src string) ([]byte, error) {
	if src == "" {
		return nil, errors.New("empty template source")
	}
	limit := l.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	target := l.Resolve(src)
	if isRemote(target) {
		return l.fetch(ctx, target, limit)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(target)
	if err != nil {
		return nil, fmt.Errorf("open template: %w", err)
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, limit))
}

func (l *SourceLoader) fetch(ctx context.Context, target string, limit int64) ([]byte, error) {
	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s: %s", ErrFetch, target, resp.Status)
	}
	return io.ReadAll(io.LimitReader(resp.Body, limit))
}

// Decode sniffs data and decodes it when it is a supported image.
func Decode(data []byte) (image.Image, error) {
	if !filetype.IsImage(data) {
		return nil, ErrNotImage
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode template: %w", err)
	}
	return img, nil
}

func isRemote(src string) bool {
	u, err := url.Parse(src)
	if err != nil {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}
