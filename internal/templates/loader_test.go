package templates

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.Black)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestLoadFileRelativeToRoot(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hero-1-template.png"), pngBytes(t, 64, 32), 0o644))

	l := NewLoader(dir)
	img, err := l.Load(context.Background(), "/hero-1-template.png")
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 64, 32), img.Bounds())

	img, err = l.Load(context.Background(), "file://"+filepath.Join(dir, "hero-1-template.png"))
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := NewLoader(t.TempDir()).Load(context.Background(), "nope.png")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadRejectsNonImage(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.png"), []byte("just some text"), 0o644))

	_, err := NewLoader(dir).Load(context.Background(), "notes.png")
	assert.ErrorIs(t, err, ErrNotImage)
}

func TestLoadURL(t *testing.T) {
	data := pngBytes(t, 10, 20)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/assets/hero.png" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(data)
	}))
	defer srv.Close()

	l := &SourceLoader{Client: srv.Client()}
	img, err := l.Load(context.Background(), srv.URL+"/assets/hero.png")
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 10, 20), img.Bounds())

	_, err = l.Load(context.Background(), srv.URL+"/assets/other.png")
	assert.ErrorIs(t, err, ErrFetch)
}

func TestLoadHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewLoader(t.TempDir()).Load(ctx, "hero.png")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestResolve(t *testing.T) {
	l := NewLoader("assets")
	assert.Equal(t, filepath.Join("assets", "generated", "a.png"), l.Resolve("/generated/a.png"))
	assert.Equal(t, "https://example.com/a.png", l.Resolve("https://example.com/a.png"))
	assert.Equal(t, "/tmp/a.png", l.Resolve("file:///tmp/a.png"))
}

func TestWatchDirReportsNewTemplates(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan string, 16)
	require.NoError(t, WatchDir(ctx, dir, func(p string) { changed <- p }, nil))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hero-13-template.png"), pngBytes(t, 4, 4), 0o644))

	select {
	case p := <-changed:
		assert.Equal(t, "hero-13-template.png", filepath.Base(p))
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
}
