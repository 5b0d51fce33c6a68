package gallery

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngOf(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func fixedClock(start time.Time) func() time.Time {
	n := 0
	return func() time.Time {
		n++
		return start.Add(time.Duration(n) * time.Second)
	}
}

func TestStoreCreateGetListOwned(t *testing.T) {
	s, err := NewStore("", nil)
	require.NoError(t, err)
	s.now = fixedClock(time.Unix(1700000000, 0))

	colored := pngOf(t, 8, 8, color.White)
	a, err := s.Create("alice", "SPARKLE_1700000000000", 2, colored, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, a.ID)
	assert.Equal(t, colored, a.Original, "colored image doubles as original")

	_, err = s.Create("bob", "THUNDER", 3, colored, pngOf(t, 8, 8, color.Black))
	require.NoError(t, err)

	got, err := s.Get(a.ID)
	require.NoError(t, err)
	assert.Equal(t, a, got)

	all := s.List()
	require.Len(t, all, 2)
	assert.Equal(t, "SPARKLE_1700000000000", all[0].Name, "oldest first")
	assert.Nil(t, all[0].Image, "listings carry no payloads")

	owned := s.Owned("bob")
	require.Len(t, owned, 1)
	assert.Equal(t, 3, owned[0].HeroID)
	assert.Empty(t, s.Owned("carol"))

	_, err = s.Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreRejectsNonPNG(t *testing.T) {
	s, err := NewStore("", nil)
	require.NoError(t, err)
	_, err = s.Create("alice", "x", 1, []byte("GIF89a"), nil)
	assert.ErrorIs(t, err, ErrInvalidImage)
	assert.Empty(t, s.List())
}

func TestStoreDeleteChecksOwner(t *testing.T) {
	s, err := NewStore("", nil)
	require.NoError(t, err)
	a, err := s.Create("alice", "x", 1, pngOf(t, 2, 2, color.White), nil)
	require.NoError(t, err)

	assert.ErrorIs(t, s.Delete("bob", a.ID), ErrNotOwner)
	require.NoError(t, s.Delete("alice", a.ID))
	assert.ErrorIs(t, s.Delete("alice", a.ID), ErrNotFound)
}

func TestStorePersistsToDirectory(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStore(dir, nil)
	require.NoError(t, err)
	keep, err := s.Create("alice", "keep", 1, pngOf(t, 4, 4, color.White), pngOf(t, 4, 4, color.Black))
	require.NoError(t, err)
	gone, err := s.Create("alice", "gone", 1, pngOf(t, 4, 4, color.White), nil)
	require.NoError(t, err)
	require.NoError(t, s.Delete("alice", gone.ID))

	reopened, err := NewStore(dir, nil)
	require.NoError(t, err)
	require.Len(t, reopened.List(), 1)
	got, err := reopened.Get(keep.ID)
	require.NoError(t, err)
	assert.Equal(t, keep.Image, got.Image)
	assert.Equal(t, keep.Original, got.Original)
	assert.True(t, keep.CreatedAt.Equal(got.CreatedAt))
}

func TestStoreThumbnailFitsBox(t *testing.T) {
	s, err := NewStore("", nil)
	require.NoError(t, err)
	a, err := s.Create("alice", "wide", 1, pngOf(t, 400, 200, color.White), nil)
	require.NoError(t, err)

	data, err := s.Thumbnail(a.ID, 100)
	require.NoError(t, err)
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.Width)
	assert.Equal(t, 50, cfg.Height)

	_, err = s.Thumbnail("missing", 100)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreSkipsUnreadableEntries(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStore(dir, nil)
	require.NoError(t, err)
	keep, err := s.Create("alice", "keep", 1, pngOf(t, 4, 4, color.White), nil)
	require.NoError(t, err)

	write := func(name, data string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(data), 0o644))
	}
	write("abc.json", `{"id":"abc","name":"orphan","owner":"bob"}`)
	write("broken.json", `{not json`)
	write("renamed.json", `{"id":"other"}`)
	write("junk.json", `{"id":"junk"}`)
	write("junk.png", "not a png")

	reopened, err := NewStore(dir, nil)
	require.NoError(t, err)
	all := reopened.List()
	require.Len(t, all, 1)
	assert.Equal(t, keep.ID, all[0].ID)
}

func TestStorePersistRemovesPartialFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStore(dir, nil)
	require.NoError(t, err)

	a := Artwork{ID: "fixed", Owner: "alice", Image: pngOf(t, 2, 2, color.White)}
	a.Original = a.Image
	meta, colored, original := s.paths(a.ID)
	// a directory in place of the original payload makes that write fail
	require.NoError(t, os.Mkdir(original, 0o755))

	require.Error(t, s.persist(a))
	assert.NoFileExists(t, colored)
	assert.NoFileExists(t, meta)

	reopened, err := NewStore(dir, nil)
	require.NoError(t, err)
	assert.Empty(t, reopened.List())
}
