package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ColoringStudio/internal/state"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 1024, cfg.Canvas.Width)
	assert.Equal(t, 0.3, cfg.Canvas.TemplateOpacity)
	assert.Len(t, cfg.Palette, 9)
	assert.Len(t, cfg.Heroes, 12)
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "coloring.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
assets = "/srv/heroes"
log_level = "debug"

[canvas]
width = 512
height = 256

[brush]
color = "#0000FF"

[gallery]
port = 9000
advertise = false

[[heroes]]
id = 1
name = "Captain"
template = "captain.png"
premium = true
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 512, cfg.Canvas.Width)
	assert.Equal(t, 256, cfg.Canvas.Height)
	assert.Equal(t, 0.3, cfg.Canvas.TemplateOpacity, "unset keys keep defaults")
	assert.Equal(t, "#0000FF", cfg.Brush.Color)
	assert.Equal(t, 10.0, cfg.Brush.Width)
	assert.Equal(t, 9000, cfg.Gallery.Port)
	assert.False(t, cfg.Gallery.Advertise)
	assert.Equal(t, "/srv/heroes", cfg.Assets)
	assert.Equal(t, slog.LevelDebug, cfg.Level())
	require.Len(t, cfg.Heroes, 1)
	assert.Equal(t, "Captain", cfg.Heroes[0].Name)
	assert.True(t, cfg.Heroes[0].Premium)
}

func TestLoadListsReplaceDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "coloring.toml")
	var heroes string
	for i := 1; i <= 7; i++ {
		heroes += fmt.Sprintf("[[heroes]]\nid = %d\nname = \"Free %d\"\ntemplate = \"f%d.png\"\n\n", 20+i, i, i)
	}
	require.NoError(t, os.WriteFile(path, []byte(heroes+"[[palette]]\nname = \"Only\"\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.Heroes, 7)
	for _, h := range cfg.Heroes {
		assert.False(t, h.Premium, "hero %d inherits nothing from the defaults", h.ID)
	}
	assert.Equal(t, state.Hero{ID: 27, Name: "Free 7", TemplatePath: "f7.png"}, cfg.Heroes[6])
	assert.Equal(t, []state.Swatch{{Name: "Only"}}, cfg.Palette)

	// lists absent from the file keep the defaults
	require.NoError(t, os.WriteFile(path, []byte("assets = \"x\"\n"), 0o644))
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default().Heroes, cfg.Heroes)
	assert.Equal(t, Default().Palette, cfg.Palette)
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[canvas]\nwidth = -1\n"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("not = [toml"), 0o644))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestPathFromEnv(t *testing.T) {
	t.Setenv(EnvPath, "/etc/coloring.toml")
	assert.Equal(t, "/etc/coloring.toml", Path())
	t.Setenv(EnvPath, "")
	assert.Equal(t, DefaultPath, Path())
}

func TestLevelFallback(t *testing.T) {
	assert.Equal(t, slog.LevelInfo, Config{Log: "loud"}.Level())
	assert.Equal(t, slog.LevelWarn, Config{Log: "warn"}.Level())
}
