package ui

import (
	"context"
	"encoding/json"
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"ColoringStudio/internal/config"
	"ColoringStudio/internal/gallery"
	"ColoringStudio/internal/state"
	"ColoringStudio/internal/surface"
	"ColoringStudio/internal/templates"
)

const (
	appID       = "io.coloringstudio.app"
	prefUnlocks = "unlocked_heroes"
	prefOwner   = "owner_id"
	windowTitle = "Coloring Studio"
)

// Options wires the studio host to its collaborators.
type Options struct {
	Config  config.Config
	Catalog *state.Catalog
	Loader  templates.Loader
	// ShareLink is shown on the hero page when this process hosts the gallery.
	ShareLink string
	Logger    *slog.Logger
}

// App is the desktop host: the hero page and one studio at a time.
type App struct {
	opts    Options
	logger  *slog.Logger
	fyneApp fyne.App
	window  fyne.Window
	unlocks *state.Unlocks
	owner   string

	gallery *gallery.Client
	heroes  *heroPage
	studio  *Studio
}

// NewApp builds the window. Run shows it.
func NewApp(opts Options) *App {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Catalog == nil {
		opts.Catalog = state.NewCatalog(opts.Config.Heroes)
	}
	if opts.Loader == nil {
		opts.Loader = templates.NewLoader(opts.Config.Assets)
	}
	a := &App{
		opts:    opts,
		logger:  opts.Logger,
		fyneApp: app.NewWithID(appID),
		unlocks: &state.Unlocks{},
	}
	a.window = a.fyneApp.NewWindow(windowTitle)
	a.window.Resize(fyne.NewSize(1024, 768))
	a.loadPreferences()
	a.heroes = newHeroPage(a)
	a.window.SetContent(a.heroes.content)
	return a
}

// Owner is the id this install uses in the gallery.
func (a *App) Owner() string { return a.owner }

// Run shows the window and blocks until it closes.
func (a *App) Run() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	a.watchAssets(ctx)
	a.window.SetOnClosed(func() {
		cancel()
		if a.studio != nil {
			a.studio.Close()
		}
	})
	a.window.ShowAndRun()
}

// SetGallery attaches a connected gallery client, or detaches it with nil.
// It must run on the UI goroutine.
func (a *App) SetGallery(c *gallery.Client) {
	a.gallery = c
	a.heroes.refresh()
}

// SetStatus shows text on the hero page from any goroutine.
func (a *App) SetStatus(text string) {
	fyne.Do(func() { a.heroes.status.SetText(text) })
}

// ArtworkCreated is called when another studio adds to the gallery.
func (a *App) ArtworkCreated(art gallery.Artwork) {
	a.logger.Info("[STUDIO] new artwork in gallery", "id", art.ID, "name", art.Name, "owner", art.Owner)
	a.SetStatus("New in the gallery: " + art.Name)
}

func (a *App) openStudio(h state.Hero) {
	if a.studio != nil {
		a.studio.Close()
	}
	a.studio = newStudio(a, h)
	a.window.SetContent(a.studio.content)
	a.studio.Open()
}

func (a *App) showHeroes() {
	if a.studio != nil {
		a.studio.Close()
		a.studio = nil
	}
	a.heroes.refresh()
	a.window.SetContent(a.heroes.content)
}

func (a *App) palette() []state.Swatch {
	if len(a.opts.Config.Palette) > 0 {
		return a.opts.Config.Palette
	}
	return state.DefaultPalette
}

func (a *App) defaultBrush() surface.Brush {
	b := surface.DefaultBrush()
	if c, err := surface.ParseColor(a.opts.Config.Brush.Color); err == nil {
		b.Color = c
	} else if a.opts.Config.Brush.Color != "" {
		a.logger.Warn("[STUDIO] bad brush color, using default", "color", a.opts.Config.Brush.Color, "err", err)
	}
	if w := a.opts.Config.Brush.Width; w > 0 {
		b.Width = w
	}
	return b
}

func (a *App) loadPreferences() {
	prefs := a.fyneApp.Preferences()
	if raw := prefs.String(prefUnlocks); raw != "" {
		if err := json.Unmarshal([]byte(raw), a.unlocks); err != nil {
			a.logger.Warn("[STUDIO] ignoring stored unlocks", "err", err)
		}
	}
	a.owner = a.opts.Config.Owner
	if a.owner == "" {
		a.owner = prefs.String(prefOwner)
	}
	if a.owner == "" {
		a.owner = state.NewOwnerID()
		prefs.SetString(prefOwner, a.owner)
	}
}

func (a *App) saveUnlocks() {
	data, err := json.Marshal(a.unlocks)
	if err != nil {
		a.logger.Error("[STUDIO] saving unlocks", "err", err)
		return
	}
	a.fyneApp.Preferences().SetString(prefUnlocks, string(data))
}

// unlock grants a premium hero on this install.
func (a *App) unlock(id int) {
	a.unlocks.Unlock(id)
	a.saveUnlocks()
	a.logger.Info("[STUDIO] hero unlocked", "hero", id)
}

// resetUnlocks forgets every unlock, as signing out does.
func (a *App) resetUnlocks() {
	a.unlocks.Reset()
	a.saveUnlocks()
}

func (a *App) watchAssets(ctx context.Context) {
	dir := a.opts.Config.Assets
	if dir == "" {
		return
	}
	err := templates.WatchDir(ctx, dir, func(path string) {
		added, err := a.opts.Catalog.Refresh(dir)
		if err != nil {
			a.logger.Warn("[STUDIO] refreshing heroes", "dir", dir, "err", err)
			return
		}
		a.logger.Debug("[STUDIO] templates changed", "path", path, "added", added)
		fyne.Do(a.heroes.refresh)
	}, func(err error) {
		a.logger.Warn("[STUDIO] assets watch", "err", err)
	})
	if err != nil {
		a.logger.Warn("[STUDIO] not watching assets", "dir", dir, "err", err)
	}
}
