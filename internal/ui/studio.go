package ui

import (
	"context"
	"fmt"
	"image/color"
	"os"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"ColoringStudio/internal/export"
	"ColoringStudio/internal/state"
	"ColoringStudio/internal/surface"
)

const exportTimeout = 30 * time.Second

// Studio is the coloring page of one hero.
type Studio struct {
	env  *App
	hero state.Hero

	surface *surface.Surface
	board   *SurfaceWidget
	banner  *widget.Label
	status  *widget.Label

	color  color.NRGBA
	width  float64
	eraser bool

	eraserCheck *widget.Check

	content fyne.CanvasObject
}

func newStudio(env *App, hero state.Hero) *Studio {
	brush := env.defaultBrush()
	c, _ := brush.Color.(color.NRGBA)
	st := &Studio{
		env:    env,
		hero:   hero,
		banner: widget.NewLabel(""),
		status: widget.NewLabel("Ready"),
		color:  c,
		width:  brush.Width,
	}
	st.banner.Importance = widget.WarningImportance
	st.banner.Hide()

	cfg := env.opts.Config.Canvas
	st.surface = surface.New(surface.Config{
		Size:            surface.Size{Width: cfg.Width, Height: cfg.Height},
		TemplateOpacity: cfg.TemplateOpacity,
		Loader:          env.opts.Loader,
		Brush:           brush,
		OnTemplateState: func(ts surface.TemplateState) {
			fyne.Do(func() { st.templateChanged(ts) })
		},
	})
	st.board = NewSurfaceWidget(st.surface, cfg.FrameRate)
	st.board.OnError = func(err error) {
		env.logger.Error("[STUDIO] frame failed", "hero", hero.ID, "err", err)
	}

	st.content = container.NewBorder(
		container.NewVBox(st.banner),
		container.NewVBox(NewToolbar(st), st.status),
		nil, nil,
		st.board,
	)
	return st
}

// Open starts painting and loads the hero template.
func (st *Studio) Open() {
	st.board.Start()
	st.surface.LoadTemplate(st.hero.TemplatePath)
	st.env.logger.Info("[STUDIO] opened", "hero", st.hero.ID, "template", st.hero.TemplatePath)
}

// Close stops painting and drops the session.
func (st *Studio) Close() {
	st.board.Stop()
	st.surface.Close()
}

// Handle exposes the clear and export capability of the current session.
func (st *Studio) Handle() surface.Handle { return st.surface }

func (st *Studio) templateChanged(ts surface.TemplateState) {
	switch ts {
	case surface.Loading:
		st.banner.SetText("Loading template...")
		st.banner.Show()
	case surface.Failed:
		st.banner.SetText("Template failed, but you can still draw!")
		st.banner.Show()
	case surface.Loaded:
		st.banner.Hide()
	}
	st.board.SyncLayers()
}

func (st *Studio) applyBrush() {
	b := surface.Brush{Color: st.color, Width: st.width}
	if st.eraser {
		b = b.Eraser()
	}
	st.surface.SetBrush(b)
}

// SetColor picks a palette color and leaves eraser mode.
func (st *Studio) SetColor(c color.NRGBA) {
	st.color = c
	st.eraser = false
	if st.eraserCheck != nil && st.eraserCheck.Checked {
		st.eraserCheck.SetChecked(false)
	}
	st.applyBrush()
}

func (st *Studio) SetWidth(w float64) {
	st.width = w
	st.applyBrush()
}

func (st *Studio) SetEraser(on bool) {
	st.eraser = on
	st.applyBrush()
}

func (st *Studio) Back() {
	st.env.showHeroes()
}

func (st *Studio) Clear() {
	if err := st.surface.Clear(); err != nil {
		st.fail("Clear failed", err)
		return
	}
	st.status.SetText("Cleared")
}

// Finish exports the artwork and saves it to the gallery, or offers it as
// a download when no gallery is connected.
func (st *Studio) Finish() {
	client := st.env.gallery
	if client == nil {
		st.Download()
		return
	}
	st.status.SetText("Saving...")
	name := state.ArtworkName(st.hero.Name)
	original := st.originalTemplate()
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
		defer cancel()
		png, err := st.surface.ExportImage(ctx)
		if err != nil {
			fyne.Do(func() { st.fail("Failed to export image. Please try again.", err) })
			return
		}
		a, err := client.Create(ctx, name, st.hero.ID, png, original)
		fyne.Do(func() {
			if err != nil {
				st.fail("Failed to save artwork. Please try again.", err)
				return
			}
			st.env.logger.Info("[STUDIO] artwork saved", "id", a.ID, "name", a.Name)
			st.status.SetText(fmt.Sprintf("Saved %s to the gallery!", a.Name))
		})
	}()
}

// Download exports the artwork and asks where to write it. A .pdf file name
// produces a printable page instead of a PNG.
func (st *Studio) Download() {
	name := state.ArtworkName(st.hero.Name)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
		defer cancel()
		png, err := st.surface.ExportImage(ctx)
		fyne.Do(func() {
			if err != nil {
				st.fail("Failed to export image. Please try again.", err)
				return
			}
			st.env.saveDialog(name, png, st.status)
		})
	}()
}

// originalTemplate returns the template file bytes when the template is a
// local file.
func (st *Studio) originalTemplate() []byte {
	path := st.env.resolveTemplate(st.hero.TemplatePath)
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	return data
}

func (st *Studio) fail(msg string, err error) {
	st.env.logger.Error("[STUDIO] "+msg, "hero", st.hero.ID, "err", err)
	st.status.SetText(msg)
	dialog.ShowError(fmt.Errorf("%s: %w", msg, err), st.env.window)
}

// saveDialog asks for a destination and writes png there, or a PDF page
// when the chosen name ends in .pdf.
func (a *App) saveDialog(name string, png []byte, status *widget.Label) {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		if writer == nil {
			return
		}
		defer func() {
			if err := writer.Close(); err != nil {
				a.logger.Error("[STUDIO] closing export", "err", err)
			}
		}()
		if strings.EqualFold(writer.URI().Extension(), ".pdf") {
			err = export.WritePDF(writer, png, name)
		} else {
			_, err = writer.Write(png)
		}
		if err != nil {
			a.logger.Error("[STUDIO] export write failed", "uri", writer.URI().String(), "err", err)
			status.SetText("Error writing file")
			dialog.ShowError(err, a.window)
			return
		}
		a.logger.Info("[STUDIO] exported", "uri", writer.URI().String(), "bytes", len(png))
		status.SetText("Saved " + writer.URI().Name())
	}, a.window)
	d.SetFileName(state.DownloadName(name, ".png"))
	d.SetFilter(storage.NewExtensionFileFilter([]string{".png", ".pdf"}))
	d.Show()
}
