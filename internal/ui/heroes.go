package ui

import (
	"image/color"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"ColoringStudio/internal/state"
)

var tileSize = fyne.NewSize(180, 220)

// heroPage is the gallery of heroes to color.
type heroPage struct {
	app     *App
	grid    *fyne.Container
	status  *widget.Label
	saves   *widget.Button
	content fyne.CanvasObject
}

func newHeroPage(a *App) *heroPage {
	p := &heroPage{
		app:    a,
		grid:   container.NewGridWrap(tileSize),
		status: widget.NewLabel(""),
	}
	p.saves = widget.NewButtonWithIcon("My Saves", theme.FolderOpenIcon(), a.showSaves)
	reset := widget.NewButtonWithIcon("Reset unlocks", theme.LogoutIcon(), func() {
		dialog.ShowConfirm("Reset unlocks?", "Premium heroes will be locked again.", func(ok bool) {
			if ok {
				a.resetUnlocks()
				p.refresh()
			}
		}, a.window)
	})

	title := widget.NewLabelWithStyle("Pick a Hero!", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	header := container.NewHBox(title, layout.NewSpacer(), p.saves, reset)
	top := container.NewVBox(header)
	if link := a.opts.ShareLink; link != "" {
		share := widget.NewEntry()
		share.SetText(link)
		share.Disable()
		copyBtn := widget.NewButtonWithIcon("", theme.ContentCopyIcon(), func() {
			a.window.Clipboard().SetContent(link)
			p.status.SetText("Share link copied")
		})
		top.Add(container.NewBorder(nil, nil, widget.NewLabel("Share:"), copyBtn, share))
	}

	p.content = container.NewBorder(top, p.status, nil, nil, container.NewVScroll(p.grid))
	p.refresh()
	return p
}

// refresh rebuilds the tiles from the catalog and the unlock set.
func (p *heroPage) refresh() {
	heroes := p.app.opts.Catalog.Heroes()
	tiles := make([]fyne.CanvasObject, 0, len(heroes))
	for _, h := range heroes {
		tiles = append(tiles, p.tile(h))
	}
	p.grid.Objects = tiles
	p.grid.Refresh()
	if p.app.gallery != nil {
		p.saves.Enable()
	} else {
		p.saves.Disable()
	}
}

func (p *heroPage) tile(h state.Hero) fyne.CanvasObject {
	playable := p.app.opts.Catalog.Playable(h.ID, p.app.unlocks)

	var preview fyne.CanvasObject
	if path := p.app.resolveTemplate(h.TemplatePath); path != "" && !h.Missing {
		img := canvas.NewImageFromFile(path)
		img.FillMode = canvas.ImageFillContain
		img.SetMinSize(fyne.NewSize(tileSize.Width-20, tileSize.Height-60))
		if !playable {
			img.Translucency = 0.6
		}
		preview = img
	} else {
		preview = canvas.NewRectangle(color.NRGBA{R: 0xee, G: 0xee, B: 0xee, A: 0xff})
	}

	btn := widget.NewButton(heroLabel(h, playable), func() { p.choose(h) })
	if h.Premium && !playable {
		btn.Importance = widget.WarningImportance
	}
	return container.NewBorder(nil, btn, nil, nil, preview)
}

func (p *heroPage) choose(h state.Hero) {
	a := p.app
	if a.opts.Catalog.Playable(h.ID, a.unlocks) {
		a.openStudio(h)
		return
	}
	dialog.ShowConfirm("Unlock Secret Hero?", "Unlock this Hero Gift to color "+h.Name+"!", func(ok bool) {
		if !ok {
			return
		}
		a.unlock(h.ID)
		p.refresh()
		a.openStudio(h)
	}, a.window)
}

// resolveTemplate returns the local file behind src, or "" for remote
// templates.
func (a *App) resolveTemplate(src string) string {
	resolved := src
	if r, ok := a.opts.Loader.(interface{ Resolve(string) string }); ok {
		resolved = r.Resolve(src)
	}
	if strings.Contains(resolved, "://") {
		return ""
	}
	return resolved
}

// heroLabel is the tile caption of h.
func heroLabel(h state.Hero, playable bool) string {
	switch {
	case h.Missing:
		return h.Name + " (missing)"
	case !playable:
		return "🔒 " + h.Name
	}
	return h.Name
}
