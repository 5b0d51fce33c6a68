package ui

import (
	"context"
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"ColoringStudio/internal/gallery"
)

const galleryTimeout = 15 * time.Second

// showSaves lists the artworks this install saved to the gallery.
func (a *App) showSaves() {
	client := a.gallery
	if client == nil {
		dialog.ShowInformation("My Saved Artworks", "Not connected to a gallery.", a.window)
		return
	}
	status := widget.NewLabel("Loading...")
	list := container.NewVBox(status)
	scroll := container.NewVScroll(list)
	scroll.SetMinSize(fyne.NewSize(520, 360))
	d := dialog.NewCustom("My Saved Artworks", "Close", scroll, a.window)

	var load func()
	load = func() {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), galleryTimeout)
			defer cancel()
			owned, err := client.Owned(ctx)
			fyne.Do(func() {
				list.RemoveAll()
				switch {
				case err != nil:
					a.logger.Error("[STUDIO] listing saves", "err", err)
					list.Add(widget.NewLabel("Could not load your artworks."))
				case len(owned) == 0:
					list.Add(widget.NewLabel("No saved artworks yet. Start coloring!"))
				default:
					for _, art := range owned {
						list.Add(a.saveRow(client, art, status, load))
					}
				}
				list.Add(status)
				status.SetText("")
			})
		}()
	}
	load()
	d.Show()
}

func (a *App) saveRow(client *gallery.Client, art gallery.Artwork, status *widget.Label, reload func()) fyne.CanvasObject {
	label := widget.NewLabel(fmt.Sprintf("%s  (%s)", art.Name, art.CreatedAt.Local().Format("2006-01-02 15:04")))
	download := widget.NewButtonWithIcon("", theme.DownloadIcon(), func() {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), galleryTimeout)
			defer cancel()
			full, err := client.Get(ctx, art.ID)
			fyne.Do(func() {
				if err != nil {
					a.logger.Error("[STUDIO] fetching artwork", "id", art.ID, "err", err)
					dialog.ShowError(err, a.window)
					return
				}
				a.saveDialog(full.Name, full.Image, status)
			})
		}()
	})
	remove := widget.NewButtonWithIcon("", theme.DeleteIcon(), func() {
		dialog.ShowConfirm("Delete artwork?", "Delete "+art.Name+"?", func(ok bool) {
			if !ok {
				return
			}
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), galleryTimeout)
				defer cancel()
				err := client.Delete(ctx, art.ID)
				fyne.Do(func() {
					if err != nil {
						a.logger.Error("[STUDIO] deleting artwork", "id", art.ID, "err", err)
						dialog.ShowError(err, a.window)
						return
					}
					reload()
				})
			}()
		}, a.window)
	})
	return container.NewBorder(nil, nil, nil, container.NewHBox(download, remove), label)
}
