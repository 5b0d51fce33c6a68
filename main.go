package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"fyne.io/fyne/v2"

	"ColoringStudio/internal/config"
	"ColoringStudio/internal/gallery"
	lnet "ColoringStudio/internal/net"
	"ColoringStudio/internal/state"
	"ColoringStudio/internal/surface"
	"ColoringStudio/internal/ui"
)

func main() {
	cfg, err := config.Load(config.Path())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()}))
	slog.SetDefault(logger)
	surface.SetLogger(logger)

	args := os.Args
	switch {
	case len(args) > 1 && lnet.IsShareLink(args[1]):
		err = runClient(cfg, logger, args[1])
	case len(args) > 1 && args[1] == "serve":
		err = runServe(cfg, logger)
	case len(args) > 1 && args[1] == "find":
		err = runFind(logger)
	case len(args) > 1:
		err = fmt.Errorf("usage: %s [serve | find | %shost:port]", args[0], lnet.ShareScheme)
	default:
		err = runHost(cfg, logger)
	}
	if err != nil {
		logger.Error("exiting", "err", err)
		os.Exit(1)
	}
}

// runHost serves the gallery in-process and opens a studio connected to it.
func runHost(cfg config.Config, logger *slog.Logger) error {
	logger.Info("Starting as HOST")
	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	srv, err := newGallery(cfg, logger)
	if err != nil {
		return err
	}
	go func() {
		if err := srv.ListenAndServe(ctx, listenAddr(cfg)); err != nil {
			logger.Error("[HOST] gallery stopped", "err", err)
		}
	}()
	if cfg.Gallery.Advertise {
		if md, err := lnet.Advertise(cfg.Gallery.Port); err != nil {
			logger.Warn("[HOST] mDNS disabled", "err", err)
		} else {
			defer md.Shutdown()
		}
	}

	app := ui.NewApp(appOptions(cfg, logger, lnet.ShareLink(lnet.GetOutgoingIP(), cfg.Gallery.Port)))
	go connectGallery(ctx, app, logger, "127.0.0.1:"+strconv.Itoa(cfg.Gallery.Port))
	app.Run()
	return nil
}

// runClient opens a studio that saves to the gallery behind link.
func runClient(cfg config.Config, logger *slog.Logger, link string) error {
	logger.Info("Starting as CLIENT", "link", link)
	addr, err := lnet.ParseShareLink(link)
	if err != nil {
		return err
	}
	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	app := ui.NewApp(appOptions(cfg, logger, ""))
	go connectGallery(ctx, app, logger, addr)
	app.Run()
	return nil
}

// runServe runs a headless gallery until interrupted.
func runServe(cfg config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := newGallery(cfg, logger)
	if err != nil {
		return err
	}
	if cfg.Gallery.Advertise {
		md, err := lnet.Advertise(cfg.Gallery.Port)
		if err != nil {
			return err
		}
		defer md.Shutdown()
	}
	logger.Info("[HOST] share link", "link", lnet.ShareLink(lnet.GetOutgoingIP(), cfg.Gallery.Port))
	return srv.ListenAndServe(ctx, listenAddr(cfg))
}

// runFind prints the share links of galleries announced on the LAN.
func runFind(logger *slog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	found := 0
	err := lnet.Browse(ctx, 2*time.Second, func(addr string) {
		found++
		fmt.Println(lnet.ShareScheme + addr)
	})
	if err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	logger.Info("browse finished", "galleries", found)
	return nil
}

func newGallery(cfg config.Config, logger *slog.Logger) (*gallery.Server, error) {
	store, err := gallery.NewStore(cfg.Gallery.Storage, logger)
	if err != nil {
		return nil, err
	}
	return gallery.NewServer(store, logger), nil
}

func listenAddr(cfg config.Config) string {
	return fmt.Sprintf(":%d", cfg.Gallery.Port)
}

func appOptions(cfg config.Config, logger *slog.Logger, shareLink string) ui.Options {
	catalog := state.NewCatalog(cfg.Heroes)
	if _, err := catalog.Refresh(cfg.Assets); err != nil {
		logger.Warn("[STUDIO] assets directory unreadable", "dir", cfg.Assets, "err", err)
	}
	return ui.Options{
		Config:    cfg,
		Catalog:   catalog,
		ShareLink: shareLink,
		Logger:    logger,
	}
}

// connectGallery dials addr, retrying while the window is open, and hands
// the client to the app.
func connectGallery(ctx context.Context, app *ui.App, logger *slog.Logger, addr string) {
	backoff := 500 * time.Millisecond
	for {
		dialCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		client, err := gallery.Dial(dialCtx, addr, app.Owner(), gallery.DialOptions{
			Logger:    logger,
			OnCreated: app.ArtworkCreated,
		})
		cancel()
		if err == nil {
			logger.Info("[STUDIO] connected to gallery", "addr", addr)
			fyne.Do(func() { app.SetGallery(client) })
			app.SetStatus("Connected to gallery at " + addr)

			<-client.Done()
			fyne.Do(func() { app.SetGallery(nil) })
			app.SetStatus("Disconnected from gallery")
			logger.Warn("[STUDIO] gallery connection lost", "addr", addr)
		} else {
			logger.Debug("[STUDIO] gallery dial failed", "addr", addr, "err", err)
			app.SetStatus(fmt.Sprintf("Connection failed: %v", err))
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, 30*time.Second)
	}
}
