package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ivlev/prezicast/internal/camera"
	"github.com/ivlev/prezicast/internal/config"
	"github.com/ivlev/prezicast/internal/deck"
	"github.com/ivlev/prezicast/internal/remote"
	"github.com/ivlev/prezicast/internal/render"
	"github.com/ivlev/prezicast/internal/store"
)

var buildVersion = "dev"

func main() {
	cfg := config.Default()

	configPtr := flag.String("config", "", "Path to YAML config file")
	listenPtr := flag.String("listen", "", "Listen address (overrides config)")
	dbPtr := flag.String("db", "", "SQLite database path (overrides config)")
	baseURLPtr := flag.String("base-url", "", "Public base URL for join links (overrides config)")
	snapshotPtr := flag.String("snapshot", "", "Render a deck file to per-frame PNGs and exit")
	snapshotDirPtr := flag.String("snapshot-dir", "", "Output directory for -snapshot (overrides config)")
	widthPtr := flag.Int("width", 0, "Snapshot width (overrides config)")
	heightPtr := flag.Int("height", 0, "Snapshot height (overrides config)")
	versionPtr := flag.Bool("version", false, "Print version and exit")

	flag.Parse()

	if *versionPtr {
		fmt.Printf("prezicast %s\n", buildVersion)
		return
	}

	if *configPtr != "" {
		if err := cfg.LoadFile(*configPtr); err != nil {
			log.Fatalf("[-] Config error: %v", err)
		}
	}
	if *listenPtr != "" {
		cfg.ListenAddr = *listenPtr
	}
	if *dbPtr != "" {
		cfg.DBPath = *dbPtr
	}
	if *baseURLPtr != "" {
		cfg.PublicBaseURL = *baseURLPtr
	}
	if *snapshotDirPtr != "" {
		cfg.SnapshotDir = *snapshotDirPtr
	}
	if *widthPtr > 0 {
		cfg.SnapshotWidth = *widthPtr
	}
	if *heightPtr > 0 {
		cfg.SnapshotHeight = *heightPtr
	}
	cfg.BuildVersion = buildVersion

	if err := cfg.Validate(); err != nil {
		log.Fatalf("[-] Config error: %v", err)
	}

	if *snapshotPtr != "" {
		if err := snapshotDeck(cfg, *snapshotPtr); err != nil {
			log.Fatalf("[-] Snapshot failed: %v", err)
		}
		return
	}

	if err := serve(cfg); err != nil {
		log.Fatalf("[-] Server error: %v", err)
	}
}

// snapshotDeck renders every frame of a deck file to PNG previews.
func snapshotDeck(cfg *config.Config, deckPath string) error {
	start := time.Now()

	doc, err := deck.Read(deckPath)
	if err != nil {
		return err
	}

	vp := render.Viewport{Width: cfg.SnapshotWidth, Height: cfg.SnapshotHeight}
	log.Printf("[*] Rendering %s at %dx%d into %s", deckPath, vp.Width, vp.Height, cfg.SnapshotDir)

	fit := camera.FitOptions{FillRatio: cfg.FillRatio, MaxZoom: cfg.MaxZoom}
	if err := render.SnapshotDeck(context.Background(), doc, cfg.SnapshotDir, vp, fit, nil); err != nil {
		return err
	}

	log.Printf("[*] Done in %.1fs", time.Since(start).Seconds())
	return nil
}

// serve runs the sync server until SIGINT/SIGTERM.
func serve(cfg *config.Config) error {
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	hub := remote.NewHub()
	go hub.Run()

	service := remote.NewService(st, hub)
	handler := remote.NewHandler(service, hub, st, cfg.PublicBaseURL)

	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      handler.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[*] prezicast %s listening on %s", cfg.BuildVersion, cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Printf("[*] Received %v, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
