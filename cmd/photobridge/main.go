package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/bnema/photobridge/config"
	"github.com/bnema/photobridge/internal/adapter/converter/ffmpeg"
	HTTPAdapter "github.com/bnema/photobridge/internal/adapter/http"
	"github.com/bnema/photobridge/internal/adapter/probe"
	"github.com/bnema/photobridge/internal/adapter/storage/jsonfile"
	"github.com/bnema/photobridge/internal/adapter/storage/mysql"
	"github.com/bnema/photobridge/internal/adapter/storage/sqlite"
	"github.com/bnema/photobridge/internal/infrastructure/logger"
	"github.com/bnema/photobridge/internal/port"
	"github.com/bnema/photobridge/internal/service"
)

func openLibrary(ctx context.Context, cfg *config.Config) (port.MediaLibrary, error) {
	var (
		lib port.MediaLibrary
		err error
	)
	switch cfg.LibraryBackend {
	case config.BackendMySQL:
		lib, err = mysql.NewStore(ctx, cfg.MySQLDSN)
	case config.BackendJSONFile:
		lib, err = jsonfile.NewStore(cfg.DataDir)
	default:
		lib, err = sqlite.NewStore(cfg.DataDir)
	}
	if err != nil {
		return nil, err
	}
	return lib, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Error.Printf("failed to load config: %v", err)
		os.Exit(1)
	}
	logger.SetLevel(cfg.LogLevel)

	logger.Info.Printf("starting photobridge on port %d, backend=%s", cfg.Port, cfg.LibraryBackend)

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		logger.Error.Printf("failed to create data directory: %v", err)
		os.Exit(1)
	}

	store, err := openLibrary(context.Background(), cfg)
	if err != nil {
		logger.Error.Printf("failed to open %s library: %v", cfg.LibraryBackend, err)
		os.Exit(1)
	}
	defer func() { _ = store.Close() }()

	ffprobe := ffmpeg.NewProber(cfg.FFprobePath)
	if !ffprobe.Available() {
		logger.Warn.Printf("%s not found; videos outside MP4/QuickTime are imported without dimensions", cfg.FFprobePath)
	}
	prober := probe.New(ffprobe)
	eventBus := service.NewEventBus()

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	workerPool := service.NewWorkerPool(cfg.Workers, cfg.Workers*32)
	workerPool.Start(workerCtx)

	assetSvc := service.NewAssetService(store, workerPool, eventBus)
	importer := service.NewImporter(store, prober, workerPool, eventBus, cfg.DataDir, cfg.MaxImportSize())

	importDone := make(chan struct{})
	if cfg.ImportDir == "" {
		close(importDone)
	} else {
		go func() {
			defer close(importDone)
			start := time.Now()
			report, err := importer.ImportDir(workerCtx, cfg.ImportDir)
			if errors.Is(err, context.Canceled) {
				logger.Info.Printf("import of %s stopped after %d assets", cfg.ImportDir, report.Imported)
				return
			}
			if err != nil {
				logger.Error.Printf("import of %s failed: %v", cfg.ImportDir, err)
				return
			}
			logger.Info.Printf("imported %d assets (%s) from %s in %s: %d duplicates, %d skipped, %d failed",
				report.Imported, humanize.Bytes(uint64(report.Bytes)), cfg.ImportDir,
				time.Since(start).Round(time.Millisecond), report.Duplicates, report.Skipped, report.Failed)
		}()
	}

	server := HTTPAdapter.NewServer(assetSvc, importer, eventBus, HTTPAdapter.Options{
		MaxUploadMB:     cfg.MaxImportSizeMB,
		APIToken:        cfg.APIToken,
		WritesPerMinute: cfg.WritesPerMinute,
		BehindProxy:     cfg.BehindProxy,
	})
	defer server.Close()

	// Request contexts end on shutdown so open event streams return.
	serveCtx, serveCancel := context.WithCancel(context.Background())
	defer serveCancel()

	addr := fmt.Sprintf(":%d", cfg.Port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           server,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       5 * time.Minute,
		IdleTimeout:       120 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return serveCtx },
	}
	httpServer.RegisterOnShutdown(serveCancel)

	done := make(chan struct{})
	go func() {
		defer close(done)
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info.Printf("received %s, shutting down", sig)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error.Printf("http shutdown error: %v", err)
		}

		// Queued library work still runs before the store closes.
		workerCancel()
		<-importDone
		workerPool.Wait()

		logger.Info.Printf("shutdown complete")
	}()

	logger.Info.Printf("server listening on %s", addr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error.Printf("server failed: %v", err)
		os.Exit(1)
	}
	<-done
}
