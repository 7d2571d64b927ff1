package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/blockvault/blocksearch/internal/api"
	"github.com/blockvault/blocksearch/internal/config"
	"github.com/blockvault/blocksearch/internal/library"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the blocksearch HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

func runServe() error {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	lib := library.New(log)
	if cfg.LibraryDir != "" {
		if _, err := lib.LoadDir(ctx, cfg.LibraryDir, cfg.LoadWorkers); err != nil {
			return err
		}
		if cfg.WatchLibrary {
			watcher, err := library.NewWatcher(lib, cfg.LibraryDir, cfg.WatchDebounce, log)
			if err != nil {
				return err
			}
			go watcher.Run(ctx)
			log.Info("watching library", "dir", cfg.LibraryDir)
		}
	}

	srv := api.NewServer(lib, log, cfg)
	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("starting blocksearch", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
