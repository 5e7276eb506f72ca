package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/urfave/cli/v3"

	"github.com/KhaledTDev/islamhouse/pkg/aggregator"
	"github.com/KhaledTDev/islamhouse/pkg/api"
	"github.com/KhaledTDev/islamhouse/pkg/config"
	"github.com/KhaledTDev/islamhouse/pkg/replica"
	"github.com/KhaledTDev/islamhouse/pkg/storage"
)

// ServeCommand creates the serve command
func ServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the content API server",
		Action: func(ctx context.Context, c *cli.Command) error {
			return serve(ctx, c.String("config"))
		},
	}
}

// serve runs the HTTP API with a background replica refresh loop.
func serve(ctx context.Context, configPath string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	store, err := storage.NewStore(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer closeStore(store)

	agg := aggregator.New(store, aggregator.WithCategoryTimeout(cfg.CategoryTimeout.Duration))
	rep := replica.New(agg, replica.WithSnapshotPath(cfg.SnapshotPath()))

	serveCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Warm the fallback replica without delaying startup, then keep it
	// fresh on the configured interval.
	go func() {
		if err := rep.Refresh(serveCtx); err != nil {
			log.Printf("Warning: initial replica refresh failed: %v", err)
		}
	}()
	go rep.RunPeriodic(serveCtx, cfg.ReplicaRefresh.Duration)

	server := api.NewServer(agg, rep)
	mux := http.NewServeMux()
	server.RegisterRoutes(mux)

	httpServer := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: api.CorsMiddleware(api.RequestIDMiddleware(mux)),
	}

	errCh := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	fmt.Printf("Listening on %s\n", cfg.ListenAddr)

	// Signal handling, SIGHUP reloads the configuration
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	// Set up filesystem watcher for config file
	var watchEvents chan fsnotify.Event
	var watchErrors chan error
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Printf("Warning: failed to create config file watcher: %v", err)
	} else {
		defer func() {
			if err := watcher.Close(); err != nil {
				log.Printf("Warning: failed to close config file watcher: %v", err)
			}
		}()

		if err := watcher.Add(configPath); err != nil {
			log.Printf("Warning: failed to watch config file %s: %v", configPath, err)
		} else {
			log.Printf("Watching config file for changes: %s", configPath)
			watchEvents = watcher.Events
			watchErrors = watcher.Errors
		}
	}

	reload := func() {
		if err := reloadConfiguration(serveCtx, configPath, cfg, rep); err != nil {
			log.Printf("Failed to reload configuration: %v", err)
		}
	}

	for {
		select {
		case err := <-errCh:
			return fmt.Errorf("http server: %w", err)
		case sig := <-sigCh:
			switch sig {
			case syscall.SIGHUP:
				log.Println("Received SIGHUP, reloading configuration...")
				reload()
			case syscall.SIGINT, syscall.SIGTERM:
				fmt.Println("\nShutting down...")
				cancel()
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer shutdownCancel()
				return httpServer.Shutdown(shutdownCtx)
			}
		case event, ok := <-watchEvents:
			if !ok {
				watchEvents = nil
				continue
			}
			if event.Name == configPath && event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				log.Println("Config file changed, reloading configuration...")
				reload()
			}
		case err, ok := <-watchErrors:
			if !ok {
				watchErrors = nil
				continue
			}
			log.Printf("Config watcher error: %v", err)
		}
	}
}

// reloadConfiguration re-reads the config file. Settings that cannot be
// applied to a running server are reported; the replica is refreshed so
// data-affecting changes show up quickly.
func reloadConfiguration(ctx context.Context, configPath string, current *config.Config, rep *replica.Replica) error {
	updated, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if updated.ListenAddr != current.ListenAddr {
		log.Printf("listen_addr changed to %s, restart required to apply", updated.ListenAddr)
	}
	if updated.DatabasePath != current.DatabasePath {
		log.Printf("database_path changed to %s, restart required to apply", updated.DatabasePath)
	}

	go func() {
		if err := rep.Refresh(ctx); err != nil {
			log.Printf("Warning: replica refresh after reload failed: %v", err)
		}
	}()

	log.Println("Configuration reloaded")
	return nil
}
