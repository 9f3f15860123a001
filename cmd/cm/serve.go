package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/cinemap/internal/config"
	"github.com/alfredjeanlab/cinemap/internal/server"
	cmsync "github.com/alfredjeanlab/cinemap/internal/sync"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Short:   "Serve the graph over HTTP with a live event stream",
	GroupID: "system",
	Args:    cobra.NoArgs,
	// Override PersistentPreRunE so we don't open a client.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return loadSettings() },
	RunE: func(cmd *cobra.Command, args []string) error {
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Server.HTTPAddr = addr
		}

		// The hub publishes graph events to SSE clients next to NATS.
		hub := server.NewHub()
		g, closer, err := openGraph(context.Background(), cfg, logger, hub)
		if err != nil {
			return err
		}
		srv := server.New(g, hub, logger)

		httpServer := &http.Server{
			Addr:              cfg.Server.HTTPAddr,
			Handler:           srv.NewHTTPHandler(cfg.Server.AuthToken),
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			logger.Info("HTTP server listening", "addr", cfg.Server.HTTPAddr)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("HTTP server error", "err", err)
			}
		}()

		// Start sync scheduler if any destinations are configured.
		var scheduler *cmsync.Scheduler
		if interval := cfg.SyncInterval(); interval > 0 {
			dests := syncDestinations(context.Background(), cfg.Sync, logger)
			if len(dests) > 0 {
				scheduler = cmsync.NewScheduler(g, dests, interval, logger)
				scheduler.Start()
				logger.Info("sync scheduler started", "interval", interval)
			}
		}

		logger.Info("cinemap server started",
			"http_addr", cfg.Server.HTTPAddr,
			"storage", cfg.Storage.Backend,
			"mode", cfg.Graph.Mode,
			"auth", cfg.Server.AuthToken != "",
		)

		// SIGHUP forces a backup; SIGINT or SIGTERM shuts down.
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
		for sig := range sigCh {
			if sig == syscall.SIGHUP {
				if scheduler != nil {
					logger.Info("received SIGHUP, triggering sync")
					scheduler.Trigger()
				}
				continue
			}
			logger.Info("received signal, shutting down", "signal", sig)
			break
		}
		signal.Stop(sigCh)

		if scheduler != nil {
			scheduler.Stop()
			logger.Info("sync scheduler stopped")
		}

		// Open event streams never finish on their own; release them so
		// Shutdown does not wait out its timeout.
		hub.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", "err", err)
		}
		logger.Info("HTTP server stopped")

		srv.Close()
		if err := closer.Close(); err != nil {
			logger.Error("error closing graph", "err", err)
		}

		logger.Info("shutdown complete")
		return nil
	},
}

// syncDestinations builds every backup target the sync settings enable.
// Destinations that fail to initialize are logged and skipped.
func syncDestinations(ctx context.Context, sc config.SyncConfig, logger *slog.Logger) []cmsync.Destination {
	var dests []cmsync.Destination

	if sc.FilePath != "" {
		dests = append(dests, cmsync.NewFileDestination(sc.FilePath))
		logger.Info("sync file destination enabled", "path", sc.FilePath)
	}

	if sc.S3Bucket != "" {
		s3Dest, err := cmsync.NewS3Destination(ctx, cmsync.S3Config{
			Bucket:   sc.S3Bucket,
			Key:      sc.S3Key,
			Region:   sc.S3Region,
			Endpoint: sc.S3Endpoint,
		})
		if err != nil {
			logger.Error("failed to create S3 sync destination", "err", err)
		} else {
			dests = append(dests, s3Dest)
			logger.Info("sync S3 destination enabled", "bucket", sc.S3Bucket, "key", sc.S3Key)
		}
	}

	if sc.GitRepo != "" {
		dests = append(dests, cmsync.NewGitDestination(sc.GitRepo, sc.GitFile, sc.GitBranch))
		logger.Info("sync git destination enabled", "repo", sc.GitRepo, "file", sc.GitFile)
	}

	return dests
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default from config, \":8080\")")
}
