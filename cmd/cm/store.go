package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/alfredjeanlab/cinemap/internal/config"
	"github.com/alfredjeanlab/cinemap/internal/events"
	"github.com/alfredjeanlab/cinemap/internal/graph"
	"github.com/alfredjeanlab/cinemap/internal/store"
	"github.com/alfredjeanlab/cinemap/internal/store/file"
	"github.com/alfredjeanlab/cinemap/internal/store/memory"
	"github.com/alfredjeanlab/cinemap/internal/store/postgres"
	"github.com/alfredjeanlab/cinemap/internal/store/sqlite"
)

// openBackend opens the durable store named by the storage settings.
func openBackend(sc config.StorageConfig) (store.Store, error) {
	switch sc.Backend {
	case config.BackendMemory:
		return memory.New(), nil
	case config.BackendFile:
		s, err := file.New(sc.Dir)
		if err != nil {
			return nil, fmt.Errorf("open file store: %w", err)
		}
		return s, nil
	case config.BackendSQLite:
		s, err := sqlite.Open(sc.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return s, nil
	case config.BackendPostgres:
		s, err := postgres.Open(context.Background(), sc.DatabaseURL, postgres.DefaultPool)
		if err != nil {
			return nil, fmt.Errorf("open postgres store: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", sc.Backend)
	}
}

// newPublisher connects to NATS when a URL is configured and falls back to a
// NoopPublisher otherwise.
func newPublisher(ec config.EventsConfig, logger *slog.Logger) (events.Publisher, error) {
	if ec.NATSURL == "" {
		logger.Debug("events disabled (CINEMAP_NATS_URL not set)")
		return &events.NoopPublisher{}, nil
	}
	pub, err := events.NewNATSPublisher(ec.NATSURL)
	if err != nil {
		return nil, err
	}
	logger.Debug("events enabled", "nats_url", ec.NATSURL)
	return pub, nil
}

// openGraph opens the configured backend and publisher and loads the graph
// store over them. extra publishers receive every event alongside NATS. The
// returned closer releases the publishers and the backend.
func openGraph(ctx context.Context, c *config.Config, logger *slog.Logger, extra ...events.Publisher) (*graph.Store, io.Closer, error) {
	backend, err := openBackend(c.Storage)
	if err != nil {
		return nil, nil, err
	}
	pub, err := newPublisher(c.Events, logger)
	if err != nil {
		backend.Close()
		return nil, nil, err
	}
	multi := events.Multi(append([]events.Publisher{pub}, extra...)...)

	g := graph.New(ctx, backend,
		graph.WithLogger(logger),
		graph.WithPublisher(multi),
		graph.WithKey(c.Storage.Key),
		graph.WithMode(c.Graph.Mode),
	)
	return g, &graphCloser{publisher: multi, backend: backend}, nil
}

type graphCloser struct {
	publisher events.Publisher
	backend   store.Store
}

func (c *graphCloser) Close() error {
	return errors.Join(c.publisher.Close(), c.backend.Close())
}
