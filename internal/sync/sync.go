package sync

import (
	"bytes"
	"context"
	"crypto/sha256"
	"log/slog"
	"sync"
	"time"
)

// Destination is a backup target for JSONL exports.
type Destination interface {
	Name() string
	Write(ctx context.Context, data []byte) error
}

// Scheduler backs the graph up to a set of destinations. Periodic runs only
// write to destinations whose last accepted export differs from the current
// graph; the first run and triggered runs write everywhere.
type Scheduler struct {
	src      Source
	dests    []Destination
	interval time.Duration
	logger   *slog.Logger

	// written holds the content digest each destination last accepted.
	mu      sync.Mutex
	written map[Destination][sha256.Size]byte

	trigger chan struct{}
	stop    context.CancelFunc
	done    chan struct{}
}

func NewScheduler(src Source, dests []Destination, interval time.Duration, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		src:      src,
		dests:    dests,
		interval: interval,
		logger:   logger,
		written:  make(map[Destination][sha256.Size]byte),
		trigger:  make(chan struct{}, 1),
	}
}

// Start runs a full sync immediately and then keeps syncing in the
// background until Stop.
func (s *Scheduler) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.stop = cancel
	s.done = make(chan struct{})
	go func() {
		defer close(s.done)
		s.loop(ctx)
	}()
}

// Trigger asks for a full sync as soon as the loop is free. Pending
// requests coalesce.
func (s *Scheduler) Trigger() {
	select {
	case s.trigger <- struct{}{}:
	default:
	}
}

// Stop ends the loop, waiting for an in-flight sync to return.
func (s *Scheduler) Stop() {
	if s.stop == nil {
		return
	}
	s.stop()
	<-s.done
}

func (s *Scheduler) loop(ctx context.Context) {
	s.run(ctx, true)

	tick := time.NewTicker(s.interval)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
			s.run(ctx, false)
		case <-s.trigger:
			s.run(ctx, true)
		}
	}
}

// SyncOnce writes the current export to every destination and returns how
// many failed.
func (s *Scheduler) SyncOnce(ctx context.Context) int {
	return s.run(ctx, true)
}

func (s *Scheduler) run(ctx context.Context, force bool) int {
	var buf bytes.Buffer
	if err := ExportJSONL(ctx, s.src, &buf); err != nil {
		s.logger.Error("sync export failed", "err", err)
		return len(s.dests)
	}
	data := buf.Bytes()
	digest := contentDigest(data)

	s.mu.Lock()
	defer s.mu.Unlock()

	var wrote, skipped, failed int
	for _, dest := range s.dests {
		if !force && s.written[dest] == digest {
			skipped++
			continue
		}
		if err := dest.Write(ctx, data); err != nil {
			failed++
			s.logger.Error("sync destination write failed", "destination", dest.Name(), "err", err)
			continue
		}
		s.written[dest] = digest
		wrote++
	}

	if wrote > 0 || failed > 0 {
		s.logger.Info("sync completed", "wrote", wrote, "skipped", skipped, "failed", failed, "bytes", len(data))
	} else {
		s.logger.Debug("sync skipped, graph unchanged", "destinations", skipped)
	}
	return failed
}

// contentDigest hashes an export without its header line, whose timestamp
// changes on every run.
func contentDigest(data []byte) [sha256.Size]byte {
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		data = data[i+1:]
	}
	return sha256.Sum256(data)
}
