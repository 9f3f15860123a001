package sync

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alfredjeanlab/cinemap/internal/model"
)

// mockDestination records calls to Write.
type mockDestination struct {
	writes atomic.Int64
	last   atomic.Value // []byte
	err    error
}

func (d *mockDestination) Name() string { return "mock" }

func (d *mockDestination) Write(_ context.Context, data []byte) error {
	d.writes.Add(1)
	cp := make([]byte, len(data))
	copy(cp, data)
	d.last.Store(cp)
	return d.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// lockedSource lets a test change the graph under a running scheduler.
type lockedSource struct {
	mu  sync.Mutex
	src *fakeSource
}

func (l *lockedSource) Nodes() []model.Node {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.Nodes()
}

func (l *lockedSource) Connections() []model.Connection {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.Connections()
}

func (l *lockedSource) addNode(n model.Node) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.src.nodes = append(l.src.nodes, n)
}

func TestSchedulerSkipsUnchanged(t *testing.T) {
	src := &lockedSource{src: sampleSource()}
	dest := &mockDestination{}

	sched := NewScheduler(src, []Destination{dest}, 20*time.Millisecond, testLogger())
	sched.Start()
	defer sched.Stop()

	waitForWrites(t, dest, 1)
	// Several ticks pass over an unchanged graph.
	time.Sleep(100 * time.Millisecond)
	if n := dest.writes.Load(); n != 1 {
		t.Fatalf("writes over an unchanged graph = %d, want 1", n)
	}

	src.addNode(model.Node{ID: "new", Layer: model.LayerStructure, Title: "Climax"})
	waitForWrites(t, dest, 2)

	data, _ := dest.last.Load().([]byte)
	// 1 header + 3 nodes + 1 connection
	if lines := nonEmptyLines(string(data)); len(lines) != 5 {
		t.Fatalf("expected 5 lines, got %d", len(lines))
	}
}

func TestSchedulerRetriesFailedDestination(t *testing.T) {
	flaky := &mockDestination{err: errors.New("unreachable")}
	sched := NewScheduler(sampleSource(), []Destination{flaky}, time.Hour, testLogger())
	ctx := context.Background()

	if failed := sched.run(ctx, false); failed != 1 {
		t.Fatalf("failed = %d, want 1", failed)
	}
	// A failed write records nothing, so the next periodic run tries again.
	flaky.err = nil
	if failed := sched.run(ctx, false); failed != 0 {
		t.Fatalf("failed = %d, want 0", failed)
	}
	if n := flaky.writes.Load(); n != 2 {
		t.Fatalf("writes = %d, want 2", n)
	}
	if sched.run(ctx, false); flaky.writes.Load() != 2 {
		t.Fatal("unchanged graph was written again")
	}
}

func TestContentDigestIgnoresHeader(t *testing.T) {
	a := contentDigest([]byte(`{"timestamp":"2026-01-01T00:00:00Z"}` + "\n" + `{"type":"node"}` + "\n"))
	b := contentDigest([]byte(`{"timestamp":"2026-02-01T00:00:00Z"}` + "\n" + `{"type":"node"}` + "\n"))
	c := contentDigest([]byte(`{"timestamp":"2026-02-01T00:00:00Z"}` + "\n" + `{"type":"connection"}` + "\n"))
	if a != b {
		t.Error("header-only change altered the digest")
	}
	if a == c {
		t.Error("body change did not alter the digest")
	}
}

func TestSchedulerStop_NoStart(t *testing.T) {
	sched := NewScheduler(&fakeSource{}, nil, time.Minute, testLogger())
	sched.Stop()
}

func TestSchedulerTrigger(t *testing.T) {
	dest := &mockDestination{}
	sched := NewScheduler(sampleSource(), []Destination{dest}, time.Hour, testLogger())
	sched.Start()
	defer sched.Stop()

	waitForWrites(t, dest, 1)
	sched.Trigger()
	waitForWrites(t, dest, 2)
}

func TestSchedulerMultipleDestinations(t *testing.T) {
	dest1 := &mockDestination{}
	dest2 := &mockDestination{err: errors.New("unreachable")}

	sched := NewScheduler(sampleSource(), []Destination{dest1, dest2}, time.Second, testLogger())
	if failed := sched.SyncOnce(context.Background()); failed != 1 {
		t.Errorf("failed = %d, want 1", failed)
	}
	if dest1.writes.Load() != 1 || dest2.writes.Load() != 1 {
		t.Fatal("a failing destination stopped the others")
	}
}

func TestFileDestination(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backups", "cinemap.jsonl")
	dest := NewFileDestination(path)

	for _, payload := range []string{"first\n", "second\n"} {
		if err := dest.Write(context.Background(), []byte(payload)); err != nil {
			t.Fatalf("Write: %v", err)
		}
		got, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if string(got) != payload {
			t.Errorf("content = %q, want %q", got, payload)
		}
	}
	if dest.Name() != "file:"+path {
		t.Errorf("Name = %q", dest.Name())
	}
}

func waitForWrites(t *testing.T, dest *mockDestination, n int64) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for dest.writes.Load() < n {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %d writes, got %d", n, dest.writes.Load())
		}
		time.Sleep(5 * time.Millisecond)
	}
}
