package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/alfredjeanlab/cinemap/internal/store"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "cinemap.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestGetMissing(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.Get(context.Background(), "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("Get error = %v, want ErrNotFound", err)
	}
}

func TestSetGetUpsert(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	if err := s.Set(ctx, "cinemap.graph.v1", []byte(`{"v":1}`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := s.Set(ctx, "cinemap.graph.v1", []byte(`{"v":2}`)); err != nil {
		t.Fatalf("Set upsert: %v", err)
	}
	got, err := s.Get(ctx, "cinemap.graph.v1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != `{"v":2}` {
		t.Errorf("Get = %s, want {\"v\":2}", got)
	}
}

func TestReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "cinemap.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.Set(ctx, "k", []byte("persisted")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	s.Close()

	s2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()
	got, err := s2.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get after reopen: %v", err)
	}
	if string(got) != "persisted" {
		t.Errorf("Get = %q", got)
	}
}
