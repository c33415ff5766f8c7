package schema_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goliatone/go-addons/pkg/schema"
)

type reloadRecorder struct {
	calls chan struct{}
}

func (r *reloadRecorder) Reload(context.Context) error {
	r.calls <- struct{}{}
	return nil
}

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "entities.yaml")
	if err := os.WriteFile(path, []byte("entities: {}\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	recorder := &reloadRecorder{calls: make(chan struct{}, 8)}
	done := make(chan error, 8)
	watcher, err := schema.NewWatcher(path, recorder,
		schema.WithDebounce(20*time.Millisecond),
		schema.OnReload(func(err error) { done <- err }),
	)
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := watcher.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer watcher.Stop()

	// Unrelated files in the same directory are ignored.
	if err := os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x: 1\n"), 0o644); err != nil {
		t.Fatalf("write sibling: %v", err)
	}
	if err := os.WriteFile(path, []byte("entities:\n  page: {}\n"), 0o644); err != nil {
		t.Fatalf("rewrite fixture: %v", err)
	}

	select {
	case <-recorder.calls:
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for reload")
	}
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("unexpected reload error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("reload hook not invoked")
	}
}

func TestWatcher_RequiresTarget(t *testing.T) {
	if _, err := schema.NewWatcher("entities.yaml", nil); err == nil {
		t.Fatalf("expected error without reload target")
	}
}

func TestWatcher_StopAfterCancel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "entities.yaml")

	watcher, err := schema.NewWatcher(path, &reloadRecorder{calls: make(chan struct{}, 1)})
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	if err := watcher.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	cancel()
	watcher.Stop()
}

func TestWatcher_StopWithoutStart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "entities.yaml")
	watcher, err := schema.NewWatcher(path, &reloadRecorder{calls: make(chan struct{}, 1)})
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}

	stopped := make(chan struct{})
	go func() {
		watcher.Stop()
		watcher.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(5 * time.Second):
		t.Fatalf("Stop blocked on a watcher that never started")
	}

	if err := watcher.Start(context.Background()); !errors.Is(err, schema.ErrWatcherUsed) {
		t.Fatalf("expected ErrWatcherUsed after Stop, got %v", err)
	}
}
