package watcher_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notjosh/rangy/internal/watcher"
)

func TestWatcher_DebounceMultipleWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "page.html")
	require.NoError(t, os.WriteFile(path, []byte("<p>a</p>"), 0o644))

	w, err := watcher.New(50 * time.Millisecond)
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()
	require.NoError(t, w.Add(path))
	onChange := w.Start()

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte(fmt.Sprintf("<p>%d</p>", i)), 0o644))
		time.Sleep(10 * time.Millisecond)
	}

	abs, err := filepath.Abs(path)
	require.NoError(t, err)
	select {
	case got := <-onChange:
		assert.Equal(t, abs, got)
	case <-time.After(2 * time.Second):
		t.Fatal("expected notification but got timeout")
	}

	select {
	case got := <-onChange:
		t.Fatalf("unexpected second notification for %s", got)
	case <-time.After(150 * time.Millisecond):
	}
}

func TestWatcher_IgnoresUnwatchedFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "page.html")
	other := filepath.Join(dir, "other.html")
	require.NoError(t, os.WriteFile(path, []byte("<p>a</p>"), 0o644))

	w, err := watcher.New(20 * time.Millisecond)
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()
	require.NoError(t, w.Add(path))
	onChange := w.Start()

	require.NoError(t, os.WriteFile(other, []byte("<p>b</p>"), 0o644))

	select {
	case got := <-onChange:
		t.Fatalf("unexpected notification for %s", got)
	case <-time.After(150 * time.Millisecond):
	}
}
