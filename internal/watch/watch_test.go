package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestWatcherReportsChangedFiles(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	sub := filepath.Join(dir, "views")
	require.NoError(t, os.Mkdir(sub, 0o755))

	w, err := New(zap.NewNop(), []string{".rsx"})
	require.NoError(t, err)
	defer w.Close()
	w.Debounce = 20 * time.Millisecond
	require.NoError(t, w.Add(dir))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan []string, 4)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(paths []string) { got <- paths })
	}()

	target := filepath.Join(sub, "index.rsx")
	require.NoError(t, os.WriteFile(filepath.Join(sub, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(target, []byte("rsx!{}"), 0o644))
	require.NoError(t, os.WriteFile(target, []byte("rsx!{ div {} }"), 0o644))

	select {
	case paths := <-got:
		assert.Equal(t, []string{target}, paths)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestWatcherRelevant(t *testing.T) {
	t.Parallel()
	w := &Watcher{
		extensions: []string{".rsx", ".rs"},
		files:      map[string]bool{"/p/page.html": true},
	}

	tests := []struct {
		event fsnotify.Event
		want  bool
	}{
		{fsnotify.Event{Name: "/p/a.rsx", Op: fsnotify.Write}, true},
		{fsnotify.Event{Name: "/p/a.rs", Op: fsnotify.Create}, true},
		{fsnotify.Event{Name: "/p/a.rsx", Op: fsnotify.Remove}, false},
		{fsnotify.Event{Name: "/p/a.txt", Op: fsnotify.Write}, false},
		{fsnotify.Event{Name: "/p/page.html", Op: fsnotify.Write}, true},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, w.relevant(tc.event), tc.event.String())
	}
}
