package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/mahirjain10/pixelmancer/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingProcessor struct {
	mu      sync.Mutex
	entries []types.FileEntry
}

func (r *recordingProcessor) ProcessFile(ctx context.Context, entry types.FileEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
	return nil
}

func (r *recordingProcessor) relPaths() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var rels []string
	for _, e := range r.entries {
		rels = append(rels, e.RelPath)
	}
	return rels
}

func startWatcher(t *testing.T, root string, exclude string) *recordingProcessor {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())

	processor := &recordingProcessor{}
	w, err := NewWatcher(ctx, root, exclude, processor)
	require.NoError(t, err)
	w.quietPeriod = 50 * time.Millisecond

	done := make(chan struct{})
	go func() {
		defer close(done)
		assert.NoError(t, w.Run(ctx))
	}()
	t.Cleanup(func() {
		cancel()
		<-done
		w.Close()
	})
	return processor
}

func TestWatcherProcessesNewPNG(t *testing.T) {
	root := t.TempDir()
	processor := startWatcher(t, root, "")

	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "slime.png"), []byte("x"), 0644))

	require.Eventually(t, func() bool {
		return len(processor.relPaths()) == 1
	}, 5*time.Second, 20*time.Millisecond)
	assert.Equal(t, []string{"slime.png"}, processor.relPaths())

	// the Create and Write events of one file collapse into a single call
	time.Sleep(200 * time.Millisecond)
	assert.Len(t, processor.relPaths(), 1)
}

func TestWatcherPicksUpNewDirectories(t *testing.T) {
	root := t.TempDir()
	processor := startWatcher(t, root, "")

	nested := filepath.Join(root, "enemies", "bats")
	require.NoError(t, os.MkdirAll(nested, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(nested, "bat.PNG"), []byte("x"), 0644))

	require.Eventually(t, func() bool {
		for _, rel := range processor.relPaths() {
			if rel == filepath.Join("enemies", "bats", "bat.PNG") {
				return true
			}
		}
		return false
	}, 5*time.Second, 20*time.Millisecond)
}

func TestWatcherIgnoresExcludedOutput(t *testing.T) {
	root := t.TempDir()
	output := filepath.Join(root, "output-images")
	require.NoError(t, os.MkdirAll(filepath.Join(output, "32x32"), 0755))
	processor := startWatcher(t, root, output)

	require.NoError(t, os.WriteFile(filepath.Join(output, "32x32", "a.png"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "b.png"), []byte("x"), 0644))

	require.Eventually(t, func() bool {
		return len(processor.relPaths()) > 0
	}, 5*time.Second, 20*time.Millisecond)
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, []string{"b.png"}, processor.relPaths())
}

func TestExcluded(t *testing.T) {
	w := &Watcher{exclude: filepath.Join("/", "in", "out")}

	assert.True(t, w.excluded(filepath.Join("/", "in", "out")))
	assert.True(t, w.excluded(filepath.Join("/", "in", "out", "32x32", "a.png")))
	assert.False(t, w.excluded(filepath.Join("/", "in", "outline.png")))
	assert.False(t, (&Watcher{}).excluded("/anything"))
}
