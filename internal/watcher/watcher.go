package watcher

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/mahirjain10/pixelmancer/internal/types"
	"github.com/mahirjain10/pixelmancer/internal/walker"
)

const defaultQuietPeriod = 500 * time.Millisecond

// FileProcessor handles one source file found while watching.
type FileProcessor interface {
	ProcessFile(ctx context.Context, entry types.FileEntry) error
}

// Watcher re-processes PNG files under the input root as they are created or
// rewritten. Paths are handled once they have been quiet for quietPeriod.
type Watcher struct {
	root        string
	exclude     string
	processor   FileProcessor
	watcher     *fsnotify.Watcher
	quietPeriod time.Duration
	pending     map[string]time.Time
}

// NewWatcher registers every directory below root. exclude, usually the
// output directory, is skipped when it lies inside root.
func NewWatcher(ctx context.Context, root string, exclude string, processor FileProcessor) (*Watcher, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", root, err)
	}
	absExclude := ""
	if exclude != "" {
		if absExclude, err = filepath.Abs(exclude); err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", exclude, err)
		}
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		root:        absRoot,
		exclude:     absExclude,
		processor:   processor,
		watcher:     fsWatcher,
		quietPeriod: defaultQuietPeriod,
		pending:     make(map[string]time.Time),
	}
	if err := walker.Dirs(ctx, absRoot, w.addDir); err != nil {
		fsWatcher.Close()
		return nil, err
	}
	return w, nil
}

func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// Run blocks until ctx is cancelled. Processing errors are logged and do not
// stop the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	log.Printf("[watch] watching %s for new sprites", w.root)

	ticker := time.NewTicker(w.quietPeriod / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("[watch] Shutting down...")
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handle(ctx, event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("[watch] error: %v", err)
		case now := <-ticker.C:
			w.flush(ctx, now)
		}
	}
}

func (w *Watcher) handle(ctx context.Context, event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}
	if w.excluded(event.Name) {
		return
	}
	info, err := os.Stat(event.Name)
	if err != nil {
		// gone again before we got to it
		return
	}

	if info.IsDir() {
		if event.Has(fsnotify.Create) {
			w.addTree(ctx, event.Name)
		}
		return
	}
	if info.Mode().IsRegular() && walker.IsPNG(info.Name()) {
		w.pending[event.Name] = time.Now()
	}
}

// addTree watches a directory created after startup and queues the PNGs that
// were written into it before the watch was in place.
func (w *Watcher) addTree(ctx context.Context, dir string) {
	if err := walker.Dirs(ctx, dir, w.addDir); err != nil {
		log.Printf("[watch] failed to watch %s: %v", dir, err)
		return
	}
	rel, err := filepath.Rel(w.root, dir)
	if err != nil {
		log.Printf("[watch] %v", err)
		return
	}
	err = walker.WalkRel(ctx, dir, rel, func(entry types.FileEntry) error {
		if !w.excluded(entry.Path) {
			w.pending[entry.Path] = time.Now()
		}
		return nil
	})
	if err != nil {
		log.Printf("[watch] failed to scan %s: %v", dir, err)
	}
}

func (w *Watcher) addDir(dir string, _ string) error {
	if w.excluded(dir) {
		return walker.SkipDir
	}
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	return nil
}

func (w *Watcher) flush(ctx context.Context, now time.Time) {
	for path, seen := range w.pending {
		if now.Sub(seen) < w.quietPeriod {
			continue
		}
		delete(w.pending, path)

		rel, err := filepath.Rel(w.root, path)
		if err != nil {
			log.Printf("[watch] %v", err)
			continue
		}
		entry := types.FileEntry{Path: path, RelPath: rel}
		if err := w.processor.ProcessFile(ctx, entry); err != nil {
			log.Printf("[watch] failed to process %s: %v", rel, err)
		}
	}
}

func (w *Watcher) excluded(path string) bool {
	if w.exclude == "" {
		return false
	}
	return path == w.exclude || strings.HasPrefix(path, w.exclude+string(filepath.Separator))
}
