// Package watch auto-indexes a documents folder. Files dropped into
// the watched directory are indexed through the document service, and
// deleted files are removed from the corpus.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/helmsman-ai/helmsman/internal/core/ports/driving"
	"github.com/helmsman-ai/helmsman/internal/logger"
)

// DefaultDebounce is how long a path must stay quiet before it is
// indexed. Editors fire several write events per save.
const DefaultDebounce = 500 * time.Millisecond

// mimeTypes maps file extensions to declared content types. Files with
// other extensions are ignored by the watcher.
var mimeTypes = map[string]string{
	".txt":  "text/plain",
	".md":   "text/markdown",
	".csv":  "text/csv",
	".pdf":  "application/pdf",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// action is what a filesystem event asks the watcher to do.
type action int

const (
	actionNone action = iota
	actionUpsert
	actionRemove
)

// Watcher mirrors a directory into the document corpus.
type Watcher struct {
	docs     driving.DocumentService
	dir      string
	debounce time.Duration

	mu      sync.Mutex
	indexed map[string]string // path -> document id
	timers  map[string]*time.Timer
}

// New creates a watcher over dir. debounce <= 0 uses DefaultDebounce.
func New(docs driving.DocumentService, dir string, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		docs:     docs,
		dir:      dir,
		debounce: debounce,
		indexed:  make(map[string]string),
		timers:   make(map[string]*time.Timer),
	}
}

// Run indexes the files already in the directory, then blocks
// processing filesystem events until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	if err := w.indexExisting(ctx); err != nil {
		return err
	}

	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fs.Close()

	if err := fs.Add(w.dir); err != nil {
		return fmt.Errorf("watching %s: %w", w.dir, err)
	}
	logger.Info("watching %s", w.dir)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-fs.Events:
			if !ok {
				return nil
			}
			switch classify(event) {
			case actionUpsert:
				w.scheduleIndex(ctx, event.Name)
			case actionRemove:
				w.removePath(ctx, event.Name)
			}
		case err, ok := <-fs.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error: %v", err)
		}
	}
}

// classify decides what to do for one filesystem event. Hidden files,
// directories and unsupported extensions are ignored.
func classify(event fsnotify.Event) action {
	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") {
		return actionNone
	}
	if _, ok := mimeTypes[strings.ToLower(filepath.Ext(event.Name))]; !ok {
		return actionNone
	}

	switch {
	case event.Op.Has(fsnotify.Remove), event.Op.Has(fsnotify.Rename):
		return actionRemove
	case event.Op.Has(fsnotify.Create), event.Op.Has(fsnotify.Write):
		info, err := os.Stat(event.Name)
		if err != nil || info.IsDir() {
			return actionNone
		}
		return actionUpsert
	}
	return actionNone
}

// indexExisting indexes every supported file already in the directory.
func (w *Watcher) indexExisting(ctx context.Context) error {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return fmt.Errorf("reading %s: %w", w.dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		path := filepath.Join(w.dir, entry.Name())
		if _, ok := mimeTypes[strings.ToLower(filepath.Ext(path))]; !ok {
			continue
		}
		w.indexPath(ctx, path)
	}
	return nil
}

// scheduleIndex (re)arms the debounce timer for a path.
func (w *Watcher) scheduleIndex(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.timers[path]; ok {
		timer.Stop()
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()
		w.indexPath(ctx, path)
	})
}

// indexPath reads the file and indexes it, replacing any previous
// version indexed from the same path.
func (w *Watcher) indexPath(ctx context.Context, path string) {
	content, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("reading %s: %v", path, err)
		return
	}

	// Replace rather than duplicate on re-save.
	w.removePath(ctx, path)

	mimeType := mimeTypes[strings.ToLower(filepath.Ext(path))]
	record, err := w.docs.Index(ctx, documentName(path), content, mimeType)
	if err != nil {
		logger.Warn("indexing %s: %v", path, err)
		return
	}

	w.mu.Lock()
	w.indexed[path] = record.ID
	w.mu.Unlock()
	logger.Info("indexed %s as %q (%d chunks)", path, record.Name, record.ChunkCount)
}

// removePath deletes the document previously indexed from this path,
// if any.
func (w *Watcher) removePath(ctx context.Context, path string) {
	w.mu.Lock()
	id, ok := w.indexed[path]
	delete(w.indexed, path)
	w.mu.Unlock()
	if !ok {
		return
	}
	if err := w.docs.Remove(ctx, id); err != nil {
		logger.Warn("removing %s: %v", path, err)
		return
	}
	logger.Info("removed %s", path)
}

// documentName derives a display name from the file path: base name
// without extension, separators as spaces.
func documentName(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.ReplaceAll(base, "_", " ")
	base = strings.ReplaceAll(base, "-", " ")
	return strings.Join(strings.Fields(base), " ")
}
