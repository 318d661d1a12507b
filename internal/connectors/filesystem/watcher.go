// Package filesystem provides a drop-directory connector. Files placed
// in a watched directory are uploaded and indexed automatically.
package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/JuanMendez11/rag-fastapi-challenge/internal/core/ports/driving"
	"github.com/JuanMendez11/rag-fastapi-challenge/internal/logger"
)

// settleDelay is how long a file must be quiet before it is ingested.
// Editors and copies emit bursts of write events; waiting collapses the
// burst into a single ingest.
const settleDelay = 500 * time.Millisecond

// watchedExtensions lists the file types picked up from the drop directory.
var watchedExtensions = map[string]bool{
	".txt": true,
	".md":  true,
}

// Watcher ingests text files dropped into a directory.
type Watcher struct {
	dir    string
	ingest driving.IngestService

	mu      sync.Mutex
	pending map[string]*time.Timer
}

// NewWatcher creates a watcher for the given directory.
func NewWatcher(dir string, ingest driving.IngestService) *Watcher {
	return &Watcher{
		dir:     dir,
		ingest:  ingest,
		pending: make(map[string]*time.Timer),
	}
}

// Run watches the directory until the context is cancelled. Files
// already present at startup are ingested first.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(w.dir); err != nil {
		return err
	}

	w.ingestExisting(ctx)

	logger.Info("Watching %s for dropped documents", w.dir)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Write) {
				w.schedule(ctx, event.Name)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}

// ingestExisting processes files already in the directory at startup.
func (w *Watcher) ingestExisting(ctx context.Context) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		logger.Warn("Reading watch directory: %v", err)
		return
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		w.ingestFile(ctx, filepath.Join(w.dir, entry.Name()))
	}
}

// schedule arms (or re-arms) the settle timer for a path.
func (w *Watcher) schedule(ctx context.Context, path string) {
	if !watchedExtensions[strings.ToLower(filepath.Ext(path))] {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.pending[path]; ok {
		timer.Stop()
	}
	w.pending[path] = time.AfterFunc(settleDelay, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()
		w.ingestFile(ctx, path)
	})
}

// ingestFile uploads and indexes a single file. The file name without
// its extension becomes the document title.
func (w *Watcher) ingestFile(ctx context.Context, path string) {
	if !watchedExtensions[strings.ToLower(filepath.Ext(path))] {
		return
	}

	content, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("Reading %s: %v", path, err)
		return
	}
	if strings.TrimSpace(string(content)) == "" {
		logger.Warn("Skipping empty file %s", path)
		return
	}

	base := filepath.Base(path)
	title := strings.TrimSuffix(base, filepath.Ext(base))

	documentID, err := w.ingest.Upload(ctx, title, string(content))
	if err != nil {
		logger.Error("Uploading %s: %v", path, err)
		return
	}

	if _, err := w.ingest.GenerateEmbeddings(ctx, documentID); err != nil {
		logger.Error("Indexing %s: %v", path, err)
		return
	}

	logger.Info("Ingested %s as document %s", base, documentID)
}
