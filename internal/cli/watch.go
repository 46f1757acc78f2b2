package cli

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/aretw0/stylepanel/pkg/style"
	"github.com/fsnotify/fsnotify"
)

// debounce lets editors finish multi-step saves before the file is read.
const debounce = 100 * time.Millisecond

// DocumentWatcher reloads a style file whenever it changes on disk.
type DocumentWatcher struct {
	path   string
	logger *slog.Logger
	docs   chan *style.Document

	mu   sync.Mutex
	last []byte
}

// WatchDocument starts watching path until ctx is done.
// The directory is watched rather than the file, so atomic saves (temp file
// + rename) and recreation are seen.
func WatchDocument(ctx context.Context, path string, logger *slog.Logger) (*DocumentWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	dir := filepath.Dir(path)
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to watch directory %q: %w", dir, err)
	}

	dw := &DocumentWatcher{
		path:   path,
		logger: logger,
		docs:   make(chan *style.Document, 1),
	}
	if data, err := os.ReadFile(path); err == nil {
		dw.last = data
	}

	go dw.loop(ctx, w)
	return dw, nil
}

// Documents delivers each changed, valid document. It is closed when the
// watcher stops.
func (dw *DocumentWatcher) Documents() <-chan *style.Document {
	return dw.docs
}

// Remember records content written by this process so it is not reloaded.
func (dw *DocumentWatcher) Remember(data []byte) {
	dw.mu.Lock()
	defer dw.mu.Unlock()
	dw.last = bytes.Clone(data)
}

func (dw *DocumentWatcher) loop(ctx context.Context, w *fsnotify.Watcher) {
	defer close(dw.docs)
	defer w.Close()

	filename := filepath.Base(dw.path)
	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case event, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filename {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				timer.Reset(debounce)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			dw.logger.Warn("Watcher error", "err", err)
		case <-timer.C:
			dw.reload(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (dw *DocumentWatcher) reload(ctx context.Context) {
	data, err := os.ReadFile(dw.path)
	if err != nil {
		dw.logger.Warn("Reload skipped", "path", dw.path, "err", err)
		return
	}

	dw.mu.Lock()
	same := bytes.Equal(data, dw.last)
	if !same {
		dw.last = data
	}
	dw.mu.Unlock()
	if same {
		return
	}

	doc, err := style.Parse(data)
	if err != nil {
		dw.logger.Warn("Reload skipped, invalid style", "path", dw.path, "err", err)
		return
	}
	dw.logger.Info("Change detected, reloading", "path", dw.path)

	select {
	case dw.docs <- doc:
	case <-ctx.Done():
	}
}
