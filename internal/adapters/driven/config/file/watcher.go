package file

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/atlas-kb/atlas-cli/internal/logger"
)

// Watcher reloads the config store when another process edits the config
// file, then notifies the given callback (the settings service re-reads the
// persisted scope from it).
type Watcher struct {
	store    *ConfigStore
	watcher  *fsnotify.Watcher
	onReload func()
	done     chan struct{}
}

// NewWatcher creates a config file watcher. onReload may be nil.
func NewWatcher(store *ConfigStore, onReload func()) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	// Watch the directory, not the file: editors replace files on save,
	// which drops a watch placed on the file itself.
	if err := fsWatcher.Add(filepath.Dir(store.Path())); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("watch config dir: %w", err)
	}

	w := &Watcher{
		store:    store,
		watcher:  fsWatcher,
		onReload: onReload,
		done:     make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// run dispatches filesystem events until Close.
func (w *Watcher) run() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Name != w.store.Path() {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			if err := w.store.Load(); err != nil {
				logger.Warn("reload config: %v", err)
				continue
			}
			logger.Debug("config file reloaded")
			if w.onReload != nil {
				w.onReload()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("config watcher: %v", err)

		case <-w.done:
			return
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}
