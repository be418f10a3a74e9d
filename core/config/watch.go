package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatchDebounce is the debounce interval for config file events. Editors
// often emit several write events for a single save.
const WatchDebounce = 200 * time.Millisecond

// ErrAlreadyWatching indicates Watch was called twice on the same Manager.
var ErrAlreadyWatching = errors.New("config manager is already watching")

// Watch reloads the config whenever the config file changes on disk.
// It watches the containing directory so that atomic rename-over saves are
// seen. Watch returns once the watcher is installed; reloads happen on a
// background goroutine until Close is called.
func (m *Manager) Watch(log *slog.Logger) error {
	if !m.watching.CompareAndSwap(false, true) {
		return ErrAlreadyWatching
	}
	if log == nil {
		log = slog.Default()
	}

	path := m.ConfigPath()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.watching.Store(false)
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		m.watching.Store(false)
		return err
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		m.watching.Store(false)
		return err
	}

	go m.watchLoop(watcher, path, log)
	return nil
}

func (m *Manager) watchLoop(watcher *fsnotify.Watcher, path string, log *slog.Logger) {
	defer watcher.Close()

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-m.stopWatch:
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(WatchDebounce, func() {
				if err := m.Reload(); err != nil {
					log.Warn("config reload failed", "path", path, "error", err)
					return
				}
				log.Info("config reloaded", "path", path)
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Warn("config watcher error", "error", err)
		}
	}
}
