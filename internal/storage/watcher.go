package storage

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"tomatobar/internal/log"
)

// DefaultDebounce collapses editor save bursts into one reload.
const DefaultDebounce = 300 * time.Millisecond

// Watcher reports edits to a single file made outside the process.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	path      string
	debounce  time.Duration
	onChange  chan struct{}
	done      chan struct{}
}

// NewWatcher creates a watcher for path. It does nothing until Start.
func NewWatcher(path string, debounce time.Duration) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	return &Watcher{
		fsWatcher: fsWatcher,
		path:      filepath.Clean(path),
		debounce:  debounce,
		onChange:  make(chan struct{}, 1),
		done:      make(chan struct{}),
	}, nil
}

// Start watches the directory containing the file. Atomic saves replace the
// file, so watching the file itself would lose track of it.
func (watcher *Watcher) Start() (<-chan struct{}, error) {
	dir := filepath.Dir(watcher.path)
	if err := watcher.fsWatcher.Add(dir); err != nil {
		return nil, fmt.Errorf("watch directory %s: %w", dir, err)
	}
	go watcher.loop()
	return watcher.onChange, nil
}

// Stop terminates the watcher and releases resources.
func (watcher *Watcher) Stop() error {
	close(watcher.done)
	return watcher.fsWatcher.Close()
}

func (watcher *Watcher) loop() {
	var timer *time.Timer
	var fired <-chan time.Time

	for {
		select {
		case event, ok := <-watcher.fsWatcher.Events:
			if !ok {
				return
			}
			if !watcher.isRelevant(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(watcher.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(watcher.debounce)
			}
			fired = timer.C

		case <-fired:
			fired = nil
			select {
			case watcher.onChange <- struct{}{}:
			default:
			}

		case err, ok := <-watcher.fsWatcher.Errors:
			if !ok {
				return
			}
			log.Warn(log.CatStorage, "file watcher error", "path", watcher.path, "error", err)

		case <-watcher.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

func (watcher *Watcher) isRelevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	return filepath.Clean(event.Name) == watcher.path
}
