package adapter

import (
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	m "github.com/mouse-blink/suspect/internal/model"
)

// DefaultDebounce is the quiet period after the last change before a
// batch of changes is reported.
const DefaultDebounce = 200 * time.Millisecond

// Watcher reports changes below a set of directories.
type Watcher interface {
	// Watch starts monitoring dirs recursively. onChange receives the
	// changed paths of one debounced batch.
	Watch(dirs []m.Path, onChange func(paths []string)) error
	// Stop ends monitoring. Safe to call multiple times.
	Stop() error
}

// FSWatcher implements Watcher using fsnotify. Editors and instrumented
// programs write logs in bursts, so changes are collected until no new
// event arrives for the debounce interval.
type FSWatcher struct {
	fw       *fsnotify.Watcher
	debounce time.Duration
	done     chan struct{}
	stopped  bool
	mu       sync.Mutex
}

// NewFSWatcher creates a file system watcher.
func NewFSWatcher(debounce time.Duration) (*FSWatcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	return &FSWatcher{fw: fw, debounce: debounce, done: make(chan struct{})}, nil
}

// Watch adds every directory below dirs and starts the event loop.
func (w *FSWatcher) Watch(dirs []m.Path, onChange func(paths []string)) error {
	for _, dir := range dirs {
		root, _ := parseRootPath(string(dir))

		absRoot, err := filepath.Abs(root)
		if err != nil {
			return err
		}

		err = filepath.Walk(absRoot, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return nil
			}

			if !info.IsDir() {
				return nil
			}

			if path != absRoot && isHidden(info.Name()) {
				return filepath.SkipDir
			}

			return w.fw.Add(path)
		})
		if err != nil {
			return err
		}
	}

	go w.loop(onChange)

	return nil
}

func (w *FSWatcher) loop(onChange func(paths []string)) {
	pending := make(map[string]struct{})
	timer := time.NewTimer(w.debounce)
	timer.Stop()

	for {
		select {
		case event, ok := <-w.fw.Events:
			if !ok {
				return
			}

			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() && !isHidden(info.Name()) {
					_ = w.fw.Add(event.Name)
				}
			}

			if isHidden(filepath.Base(event.Name)) || (event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write)) {
				continue
			}

			pending[event.Name] = struct{}{}

			timer.Reset(w.debounce)
		case <-timer.C:
			if len(pending) == 0 {
				continue
			}

			paths := make([]string, 0, len(pending))
			for path := range pending {
				paths = append(paths, path)
			}

			clear(pending)
			sort.Strings(paths)
			onChange(paths)
		case _, ok := <-w.fw.Errors:
			if !ok {
				return
			}
		case <-w.done:
			timer.Stop()

			return
		}
	}
}

// Stop ends monitoring and releases all resources.
func (w *FSWatcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}

	w.stopped = true
	close(w.done)

	return w.fw.Close()
}
