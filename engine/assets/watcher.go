package assets

import (
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spaghettifunk/anima-rb/engine/core"
)

// Watcher reports files created or written under a directory tree. New
// sub-directories are watched as they appear.
type Watcher struct {
	fsnotify *fsnotify.Watcher
	filter   func(path string) bool

	events chan string
	done   chan struct{}

	mutex    sync.Mutex
	isClosed bool
}

// NewWatcher watches root recursively. Only paths accepted by filter are
// reported; a nil filter accepts everything.
func NewWatcher(root string, filter func(path string) bool) (*Watcher, error) {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		fsnotify: fsWatch,
		filter:   filter,
		events:   make(chan string, 16),
		done:     make(chan struct{}),
	}
	if err := w.watchRecursive(root); err != nil {
		fsWatch.Close()
		return nil, err
	}
	go w.start()
	return w, nil
}

// Events delivers the path of every changed file. The channel is closed by Close.
func (w *Watcher) Events() <-chan string {
	return w.events
}

func (w *Watcher) Close() error {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	if w.isClosed {
		return errors.New("watcher already closed")
	}
	w.isClosed = true
	close(w.done)
	return nil
}

func (w *Watcher) start() {
	defer close(w.events)
	for {
		select {
		case e, ok := <-w.fsnotify.Events:
			if !ok {
				return
			}
			s, err := os.Stat(e.Name)
			if err == nil && s.IsDir() {
				if e.Op&fsnotify.Create != 0 {
					if err := w.watchRecursive(e.Name); err != nil {
						core.LogWarn("failed to watch %s: %s", e.Name, err)
					}
				}
				continue
			}
			if e.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if w.filter != nil && !w.filter(e.Name) {
				continue
			}
			select {
			case w.events <- e.Name:
			case <-w.done:
				w.fsnotify.Close()
				return
			}

		case err, ok := <-w.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError(err.Error())

		case <-w.done:
			w.fsnotify.Close()
			return
		}
	}
}

// watchRecursive adds root and every directory below it.
func (w *Watcher) watchRecursive(root string) error {
	return filepath.Walk(root, func(walkPath string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			return w.fsnotify.Add(walkPath)
		}
		return nil
	})
}
