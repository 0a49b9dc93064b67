package libutil

import (
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports files that changed on disk. Editors often replace files
// instead of writing them, so the parent directories are watched and events
// are filtered by name. Bursts of events are merged until the file has been
// quiet for Debounce.
type Watcher struct {
	Debounce time.Duration
	watcher  *fsnotify.Watcher
	mu       sync.Mutex
	files    map[string]bool
	dirs     map[string]bool
	pending  map[string]time.Time
	done     chan struct{}
}

func NewWatcher(debounce time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("could not create file watcher: %w", err)
	}
	w := &Watcher{
		Debounce: debounce,
		watcher:  fw,
		files:    map[string]bool{},
		dirs:     map[string]bool{},
		pending:  map[string]time.Time{},
		done:     make(chan struct{}),
	}
	go w.run()
	return w, nil
}

func (w *Watcher) Add(file string) error {
	file, err := filepath.Abs(file)
	if err != nil {
		return err
	}
	dir := filepath.Dir(file)

	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.dirs[dir] {
		if err := w.watcher.Add(dir); err != nil {
			return fmt.Errorf("could not watch %q: %w", dir, err)
		}
		w.dirs[dir] = true
	}
	w.files[file] = true
	return nil
}

func (w *Watcher) run() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			name := filepath.Clean(event.Name)
			w.mu.Lock()
			if w.files[name] {
				w.pending[name] = time.Now()
			}
			w.mu.Unlock()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("file watcher error: %v\n", err)
		}
	}
}

// Poll returns the files that changed and have settled since the last call.
// It never blocks, so it can be called once per frame.
func (w *Watcher) Poll() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	var changed []string
	now := time.Now()
	for name, at := range w.pending {
		if now.Sub(at) >= w.Debounce {
			changed = append(changed, name)
			delete(w.pending, name)
		}
	}
	return changed
}

func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}
