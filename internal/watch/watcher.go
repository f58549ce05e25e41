// Package watch re-delivers input files as they change on disk. Writes are
// debounced per path so that an editor saving a file produces one event.
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
)

// Op is the kind of change observed
type Op int

const (
	// Changed means the file was created or written
	Changed Op = iota
	// Removed means the file was removed or renamed away
	Removed
)

// String returns a human-readable representation of the operation
func (op Op) String() string {
	switch op {
	case Changed:
		return "changed"
	case Removed:
		return "removed"
	default:
		return "unknown"
	}
}

// Event is a change to a watched file
type Event struct {
	Path      string
	Op        Op
	Timestamp time.Time
}

// MatchFunc selects the files a Watcher reports
type MatchFunc func(path string) bool

// DefaultDebounceDelay coalesces the burst of events an editor save produces
const DefaultDebounceDelay = 200 * time.Millisecond

// Watcher watches a directory tree for changes to matching files
type Watcher struct {
	watcher *fsnotify.Watcher
	events  chan Event
	errors  chan error
	done    chan struct{}
	rootDir string
	match   MatchFunc

	mu            sync.Mutex
	debounceDelay time.Duration
	pending       map[string]*time.Timer
	closed        bool
}

// New watches rootDir and its subdirectories. Hidden files and
// directories are ignored; a nil match accepts every other file.
func New(rootDir string, match MatchFunc) (*Watcher, error) {
	rootDir = filepath.Clean(rootDir)
	info, err := os.Stat(rootDir)
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", rootDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watch %s: not a directory", rootDir)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	w := &Watcher{
		watcher:       fsw,
		events:        make(chan Event, 100),
		errors:        make(chan error, 10),
		done:          make(chan struct{}),
		rootDir:       rootDir,
		match:         match,
		debounceDelay: DefaultDebounceDelay,
		pending:       make(map[string]*time.Timer),
	}

	if err := w.addRecursive(rootDir); err != nil {
		fsw.Close()
		return nil, err
	}

	go w.processEvents()
	return w, nil
}

func hidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

func (w *Watcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && hidden(d.Name()) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			if os.IsPermission(err) {
				return nil
			}
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

func (w *Watcher) processEvents() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.sendError(err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := event.Name

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if !hidden(info.Name()) {
				if err := w.addRecursive(path); err != nil {
					w.sendError(err)
				}
			}
			return
		}
	}

	if hidden(filepath.Base(path)) || (w.match != nil && !w.match(path)) {
		return
	}

	switch {
	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
		w.debounce(path, Changed)
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		w.debounce(path, Removed)
	}
}

// debounce restarts the path's timer so only the last op in a burst is sent
func (w *Watcher) debounce(path string, op Op) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	if timer, ok := w.pending[path]; ok {
		timer.Stop()
	}
	w.pending[path] = time.AfterFunc(w.debounceDelay, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()
		w.send(Event{Path: path, Op: op, Timestamp: time.Now()})
	})
}

func (w *Watcher) send(event Event) {
	select {
	case w.events <- event:
	case <-w.done:
	default:
		// full, drop
	}
}

func (w *Watcher) sendError(err error) {
	select {
	case w.errors <- err:
	default:
	}
}

// Events returns the channel of debounced file events
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Errors returns the channel of watcher errors
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// RootDir returns the watched directory
func (w *Watcher) RootDir() string {
	return w.rootDir
}

// SetDebounceDelay changes the debounce delay for subsequent events
func (w *Watcher) SetDebounceDelay(delay time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.debounceDelay = delay
}

// Close stops the watcher. Pending debounced events are discarded.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	for _, timer := range w.pending {
		timer.Stop()
	}
	w.pending = nil
	w.mu.Unlock()

	close(w.done)
	return w.watcher.Close()
}

// Run calls handle for every event until ctx is done, then closes the
// watcher. Errors are passed to onError when it is non-nil.
func (w *Watcher) Run(ctx context.Context, handle func(Event), onError func(error)) error {
	defer w.Close()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.events:
			handle(event)
		case err := <-w.errors:
			if onError != nil {
				onError(err)
			}
		}
	}
}
