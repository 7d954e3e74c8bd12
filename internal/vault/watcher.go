package vault

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// EventType identifies the kind of vault change.
type EventType string

const (
	EventCreated EventType = "created"
	EventWritten EventType = "written"
	EventRemoved EventType = "removed"
	// EventRenamedAway fires for the old name of a rename; the new name
	// arrives as a separate EventCreated.
	EventRenamedAway EventType = "renamed-away"
)

const writeDebounce = 100 * time.Millisecond

// Event is a single vault change, with a vault-relative path.
type Event struct {
	Type EventType
	Path string
}

// Watcher monitors the vault for file changes. Write bursts to the
// same file are debounced; creates, removes and renames pass through
// immediately.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	root      string
	events    chan Event
	stop      chan struct{}

	mu       sync.Mutex
	debounce map[string]*time.Timer
	closed   bool
}

// NewWatcher creates a watcher for the vault's directory tree.
func NewWatcher(v *Vault) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsWatcher: fsw,
		root:      v.Root(),
		events:    make(chan Event, 32),
		stop:      make(chan struct{}),
		debounce:  make(map[string]*time.Timer),
	}

	if err := w.addRecursive(w.root); err != nil {
		fsw.Close()
		return nil, err
	}

	go w.run()
	return w, nil
}

// addRecursive watches dir and all its subdirectories. fsnotify does
// not descend on its own.
func (w *Watcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			return nil // skip unreadable subdirectories
		}
		if !d.IsDir() {
			return nil
		}
		name := d.Name()
		if path != dir && (skipDir(name) || strings.HasPrefix(name, ".")) {
			return filepath.SkipDir
		}
		return w.fsWatcher.Add(path)
	})
}

// run translates fsnotify events into vault events.
func (w *Watcher) run() {
	defer func() {
		w.mu.Lock()
		w.closed = true
		for _, t := range w.debounce {
			t.Stop()
		}
		close(w.events)
		w.mu.Unlock()
	}()

	for {
		select {
		case <-w.stop:
			return
		case ev, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case _, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			// keep watching
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if ev.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			name := filepath.Base(ev.Name)
			if skipDir(name) || strings.HasPrefix(name, ".") {
				return
			}
			_ = w.addRecursive(ev.Name) // new directory, possibly mkdir -p
			return
		}
	}

	rel, err := filepath.Rel(w.root, ev.Name)
	if err != nil {
		return
	}
	rel = filepath.ToSlash(rel)
	if strings.HasPrefix(filepath.Base(ev.Name), ".") {
		return
	}

	switch {
	case ev.Op&fsnotify.Create != 0:
		w.send(Event{Type: EventCreated, Path: rel})
	case ev.Op&fsnotify.Remove != 0:
		w.cancelDebounce(rel)
		w.send(Event{Type: EventRemoved, Path: rel})
	case ev.Op&fsnotify.Rename != 0:
		w.cancelDebounce(rel)
		w.send(Event{Type: EventRenamedAway, Path: rel})
	case ev.Op&fsnotify.Write != 0:
		w.debounceWrite(rel)
	}
}

// debounceWrite coalesces rapid writes to the same file into one event.
func (w *Watcher) debounceWrite(rel string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if t, ok := w.debounce[rel]; ok {
		t.Stop()
	}
	w.debounce[rel] = time.AfterFunc(writeDebounce, func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		delete(w.debounce, rel)
		if w.closed {
			return
		}
		w.sendLocked(Event{Type: EventWritten, Path: rel})
	})
}

func (w *Watcher) cancelDebounce(rel string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.debounce[rel]; ok {
		t.Stop()
		delete(w.debounce, rel)
	}
}

// send delivers an event without blocking; a full channel drops the
// event, which the next full recompute absorbs.
func (w *Watcher) send(e Event) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.sendLocked(e)
}

// sendLocked requires w.mu held and w.closed checked by the caller.
func (w *Watcher) sendLocked(e Event) {
	select {
	case w.events <- e:
	default:
	}
}

// Events returns the change channel. Closed after Stop.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Stop shuts down the watcher.
func (w *Watcher) Stop() {
	close(w.stop)
	w.fsWatcher.Close()
}
