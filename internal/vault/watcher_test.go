package vault

import (
	"os"
	"testing"
	"time"
)

func newTestWatcher(t *testing.T) (*Vault, *Watcher) {
	t.Helper()
	tmpDir := t.TempDir()
	v, err := New(tmpDir)
	if err != nil {
		t.Fatal(err)
	}
	w, err := NewWatcher(v)
	if err != nil {
		t.Fatalf("NewWatcher() failed: %v", err)
	}
	t.Cleanup(w.Stop)
	return v, w
}

// waitFor reads events until one matches, or fails after a timeout.
func waitFor(t *testing.T, w *Watcher, match func(Event) bool) Event {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case ev, ok := <-w.Events():
			if !ok {
				t.Fatal("events channel closed while waiting")
			}
			if match(ev) {
				return ev
			}
		case <-timeout:
			t.Fatal("timeout waiting for event")
		}
	}
}

func TestWatcher_Create(t *testing.T) {
	v, w := newTestWatcher(t)

	if err := os.WriteFile(v.Abs("new.md"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	ev := waitFor(t, w, func(e Event) bool { return e.Type == EventCreated })
	if ev.Path != "new.md" {
		t.Errorf("event path = %q, want %q", ev.Path, "new.md")
	}
}

func TestWatcher_WriteDebounced(t *testing.T) {
	v, w := newTestWatcher(t)

	path := v.Abs("a.md")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	waitFor(t, w, func(e Event) bool { return e.Type == EventCreated })

	// Burst of writes should collapse into a small number of events.
	for i := 0; i < 5; i++ {
		if err := os.WriteFile(path, []byte("xxxx"), 0644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(5 * time.Millisecond)
	}

	ev := waitFor(t, w, func(e Event) bool { return e.Type == EventWritten })
	if ev.Path != "a.md" {
		t.Errorf("event path = %q, want %q", ev.Path, "a.md")
	}
}

func TestWatcher_Remove(t *testing.T) {
	v, w := newTestWatcher(t)

	if err := os.WriteFile(v.Abs("gone.md"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	waitFor(t, w, func(e Event) bool { return e.Type == EventCreated })

	if err := os.Remove(v.Abs("gone.md")); err != nil {
		t.Fatal(err)
	}

	ev := waitFor(t, w, func(e Event) bool { return e.Type == EventRemoved })
	if ev.Path != "gone.md" {
		t.Errorf("event path = %q, want %q", ev.Path, "gone.md")
	}
}

func TestWatcher_Rename(t *testing.T) {
	v, w := newTestWatcher(t)

	if err := os.WriteFile(v.Abs("old.md"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	waitFor(t, w, func(e Event) bool { return e.Type == EventCreated })

	if err := os.Rename(v.Abs("old.md"), v.Abs("new.md")); err != nil {
		t.Fatal(err)
	}

	// A rename shows up as the old name going away and the new name
	// being created.
	waitFor(t, w, func(e Event) bool {
		return e.Type == EventRenamedAway && e.Path == "old.md"
	})
	waitFor(t, w, func(e Event) bool {
		return e.Type == EventCreated && e.Path == "new.md"
	})
}

func TestWatcher_NewDirectoryAutoWatched(t *testing.T) {
	v, w := newTestWatcher(t)

	if err := os.Mkdir(v.Abs("sub"), 0755); err != nil {
		t.Fatal(err)
	}
	time.Sleep(100 * time.Millisecond) // allow the watch to attach

	if err := os.WriteFile(v.Abs("sub/inner.md"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	ev := waitFor(t, w, func(e Event) bool { return e.Type == EventCreated })
	if ev.Path != "sub/inner.md" {
		t.Errorf("event path = %q, want %q", ev.Path, "sub/inner.md")
	}
}

func TestWatcher_HiddenFilesIgnored(t *testing.T) {
	v, w := newTestWatcher(t)

	if err := os.WriteFile(v.Abs(".hidden.md"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(v.Abs("visible.md"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	ev := waitFor(t, w, func(e Event) bool { return e.Type == EventCreated })
	if ev.Path != "visible.md" {
		t.Errorf("first created event = %q, want %q (hidden file leaked)", ev.Path, "visible.md")
	}
}

func TestWatcher_NewSkipDirectoryNotWatched(t *testing.T) {
	v, w := newTestWatcher(t)

	if err := os.Mkdir(v.Abs(".obsidian"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(v.Abs("node_modules"), 0755); err != nil {
		t.Fatal(err)
	}
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(v.Abs(".obsidian/workspace.json"), []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(v.Abs("node_modules/pkg.json"), []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(v.Abs("visible.md"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	ev := waitFor(t, w, func(e Event) bool { return e.Type == EventCreated })
	if ev.Path != "visible.md" {
		t.Errorf("first created event = %q, want %q (skip directory leaked)", ev.Path, "visible.md")
	}
}

func TestWatcher_StopClosesChannel(t *testing.T) {
	tmpDir := t.TempDir()
	v, err := New(tmpDir)
	if err != nil {
		t.Fatal(err)
	}
	w, err := NewWatcher(v)
	if err != nil {
		t.Fatal(err)
	}

	w.Stop()

	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-w.Events():
			if !ok {
				return // closed as expected
			}
		case <-deadline:
			t.Fatal("events channel not closed after Stop")
		}
	}
}
