// Package tracker maintains the bounded, recency-ordered list of
// vault files. It is the single writer of that list: the UI reads
// through Items and re-renders in full when notified.
package tracker

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/wilbur182/recents/internal/exclude"
	"github.com/wilbur182/recents/internal/state"
	"github.com/wilbur182/recents/internal/vault"
)

// Item is one entry in the tracked list.
type Item struct {
	Path         string
	DisplayName  string
	LastModified time.Time
}

// OpenMode selects where an activated item opens.
type OpenMode string

const (
	OpenTab    OpenMode = "tab"    // primary pane
	OpenSplit  OpenMode = "split"  // split pane
	OpenWindow OpenMode = "window" // separate window (external editor)
)

// OpenTarget is the activation decision handed to the UI.
type OpenTarget int

const (
	TargetPrimary OpenTarget = iota
	TargetSplit
	TargetWindow
)

// NotFoundError reports an activation of a path that no longer exists.
// Non-fatal: the stale entry has already been removed.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no such file: %s", e.Path)
}

// Enumerator provides the live view of the vault.
type Enumerator interface {
	Enumerate() ([]vault.Entry, error)
	Exists(path string) bool
}

// Store persists tracker snapshots. Save must not block the caller on
// I/O; failures are the store's to log.
type Store interface {
	Save(*state.Record)
}

// Tracker owns the tracked list and all mutations to it. It is not
// safe for concurrent use; all calls happen on the event loop.
type Tracker struct {
	enum   Enumerator
	store  Store
	logger *slog.Logger

	items     []Item
	policy    *exclude.Policy
	maxLength *int // nil = unset, default applied at read time
	openMode  OpenMode

	subscribers []func()
}

// New creates a tracker over the given enumerator and store.
func New(enum Enumerator, store Store, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{
		enum:     enum,
		store:    store,
		logger:   logger,
		policy:   exclude.New(nil, logger),
		openMode: OpenTab,
	}
}

// Restore merges a persisted record over defaults. A nil record leaves
// the tracker at its zero configuration. Restore does not persist.
func (t *Tracker) Restore(rec *state.Record) {
	if rec == nil {
		return
	}
	t.items = t.items[:0]
	for _, f := range rec.RecentFiles {
		t.items = append(t.items, Item{
			Path:         f.Path,
			DisplayName:  f.Basename,
			LastModified: time.UnixMilli(f.Mtime),
		})
	}
	t.policy = exclude.New(rec.OmittedPaths, t.logger)
	if rec.MaxLength != nil {
		v := *rec.MaxLength
		t.maxLength = &v
	}
	if rec.OpenType != "" {
		if m, ok := parseOpenMode(rec.OpenType); ok {
			t.openMode = m
		} else {
			t.logger.Warn("tracker: unknown open type in saved state", "openType", rec.OpenType)
		}
	}
}

// Items returns a copy of the tracked list, most recent first.
func (t *Tracker) Items() []Item {
	return append([]Item(nil), t.items...)
}

// Patterns returns the exclusion pattern strings as entered.
func (t *Tracker) Patterns() []string {
	return t.policy.Sources()
}

// MaxLength returns the effective list cap.
func (t *Tracker) MaxLength() int {
	return state.EffectiveMaxLength(t.maxLength)
}

// OpenMode returns the configured activation mode.
func (t *Tracker) OpenMode() OpenMode { return t.openMode }

// Subscribe registers fn to run after every visible mutation.
func (t *Tracker) Subscribe(fn func()) {
	t.subscribers = append(t.subscribers, fn)
}

// Refresh obtains a fresh enumeration and recomputes the list.
func (t *Tracker) Refresh() error {
	entries, err := t.enum.Enumerate()
	if err != nil {
		t.logger.Error("tracker: enumeration failed", "error", err)
		return err
	}
	t.RecomputeAll(entries)
	return nil
}

// RecomputeAll rebuilds the list from a full snapshot: filter through
// the exclusion policy, stable-sort by modification time descending,
// truncate to the cap, replace atomically, persist.
func (t *Tracker) RecomputeAll(entries []vault.Entry) {
	next := make([]Item, 0, len(entries))
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		if seen[e.Path] {
			continue
		}
		seen[e.Path] = true
		if !t.policy.Allowed(e.Path) {
			continue
		}
		next = append(next, Item{
			Path:         e.Path,
			DisplayName:  e.DisplayName,
			LastModified: e.ModTime,
		})
	}

	// Stable: equal timestamps keep enumeration order.
	sort.SliceStable(next, func(i, j int) bool {
		return next[i].LastModified.After(next[j].LastModified)
	})

	if max := t.MaxLength(); len(next) > max {
		next = next[:max]
	}

	t.items = next
	t.persist()
	t.notify()
}

// OnOpened reacts to a file being opened. If the file is already at
// the top of the list no re-enumeration happens; this keeps the
// common case (re-opening the current file) free of filesystem walks.
func (t *Tracker) OnOpened(path string) {
	if len(t.items) > 0 && t.items[0].Path == path {
		return
	}
	_ = t.Refresh()
}

// OnEdited reacts to a file's content changing. Same short-circuit as
// OnOpened: edits to the most recent file must not walk the vault on
// every keystroke.
func (t *Tracker) OnEdited(path string) {
	if len(t.items) > 0 && t.items[0].Path == path {
		return
	}
	_ = t.Refresh()
}

// OnRenamed patches the entry for oldPath in place, keeping its
// timestamp and position. A rename of an untracked file is a no-op;
// it does not become tracked.
func (t *Tracker) OnRenamed(oldPath, newPath, newDisplayName string) {
	for i := range t.items {
		if t.items[i].Path == oldPath {
			t.items[i].Path = newPath
			t.items[i].DisplayName = newDisplayName
			t.persist()
			t.notify()
			return
		}
	}
}

// OnDeleted removes the entry for path. Persists only when the list
// actually changed, so deleting untracked files stays write-free.
func (t *Tracker) OnDeleted(path string) {
	for i := range t.items {
		if t.items[i].Path == path {
			t.items = append(t.items[:i], t.items[i+1:]...)
			t.persist()
			t.notify()
			return
		}
	}
}

// PruneExcluded re-applies the current policy to the existing list
// without re-enumerating. Previously excluded items are not re-admitted;
// that requires RecomputeAll. Returns whether anything was removed;
// an unchanged list persists nothing.
func (t *Tracker) PruneExcluded() bool {
	kept := t.items[:0]
	for _, it := range t.items {
		if t.policy.Allowed(it.Path) {
			kept = append(kept, it)
		}
	}
	if len(kept) == len(t.items) {
		return false
	}
	t.items = kept
	t.persist()
	t.notify()
	return true
}

// Activate resolves path for opening. A stale path self-heals: the
// entry is removed, persisted, subscribers notified, and a
// NotFoundError returned for the UI to surface. pinned forces a split
// regardless of the caller's intent.
func (t *Tracker) Activate(path string, forceSplit, pinned bool) (OpenTarget, error) {
	if !t.enum.Exists(path) {
		t.OnDeleted(path)
		return TargetPrimary, &NotFoundError{Path: path}
	}

	if forceSplit || pinned {
		return TargetSplit, nil
	}
	switch t.openMode {
	case OpenSplit:
		return TargetSplit, nil
	case OpenWindow:
		return TargetWindow, nil
	default:
		return TargetPrimary, nil
	}
}

// SetExclusionPatterns replaces the policy and prunes the live list.
// Invalid patterns are logged and skipped by the policy itself. The
// pattern change itself must reach disk even when no item is removed.
func (t *Tracker) SetExclusionPatterns(patterns []string) {
	t.policy = exclude.New(patterns, t.logger)
	if !t.PruneExcluded() {
		t.persist()
		t.notify()
	}
}

// SetMaxLength sets the list cap. Non-positive values are rejected
// outright rather than stored and warned about later.
func (t *Tracker) SetMaxLength(n int) error {
	if n <= 0 {
		return fmt.Errorf("max length must be positive, got %d", n)
	}
	t.maxLength = &n
	if len(t.items) > n {
		t.items = t.items[:n]
	}
	t.persist()
	t.notify()
	return nil
}

// ClearMaxLength drops an explicit cap, returning to the read-time
// default. The persisted record loses its maxLength field. No-op when
// no explicit cap is set.
func (t *Tracker) ClearMaxLength() {
	if t.maxLength == nil {
		return
	}
	t.maxLength = nil
	if len(t.items) > state.DefaultMaxLength {
		t.items = t.items[:state.DefaultMaxLength]
	}
	t.persist()
	t.notify()
}

// SetOpenMode sets the activation mode.
func (t *Tracker) SetOpenMode(m OpenMode) error {
	switch m {
	case OpenTab, OpenSplit, OpenWindow:
		t.openMode = m
		t.persist()
		return nil
	default:
		return fmt.Errorf("unknown open mode %q", m)
	}
}

// ClearAll empties the tracked list.
func (t *Tracker) ClearAll() {
	if len(t.items) == 0 {
		return
	}
	t.items = nil
	t.persist()
	t.notify()
}

// Record builds the persistable snapshot of the current state.
func (t *Tracker) Record() *state.Record {
	rec := &state.Record{
		RecentFiles:  make([]state.SavedFile, 0, len(t.items)),
		OmittedPaths: t.policy.Sources(),
		OpenType:     string(t.openMode),
	}
	for _, it := range t.items {
		rec.RecentFiles = append(rec.RecentFiles, state.SavedFile{
			Path:     it.Path,
			Basename: it.DisplayName,
			Mtime:    it.LastModified.UnixMilli(),
		})
	}
	if t.maxLength != nil {
		v := *t.maxLength
		rec.MaxLength = &v
	}
	return rec
}

func (t *Tracker) persist() {
	if t.store == nil {
		return
	}
	t.store.Save(t.Record())
}

func (t *Tracker) notify() {
	for _, fn := range t.subscribers {
		fn()
	}
}

func parseOpenMode(s string) (OpenMode, bool) {
	switch OpenMode(s) {
	case OpenTab, OpenSplit, OpenWindow:
		return OpenMode(s), true
	}
	return "", false
}
