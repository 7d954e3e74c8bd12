// Package app is the root Bubble Tea model: the recents sidebar, the
// preview panes, and the settings modal over the tracker's state.
package app

import (
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wilbur182/recents/internal/config"
	"github.com/wilbur182/recents/internal/keymap"
	"github.com/wilbur182/recents/internal/markdown"
	"github.com/wilbur182/recents/internal/mouse"
	"github.com/wilbur182/recents/internal/tracker"
	"github.com/wilbur182/recents/internal/vault"
)

// FocusPane identifies which pane receives keys.
type FocusPane int

const (
	PaneList FocusPane = iota
	PaneMain
	PaneSplit
)

// previewSlot is one loaded preview pane.
type previewSlot struct {
	path        string
	rawLines    []string
	highlighted []string
	isMarkdown  bool
	isBinary    bool
	loadErr     error
	scroll      int
	rendered    bool // markdown rendered (vs raw) view
	pinned      bool
}

// Model is the root application model.
type Model struct {
	cfg     *config.Config
	tracker *tracker.Tracker
	vault   *vault.Vault
	keymap  *keymap.Registry
	logger  *slog.Logger

	watcher *vault.Watcher
	mouse   *mouse.Handler

	// A renamed-away path waiting for its created counterpart. Renames
	// arrive from fsnotify as two events.
	pendingRename   string
	pendingRenameAt time.Time

	// Layout
	width, height int
	focus         FocusPane

	// Sidebar state
	cursor    int
	scrollOff int

	// Preview state
	main       *previewSlot
	split      *previewSlot
	mdRenderer *markdown.Renderer

	// Settings modal (nil = closed)
	settings *settingsModel

	// Status toast
	statusMsg     string
	statusExpiry  time.Time
	statusIsError bool

	showHelp bool
	version  string
}

// New creates the application model.
func New(cfg *config.Config, tr *tracker.Tracker, v *vault.Vault, km *keymap.Registry, logger *slog.Logger, version string) *Model {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Model{
		cfg:        cfg,
		tracker:    tr,
		vault:      v,
		keymap:     km,
		logger:     logger,
		mouse:      mouse.NewHandler(),
		mdRenderer: markdown.NewRenderer(),
		version:    version,
	}
	m.main = &previewSlot{rendered: true}
	return m
}

// Init starts the watcher and performs the initial recompute.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.startWatcher(),
		m.refreshCmd(),
		tickCmd(),
	)
}

// FocusContext names the active keymap context.
func (m *Model) FocusContext() string {
	if m.settings != nil {
		return "settings"
	}
	if m.focus == PaneMain || m.focus == PaneSplit {
		return "preview"
	}
	return "list"
}

// focusedSlot returns the preview slot holding focus, or nil when the
// sidebar is focused.
func (m *Model) focusedSlot() *previewSlot {
	switch m.focus {
	case PaneMain:
		return m.main
	case PaneSplit:
		return m.split
	}
	return nil
}

// selectedItem returns the tracked item under the cursor.
func (m *Model) selectedItem() (tracker.Item, bool) {
	items := m.tracker.Items()
	if m.cursor < 0 || m.cursor >= len(items) {
		return tracker.Item{}, false
	}
	return items[m.cursor], true
}

// clampCursor keeps cursor and scroll valid after the list changes.
func (m *Model) clampCursor() {
	n := len(m.tracker.Items())
	if n == 0 {
		m.cursor = 0
		m.scrollOff = 0
		return
	}
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.ensureCursorVisible()
}

// ensureCursorVisible adjusts the sidebar scroll to keep the cursor in
// view.
func (m *Model) ensureCursorVisible() {
	visible := m.listInnerHeight()
	if visible <= 0 {
		return
	}
	if m.cursor < m.scrollOff {
		m.scrollOff = m.cursor
	}
	if m.cursor >= m.scrollOff+visible {
		m.scrollOff = m.cursor - visible + 1
	}
}

// showToast displays a temporary status message.
func (m *Model) showToast(msg string, isError bool) {
	m.statusMsg = msg
	m.statusIsError = isError
	m.statusExpiry = time.Now().Add(3 * time.Second)
}

// clearExpiredToast drops the toast once its time is up.
func (m *Model) clearExpiredToast() {
	if m.statusMsg != "" && time.Now().After(m.statusExpiry) {
		m.statusMsg = ""
		m.statusIsError = false
	}
}

// Stop releases resources at shutdown.
func (m *Model) Stop() {
	if m.watcher != nil {
		m.watcher.Stop()
	}
}
