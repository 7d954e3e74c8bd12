package app

import (
	"errors"
	"os"
	"os/exec"
	"sort"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/wilbur182/recents/internal/config"
	"github.com/wilbur182/recents/internal/markdown"
	"github.com/wilbur182/recents/internal/styles"
	"github.com/wilbur182/recents/internal/tracker"
	"github.com/wilbur182/recents/internal/vault"
)

// Update is the root message handler.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ensureCursorVisible()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m, m.handleMouse(msg)

	case tickMsg:
		m.clearExpiredToast()
		return m, tickCmd()

	case WatchStartedMsg:
		m.watcher = msg.Watcher
		return m, m.listenForWatchEvents()

	case WatchErrMsg:
		m.logger.Error("watcher failed to start", "error", msg.Err)
		m.showToast("file watching unavailable: "+msg.Err.Error(), true)
		return m, nil

	case WatchEventMsg:
		return m, tea.Batch(m.handleWatchEvent(msg.Event), m.listenForWatchEvents())

	case WatchClosedMsg:
		return m, nil

	case renameExpiredMsg:
		if m.pendingRename == msg.Path {
			m.pendingRename = ""
			m.tracker.OnDeleted(msg.Path)
			m.clampCursor()
		}
		return m, nil

	case RefreshedMsg:
		if msg.Err != nil {
			m.logger.Error("refresh failed", "error", msg.Err)
			m.showToast("refresh failed: "+msg.Err.Error(), true)
		} else {
			m.tracker.RecomputeAll(msg.Entries)
		}
		m.clampCursor()
		return m, nil

	case PreviewLoadedMsg:
		m.applyPreview(msg)
		return m, nil

	case EditorFinishedMsg:
		if msg.Err != nil {
			m.logger.Error("editor exited with error", "path", msg.Path, "error", msg.Err)
			m.showToast("editor failed: "+msg.Err.Error(), true)
		}
		return m, nil
	}

	return m, nil
}

// handleWatchEvent folds a filesystem event into the tracker and
// refreshes any preview showing the touched file. A created event
// right after a renamed-away is the second half of a rename and keeps
// the item's list position.
func (m *Model) handleWatchEvent(ev vault.Event) tea.Cmd {
	var cmds []tea.Cmd
	switch ev.Type {
	case vault.EventCreated:
		if old := m.takePendingRename(); old != "" && m.isTracked(old) {
			m.tracker.OnRenamed(old, ev.Path, vault.DisplayName(ev.Path))
			cmds = append(cmds, m.retargetPreviews(old, ev.Path)...)
			break
		}
		m.tracker.OnEdited(ev.Path)
		cmds = append(cmds, m.reloadPreviews(ev.Path)...)
	case vault.EventWritten:
		m.tracker.OnEdited(ev.Path)
		cmds = append(cmds, m.reloadPreviews(ev.Path)...)
	case vault.EventRemoved:
		m.tracker.OnDeleted(ev.Path)
	case vault.EventRenamedAway:
		m.pendingRename = ev.Path
		m.pendingRenameAt = time.Now()
		cmds = append(cmds, renameTimeoutCmd(ev.Path))
	}
	m.clampCursor()
	return tea.Batch(cmds...)
}

// takePendingRename consumes the pending renamed-away path if it is
// still within the rename window.
func (m *Model) takePendingRename() string {
	if m.pendingRename == "" || time.Since(m.pendingRenameAt) > renameWindow {
		return ""
	}
	old := m.pendingRename
	m.pendingRename = ""
	return old
}

func (m *Model) isTracked(path string) bool {
	for _, it := range m.tracker.Items() {
		if it.Path == path {
			return true
		}
	}
	return false
}

// reloadPreviews refreshes any preview slot currently showing path.
func (m *Model) reloadPreviews(path string) []tea.Cmd {
	var cmds []tea.Cmd
	if m.main.path == path {
		cmds = append(cmds, m.loadPreview(path, false))
	}
	if m.split != nil && m.split.path == path {
		cmds = append(cmds, m.loadPreview(path, true))
	}
	return cmds
}

// retargetPreviews points slots showing a renamed file at its new path.
func (m *Model) retargetPreviews(oldPath, newPath string) []tea.Cmd {
	var cmds []tea.Cmd
	if m.main.path == oldPath {
		m.main.path = newPath
		cmds = append(cmds, m.loadPreview(newPath, false))
	}
	if m.split != nil && m.split.path == oldPath {
		m.split.path = newPath
		cmds = append(cmds, m.loadPreview(newPath, true))
	}
	return cmds
}

// handleKey resolves the key through the keymap and dispatches the
// bound command.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctx := m.FocusContext()
	cmd := m.keymap.Resolve(msg, ctx)

	if m.settings != nil {
		return m.handleSettingsKey(msg, cmd)
	}

	if m.showHelp {
		// Any key closes help except another toggle, which is the same
		// result anyway.
		m.showHelp = false
		if cmd == "quit" {
			return m, tea.Quit
		}
		return m, nil
	}

	switch cmd {
	case "quit":
		return m, tea.Quit
	case "toggle-help":
		m.showHelp = true
		return m, nil

	case "cursor-down":
		m.moveCursor(1)
	case "cursor-up":
		m.moveCursor(-1)
	case "cursor-top":
		m.cursor = 0
		m.ensureCursorVisible()
	case "cursor-bottom":
		if n := len(m.tracker.Items()); n > 0 {
			m.cursor = n - 1
		}
		m.ensureCursorVisible()

	case "activate":
		return m, m.activateSelected(false)
	case "activate-split":
		return m, m.activateSelected(true)

	case "refresh":
		return m, m.refreshCmd()

	case "delete-entry":
		if it, ok := m.selectedItem(); ok {
			m.tracker.OnDeleted(it.Path)
			m.clampCursor()
		}
	case "clear-all":
		m.tracker.ClearAll()
		m.clampCursor()

	case "copy-path":
		m.copySelectedPath()

	case "toggle-pin":
		m.togglePin()

	case "open-settings":
		m.settings = newSettingsModel(m.tracker, m.tracker.Record().MaxLength != nil)

	case "toggle-theme":
		m.cycleTheme()

	case "focus-preview":
		if m.main.path != "" || m.main.loadErr != nil {
			m.focus = PaneMain
		}
	case "focus-list":
		m.focus = PaneList

	case "scroll-down":
		m.scrollPreview(1)
	case "scroll-up":
		m.scrollPreview(-1)
	case "scroll-halfpage-down":
		m.scrollPreview(m.previewInnerHeight() / 2)
	case "scroll-halfpage-up":
		m.scrollPreview(-m.previewInnerHeight() / 2)
	case "scroll-top":
		if s := m.focusedSlot(); s != nil {
			s.scroll = 0
		}
	case "scroll-bottom":
		m.scrollPreviewToBottom()
	case "toggle-markdown":
		if s := m.focusedSlot(); s != nil && s.isMarkdown {
			s.rendered = !s.rendered
			s.scroll = 0
		}
	}

	return m, nil
}

// handleSettingsKey drives the settings modal.
func (m *Model) handleSettingsKey(msg tea.KeyMsg, cmd string) (tea.Model, tea.Cmd) {
	s := m.settings
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	switch cmd {
	case "settings-cancel":
		m.settings = nil
		return m, nil
	case "settings-apply":
		if s.apply(m.tracker) {
			if s.warnText != "" {
				m.showToast(s.warnText, false)
			}
			m.settings = nil
			m.clampCursor()
		}
		return m, nil
	case "settings-next-field":
		s.cycleFocus(1)
		return m, nil
	case "settings-prev-field":
		s.cycleFocus(-1)
		return m, nil
	}
	return m, s.update(msg)
}

func (m *Model) moveCursor(delta int) {
	n := len(m.tracker.Items())
	if n == 0 {
		return
	}
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor >= n {
		m.cursor = n - 1
	}
	m.ensureCursorVisible()
}

// activateSelected opens the item under the cursor. Stale entries are
// removed by the tracker; the user just sees a notice.
func (m *Model) activateSelected(forceSplit bool) tea.Cmd {
	it, ok := m.selectedItem()
	if !ok {
		return nil
	}

	target, err := m.tracker.Activate(it.Path, forceSplit, m.main.pinned)
	if err != nil {
		var nf *tracker.NotFoundError
		if errors.As(err, &nf) {
			m.showToast("removed missing file: "+nf.Path, false)
			m.clampCursor()
			return nil
		}
		m.showToast(err.Error(), true)
		return nil
	}

	m.tracker.OnOpened(it.Path)

	switch target {
	case tracker.TargetPrimary:
		m.focus = PaneList
		return m.loadPreview(it.Path, false)
	case tracker.TargetSplit:
		return m.loadPreview(it.Path, true)
	case tracker.TargetWindow:
		return m.openInEditor(it.Path)
	}
	return nil
}

// openInEditor suspends the TUI and runs the configured editor.
func (m *Model) openInEditor(relPath string) tea.Cmd {
	editor := m.cfg.Editor.Command
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}
	if editor == "" {
		editor = "vi"
	}
	c := exec.Command(editor, m.vault.Abs(relPath))
	return tea.ExecProcess(c, func(err error) tea.Msg {
		return EditorFinishedMsg{Path: relPath, Err: err}
	})
}

// copySelectedPath puts the focused file's absolute path on the system
// clipboard.
func (m *Model) copySelectedPath() {
	var rel string
	if s := m.focusedSlot(); s != nil {
		rel = s.path
	} else if it, ok := m.selectedItem(); ok {
		rel = it.Path
	}
	if rel == "" {
		return
	}
	if err := clipboard.WriteAll(m.vault.Abs(rel)); err != nil {
		m.logger.Warn("clipboard write failed", "error", err)
		m.showToast("copy failed: "+err.Error(), true)
		return
	}
	m.showToast("copied "+rel, false)
}

// cycleTheme switches to the next registered theme and persists the
// choice. The markdown renderer caches styled output, so it is rebuilt
// under the new theme.
func (m *Model) cycleTheme() {
	names := styles.ListThemes()
	sort.Strings(names)
	if len(names) == 0 {
		return
	}
	next := names[0]
	for i, name := range names {
		if name == m.cfg.UI.Theme.Name {
			next = names[(i+1)%len(names)]
			break
		}
	}

	m.cfg.UI.Theme.Name = next
	styles.ApplyTheme(next)
	m.mdRenderer = markdown.NewRenderer()

	if err := config.Save(m.cfg); err != nil {
		m.logger.Warn("failed to persist theme", "error", err)
		m.showToast("theme "+next+" (not saved: "+err.Error()+")", true)
		return
	}
	m.showToast("theme: "+next, false)
}

// togglePin pins or unpins the main preview. A pinned main preview
// forces activations into the split slot.
func (m *Model) togglePin() {
	s := m.focusedSlot()
	if s == nil {
		s = m.main
	}
	if s.path == "" {
		return
	}
	s.pinned = !s.pinned
	if s.pinned {
		m.showToast("pinned "+s.path, false)
	} else {
		m.showToast("unpinned "+s.path, false)
	}
}

// handleMouse routes clicks and wheel events through the hit map the
// last render registered.
func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if m.settings != nil || m.showHelp {
		return nil
	}
	if msg.Action != tea.MouseActionPress {
		return nil
	}

	switch msg.Button {
	case tea.MouseButtonLeft:
		click := m.mouse.HandleClick(msg.X, msg.Y)
		if click.Region == nil {
			return nil
		}
		switch click.Region.ID {
		case "list-item":
			idx, ok := click.Region.Data.(int)
			if !ok {
				return nil
			}
			m.focus = PaneList
			m.cursor = idx
			m.ensureCursorVisible()
			if click.Double {
				return m.activateSelected(false)
			}
		case "pane-list":
			m.focus = PaneList
		case "pane-main":
			if m.main.path != "" {
				m.focus = PaneMain
			}
		case "pane-split":
			if m.split != nil {
				m.focus = PaneSplit
			}
		}
	case tea.MouseButtonWheelUp:
		m.handleWheel(msg.X, -1)
	case tea.MouseButtonWheelDown:
		m.handleWheel(msg.X, 1)
	}
	return nil
}

// handleWheel scrolls whatever sits under the pointer.
func (m *Model) handleWheel(x, direction int) {
	if x < m.sidebarWidth() {
		m.moveCursor(direction)
		return
	}
	s := m.main
	if m.split != nil && x >= m.sidebarWidth()+m.previewAreaWidth()/2 {
		s = m.split
	}
	m.scrollSlot(s, direction*3)
}

func (m *Model) scrollPreview(delta int) {
	m.scrollSlot(m.focusedSlot(), delta)
}

func (m *Model) scrollSlot(s *previewSlot, delta int) {
	if s == nil {
		return
	}
	s.scroll += delta
	if s.scroll < 0 {
		s.scroll = 0
	}
	max := m.maxScroll(s)
	if s.scroll > max {
		s.scroll = max
	}
}

func (m *Model) scrollPreviewToBottom() {
	if s := m.focusedSlot(); s != nil {
		s.scroll = m.maxScroll(s)
	}
}

func (m *Model) maxScroll(s *previewSlot) int {
	lines := len(m.contentLines(s, m.previewInnerWidth()))
	max := lines - m.previewInnerHeight()
	if max < 0 {
		max = 0
	}
	return max
}
