package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wilbur182/recents/internal/vault"
)

// WatchStartedMsg carries the running watcher back to the model.
type WatchStartedMsg struct {
	Watcher *vault.Watcher
}

// WatchErrMsg reports a watcher that failed to start.
type WatchErrMsg struct {
	Err error
}

// WatchEventMsg is a single filesystem event from the vault watcher.
type WatchEventMsg struct {
	Event vault.Event
}

// WatchClosedMsg signals the watcher's event channel closed.
type WatchClosedMsg struct{}

// RefreshedMsg carries a fresh enumeration back to the event loop.
// The tracker itself is only ever touched from Update.
type RefreshedMsg struct {
	Entries []vault.Entry
	Err     error
}

// PreviewLoadedMsg carries a loaded file preview.
type PreviewLoadedMsg struct {
	Path        string
	RawLines    []string
	Highlighted []string
	IsMarkdown  bool
	IsBinary    bool
	Err         error
	Split       bool
}

// EditorFinishedMsg reports the external editor exiting.
type EditorFinishedMsg struct {
	Path string
	Err  error
}

// renameExpiredMsg fires when a renamed-away path saw no created
// counterpart; the file left the vault.
type renameExpiredMsg struct {
	Path string
}

// tickMsg drives toast expiry.
type tickMsg time.Time

// renameWindow is how long a renamed-away path waits for its created
// counterpart before it counts as a deletion.
const renameWindow = 250 * time.Millisecond

func renameTimeoutCmd(path string) tea.Cmd {
	return tea.Tick(renameWindow, func(time.Time) tea.Msg {
		return renameExpiredMsg{Path: path}
	})
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// startWatcher launches the vault watcher in the background.
func (m *Model) startWatcher() tea.Cmd {
	return func() tea.Msg {
		w, err := vault.NewWatcher(m.vault)
		if err != nil {
			return WatchErrMsg{Err: err}
		}
		return WatchStartedMsg{Watcher: w}
	}
}

// listenForWatchEvents waits for the next filesystem event. The command
// re-arms itself from Update after each message.
func (m *Model) listenForWatchEvents() tea.Cmd {
	w := m.watcher
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-w.Events()
		if !ok {
			return WatchClosedMsg{}
		}
		return WatchEventMsg{Event: ev}
	}
}

// refreshCmd walks the vault off the UI goroutine. Only the walk runs
// here; the recompute happens in Update so the tracker keeps its
// single writer.
func (m *Model) refreshCmd() tea.Cmd {
	return func() tea.Msg {
		entries, err := m.vault.Enumerate()
		return RefreshedMsg{Entries: entries, Err: err}
	}
}
