package app

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/wilbur182/recents/internal/styles"
)

const (
	maxPreviewSize  = 500 * 1024 // 500KB
	maxPreviewLines = 10000
)

// loadPreview reads a vault file off the UI goroutine and delivers a
// PreviewLoadedMsg for the given slot.
func (m *Model) loadPreview(relPath string, split bool) tea.Cmd {
	fullPath := m.vault.Abs(relPath)
	return func() tea.Msg {
		msg := PreviewLoadedMsg{Path: relPath, Split: split}

		info, err := os.Stat(fullPath)
		if err != nil {
			msg.Err = err
			return msg
		}

		readSize := info.Size()
		if readSize > maxPreviewSize {
			readSize = maxPreviewSize
		}

		f, err := os.Open(fullPath)
		if err != nil {
			msg.Err = err
			return msg
		}
		defer f.Close()

		data := make([]byte, readSize)
		n, _ := f.Read(data)
		data = data[:n]

		if isBinary(data) {
			msg.IsBinary = true
			return msg
		}

		content := string(data)
		msg.RawLines = strings.Split(content, "\n")
		msg.IsMarkdown = strings.EqualFold(filepath.Ext(relPath), ".md")

		highlighted, err := highlight(content, filepath.Ext(relPath), styles.GetSyntaxTheme())
		if err == nil {
			msg.Highlighted = strings.Split(highlighted, "\n")
		} else {
			msg.Highlighted = msg.RawLines
		}

		if len(msg.RawLines) > maxPreviewLines {
			msg.RawLines = msg.RawLines[:maxPreviewLines]
			msg.Highlighted = msg.Highlighted[:maxPreviewLines]
		}

		return msg
	}
}

// applyPreview installs a loaded preview into the matching slot. A pin
// never blocks the load itself; pinned slots only refuse replacement
// from activation, which is decided before loadPreview runs.
func (m *Model) applyPreview(msg PreviewLoadedMsg) {
	slot := m.main
	if msg.Split {
		if m.split == nil {
			m.split = &previewSlot{rendered: true}
		}
		slot = m.split
	}

	slot.path = msg.Path
	slot.rawLines = msg.RawLines
	slot.highlighted = msg.Highlighted
	slot.isMarkdown = msg.IsMarkdown
	slot.isBinary = msg.IsBinary
	slot.loadErr = msg.Err
	slot.scroll = 0
}

// contentLines returns the lines the slot should display at the given
// inner width.
func (m *Model) contentLines(s *previewSlot, width int) []string {
	switch {
	case s.loadErr != nil:
		return []string{styles.ErrorText.Render(s.loadErr.Error())}
	case s.isBinary:
		return []string{styles.DimmedText.Render("binary file")}
	case s.isMarkdown && s.rendered:
		return m.mdRenderer.Render(strings.Join(s.rawLines, "\n"), width)
	}
	return s.highlighted
}

// highlight returns content with terminal256 ANSI colors applied.
func highlight(content, extension, syntaxTheme string) (string, error) {
	buf := new(bytes.Buffer)
	if err := quick.Highlight(buf, content, extension, "terminal256", syntaxTheme); err != nil {
		return "", fmt.Errorf("highlight: %w", err)
	}
	return buf.String(), nil
}

// isBinary checks for null bytes in the first 512 bytes.
func isBinary(data []byte) bool {
	checkLen := 512
	if len(data) < checkLen {
		checkLen = len(data)
	}
	return bytes.Contains(data[:checkLen], []byte{0})
}
