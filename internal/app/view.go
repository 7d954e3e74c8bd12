package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/wilbur182/recents/internal/mouse"
	"github.com/wilbur182/recents/internal/styles"
)

const (
	minSidebarWidth = 24
	maxSidebarWidth = 40
)

// View renders the full screen.
func (m *Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}

	m.registerHitRegions()
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.viewSidebar(), m.viewPreviews())

	sections := []string{body}
	if m.cfg.UI.ShowFooter {
		sections = append(sections, m.viewFooter())
	}
	screen := lipgloss.JoinVertical(lipgloss.Left, sections...)

	if m.settings != nil {
		return m.overlay(m.viewSettings())
	}
	if m.showHelp {
		return m.overlay(m.viewHelp())
	}
	return screen
}

// registerHitRegions rebuilds the mouse hit map for this frame. Item
// rows sit inside the sidebar panel, one row below its border and
// title.
func (m *Model) registerHitRegions() {
	hits := m.mouse.HitMap
	hits.Clear()

	sw := m.sidebarWidth()
	bh := m.bodyHeight()
	hits.Add("pane-list", mouse.Rect{X: 0, Y: 0, W: sw, H: bh}, nil)

	if m.split == nil {
		hits.Add("pane-main", mouse.Rect{X: sw, Y: 0, W: m.previewAreaWidth(), H: bh}, nil)
	} else {
		half := m.previewAreaWidth() / 2
		hits.Add("pane-main", mouse.Rect{X: sw, Y: 0, W: half, H: bh}, nil)
		hits.Add("pane-split", mouse.Rect{X: sw + half, Y: 0, W: m.previewAreaWidth() - half, H: bh}, nil)
	}

	items := m.tracker.Items()
	visible := m.listInnerHeight()
	for row := 0; row < visible; row++ {
		idx := m.scrollOff + row
		if idx >= len(items) {
			break
		}
		hits.Add("list-item", mouse.Rect{X: 1, Y: 2 + row, W: sw - 2, H: 1}, idx)
	}
}

func (m *Model) sidebarWidth() int {
	w := m.width * 3 / 10
	if w < minSidebarWidth {
		w = minSidebarWidth
	}
	if w > maxSidebarWidth {
		w = maxSidebarWidth
	}
	if w > m.width-2 {
		w = m.width - 2
	}
	return w
}

func (m *Model) bodyHeight() int {
	h := m.height
	if m.cfg.UI.ShowFooter {
		h--
	}
	if h < 3 {
		h = 3
	}
	return h
}

// listInnerHeight is the number of item rows the sidebar fits.
func (m *Model) listInnerHeight() int {
	// Panel border takes 2 rows, the title one more.
	h := m.bodyHeight() - 3
	if h < 1 {
		h = 1
	}
	return h
}

func (m *Model) previewAreaWidth() int {
	return m.width - m.sidebarWidth()
}

func (m *Model) previewInnerWidth() int {
	w := m.previewAreaWidth()
	if m.split != nil {
		w /= 2
	}
	w -= 4 // border + padding
	if w < 10 {
		w = 10
	}
	return w
}

func (m *Model) previewInnerHeight() int {
	h := m.bodyHeight() - 3
	if h < 1 {
		h = 1
	}
	return h
}

func (m *Model) viewSidebar() string {
	width := m.sidebarWidth()
	inner := width - 2
	visible := m.listInnerHeight()
	items := m.tracker.Items()

	var b strings.Builder
	b.WriteString(styles.Title.Render(runewidth.Truncate("Recent Files", inner, "…")))
	b.WriteString("\n")

	if len(items) == 0 {
		b.WriteString(styles.DimmedText.Render("no recent files"))
	}

	end := m.scrollOff + visible
	if end > len(items) {
		end = len(items)
	}
	for i := m.scrollOff; i < end; i++ {
		it := items[i]
		age := formatAge(time.Since(it.LastModified))
		name := runewidth.Truncate(it.DisplayName, inner-runewidth.StringWidth(age)-1, "…")
		pad := inner - runewidth.StringWidth(name) - runewidth.StringWidth(age)
		if pad < 1 {
			pad = 1
		}
		line := name + strings.Repeat(" ", pad) + age

		if i == m.cursor {
			b.WriteString(styles.SelectedItem.Render(line))
		} else {
			b.WriteString(styles.NormalItem.Render(name) + strings.Repeat(" ", pad) + styles.DimmedText.Render(age))
		}
		b.WriteString("\n")
	}

	panel := styles.PanelInactive
	if m.focus == PaneList {
		panel = styles.PanelActive
	}
	return panel.Width(inner).Height(m.bodyHeight() - 2).Render(b.String())
}

func (m *Model) viewPreviews() string {
	if m.split == nil {
		return m.viewPreviewPane(m.main, m.previewAreaWidth(), m.focus == PaneMain)
	}
	left := m.viewPreviewPane(m.main, m.previewAreaWidth()/2, m.focus == PaneMain)
	right := m.viewPreviewPane(m.split, m.previewAreaWidth()-m.previewAreaWidth()/2, m.focus == PaneSplit)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

func (m *Model) viewPreviewPane(s *previewSlot, width int, focused bool) string {
	inner := width - 2
	if inner < 1 {
		inner = 1
	}

	var b strings.Builder
	title := s.path
	if title == "" {
		title = "Preview"
	}
	if s.pinned {
		title = styles.PinnedBadge.Render("⚲ ") + styles.Title.Render(runewidth.Truncate(title, inner-2, "…"))
	} else {
		title = styles.Title.Render(runewidth.Truncate(title, inner, "…"))
	}
	b.WriteString(title)
	b.WriteString("\n")

	if s.path == "" && s.loadErr == nil {
		b.WriteString(styles.DimmedText.Render("press enter to preview a file"))
	} else {
		lines := m.contentLines(s, inner)
		height := m.previewInnerHeight()
		start := s.scroll
		if start > len(lines) {
			start = len(lines)
		}
		end := start + height
		if end > len(lines) {
			end = len(lines)
		}
		for _, line := range lines[start:end] {
			b.WriteString(truncateANSI(line, inner))
			b.WriteString("\n")
		}
	}

	panel := styles.PanelInactive
	if focused {
		panel = styles.PanelActive
	}
	return panel.Width(inner).Height(m.bodyHeight() - 2).Render(b.String())
}

func (m *Model) viewFooter() string {
	if m.statusMsg != "" {
		style := styles.SuccessText
		if m.statusIsError {
			style = styles.ErrorText
		}
		return style.Render(runewidth.Truncate(m.statusMsg, m.width, "…"))
	}

	bindings := m.keymap.BindingsFor(m.FocusContext())
	bindings = append(bindings, m.keymap.BindingsFor("global")...)

	var parts []string
	for _, b := range bindings {
		if b.Help == "" {
			continue
		}
		parts = append(parts, styles.FooterKey.Render(b.Key)+" "+styles.FooterText.Render(b.Help))
	}
	return truncateANSI(strings.Join(parts, "  "), m.width)
}

func (m *Model) viewHelp() string {
	var b strings.Builder
	b.WriteString(styles.ModalTitle.Render("recents " + m.version))
	b.WriteString("\n\n")
	for _, ctx := range []string{"list", "preview", "settings", "global"} {
		b.WriteString(styles.Title.Render(ctx))
		b.WriteString("\n")
		for _, bind := range m.keymap.BindingsFor(ctx) {
			if bind.Help == "" {
				continue
			}
			b.WriteString(fmt.Sprintf("  %s %s\n",
				styles.FooterKey.Render(runewidth.FillRight(bind.Key, 12)),
				styles.FooterText.Render(bind.Help)))
		}
	}
	return styles.ModalBox.Render(b.String())
}

func (m *Model) viewSettings() string {
	s := m.settings
	var b strings.Builder

	b.WriteString(styles.ModalTitle.Render("Settings"))
	b.WriteString("\n\n")

	b.WriteString(m.fieldLabel("Excluded patterns", s.focus == fieldPatterns))
	b.WriteString("\n")
	b.WriteString(s.patterns.View())
	b.WriteString("\n\n")

	b.WriteString(m.fieldLabel("List length", s.focus == fieldMaxLength))
	b.WriteString("  ")
	b.WriteString(s.maxLength.View())
	b.WriteString("\n\n")

	b.WriteString(m.fieldLabel("Open in", s.focus == fieldOpenMode))
	b.WriteString("  ")
	b.WriteString(styles.NormalItem.Render(string(s.openMode)))
	b.WriteString("\n")

	if s.errText != "" {
		b.WriteString("\n")
		b.WriteString(styles.ErrorText.Render(s.errText))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.FooterText.Render("ctrl+s apply · esc cancel · tab next field"))

	return styles.ModalBox.Render(b.String())
}

func (m *Model) fieldLabel(text string, focused bool) string {
	if focused {
		return styles.Title.Render("▸ " + text)
	}
	return styles.DimmedText.Render("  " + text)
}

// overlay centers a modal on the screen. The base view is simply
// replaced; bubbletea repaints it once the modal closes.
func (m *Model) overlay(modal string) string {
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal)
}

// truncateANSI trims a styled line to the given display width.
func truncateANSI(line string, width int) string {
	return lipgloss.NewStyle().MaxWidth(width).Render(line)
}

// formatAge renders a duration as a compact relative age.
func formatAge(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "now"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	case d < 30*24*time.Hour:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	case d < 365*24*time.Hour:
		return fmt.Sprintf("%dmo", int(d.Hours()/(24*30)))
	}
	return fmt.Sprintf("%dy", int(d.Hours()/(24*365)))
}
