// Package styles holds the shared lipgloss styles and the theme
// palette they are rebuilt from.
package styles

import (
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Theme is a named color palette plus the renderer theme names derived
// from it.
type Theme struct {
	Name string

	Accent       lipgloss.Color
	Text         lipgloss.Color
	Dimmed       lipgloss.Color
	Border       lipgloss.Color
	BorderActive lipgloss.Color
	Error        lipgloss.Color
	Success      lipgloss.Color
	Pinned       lipgloss.Color

	SyntaxTheme   string // chroma style name
	MarkdownTheme string // glamour style name
}

// DefaultTheme is the dark theme applied at startup.
var DefaultTheme = Theme{
	Name:          "default",
	Accent:        lipgloss.Color("39"),
	Text:          lipgloss.Color("252"),
	Dimmed:        lipgloss.Color("241"),
	Border:        lipgloss.Color("238"),
	BorderActive:  lipgloss.Color("39"),
	Error:         lipgloss.Color("203"),
	Success:       lipgloss.Color("114"),
	Pinned:        lipgloss.Color("214"),
	SyntaxTheme:   "monokai",
	MarkdownTheme: "dark",
}

// LightTheme suits light terminal backgrounds.
var LightTheme = Theme{
	Name:          "light",
	Accent:        lipgloss.Color("26"),
	Text:          lipgloss.Color("235"),
	Dimmed:        lipgloss.Color("245"),
	Border:        lipgloss.Color("250"),
	BorderActive:  lipgloss.Color("26"),
	Error:         lipgloss.Color("160"),
	Success:       lipgloss.Color("28"),
	Pinned:        lipgloss.Color("130"),
	SyntaxTheme:   "github",
	MarkdownTheme: "light",
}

var themeRegistry = map[string]Theme{
	"default": DefaultTheme,
	"light":   LightTheme,
}

var (
	themeMu      sync.RWMutex
	currentTheme = DefaultTheme
)

// Shared styles, rebuilt whenever the theme changes.
var (
	PanelActive   lipgloss.Style
	PanelInactive lipgloss.Style
	Title         lipgloss.Style
	SelectedItem  lipgloss.Style
	NormalItem    lipgloss.Style
	DimmedText    lipgloss.Style
	ErrorText     lipgloss.Style
	SuccessText   lipgloss.Style
	PinnedBadge   lipgloss.Style
	FooterKey     lipgloss.Style
	FooterText    lipgloss.Style
	ModalBox      lipgloss.Style
	ModalTitle    lipgloss.Style
)

func init() {
	rebuildStyles()
}

// ApplyTheme switches to the named theme; unknown names keep the
// current theme.
func ApplyTheme(name string) {
	themeMu.Lock()
	defer themeMu.Unlock()
	theme, ok := themeRegistry[name]
	if !ok {
		return
	}
	currentTheme = theme
	rebuildStyles()
}

// GetSyntaxTheme returns the chroma style name for the current theme.
func GetSyntaxTheme() string {
	themeMu.RLock()
	defer themeMu.RUnlock()
	return currentTheme.SyntaxTheme
}

// GetMarkdownTheme returns the glamour style name for the current theme.
func GetMarkdownTheme() string {
	themeMu.RLock()
	defer themeMu.RUnlock()
	return currentTheme.MarkdownTheme
}

// CurrentTheme returns the active palette.
func CurrentTheme() Theme {
	themeMu.RLock()
	defer themeMu.RUnlock()
	return currentTheme
}

// ListThemes returns the registered theme names.
func ListThemes() []string {
	names := make([]string, 0, len(themeRegistry))
	for name := range themeRegistry {
		names = append(names, name)
	}
	return names
}

func rebuildStyles() {
	t := currentTheme

	PanelActive = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderActive)
	PanelInactive = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border)

	Title = lipgloss.NewStyle().Bold(true).Foreground(t.Accent)
	SelectedItem = lipgloss.NewStyle().Bold(true).Foreground(t.Accent).Reverse(true)
	NormalItem = lipgloss.NewStyle().Foreground(t.Text)
	DimmedText = lipgloss.NewStyle().Foreground(t.Dimmed)
	ErrorText = lipgloss.NewStyle().Foreground(t.Error)
	SuccessText = lipgloss.NewStyle().Foreground(t.Success)
	PinnedBadge = lipgloss.NewStyle().Bold(true).Foreground(t.Pinned)

	FooterKey = lipgloss.NewStyle().Bold(true).Foreground(t.Accent)
	FooterText = lipgloss.NewStyle().Foreground(t.Dimmed)

	ModalBox = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderActive).
		Padding(1, 2)
	ModalTitle = lipgloss.NewStyle().Bold(true).Foreground(t.Accent)
}
