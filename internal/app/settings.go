package app

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/wilbur182/recents/internal/exclude"
	"github.com/wilbur182/recents/internal/tracker"
)

// settingsField indexes the focusable controls in the settings modal.
type settingsField int

const (
	fieldPatterns settingsField = iota
	fieldMaxLength
	fieldOpenMode
	fieldCount
)

var openModeOrder = []tracker.OpenMode{tracker.OpenTab, tracker.OpenSplit, tracker.OpenWindow}

// settingsModel edits the tracker's list settings in a modal.
type settingsModel struct {
	patterns  textarea.Model
	maxLength textinput.Model
	openMode  tracker.OpenMode

	focus    settingsField
	errText  string
	warnText string
}

// newSettingsModel seeds the modal from the tracker's current values.
// maxLength starts empty when no explicit cap has been set.
func newSettingsModel(tr *tracker.Tracker, maxExplicit bool) *settingsModel {
	ta := textarea.New()
	ta.Placeholder = "one regex per line"
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetHeight(6)
	ta.SetValue(strings.Join(tr.Patterns(), "\n"))
	ta.Focus()

	ti := textinput.New()
	ti.Placeholder = fmt.Sprintf("%d", tr.MaxLength())
	ti.CharLimit = 5
	ti.Width = 8
	if maxExplicit {
		ti.SetValue(strconv.Itoa(tr.MaxLength()))
	}

	return &settingsModel{
		patterns:  ta,
		maxLength: ti,
		openMode:  tr.OpenMode(),
		focus:     fieldPatterns,
	}
}

// cycleFocus moves focus between fields.
func (s *settingsModel) cycleFocus(delta int) {
	s.focus = settingsField((int(s.focus) + delta + int(fieldCount)) % int(fieldCount))
	if s.focus == fieldPatterns {
		s.patterns.Focus()
	} else {
		s.patterns.Blur()
	}
	if s.focus == fieldMaxLength {
		s.maxLength.Focus()
	} else {
		s.maxLength.Blur()
	}
}

// cycleOpenMode advances the open mode.
func (s *settingsModel) cycleOpenMode() {
	for i, mode := range openModeOrder {
		if mode == s.openMode {
			s.openMode = openModeOrder[(i+1)%len(openModeOrder)]
			return
		}
	}
	s.openMode = openModeOrder[0]
}

// patternList returns the pattern lines, blanks dropped.
func (s *settingsModel) patternList() []string {
	var out []string
	for _, line := range strings.Split(s.patterns.Value(), "\n") {
		if strings.TrimSpace(line) != "" {
			out = append(out, strings.TrimSpace(line))
		}
	}
	return out
}

// apply validates the fields and applies them to the tracker. It
// returns false when a field is rejected; invalid regex patterns are a
// warning, not a rejection.
func (s *settingsModel) apply(tr *tracker.Tracker) bool {
	s.errText = ""
	s.warnText = ""

	if raw := strings.TrimSpace(s.maxLength.Value()); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			s.errText = "list length must be a number"
			return false
		}
		if err := tr.SetMaxLength(n); err != nil {
			s.errText = err.Error()
			return false
		}
	} else {
		// An emptied field returns the cap to its default.
		tr.ClearMaxLength()
	}

	patterns := s.patternList()
	if bad := exclude.Validate(patterns); len(bad) > 0 {
		invalid := make([]string, 0, len(bad))
		for p := range bad {
			invalid = append(invalid, p)
		}
		s.warnText = "ignoring invalid patterns: " + strings.Join(invalid, ", ")
	}
	tr.SetExclusionPatterns(patterns)

	if err := tr.SetOpenMode(s.openMode); err != nil {
		s.errText = err.Error()
		return false
	}
	return true
}

// update routes text editing to the focused field.
func (s *settingsModel) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch s.focus {
	case fieldPatterns:
		s.patterns, cmd = s.patterns.Update(msg)
	case fieldMaxLength:
		s.maxLength, cmd = s.maxLength.Update(msg)
	case fieldOpenMode:
		if key, ok := msg.(tea.KeyMsg); ok {
			switch key.String() {
			case "enter", " ", "left", "right", "h", "l":
				s.cycleOpenMode()
			}
		}
	}
	return cmd
}
