package keymap

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestResolve_ContextPrecedence(t *testing.T) {
	r := NewRegistry()
	r.Register(Binding{Key: "j", Command: "cursor-down", Context: "list"})
	r.Register(Binding{Key: "j", Command: "scroll-down", Context: "preview"})
	r.Register(Binding{Key: "q", Command: "quit", Context: "global"})

	if got := r.Resolve(keyMsg("j"), "list"); got != "cursor-down" {
		t.Errorf("Resolve(j, list) = %q, want cursor-down", got)
	}
	if got := r.Resolve(keyMsg("j"), "preview"); got != "scroll-down" {
		t.Errorf("Resolve(j, preview) = %q, want scroll-down", got)
	}
	// Global fallback from any context.
	if got := r.Resolve(keyMsg("q"), "list"); got != "quit" {
		t.Errorf("Resolve(q, list) = %q, want quit", got)
	}
}

func TestResolve_Unbound(t *testing.T) {
	r := NewRegistry()
	if got := r.Resolve(keyMsg("z"), "list"); got != "" {
		t.Errorf("Resolve(z) = %q, want empty", got)
	}
}

func TestResolve_UserOverrideWins(t *testing.T) {
	r := NewRegistry()
	r.Register(Binding{Key: "x", Command: "clear-all", Context: "list"})
	r.SetUserOverride("x", "refresh")

	if got := r.Resolve(keyMsg("x"), "list"); got != "refresh" {
		t.Errorf("Resolve(x) = %q, want refresh (user override)", got)
	}
}

func TestRegisterDefaults(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r)

	if got := r.Resolve(tea.KeyMsg{Type: tea.KeyEnter}, "list"); got != "activate" {
		t.Errorf("Resolve(enter, list) = %q, want activate", got)
	}
	if got := r.Resolve(keyMsg("q"), "preview"); got != "quit" {
		t.Errorf("Resolve(q, preview) = %q, want quit", got)
	}
	if got := r.Resolve(tea.KeyMsg{Type: tea.KeyEsc}, "settings"); got != "settings-cancel" {
		t.Errorf("Resolve(esc, settings) = %q, want settings-cancel", got)
	}
}

func TestBindingsFor_Copy(t *testing.T) {
	r := NewRegistry()
	r.Register(Binding{Key: "j", Command: "cursor-down", Context: "list", Help: "down"})

	got := r.BindingsFor("list")
	if len(got) != 1 || got[0].Help != "down" {
		t.Fatalf("BindingsFor(list) = %v", got)
	}
	got[0].Command = "mutated"
	if r.BindingsFor("list")[0].Command != "cursor-down" {
		t.Error("BindingsFor returned internal slice")
	}
}
