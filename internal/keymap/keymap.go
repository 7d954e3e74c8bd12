// Package keymap maps keys to command IDs, with per-context bindings
// and user overrides from the config file.
package keymap

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// Binding maps a key to a command within a context.
type Binding struct {
	Key     string // e.g. "enter", "ctrl+s", "q"
	Command string // command ID
	Context string // "global", "list", "preview", "settings"
	Help    string // short footer description
}

// Registry resolves key presses to command IDs.
type Registry struct {
	mu            sync.RWMutex
	bindings      map[string][]Binding // context -> bindings
	userOverrides map[string]string    // key -> command ID
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		bindings:      make(map[string][]Binding),
		userOverrides: make(map[string]string),
	}
}

// Register adds a binding.
func (r *Registry) Register(b Binding) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bindings[b.Context] = append(r.bindings[b.Context], b)
}

// SetUserOverride maps a key to a command ID ahead of all bindings.
func (r *Registry) SetUserOverride(key, commandID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.userOverrides[key] = commandID
}

// Resolve returns the command ID for a key press, checking user
// overrides, then the active context, then global bindings. Empty
// string means unbound.
func (r *Registry) Resolve(msg tea.KeyMsg, activeContext string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	key := msg.String()
	if cmd, ok := r.userOverrides[key]; ok {
		return cmd
	}
	if activeContext != "" && activeContext != "global" {
		if cmd, ok := r.find(key, activeContext); ok {
			return cmd
		}
	}
	cmd, _ := r.find(key, "global")
	return cmd
}

func (r *Registry) find(key, context string) (string, bool) {
	for _, b := range r.bindings[context] {
		if b.Key == key {
			return b.Command, true
		}
	}
	return "", false
}

// BindingsFor returns the bindings of a context, for footer help.
func (r *Registry) BindingsFor(context string) []Binding {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Binding(nil), r.bindings[context]...)
}
