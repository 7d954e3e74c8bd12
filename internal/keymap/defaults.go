package keymap

// RegisterDefaults installs the stock bindings.
func RegisterDefaults(r *Registry) {
	defaults := []Binding{
		// Global
		{Key: "q", Command: "quit", Context: "global", Help: "quit"},
		{Key: "ctrl+c", Command: "quit", Context: "global"},
		{Key: "?", Command: "toggle-help", Context: "global", Help: "help"},

		// Recents list
		{Key: "j", Command: "cursor-down", Context: "list", Help: "down"},
		{Key: "down", Command: "cursor-down", Context: "list"},
		{Key: "k", Command: "cursor-up", Context: "list", Help: "up"},
		{Key: "up", Command: "cursor-up", Context: "list"},
		{Key: "g", Command: "cursor-top", Context: "list"},
		{Key: "G", Command: "cursor-bottom", Context: "list"},
		{Key: "enter", Command: "activate", Context: "list", Help: "open"},
		{Key: "ctrl+enter", Command: "activate-split", Context: "list"},
		{Key: "s", Command: "activate-split", Context: "list", Help: "open split"},
		{Key: "r", Command: "refresh", Context: "list", Help: "refresh"},
		{Key: "d", Command: "delete-entry", Context: "list", Help: "remove entry"},
		{Key: "x", Command: "clear-all", Context: "list", Help: "clear"},
		{Key: "y", Command: "copy-path", Context: "list", Help: "copy path"},
		{Key: "p", Command: "toggle-pin", Context: "list", Help: "pin preview"},
		{Key: ",", Command: "open-settings", Context: "list", Help: "settings"},
		{Key: "T", Command: "toggle-theme", Context: "list"},
		{Key: "tab", Command: "focus-preview", Context: "list"},

		// Preview pane
		{Key: "j", Command: "scroll-down", Context: "preview", Help: "scroll"},
		{Key: "down", Command: "scroll-down", Context: "preview"},
		{Key: "k", Command: "scroll-up", Context: "preview"},
		{Key: "up", Command: "scroll-up", Context: "preview"},
		{Key: "ctrl+d", Command: "scroll-halfpage-down", Context: "preview"},
		{Key: "ctrl+u", Command: "scroll-halfpage-up", Context: "preview"},
		{Key: "g", Command: "scroll-top", Context: "preview"},
		{Key: "G", Command: "scroll-bottom", Context: "preview"},
		{Key: "m", Command: "toggle-markdown", Context: "preview", Help: "raw/rendered"},
		{Key: "p", Command: "toggle-pin", Context: "preview", Help: "pin"},
		{Key: "y", Command: "copy-path", Context: "preview"},
		{Key: "tab", Command: "focus-list", Context: "preview", Help: "back"},
		{Key: "esc", Command: "focus-list", Context: "preview"},

		// Settings modal
		{Key: "esc", Command: "settings-cancel", Context: "settings", Help: "cancel"},
		{Key: "ctrl+s", Command: "settings-apply", Context: "settings", Help: "apply"},
		{Key: "tab", Command: "settings-next-field", Context: "settings", Help: "next field"},
		{Key: "shift+tab", Command: "settings-prev-field", Context: "settings"},
	}

	for _, b := range defaults {
		r.Register(b)
	}
}
