package config

// Config is the root configuration structure.
type Config struct {
	Vault  VaultConfig  `json:"vault"`
	Editor EditorConfig `json:"editor"`
	UI     UIConfig     `json:"ui"`
	Keymap KeymapConfig `json:"keymap"`
}

// VaultConfig locates the tracked directory and its persisted state.
type VaultConfig struct {
	Root string `json:"root"` // vault directory (supports ~ expansion), "." default
	// StatePath overrides where the tracked-list record is written.
	// Empty means the platform state directory.
	StatePath string `json:"statePath,omitempty"`
}

// EditorConfig configures external-editor activation (window mode).
type EditorConfig struct {
	// Command is the editor executable. Empty falls back to $EDITOR,
	// then to "vi".
	Command string `json:"command,omitempty"`
}

// UIConfig configures appearance.
type UIConfig struct {
	ShowFooter bool        `json:"showFooter"`
	Theme      ThemeConfig `json:"theme"`
}

// ThemeConfig selects the color theme.
type ThemeConfig struct {
	Name string `json:"name"`
}

// KeymapConfig holds key binding overrides.
type KeymapConfig struct {
	Overrides map[string]string `json:"overrides"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Vault: VaultConfig{
			Root: ".",
		},
		UI: UIConfig{
			ShowFooter: true,
			Theme: ThemeConfig{
				Name: "default",
			},
		},
		Keymap: KeymapConfig{
			Overrides: make(map[string]string),
		},
	}
}

// Validate checks the configuration for errors, repairing what it can.
func (c *Config) Validate() error {
	if c.Vault.Root == "" {
		c.Vault.Root = "."
	}
	if c.UI.Theme.Name == "" {
		c.UI.Theme.Name = "default"
	}
	if c.Keymap.Overrides == nil {
		c.Keymap.Overrides = make(map[string]string)
	}
	return nil
}
