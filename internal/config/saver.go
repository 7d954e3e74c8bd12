package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// saveConfig is the JSON-marshaling intermediary. Pointer and omitempty
// fields keep values the user never set out of the written file.
type saveConfig struct {
	Vault  saveVaultConfig  `json:"vault,omitempty"`
	Editor saveEditorConfig `json:"editor,omitempty"`
	UI     saveUIConfig     `json:"ui,omitempty"`
	Keymap KeymapConfig     `json:"keymap"`
}

type saveVaultConfig struct {
	Root      string `json:"root,omitempty"`
	StatePath string `json:"statePath,omitempty"`
}

type saveEditorConfig struct {
	Command string `json:"command,omitempty"`
}

type saveUIConfig struct {
	ShowFooter *bool       `json:"showFooter,omitempty"`
	Theme      ThemeConfig `json:"theme"`
}

// toSaveConfig converts Config to the JSON-serializable format.
func toSaveConfig(cfg *Config) saveConfig {
	return saveConfig{
		Vault: saveVaultConfig{
			Root:      cfg.Vault.Root,
			StatePath: cfg.Vault.StatePath,
		},
		Editor: saveEditorConfig{
			Command: cfg.Editor.Command,
		},
		UI: saveUIConfig{
			ShowFooter: &cfg.UI.ShowFooter,
			Theme:      cfg.UI.Theme,
		},
		Keymap: cfg.Keymap,
	}
}

// Save writes the config to the default location.
func Save(cfg *Config) error {
	return SaveTo(ConfigPath(), cfg)
}

// SaveTo writes the config to path, creating parent directories.
func SaveTo(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	sc := toSaveConfig(cfg)
	data, err := json.MarshalIndent(sc, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
