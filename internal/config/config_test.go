package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFrom_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "config.json"))
	if err != nil {
		t.Fatalf("LoadFrom() on missing file: %v", err)
	}

	want := Default()
	if cfg.Vault.Root != want.Vault.Root {
		t.Errorf("Vault.Root = %q, want %q", cfg.Vault.Root, want.Vault.Root)
	}
	if cfg.UI.ShowFooter != want.UI.ShowFooter {
		t.Errorf("UI.ShowFooter = %v, want %v", cfg.UI.ShowFooter, want.UI.ShowFooter)
	}
	if cfg.UI.Theme.Name != "default" {
		t.Errorf("Theme.Name = %q, want default", cfg.UI.Theme.Name)
	}
}

func TestLoadFrom_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{"vault": {"root": "/tmp/notes"}}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() failed: %v", err)
	}
	if cfg.Vault.Root != "/tmp/notes" {
		t.Errorf("Vault.Root = %q, want /tmp/notes", cfg.Vault.Root)
	}
	if !cfg.UI.ShowFooter {
		t.Error("absent showFooter lost its default")
	}
}

func TestLoadFrom_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFrom(path); err == nil {
		t.Error("LoadFrom() should fail on invalid JSON")
	}
}

func TestSaveTo_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	cfg := Default()
	cfg.Vault.Root = "~/notes"
	cfg.Editor.Command = "nvim"
	cfg.UI.ShowFooter = false
	cfg.Keymap.Overrides["x"] = "clear-all"

	if err := SaveTo(path, cfg); err != nil {
		t.Fatalf("SaveTo() failed: %v", err)
	}

	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() failed: %v", err)
	}
	if got.Vault.Root != "~/notes" {
		t.Errorf("Vault.Root = %q, want ~/notes", got.Vault.Root)
	}
	if got.Editor.Command != "nvim" {
		t.Errorf("Editor.Command = %q, want nvim", got.Editor.Command)
	}
	if got.UI.ShowFooter {
		t.Error("ShowFooter = true, want false")
	}
	if got.Keymap.Overrides["x"] != "clear-all" {
		t.Errorf("Keymap override lost: %v", got.Keymap.Overrides)
	}
}

func TestValidate_Repairs(t *testing.T) {
	cfg := &Config{}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() failed: %v", err)
	}
	if cfg.Vault.Root != "." {
		t.Errorf("Vault.Root = %q, want .", cfg.Vault.Root)
	}
	if cfg.UI.Theme.Name != "default" {
		t.Errorf("Theme.Name = %q, want default", cfg.UI.Theme.Name)
	}
	if cfg.Keymap.Overrides == nil {
		t.Error("Keymap.Overrides not initialized")
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	if got := ExpandHome("~/notes"); got != filepath.Join(home, "notes") {
		t.Errorf("ExpandHome(~/notes) = %q", got)
	}
	if got := ExpandHome("/abs/path"); got != "/abs/path" {
		t.Errorf("ExpandHome(/abs/path) = %q", got)
	}
	if got := ExpandHome("relative"); got != "relative" {
		t.Errorf("ExpandHome(relative) = %q", got)
	}
}
