// Package vault provides access to the directory of files the tracker
// observes: full enumeration with modification times, existence checks,
// and a change watcher.
package vault

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Entry is one file in the vault snapshot.
type Entry struct {
	Path        string // vault-relative, forward slashes
	DisplayName string // base name without extension
	ModTime     time.Time
}

// Vault is a directory of files.
type Vault struct {
	root string
}

// New creates a vault rooted at dir. The directory must exist.
func New(dir string) (*Vault, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, &fs.PathError{Op: "open", Path: dir, Err: fs.ErrInvalid}
	}
	return &Vault{root: abs}, nil
}

// Root returns the absolute vault root.
func (v *Vault) Root() string { return v.root }

// Enumerate walks the vault and returns a complete snapshot of every
// file with its modification time. Hidden files and common tool
// directories are skipped. Unreadable subtrees are skipped, not fatal.
func (v *Vault) Enumerate() ([]Entry, error) {
	var entries []Entry
	err := filepath.WalkDir(v.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == v.root {
				return err
			}
			return nil
		}
		name := d.Name()
		if d.IsDir() {
			if path != v.root && (skipDir(name) || strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		rel, err := filepath.Rel(v.root, path)
		if err != nil {
			return nil
		}
		entries = append(entries, Entry{
			Path:        filepath.ToSlash(rel),
			DisplayName: DisplayName(rel),
			ModTime:     info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// Exists reports whether the relative path currently refers to a file.
func (v *Vault) Exists(rel string) bool {
	info, err := os.Stat(v.Abs(rel))
	return err == nil && !info.IsDir()
}

// Abs resolves a vault-relative path to an absolute one.
func (v *Vault) Abs(rel string) string {
	return filepath.Join(v.root, filepath.FromSlash(rel))
}

// Rename moves a file within the vault, creating target directories
// as needed.
func (v *Vault) Rename(oldRel, newRel string) error {
	dst := v.Abs(newRel)
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	return os.Rename(v.Abs(oldRel), dst)
}

// Remove deletes a file from the vault.
func (v *Vault) Remove(rel string) error {
	return os.Remove(v.Abs(rel))
}

// DisplayName derives the human-readable name for a path: the base
// name with its extension stripped.
func DisplayName(path string) string {
	base := filepath.Base(filepath.FromSlash(path))
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// skipDir lists directories never worth enumerating or watching.
func skipDir(name string) bool {
	switch name {
	case ".git", "node_modules", "vendor", ".obsidian", ".trash",
		"__pycache__", ".venv", "venv", ".idea", ".vscode":
		return true
	}
	return false
}
