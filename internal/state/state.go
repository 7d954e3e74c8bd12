// Package state persists the tracker's record as a single JSON file.
// Defaults are applied when reading, never when writing: a user who has
// not set maxLength keeps an absent field on disk rather than having
// the default materialized for them.
package state

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// DefaultMaxLength is the tracked-list cap applied when maxLength is
// unset in the persisted record.
const DefaultMaxLength = 40

// SavedFile is one tracked item on the wire.
type SavedFile struct {
	Path     string `json:"path"`
	Basename string `json:"basename"`
	Mtime    int64  `json:"mtime"` // unix milliseconds
}

// Record is the persisted tracker state.
type Record struct {
	RecentFiles  []SavedFile `json:"recentFiles"`
	OmittedPaths []string    `json:"omittedPaths"`
	MaxLength    *int        `json:"maxLength,omitempty"`
	OpenType     string      `json:"openType,omitempty"`
}

// EffectiveMaxLength resolves the cap for truncation purposes.
// Unset and non-positive values fall back to DefaultMaxLength without
// touching the stored value.
func (r *Record) EffectiveMaxLength() int {
	return EffectiveMaxLength(r.MaxLength)
}

// EffectiveMaxLength resolves an optional cap to a usable value.
func EffectiveMaxLength(v *int) int {
	if v == nil || *v <= 0 {
		return DefaultMaxLength
	}
	return *v
}

// Clone returns a deep copy of the record. The store writes from a
// clone so in-flight saves never race the caller's mutations.
func (r *Record) Clone() *Record {
	c := &Record{
		RecentFiles:  append([]SavedFile(nil), r.RecentFiles...),
		OmittedPaths: append([]string(nil), r.OmittedPaths...),
		OpenType:     r.OpenType,
	}
	if r.MaxLength != nil {
		v := *r.MaxLength
		c.MaxLength = &v
	}
	return c
}

// DefaultPath returns the state file location under the user's state
// directory (~/.local/state/recents/state.json, or XDG_STATE_HOME).
func DefaultPath() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "recents", "state.json")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "recents-state.json")
	}
	return filepath.Join(home, ".local", "state", "recents", "state.json")
}

// Load reads a record from path. A missing file returns (nil, nil):
// first run is not an error.
func Load(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Write serializes the record to path, creating parent directories as
// needed. The file is written via a temp file and rename so a crash
// mid-write never leaves a truncated record.
func Write(path string, rec *Record) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".state-*.json")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}
