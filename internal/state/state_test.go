package state

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_MissingFile(t *testing.T) {
	rec, err := Load(filepath.Join(t.TempDir(), "state.json"))
	if err != nil {
		t.Fatalf("Load() on missing file: %v", err)
	}
	if rec != nil {
		t.Errorf("Load() on missing file = %+v, want nil", rec)
	}
}

func TestWriteAndLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.json")

	maxLen := 10
	rec := &Record{
		RecentFiles: []SavedFile{
			{Path: "notes/a.md", Basename: "a", Mtime: 1700000000000},
			{Path: "notes/b.md", Basename: "b", Mtime: 1600000000000},
		},
		OmittedPaths: []string{"^daily/"},
		MaxLength:    &maxLen,
		OpenType:     "split",
	}

	if err := Write(path, rec); err != nil {
		t.Fatalf("Write() failed: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if len(got.RecentFiles) != 2 {
		t.Fatalf("RecentFiles len = %d, want 2", len(got.RecentFiles))
	}
	if got.RecentFiles[0].Path != "notes/a.md" || got.RecentFiles[0].Basename != "a" {
		t.Errorf("first file = %+v", got.RecentFiles[0])
	}
	if got.MaxLength == nil || *got.MaxLength != 10 {
		t.Errorf("MaxLength = %v, want 10", got.MaxLength)
	}
	if got.OpenType != "split" {
		t.Errorf("OpenType = %q, want %q", got.OpenType, "split")
	}
}

func TestWrite_UnsetMaxLengthStaysUnset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	if err := Write(path, &Record{OmittedPaths: []string{}}); err != nil {
		t.Fatalf("Write() failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if strings.Contains(string(data), "maxLength") {
		t.Errorf("unset maxLength was written to disk: %s", data)
	}
}

func TestEffectiveMaxLength(t *testing.T) {
	zero, neg, ten := 0, -5, 10
	cases := []struct {
		name string
		max  *int
		want int
	}{
		{"unset", nil, DefaultMaxLength},
		{"zero", &zero, DefaultMaxLength},
		{"negative", &neg, DefaultMaxLength},
		{"set", &ten, 10},
	}
	for _, tc := range cases {
		rec := &Record{MaxLength: tc.max}
		if got := rec.EffectiveMaxLength(); got != tc.want {
			t.Errorf("%s: EffectiveMaxLength() = %d, want %d", tc.name, got, tc.want)
		}
	}
}

func TestClone_Independent(t *testing.T) {
	ten := 10
	rec := &Record{
		RecentFiles: []SavedFile{{Path: "a.md", Basename: "a"}},
		MaxLength:   &ten,
	}
	c := rec.Clone()

	rec.RecentFiles[0].Path = "changed.md"
	*rec.MaxLength = 99

	if c.RecentFiles[0].Path != "a.md" {
		t.Error("clone shares RecentFiles backing array")
	}
	if *c.MaxLength != 10 {
		t.Error("clone shares MaxLength pointer")
	}
}

func TestStore_SaveAndFlush(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	s := NewStore(path, slog.Default())

	s.Save(&Record{OpenType: "tab"})
	s.Flush()

	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if got == nil || got.OpenType != "tab" {
		t.Errorf("Load() = %+v, want OpenType tab", got)
	}
}

func TestStore_LatestSnapshotWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	s := NewStore(path, slog.Default())

	// A burst of saves; the goroutines may run in any order, but the
	// last snapshot handed to Save must be the one on disk.
	for n := 1; n <= 8; n++ {
		v := n
		s.Save(&Record{MaxLength: &v})
	}
	s.Flush()

	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if got == nil || got.MaxLength == nil {
		t.Fatalf("persisted record = %+v, want maxLength 8", got)
	}
	if *got.MaxLength != 8 {
		t.Fatalf("persisted maxLength = %d, want 8", *got.MaxLength)
	}
}

func TestStore_SaveFailureDoesNotPanic(t *testing.T) {
	// Point the store at a path whose parent is a file, so MkdirAll fails.
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	s := NewStore(filepath.Join(blocker, "state.json"), slog.Default())
	s.Save(&Record{})
	s.Flush() // must not panic; failure is logged only
}

func TestWrite_ValidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := Write(path, &Record{RecentFiles: []SavedFile{{Path: "x.md"}}}); err != nil {
		t.Fatalf("Write() failed: %v", err)
	}

	data, _ := os.ReadFile(path)
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("written file is not valid JSON: %v", err)
	}
	if _, ok := raw["recentFiles"]; !ok {
		t.Error("recentFiles key missing from written record")
	}
}
