package exclude

import (
	"log/slog"
	"testing"
)

func TestAllowed_PrefixPattern(t *testing.T) {
	patterns := []string{"^daily/"}

	if Allowed("daily/2024-01-01.md", patterns) {
		t.Error("daily/2024-01-01.md should be excluded by ^daily/")
	}
	if !Allowed("note.md", patterns) {
		t.Error("note.md should be allowed")
	}
}

func TestAllowed_MalformedPatternIgnored(t *testing.T) {
	// A pattern that fails to compile must be skipped, not exclude everything.
	if !Allowed("x.md", []string{"("}) {
		t.Error("malformed pattern should not exclude anything")
	}
}

func TestAllowed_MalformedDoesNotAffectOthers(t *testing.T) {
	patterns := []string{"(", "^archive/"}

	if Allowed("archive/old.md", patterns) {
		t.Error("valid pattern after malformed one should still exclude")
	}
	if !Allowed("inbox/new.md", patterns) {
		t.Error("unrelated path should stay allowed")
	}
}

func TestAllowed_EmptyPatternIgnored(t *testing.T) {
	if !Allowed("anything.md", []string{""}) {
		t.Error("empty pattern must never exclude")
	}
	if !Allowed("anything.md", nil) {
		t.Error("nil pattern list must allow everything")
	}
}

func TestAllowed_FirstMatchShortCircuits(t *testing.T) {
	patterns := []string{`\.tmp$`, `^scratch/`}

	cases := []struct {
		path string
		want bool
	}{
		{"notes/a.tmp", false},
		{"scratch/b.md", false},
		{"notes/b.md", true},
	}
	for _, tc := range cases {
		if got := Allowed(tc.path, patterns); got != tc.want {
			t.Errorf("Allowed(%q) = %v, want %v", tc.path, got, tc.want)
		}
	}
}

func TestPolicy_Sources(t *testing.T) {
	in := []string{"^daily/", "", "("}
	p := New(in, slog.Default())

	got := p.Sources()
	if len(got) != len(in) {
		t.Fatalf("Sources() len = %d, want %d", len(got), len(in))
	}
	for i := range in {
		if got[i] != in[i] {
			t.Errorf("Sources()[%d] = %q, want %q", i, got[i], in[i])
		}
	}
}

func TestPolicy_ConcurrentUse(t *testing.T) {
	p := New([]string{"^daily/", `\.png$`}, nil)

	done := make(chan struct{})
	for i := 0; i < 4; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 100; j++ {
				p.Allowed("daily/x.md")
				p.Allowed("note.md")
			}
		}()
	}
	for i := 0; i < 4; i++ {
		<-done
	}
}

func TestValidate(t *testing.T) {
	bad := Validate([]string{"^ok$", "", "(", "[z-a]"})
	if len(bad) != 2 {
		t.Fatalf("Validate() reported %d bad patterns, want 2", len(bad))
	}
	if _, ok := bad["("]; !ok {
		t.Error("Validate() should report \"(\" as malformed")
	}
}
