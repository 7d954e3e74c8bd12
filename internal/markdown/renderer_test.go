package markdown

import (
	"strings"
	"testing"
)

func TestRender_Empty(t *testing.T) {
	r := NewRenderer()
	if lines := r.Render("", 80); lines != nil {
		t.Errorf("Render(\"\") = %v, want nil", lines)
	}
}

func TestRender_NarrowWidthFallsBackToWrap(t *testing.T) {
	r := NewRenderer()
	lines := r.Render("one two three four five six seven eight nine ten", 12)
	if len(lines) < 2 {
		t.Errorf("narrow render not wrapped: %v", lines)
	}
	for _, l := range lines {
		if len(l) > 12 {
			t.Errorf("wrapped line exceeds width: %q", l)
		}
	}
}

func TestRender_CachedStable(t *testing.T) {
	r := NewRenderer()
	content := "# Title\n\nbody text"

	first := r.Render(content, 60)
	second := r.Render(content, 60)

	if len(first) != len(second) {
		t.Fatalf("cached render differs: %d vs %d lines", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("line %d differs between renders", i)
		}
	}
}

func TestRender_WidthChangeInvalidatesCache(t *testing.T) {
	r := NewRenderer()
	content := strings.Repeat("lorem ipsum dolor ", 20)

	r.Render(content, 60)
	if r.lastWidth != 60 {
		t.Fatalf("lastWidth = %d, want 60", r.lastWidth)
	}
	r.Render(content, 40)
	if r.lastWidth != 40 {
		t.Errorf("lastWidth = %d, want 40 after re-render", r.lastWidth)
	}
	if len(r.cache) != 1 {
		t.Errorf("cache len = %d, want 1 (cleared on width change)", len(r.cache))
	}
}

func TestWrap_ParagraphsPreserved(t *testing.T) {
	lines := wrap("first paragraph\n\nsecond paragraph", 80)
	want := []string{"first paragraph", "", "second paragraph"}
	if len(lines) != len(want) {
		t.Fatalf("wrap() = %v, want %v", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("wrap()[%d] = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestCacheKey_DistinguishesWidth(t *testing.T) {
	if cacheKey("same", 80) == cacheKey("same", 81) {
		t.Error("cache key ignores width")
	}
	if cacheKey("a", 80) == cacheKey("b", 80) {
		t.Error("cache key ignores content")
	}
}
