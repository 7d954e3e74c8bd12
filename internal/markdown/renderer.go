// Package markdown renders markdown for the preview pane through
// Glamour, caching rendered output per content+width.
package markdown

import (
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/charmbracelet/glamour"

	"github.com/wilbur182/recents/internal/styles"
)

const (
	// minRenderWidth is the narrowest pane worth styling; below it the
	// renderer falls back to plain wrapping.
	minRenderWidth = 30

	// maxCacheEntries bounds the render cache before it is dropped.
	maxCacheEntries = 100
)

// Renderer wraps a width-bound Glamour renderer with a render cache.
type Renderer struct {
	mu        sync.Mutex
	renderer  *glamour.TermRenderer
	lastWidth int
	cache     map[uint64][]string
}

// NewRenderer creates an empty renderer. The underlying Glamour
// instance is created lazily once a width is known.
func NewRenderer() *Renderer {
	return &Renderer{cache: make(map[uint64][]string)}
}

// Render returns content rendered as styled terminal lines for the
// given width. Render failures degrade to plain wrapped text.
func (r *Renderer) Render(content string, width int) []string {
	if content == "" {
		return nil
	}
	if width < minRenderWidth {
		return wrap(content, width)
	}

	key := cacheKey(content, width)

	r.mu.Lock()
	defer r.mu.Unlock()

	if lines, ok := r.cache[key]; ok {
		return lines
	}

	tr, err := r.rendererFor(width)
	if err != nil {
		return wrap(content, width)
	}
	out, err := tr.Render(content)
	if err != nil {
		return wrap(content, width)
	}

	lines := strings.Split(strings.TrimRight(out, "\n\r\t "), "\n")
	if len(r.cache) >= maxCacheEntries {
		r.cache = make(map[uint64][]string)
	}
	r.cache[key] = lines
	return lines
}

// rendererFor returns the Glamour renderer for width, recreating it
// (and dropping the cache) when the width changed. Caller holds r.mu.
func (r *Renderer) rendererFor(width int) (*glamour.TermRenderer, error) {
	if r.renderer != nil && r.lastWidth == width {
		return r.renderer, nil
	}

	tr, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(styles.GetMarkdownTheme()),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	r.renderer = tr
	r.lastWidth = width
	r.cache = make(map[uint64][]string)
	return tr, nil
}

func cacheKey(content string, width int) uint64 {
	h := xxhash.New()
	h.WriteString(content)
	h.Write([]byte{byte(width >> 8), byte(width)})
	return h.Sum64()
}

// wrap is the plain-text fallback for narrow panes and render errors.
func wrap(text string, maxWidth int) []string {
	if maxWidth <= 0 {
		return []string{text}
	}

	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		current := words[0]
		for _, word := range words[1:] {
			if len(current)+1+len(word) <= maxWidth {
				current += " " + word
			} else {
				lines = append(lines, current)
				current = word
			}
		}
		lines = append(lines, current)
	}
	return lines
}
