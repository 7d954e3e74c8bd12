// Package exclude implements the pattern-based exclusion policy for
// tracked paths. Patterns are regular expressions matched against the
// vault-relative path; a path is excluded when any pattern matches.
package exclude

import (
	"log/slog"
	"regexp"
)

// Policy is a compiled set of exclusion patterns. A Policy is immutable
// after construction and safe for concurrent use.
type Policy struct {
	patterns []*regexp.Regexp
	sources  []string // original pattern strings, insertion order
}

// New compiles the given pattern strings into a Policy.
// Empty strings are ignored so a blank settings row never excludes
// everything. Malformed patterns are skipped and reported to logger;
// one bad pattern must not affect how the remaining patterns apply.
func New(patterns []string, logger *slog.Logger) *Policy {
	p := &Policy{sources: append([]string(nil), patterns...)}
	for _, pat := range patterns {
		if pat == "" {
			continue
		}
		re, err := regexp.Compile(pat)
		if err != nil {
			if logger != nil {
				logger.Warn("exclude: invalid pattern skipped", "pattern", pat, "error", err)
			}
			continue
		}
		p.patterns = append(p.patterns, re)
	}
	return p
}

// Allowed reports whether path may appear in the tracked list.
// The first matching pattern short-circuits.
func (p *Policy) Allowed(path string) bool {
	for _, re := range p.patterns {
		if re.MatchString(path) {
			return false
		}
	}
	return true
}

// Sources returns the original pattern strings, including empty and
// malformed ones, in insertion order. Used by the settings surface so
// the user sees exactly what they typed.
func (p *Policy) Sources() []string {
	return append([]string(nil), p.sources...)
}

// Allowed is the one-shot form: it compiles patterns on the fly,
// silently skipping empty and malformed ones.
func Allowed(path string, patterns []string) bool {
	return New(patterns, nil).Allowed(path)
}

// Validate returns the subset of patterns that fail to compile, paired
// with their compile errors. Empty strings are not errors.
func Validate(patterns []string) map[string]error {
	var bad map[string]error
	for _, pat := range patterns {
		if pat == "" {
			continue
		}
		if _, err := regexp.Compile(pat); err != nil {
			if bad == nil {
				bad = make(map[string]error)
			}
			bad[pat] = err
		}
	}
	return bad
}
