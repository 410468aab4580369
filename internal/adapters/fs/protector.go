package fs

import (
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"go.trai.ch/basesweep/internal/core/domain"
	"go.trai.ch/zerr"
)

// Protector exempts cache files whose base name matches one of its glob patterns.
type Protector struct {
	patterns []string
}

// NewProtector validates patterns and returns a Protector for them.
func NewProtector(patterns []string) (*Protector, error) {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return nil, zerr.With(zerr.Wrap(domain.ErrInvalidProtectPattern, "invalid protect pattern"), "pattern", p)
		}
	}
	return &Protector{patterns: append([]string(nil), patterns...)}, nil
}

// Protected reports whether the entry matches any pattern.
func (p *Protector) Protected(e domain.CacheEntry) bool {
	name := filepath.Base(e.Path)
	for _, pattern := range p.patterns {
		if ok, _ := doublestar.Match(pattern, name); ok {
			return true
		}
	}
	return false
}
