package search

import (
	"strings"
	"unicode"
)

// Normalizer folds file names and queries into a canonical comparable form:
// one trailing recognized extension is stripped, separator characters are
// removed, and the result is lowercased. Both sides of every comparison go
// through the same Normalizer so "HH_001-Scan.TIF" and "hh001scan" align.
type Normalizer struct {
	exts map[string]struct{}
}

// NewNormalizer builds a Normalizer that recognizes the given extensions.
// Extensions are accepted with or without a leading dot and matched
// case-insensitively.
func NewNormalizer(extensions []string) *Normalizer {
	exts := make(map[string]struct{}, len(extensions))
	for _, e := range extensions {
		e = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(e), "."))
		if e != "" {
			exts[e] = struct{}{}
		}
	}
	return &Normalizer{exts: exts}
}

// Normalize returns the canonical form of s.
func (n *Normalizer) Normalize(s string) string {
	s = n.stripExtension(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if isSeparator(r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// stripExtension removes at most one trailing recognized extension.
func (n *Normalizer) stripExtension(s string) string {
	dot := strings.LastIndexByte(s, '.')
	if dot <= 0 || dot == len(s)-1 {
		return s
	}
	if _, ok := n.exts[strings.ToLower(s[dot+1:])]; ok {
		return s[:dot]
	}
	return s
}

func isSeparator(r rune) bool {
	switch r {
	case '_', '-', '.':
		return true
	}
	return unicode.IsSpace(r)
}
