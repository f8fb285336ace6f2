package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizer_Normalize(t *testing.T) {
	n := NewNormalizer([]string{"tif", "tiff", "jpg"})

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "lowercase passthrough", input: "hh001", want: "hh001"},
		{name: "uppercase folded", input: "HH001", want: "hh001"},
		{name: "recognized extension stripped", input: "scan_001.tif", want: "scan001"},
		{name: "extension case ignored", input: "scan_001.TIFF", want: "scan001"},
		{name: "unrecognized extension kept", input: "notes.txt", want: "notestxt"},
		{name: "only one extension stripped", input: "scan.tif.tif", want: "scantif"},
		{name: "underscores removed", input: "hh_001_a", want: "hh001a"},
		{name: "hyphens removed", input: "hh-001-a", want: "hh001a"},
		{name: "spaces removed", input: "hh 001 a", want: "hh001a"},
		{name: "interior dots removed", input: "hh.001.a", want: "hh001a"},
		{name: "mixed separators", input: "HH_001-Scan 2.TIF", want: "hh001scan2"},
		{name: "dotfile not treated as extension", input: ".tif", want: "tif"},
		{name: "trailing dot kept via separator removal", input: "scan.", want: "scan"},
		{name: "empty", input: "", want: ""},
		{name: "separators only", input: "_-. ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, n.Normalize(tt.input))
		})
	}
}

func TestNormalizer_ExtensionsAcceptedWithDot(t *testing.T) {
	n := NewNormalizer([]string{".tif", " .JPG "})
	assert.Equal(t, "scan", n.Normalize("scan.tif"))
	assert.Equal(t, "photo", n.Normalize("photo.jpg"))
}
