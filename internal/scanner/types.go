// Package scanner discovers image files under a root directory and
// feeds them into the index store. Traversal streams entries while a
// worker pool filters them by extension in parallel.
package scanner

// FileInfo contains metadata about a discovered image file.
type FileInfo struct {
	Path string // Absolute path, the index key
	Name string // Base name used for identifier matching
}

// ScanResult is one streamed scan event: a discovered file or a
// traversal error.
type ScanResult struct {
	File  *FileInfo
	Error error
}

// Report summarizes a completed scan-and-store run.
type Report struct {
	// Discovered is the number of files matching the extension filter.
	Discovered int
	// NewlyIndexed is the number of records actually inserted;
	// already-indexed paths are not recounted.
	NewlyIndexed int
}

// Options configures the scanner behavior.
type Options struct {
	// Extensions is the recognized extension list, bare suffixes
	// compared case-insensitively (e.g. "tif", "tiff").
	Extensions []string

	// Workers is the number of concurrent filter workers (0 = NumCPU).
	Workers int
}
