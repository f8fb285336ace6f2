package scanner

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	seekerr "github.com/docuseek/docuseek/internal/errors"
	"github.com/docuseek/docuseek/internal/store"
)

func testOptions() Options {
	return Options{Extensions: []string{"tif", "tiff"}, Workers: 4}
}

// writeTree creates a directory tree with a mix of image and other files.
func writeTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	files := []string{
		"HH001_document.tif",
		"scans/HH002.TIFF",
		"scans/deep/nested/ABC123-file.tif",
		"scans/notes.txt",
		"report.pdf",
		"noextension",
	}
	for _, f := range files {
		path := filepath.Join(root, f)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	}
	return root
}

func TestMatches_CaseInsensitive(t *testing.T) {
	s := New(testOptions())

	tests := []struct {
		name string
		want bool
	}{
		{"a.tif", true},
		{"a.TIF", true},
		{"a.TiFf", true},
		{"a.txt", false},
		{"a.tif.bak", false},
		{"tif", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, s.Matches(tt.name), tt.name)
	}
}

func TestScan_FindsOnlyRecognizedExtensions(t *testing.T) {
	root := writeTree(t)
	s := New(testOptions())

	results, err := s.Scan(context.Background(), root)
	require.NoError(t, err)

	var found []string
	for res := range results {
		require.NoError(t, res.Error)
		found = append(found, res.File.Name)
	}
	assert.ElementsMatch(t, []string{"HH001_document.tif", "HH002.TIFF", "ABC123-file.tif"}, found)
}

func TestScan_MissingRoot(t *testing.T) {
	s := New(testOptions())
	_, err := s.Scan(context.Background(), filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.Equal(t, seekerr.ErrCodeRootNotFound, seekerr.GetCode(err))
}

func TestScan_RootIsFile(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "file.tif")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	s := New(testOptions())
	_, err := s.Scan(context.Background(), path)
	require.Error(t, err)
	assert.Equal(t, seekerr.ErrCodeRootNotDir, seekerr.GetCode(err))
}

func TestScanAndStore_CountsNewFiles(t *testing.T) {
	root := writeTree(t)
	st, err := store.Open("")
	require.NoError(t, err)
	defer func() { _ = st.Close() }()

	s := New(testOptions())
	report, err := s.ScanAndStore(context.Background(), root, st)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Discovered)
	assert.Equal(t, 3, report.NewlyIndexed)
}

func TestScanAndStore_Idempotent(t *testing.T) {
	root := writeTree(t)
	st, err := store.Open("")
	require.NoError(t, err)
	defer func() { _ = st.Close() }()

	s := New(testOptions())
	ctx := context.Background()

	first, err := s.ScanAndStore(ctx, root, st)
	require.NoError(t, err)
	assert.Equal(t, 3, first.NewlyIndexed)

	// Second scan discovers the same files but indexes nothing new.
	second, err := s.ScanAndStore(ctx, root, st)
	require.NoError(t, err)
	assert.Equal(t, 3, second.Discovered)
	assert.Zero(t, second.NewlyIndexed)

	n, err := st.CountFiles(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestScanAndStore_PicksUpNewFilesOnRescan(t *testing.T) {
	root := writeTree(t)
	st, err := store.Open("")
	require.NoError(t, err)
	defer func() { _ = st.Close() }()

	s := New(testOptions())
	ctx := context.Background()

	_, err = s.ScanAndStore(ctx, root, st)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(root, "HH099.tif"), []byte("x"), 0o644))

	report, err := s.ScanAndStore(ctx, root, st)
	require.NoError(t, err)
	assert.Equal(t, 4, report.Discovered)
	assert.Equal(t, 1, report.NewlyIndexed)
}

func TestScan_EmptyDirectoryYieldsNothing(t *testing.T) {
	s := New(testOptions())
	results, err := s.Scan(context.Background(), t.TempDir())
	require.NoError(t, err)

	count := 0
	for res := range results {
		require.NoError(t, res.Error)
		count++
	}
	assert.Zero(t, count)
}
