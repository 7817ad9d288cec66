package watch

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte("x"), 0644))
	return p
}

func makeDir(t *testing.T, dir, name string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.Mkdir(p, 0755))
	return p
}

func TestMatchesIgnorePattern(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"download.tmp", true},
		{"Movie.mkv.part", true},
		{"movie.MKV.PART", true},
		{"episode.crdownload", true},
		{"file.download", true},
		{"torrent.!ut", true},
		{"Thumbs.db", true},
		{"desktop.ini", true},
		{".DS_Store", true},
		{"movie.mkv", false},
		{"Season 01", false},
		{"partial.txt", false},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, matchesIgnorePattern(tc.name), "matchesIgnorePattern(%q)", tc.name)
	}
}

func TestShouldProcessVideoFile(t *testing.T) {
	dir := t.TempDir()
	f := NewEventFilter()

	video := writeFile(t, dir, "Inception.mkv")
	assert.True(t, f.ShouldProcess(video))

	text := writeFile(t, dir, "notes.txt")
	assert.False(t, f.ShouldProcess(text))

	partial := writeFile(t, dir, "Inception.mkv.part")
	assert.False(t, f.ShouldProcess(partial))
}

func TestShouldProcessMissingPath(t *testing.T) {
	f := NewEventFilter()
	assert.False(t, f.ShouldProcess(filepath.Join(t.TempDir(), "gone.mkv")))
}

func TestShouldProcessDirWithVideos(t *testing.T) {
	root := t.TempDir()
	f := NewEventFilter()

	movieDir := makeDir(t, root, "Inception (2010)")
	writeFile(t, movieDir, "Inception.mkv")
	assert.True(t, f.ShouldProcess(movieDir))
}

func TestShouldProcessDirWithSeasonFolders(t *testing.T) {
	root := t.TempDir()
	f := NewEventFilter()

	showDir := makeDir(t, root, "Breaking Bad")
	makeDir(t, showDir, "Season 01")
	assert.True(t, f.ShouldProcess(showDir))
}

func TestShouldProcessRejectsNonMediaDir(t *testing.T) {
	root := t.TempDir()
	f := NewEventFilter()

	docsDir := makeDir(t, root, "Documents")
	writeFile(t, docsDir, "taxes.pdf")
	makeDir(t, docsDir, "Receipts")
	assert.False(t, f.ShouldProcess(docsDir))

	emptyDir := makeDir(t, root, "Empty")
	assert.False(t, f.ShouldProcess(emptyDir))
}

func TestShouldProcessRejectsHiddenDir(t *testing.T) {
	root := t.TempDir()
	f := NewEventFilter()

	hidden := makeDir(t, root, ".cache")
	writeFile(t, hidden, "clip.mkv")
	assert.False(t, f.ShouldProcess(hidden))
}

func TestRouteDir(t *testing.T) {
	root := t.TempDir()
	f := NewEventFilter()

	movieDir := makeDir(t, root, "Inception (2010)")
	video := writeFile(t, movieDir, "Inception.mkv")

	// Files route to their parent, directories to themselves
	assert.Equal(t, movieDir, f.RouteDir(video))
	assert.Equal(t, movieDir, f.RouteDir(movieDir))

	// Vanished paths still route to the parent
	gone := filepath.Join(movieDir, "sample.mkv")
	assert.Equal(t, movieDir, f.RouteDir(gone))
}

func TestHasMediaPotentialScanBound(t *testing.T) {
	root := t.TempDir()

	// The video sits past the scan cap, buried behind junk entries that
	// sort before it
	dir := makeDir(t, root, "Big Dump")
	for i := 0; i < maxPotentialScan; i++ {
		writeFile(t, dir, fmt.Sprintf("aaa_junk_%02d.txt", i))
	}
	writeFile(t, dir, "zzz_movie.mkv")

	assert.False(t, hasMediaPotential(dir))
}
