package watch

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/Sanjay-Dhandapani/smart-media-icon/internal/media"
)

// maxPotentialScan caps how many entries a media-potential probe inspects.
const maxPotentialScan = 20

var ignorePatterns = []string{
	"*.tmp",
	"*.part",
	"*.crdownload",
	"*.download",
	"*.!ut",
	"thumbs.db",
	"desktop.ini",
	".ds_store",
}

var seasonKeywords = []string{"season", "episode", "ep", "s01", "s1"}

// EventFilter decides which filesystem events are worth scheduling.
type EventFilter struct{}

func NewEventFilter() *EventFilter {
	return &EventFilter{}
}

// ShouldProcess reports whether the path behind an event warrants processing.
// Files must be videos; directories must plausibly hold media.
func (f *EventFilter) ShouldProcess(path string) bool {
	name := filepath.Base(path)
	if matchesIgnorePattern(name) {
		return false
	}

	info, err := os.Stat(path)
	if err != nil {
		// Path vanished between the event and now
		return false
	}

	if !info.IsDir() {
		return media.IsVideo(name)
	}

	if strings.HasPrefix(name, ".") {
		return false
	}
	return hasMediaPotential(path)
}

// RouteDir maps an event path to the directory that should be reprocessed:
// the parent for files, the directory itself otherwise.
func (f *EventFilter) RouteDir(path string) string {
	info, err := os.Stat(path)
	if err == nil && info.IsDir() {
		return path
	}
	return filepath.Dir(path)
}

func matchesIgnorePattern(name string) bool {
	lower := strings.ToLower(name)
	for _, pattern := range ignorePatterns {
		if strings.HasPrefix(pattern, "*") {
			if strings.HasSuffix(lower, pattern[1:]) {
				return true
			}
		} else if lower == pattern {
			return true
		}
	}
	return false
}

// hasMediaPotential scans a bounded number of entries looking for video files
// or season-style subdirectories.
func hasMediaPotential(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}

	scanned := 0
	for _, entry := range entries {
		if scanned >= maxPotentialScan {
			break
		}
		scanned++

		name := entry.Name()
		if entry.IsDir() {
			lower := strings.ToLower(name)
			for _, keyword := range seasonKeywords {
				if strings.Contains(lower, keyword) {
					return true
				}
			}
			continue
		}
		if media.IsVideo(name) {
			return true
		}
	}
	return false
}
