package media

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Type is the classification result for a media directory.
type Type string

const (
	TypeSeries  Type = "series"
	TypeMovie   Type = "movie"
	TypeUnknown Type = "unknown"
)

// Detector encapsulates the heuristics for classifying media directories.
type Detector struct{}

// NewDetector creates a fresh detector instance.
func NewDetector() *Detector {
	return &Detector{}
}

// Classify resolves the most likely media type for a directory.
//
// Decision order:
//  1. Season-named subdirectories, or subdirectories containing media
//     files, mean a series (season layout).
//  2. A single video file in the root means a movie.
//  3. Multiple root videos are split on naming: episode tokens win over
//     part/disc tokens; ties default to series.
func (d *Detector) Classify(dir string) (Type, error) {
	if _, err := os.Stat(dir); err != nil {
		return TypeUnknown, fmt.Errorf("failed to stat %s: %w", dir, err)
	}

	videos, err := VideoFilesIn(dir)
	if err != nil {
		return TypeUnknown, err
	}

	hasMediaSubdirs, err := d.hasSubdirsWithMedia(dir)
	if err != nil {
		return TypeUnknown, err
	}

	switch {
	case hasMediaSubdirs:
		return TypeSeries, nil
	case len(videos) == 1:
		return TypeMovie, nil
	case len(videos) > 1:
		return d.classifyMultiFile(videos), nil
	default:
		return TypeUnknown, nil
	}
}

func (d *Detector) classifyMultiFile(videos []string) Type {
	var hasEpisode, hasPart bool
	for _, v := range videos {
		stem := strings.TrimSuffix(filepath.Base(v), filepath.Ext(v))
		if episodeRe.MatchString(stem) {
			hasEpisode = true
		}
		if partRe.MatchString(stem) {
			hasPart = true
		}
	}

	if hasPart && !hasEpisode {
		return TypeMovie
	}
	// Multiple loose files lean series even without episode tokens.
	return TypeSeries
}

func (d *Detector) hasSubdirsWithMedia(dir string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	for _, entry := range entries {
		if !entry.IsDir() || IsIgnored(entry.Name()) {
			continue
		}
		// A season-named folder is a series signal even before any
		// episodes land in it.
		if IsSeasonDir(entry.Name()) {
			return true, nil
		}
		videos, err := VideoFilesIn(filepath.Join(dir, entry.Name()))
		if err != nil {
			continue
		}
		if len(videos) > 0 {
			return true, nil
		}
	}
	return false, nil
}

// VideoFilesIn lists video files directly inside dir (non-recursive).
func VideoFilesIn(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	var videos []string
	for _, entry := range entries {
		if entry.IsDir() || IsIgnored(entry.Name()) || !IsVideo(entry.Name()) {
			continue
		}
		videos = append(videos, filepath.Join(dir, entry.Name()))
	}
	return videos, nil
}

// FindPoster returns the path of the first poster image present in dir, or
// an empty string when none exists.
func FindPoster(dir string) string {
	for _, name := range posterNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// IsAnime reports whether the directory name carries anime release markers.
func IsAnime(name string) bool {
	return animeRe.MatchString(name)
}

// ExtractTitleAndYear derives a search title and optional year from a
// directory name, stripping release tags and separator noise.
func ExtractTitleAndYear(name string) (string, string) {
	year := ""
	if m := yearRe.FindStringSubmatch(name); m != nil {
		year = m[1]
	}

	title := tagRe.ReplaceAllString(name, " ")
	title = yearRe.ReplaceAllString(title, " ")
	title = separatorRe.ReplaceAllString(title, " ")
	title = spacesRe.ReplaceAllString(title, " ")
	title = strings.Trim(title, " -")

	if title == "" {
		// Everything was stripped, fall back to the raw name.
		title = strings.TrimSpace(name)
	}
	return title, year
}
