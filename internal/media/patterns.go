package media

import (
	"regexp"
	"strings"
)

// Filename pattern tables.
//
// This file consolidates the regular expressions and lookup tables used to
// recognize video files, ignorable artifacts, and the naming conventions
// that separate episode collections from multi-part movies. Matching is kept
// deliberately tolerant to accept the common community naming styles.
var (
	// videoRe matches video file extensions used to include media files.
	videoRe = regexp.MustCompile(`(?i)\.(mp4|mkv|avi|mov|wmv|flv|webm|m4v|mpe?g|m2v|3gp|3g2|f4v|asf|rm|rmvb|ts|mts|m2ts|vob|ogv|divx|xvid)$`)

	// episodeRe matches episode tokens: S01E02, s1e2, 1x02, "Episode 3", "Ep 3".
	episodeRe = regexp.MustCompile(`(?i)\b(?:s\d{1,2}e\d{1,3}|\d{1,2}x\d{2,3}|episode[\s._-]*\d+|ep[\s._-]*\d+|season[\s._-]*\d+)\b`)

	// partRe matches multi-part movie tokens: Part 1, Disc 2, CD1, DVD 1.
	partRe = regexp.MustCompile(`(?i)\b(?:part|disc|cd|dvd|bd)[\s._-]*\d+\b`)

	// yearRe extracts a release year from a folder or file name.
	yearRe = regexp.MustCompile(`\(?\b((?:19|20)\d{2})\b\)?`)

	// animeRe matches tokens that usually mark anime releases. The bracketed
	// release-group names carry no word boundary: \b never matches before "[".
	animeRe = regexp.MustCompile(`(?i)(?:\b(?:anime|OVA|ONA|BD(?:Rip)?[\s._-]*(?:1080|720)p?[\s._-]*10bit)|\[(?:SubsPlease|Erai-raws|HorribleSubs|Judas|EMBER)\])`)

	// seasonDirRe matches season-like directory names.
	seasonDirRe = regexp.MustCompile(`(?i)^(?:season[\s._-]*\d+|s\d{1,2}|specials?)$`)

	// tagRe strips bracketed release group tags when deriving a title.
	tagRe = regexp.MustCompile(`[\[{(][^\[\]{}()]*[\]})]`)

	// separatorRe collapses dot/underscore separators into spaces.
	separatorRe = regexp.MustCompile(`[._]+`)

	// spacesRe collapses runs of whitespace.
	spacesRe = regexp.MustCompile(`\s+`)
)

// ignoreNames lists files and folders excluded from media scanning.
var ignoreNames = map[string]struct{}{
	"desktop.ini": {},
	"thumbs.db":   {},
	".ds_store":   {},
	"folder.ico":  {},
	"poster.jpg":  {},
	"poster.png":  {},
	"cover.jpg":   {},
	"cover.png":   {},
	"fanart.jpg":  {},
	"banner.jpg":  {},
}

// posterNames lists poster image filenames in search preference order.
var posterNames = []string{
	"poster.jpg", "poster.png", "poster.jpeg",
	"cover.jpg", "cover.png", "cover.jpeg",
	"folder.jpg", "folder.png", "folder.jpeg",
	"fanart.jpg", "fanart.png", "fanart.jpeg",
}

// IsVideo reports whether the file name has a recognized video extension.
func IsVideo(name string) bool {
	return videoRe.MatchString(name)
}

// IsIgnored reports whether the name is a known artifact to skip.
func IsIgnored(name string) bool {
	_, ok := ignoreNames[strings.ToLower(name)]
	return ok
}

// IsSeasonDir reports whether the directory name looks like a season folder.
func IsSeasonDir(name string) bool {
	return seasonDirRe.MatchString(name)
}
