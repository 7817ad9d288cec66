package iconsetter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/Sanjay-Dhandapani/smart-media-icon/internal/config"
	"github.com/Sanjay-Dhandapani/smart-media-icon/internal/ffmpeg"
	"github.com/Sanjay-Dhandapani/smart-media-icon/internal/icon"
	"github.com/Sanjay-Dhandapani/smart-media-icon/internal/log"
	"github.com/Sanjay-Dhandapani/smart-media-icon/internal/media"
	"github.com/Sanjay-Dhandapani/smart-media-icon/internal/provider"
	csmap "github.com/mhmtszr/concurrent-swiss-map"
)

// PosterFileName is the canonical poster written into each processed folder.
const PosterFileName = "poster.jpg"

// Setter applies posters to media directories, either as folder icons for
// series or as embedded artwork for movie files.
type Setter struct {
	cfg        *config.Config
	chain      *provider.Chain
	cache      *provider.PosterCache
	downloader *provider.Downloader
	detector   *media.Detector
	folders    *icon.FolderSetter
	embedder   *ffmpeg.Embedder
	verifier   *ffmpeg.Verifier
}

// Result captures the outcome of processing a single directory.
type Result struct {
	Dir     string
	Title   string
	Type    media.Type
	Source  string
	Skipped bool
	Err     error
}

// Summary aggregates the outcomes of a collection run.
type Summary struct {
	Total     int
	Succeeded int
	Failed    int
	Skipped   int
	Series    int
	Movies    int
	Unknown   int
	Details   []Result
}

// New constructs a Setter wired to the given provider chain and poster cache.
func New(cfg *config.Config, chain *provider.Chain, cache *provider.PosterCache) *Setter {
	return &Setter{
		cfg:        cfg,
		chain:      chain,
		cache:      cache,
		downloader: provider.NewDownloader(cfg.MaxPosterSize),
		detector:   media.NewDetector(),
		folders:    icon.NewFolderSetter(),
		embedder:   ffmpeg.NewEmbedder(),
		verifier:   ffmpeg.NewVerifier(),
	}
}

// SetDownloader replaces the poster downloader, used by tests to inject a
// fake HTTP transport.
func (s *Setter) SetDownloader(d *provider.Downloader) {
	s.downloader = d
}

// ProcessDirectory classifies a single media directory and applies a poster
// to it. It is safe to call from multiple goroutines.
func (s *Setter) ProcessDirectory(ctx context.Context, dir string) Result {
	name := filepath.Base(dir)
	title, year := media.ExtractTitleAndYear(name)
	result := Result{Dir: dir, Title: title}

	mediaType, err := s.detector.Classify(dir)
	result.Type = mediaType
	if err != nil {
		result.Err = fmt.Errorf("classify %s: %w", name, err)
		return result
	}
	if mediaType == media.TypeUnknown {
		result.Err = fmt.Errorf("no media files found in %s", name)
		return result
	}

	if !s.cfg.ForceUpdate && s.alreadyProcessed(ctx, dir, mediaType) {
		result.Skipped = true
		return result
	}

	posterPath, source, err := s.acquirePoster(ctx, dir, title, year, mediaType)
	if err != nil {
		result.Err = err
		return result
	}
	result.Source = source

	switch mediaType {
	case media.TypeSeries:
		result.Err = s.applyFolderIcon(dir, posterPath)
	case media.TypeMovie:
		result.Err = s.embedArtwork(ctx, dir, posterPath)
	}

	return result
}

// alreadyProcessed reports whether the directory already carries its poster.
func (s *Setter) alreadyProcessed(ctx context.Context, dir string, mediaType media.Type) bool {
	switch mediaType {
	case media.TypeSeries:
		return icon.HasFolderIcon(dir)
	case media.TypeMovie:
		videos, err := media.VideoFilesIn(dir)
		if err != nil || len(videos) == 0 {
			return false
		}
		for _, video := range videos {
			if !ffmpeg.Supported(video) {
				continue
			}
			has, err := s.verifier.HasArtwork(ctx, video)
			if err != nil || !has {
				return false
			}
		}
		return true
	}
	return false
}

// acquirePoster returns the path of a poster image for the directory. A local
// poster file wins; otherwise the cache is consulted, then the provider chain.
// Fetched posters are written into the directory as poster.jpg so the folder
// icon and embeds have a stable source file.
func (s *Setter) acquirePoster(ctx context.Context, dir, title, year string, mediaType media.Type) (string, string, error) {
	if local := media.FindPoster(dir); local != "" {
		return local, "local", nil
	}

	mt := providerMediaType(filepath.Base(dir), mediaType)
	key := provider.PosterCacheKey(title, mt)

	data, ok := s.cache.Get(key)
	source := "cache"
	if !ok {
		poster, err := s.chain.Resolve(ctx, provider.Request{
			MediaType: mt,
			Title:     title,
			Year:      year,
			Language:  s.cfg.Language,
		})
		if err != nil {
			return "", "", fmt.Errorf("fetch poster for %q: %w", title, err)
		}

		data, err = s.downloader.Download(ctx, poster)
		if err != nil {
			return "", "", fmt.Errorf("download poster for %q: %w", title, err)
		}

		if s.cfg.EnableCache {
			if err := s.cache.Set(key, data); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to cache poster for %q: %v\n", title, err)
			}
		}
		source = poster.Provider
	}

	posterPath := filepath.Join(dir, PosterFileName)
	err := os.WriteFile(posterPath, data, 0644)
	log.LogWritePoster(posterPath, err == nil, err)
	if err != nil {
		return "", "", fmt.Errorf("write poster: %w", err)
	}

	return posterPath, source, nil
}

func (s *Setter) applyFolderIcon(dir, posterPath string) error {
	data, err := os.ReadFile(posterPath)
	if err != nil {
		return fmt.Errorf("read poster: %w", err)
	}

	err = s.folders.SetFolderIcon(dir, data)
	icoPath := filepath.Join(dir, icon.IconFileName)
	iniPath := filepath.Join(dir, icon.IniFileName)
	log.LogWriteIcon(icoPath, err == nil, err)
	log.LogWriteIni(iniPath, err == nil, err)
	log.LogSetAttrs(dir, err == nil, err)
	if err != nil {
		return fmt.Errorf("set folder icon on %s: %w", dir, err)
	}
	return nil
}

// embedArtwork embeds the poster into every supported video in the directory
// root. The directory succeeds when at least one video ends up with artwork.
func (s *Setter) embedArtwork(ctx context.Context, dir, posterPath string) error {
	if !s.embedder.Available() {
		return fmt.Errorf("ffmpeg not found in PATH")
	}

	videos, err := media.VideoFilesIn(dir)
	if err != nil {
		return fmt.Errorf("list videos in %s: %w", dir, err)
	}

	embedded := 0
	var errs []string
	for _, video := range videos {
		if !ffmpeg.Supported(video) {
			continue
		}

		if !s.cfg.ForceUpdate {
			if has, err := s.verifier.HasArtwork(ctx, video); err == nil && has {
				embedded++
				continue
			}
		}

		err := s.embedder.Embed(ctx, video, posterPath)
		log.LogEmbedArtwork(video, video+ffmpeg.BackupSuffix, err == nil, err)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", filepath.Base(video), err))
			continue
		}
		embedded++
	}

	if embedded == 0 {
		if len(errs) > 0 {
			return fmt.Errorf("embed artwork in %s: %s", dir, strings.Join(errs, "; "))
		}
		return fmt.Errorf("no supported videos in %s", dir)
	}
	return nil
}

// ProcessCollection walks the top-level directories under root and processes
// each one with a bounded worker pool.
func (s *Setter) ProcessCollection(ctx context.Context, root string) (*Summary, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read media root %s: %w", root, err)
	}

	var dirs []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") || media.IsIgnored(name) {
			continue
		}
		dirs = append(dirs, filepath.Join(root, name))
	}

	results := csmap.Create[string, Result]()
	workerCount := min(s.cfg.Watch.WorkerCount, len(dirs))
	if workerCount < 1 {
		workerCount = 1
	}

	workCh := make(chan string)
	var wg sync.WaitGroup
	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for dir := range workCh {
				if ctx.Err() != nil {
					return
				}
				results.Store(dir, s.ProcessDirectory(ctx, dir))
			}
		}()
	}

	for _, dir := range dirs {
		select {
		case workCh <- dir:
		case <-ctx.Done():
			close(workCh)
			wg.Wait()
			return nil, ctx.Err()
		}
	}
	close(workCh)
	wg.Wait()

	summary := &Summary{Total: len(dirs)}
	for _, dir := range dirs {
		res, ok := results.Load(dir)
		if !ok {
			continue
		}
		summary.Details = append(summary.Details, res)

		switch res.Type {
		case media.TypeSeries:
			summary.Series++
		case media.TypeMovie:
			summary.Movies++
		default:
			summary.Unknown++
		}

		switch {
		case res.Skipped:
			summary.Skipped++
		case res.Err != nil:
			summary.Failed++
		default:
			summary.Succeeded++
		}
	}

	sort.Slice(summary.Details, func(i, j int) bool {
		return summary.Details[i].Dir < summary.Details[j].Dir
	})

	return summary, nil
}

func providerMediaType(name string, t media.Type) provider.MediaType {
	if media.IsAnime(name) {
		return provider.MediaTypeAnime
	}
	if t == media.TypeSeries {
		return provider.MediaTypeSeries
	}
	return provider.MediaTypeMovie
}
