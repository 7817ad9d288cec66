package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Sanjay-Dhandapani/smart-media-icon/internal/config"
	"github.com/Sanjay-Dhandapani/smart-media-icon/internal/iconsetter"
	"github.com/Sanjay-Dhandapani/smart-media-icon/internal/media"
	"github.com/Sanjay-Dhandapani/smart-media-icon/internal/provider"
	"github.com/Sanjay-Dhandapani/smart-media-icon/internal/provider/anilist"
	"github.com/Sanjay-Dhandapani/smart-media-icon/internal/provider/omdb"
	"github.com/Sanjay-Dhandapani/smart-media-icon/internal/provider/tmdb"
	"github.com/Sanjay-Dhandapani/smart-media-icon/internal/provider/tvmaze"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// newLogger builds the console logger shared by all commands.
func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}

// loadConfig loads the active configuration, honoring the --config flag.
func loadConfig() (*config.Config, error) {
	if configFile != "" {
		return config.LoadFrom(configFile)
	}
	return config.Load()
}

// buildSetter assembles the provider registry, fallback chain, poster cache,
// and icon setter from the configuration.
func buildSetter(cfg *config.Config) (*iconsetter.Setter, error) {
	if force {
		cfg.ForceUpdate = true
	}

	registry := provider.NewRegistry()
	if err := registerProviders(registry, cfg); err != nil {
		return nil, err
	}

	cacheDir, err := cfg.ResolveCacheDir()
	if err != nil {
		return nil, err
	}
	cache, err := provider.NewPosterCache(cacheDir)
	if err != nil {
		return nil, fmt.Errorf("open poster cache: %w", err)
	}

	chain := provider.NewChain(registry)
	return iconsetter.New(cfg, chain, cache), nil
}

func registerProviders(registry *provider.Registry, cfg *config.Config) error {
	if err := registry.Register("anilist", anilist.New(), 100); err != nil {
		return err
	}
	if err := registry.Register("tvmaze", tvmaze.New(), 90); err != nil {
		return err
	}
	if err := registry.Register("tmdb", tmdb.New(), 80); err != nil {
		return err
	}
	if err := registry.Register("omdb", omdb.New(), 70); err != nil {
		return err
	}

	// Keyless providers are always available
	if err := registry.Enable("anilist"); err != nil {
		return err
	}
	if cfg.TVMazeToken != "" {
		if err := registry.Configure("tvmaze", map[string]interface{}{"api_token": cfg.TVMazeToken}); err != nil {
			return err
		}
	}
	if err := registry.Enable("tvmaze"); err != nil {
		return err
	}

	if cfg.TMDBAPIKey != "" {
		conf := map[string]interface{}{
			"api_key":       cfg.TMDBAPIKey,
			"language":      cfg.Language,
			"cache_enabled": cfg.EnableCache,
		}
		if cfg.EnableCache {
			if cacheDir, err := cfg.ResolveCacheDir(); err == nil {
				conf["cache_dir"] = cacheDir
			}
		}
		if err := registry.Configure("tmdb", conf); err != nil {
			return err
		}
		if err := registry.Enable("tmdb"); err != nil {
			return err
		}
	}

	if cfg.OMDBAPIKey != "" {
		if err := registry.Configure("omdb", map[string]interface{}{"api_key": cfg.OMDBAPIKey}); err != nil {
			return err
		}
		if err := registry.Enable("omdb"); err != nil {
			return err
		}
	}

	return nil
}

// renderSummary formats the results of a collection run for the terminal.
func renderSummary(summary *iconsetter.Summary) string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("Summary"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %d processed: %s, %s, %s\n",
		summary.Total,
		successStyle.Render(fmt.Sprintf("%d succeeded", summary.Succeeded)),
		errorStyle.Render(fmt.Sprintf("%d failed", summary.Failed)),
		mutedStyle.Render(fmt.Sprintf("%d skipped", summary.Skipped))))
	b.WriteString(fmt.Sprintf("  %d series, %d movies, %d unrecognized\n",
		summary.Series, summary.Movies, summary.Unknown))

	for _, res := range summary.Details {
		switch {
		case res.Skipped:
			b.WriteString(mutedStyle.Render(fmt.Sprintf("  - %s (%s): up to date", res.Title, res.Type)))
		case res.Err != nil:
			b.WriteString(errorStyle.Render(fmt.Sprintf("  ✗ %s: %v", res.Title, res.Err)))
		default:
			label := "folder icon"
			if res.Type == media.TypeMovie {
				label = "embedded artwork"
			}
			b.WriteString(successStyle.Render(fmt.Sprintf("  ✓ %s (%s): %s from %s", res.Title, res.Type, label, res.Source)))
		}
		b.WriteString("\n")
	}

	return b.String()
}
