package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// WatchDirectory is a single directory monitored by the watch command.
type WatchDirectory struct {
	Path      string `json:"path"`
	Recursive bool   `json:"recursive"`
	Enabled   bool   `json:"enabled"`
}

// WatchConfig holds the background watcher settings.
type WatchConfig struct {
	ScanOnStart        bool             `json:"scan_on_start"`
	DebounceSeconds    int              `json:"debounce_seconds"`
	MaxEventsPerSecond int              `json:"max_events_per_second"`
	WorkerCount        int              `json:"worker_count"`
	Directories        []WatchDirectory `json:"directories"`
}

// Config holds the application configuration
type Config struct {
	MediaRoot string `json:"media_root"`

	// Provider credentials
	TMDBAPIKey  string `json:"tmdb_api_key"`
	OMDBAPIKey  string `json:"omdb_api_key"`
	TVMazeToken string `json:"tvmaze_token"`
	Language    string `json:"language"`

	// Poster cache settings
	CacheDir      string `json:"cache_dir"`
	EnableCache   bool   `json:"enable_cache"`
	MaxPosterSize int    `json:"max_poster_size"`

	// Processing settings
	ForceUpdate      bool `json:"force_update"`
	LogRetentionDays int  `json:"log_retention_days"`
	EnableLogging    bool `json:"enable_logging"`

	Watch WatchConfig `json:"watch"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		MediaRoot:        "",
		TMDBAPIKey:       "",
		OMDBAPIKey:       "",
		TVMazeToken:      "",
		Language:         "en-US",
		CacheDir:         "",
		EnableCache:      true,
		MaxPosterSize:    1024,
		ForceUpdate:      false,
		LogRetentionDays: 30,
		EnableLogging:    true,
		Watch: WatchConfig{
			ScanOnStart:        true,
			DebounceSeconds:    5,
			MaxEventsPerSecond: 1,
			WorkerCount:        2,
			Directories:        []WatchDirectory{},
		},
	}
}

// ConfigPath returns the path to the config file
func ConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".smart-media-icon", "config.json"), nil
}

// Load reads the configuration from disk
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads the configuration from an explicit path
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Return default config if file doesn't exist
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Fill in any missing fields with defaults
	defaults := DefaultConfig()
	if cfg.Language == "" {
		cfg.Language = defaults.Language
	}
	if cfg.MaxPosterSize == 0 {
		cfg.MaxPosterSize = defaults.MaxPosterSize
	}
	if cfg.LogRetentionDays == 0 {
		cfg.LogRetentionDays = defaults.LogRetentionDays
	}
	if cfg.Watch.DebounceSeconds == 0 {
		cfg.Watch.DebounceSeconds = defaults.Watch.DebounceSeconds
	}
	if cfg.Watch.MaxEventsPerSecond == 0 {
		cfg.Watch.MaxEventsPerSecond = defaults.Watch.MaxEventsPerSecond
	}
	if cfg.Watch.WorkerCount == 0 {
		cfg.Watch.WorkerCount = defaults.Watch.WorkerCount
	}

	return &cfg, nil
}

// Save writes the configuration to disk
func (cfg *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ResolveCacheDir returns the poster cache directory, expanding environment
// variables in the configured path and falling back to the default under the
// user's home directory when unset.
func (cfg *Config) ResolveCacheDir() (string, error) {
	if cfg.CacheDir != "" {
		return os.ExpandEnv(cfg.CacheDir), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".smart-media-icon", "cache"), nil
}

// HasProviderKey reports whether at least one poster provider can be enabled.
// TVmaze and AniList work without credentials, so this is always satisfiable
// unless every keyless provider is unreachable, but TMDB and OMDB need keys.
func (cfg *Config) HasProviderKey() bool {
	return cfg.TMDBAPIKey != "" || cfg.OMDBAPIKey != ""
}
