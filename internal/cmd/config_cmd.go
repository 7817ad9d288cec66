package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/Sanjay-Dhandapani/smart-media-icon/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change the configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the active configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		path, err := config.ConfigPath()
		if err != nil {
			return err
		}

		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(mutedStyle.Render(path))
		fmt.Println(string(data))
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value and save the config file.

Supported keys: media_root, tmdb_api_key, omdb_api_key, tvmaze_token,
language, cache_dir, enable_cache, max_poster_size, force_update,
debounce_seconds, max_events_per_second, worker_count, scan_on_start.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if err := setConfigValue(cfg, args[0], args[1]); err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Printf("Set %s = %s\n", args[0], args[1])
		return nil
	},
}

func setConfigValue(cfg *config.Config, key, value string) error {
	switch key {
	case "media_root":
		cfg.MediaRoot = value
	case "tmdb_api_key":
		cfg.TMDBAPIKey = value
	case "omdb_api_key":
		cfg.OMDBAPIKey = value
	case "tvmaze_token":
		cfg.TVMazeToken = value
	case "language":
		cfg.Language = value
	case "cache_dir":
		cfg.CacheDir = value
	case "enable_cache":
		return setBool(&cfg.EnableCache, key, value)
	case "force_update":
		return setBool(&cfg.ForceUpdate, key, value)
	case "scan_on_start":
		return setBool(&cfg.Watch.ScanOnStart, key, value)
	case "max_poster_size":
		return setInt(&cfg.MaxPosterSize, key, value)
	case "debounce_seconds":
		return setInt(&cfg.Watch.DebounceSeconds, key, value)
	case "max_events_per_second":
		return setInt(&cfg.Watch.MaxEventsPerSecond, key, value)
	case "worker_count":
		return setInt(&cfg.Watch.WorkerCount, key, value)
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}

func setBool(dst *bool, key, value string) error {
	v, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("%s expects true or false, got %q", key, value)
	}
	*dst = v
	return nil
}

func setInt(dst *int, key, value string) error {
	v, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("%s expects a number, got %q", key, value)
	}
	*dst = v
	return nil
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}
