package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "smart-media-icon",
	Short: "Apply poster artwork to media folders",
	Long: `smart-media-icon scans a media library, fetches poster artwork from
online providers (AniList, TVmaze, TMDB, OMDb), and applies it to each
title: TV series folders get a Windows folder icon via desktop.ini and
folder.ico, movie files get the poster embedded as attached artwork
through FFmpeg.

Posters are cached on disk, and every filesystem mutation is recorded in
a session log so runs can be undone.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

var (
	configFile string
	verbose    bool
	force      bool
	dryRun     bool
)

func init() {
	// Global flags for all commands
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to config file (default ~/.smart-media-icon/config.json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&force, "force", "f", false, "Reprocess directories that already have posters applied")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Classify and report without touching any files")
}
