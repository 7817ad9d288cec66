package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/Sanjay-Dhandapani/smart-media-icon/internal/log"
	"github.com/Sanjay-Dhandapani/smart-media-icon/internal/media"
	"github.com/spf13/cobra"
)

var applyCmd = &cobra.Command{
	Use:   "apply [directory]",
	Short: "Apply posters to every media folder under a directory",
	Long: `Scan the top-level folders of a media library, classify each one as a
TV series or movie, fetch a poster, and apply it. Series folders receive a
Windows folder icon; movie files get the poster embedded via FFmpeg.

Without an argument the configured media root is used, falling back to the
current directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runApplyCommand,
}

func runApplyCommand(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	root := cfg.MediaRoot
	if len(args) > 0 {
		root = args[0]
	}
	if root == "" {
		root, err = os.Getwd()
		if err != nil {
			return err
		}
	}
	root, err = filepath.Abs(root)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if dryRun {
		return runDryRun(root)
	}

	log.Initialize(cfg.EnableLogging, cfg.LogRetentionDays)
	if err := log.StartSession("apply", args); err != nil {
		logger.Warn().Err(err).Msg("failed to start operation log")
	}
	defer func() {
		if err := log.EndSession(); err != nil {
			logger.Warn().Err(err).Msg("failed to write operation log")
		}
	}()

	setter, err := buildSetter(cfg)
	if err != nil {
		return err
	}

	logger.Info().Str("root", root).Msg("processing media library")
	summary, err := setter.ProcessCollection(ctx, root)
	if err != nil {
		return err
	}

	fmt.Print(renderSummary(summary))
	if summary.Failed > 0 {
		return fmt.Errorf("%d directories failed", summary.Failed)
	}
	return nil
}

// runDryRun classifies the library and reports what would happen.
func runDryRun(root string) error {
	entries, err := os.ReadDir(root)
	if err != nil {
		return fmt.Errorf("read media root %s: %w", root, err)
	}

	detector := media.NewDetector()
	fmt.Println(headerStyle.Render("Dry run: " + root))
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") || media.IsIgnored(entry.Name()) {
			continue
		}
		dir := filepath.Join(root, entry.Name())
		mediaType, err := detector.Classify(dir)
		title, year := media.ExtractTitleAndYear(entry.Name())
		label := title
		if year != "" {
			label = fmt.Sprintf("%s (%s)", title, year)
		}
		switch {
		case err != nil:
			fmt.Println(errorStyle.Render(fmt.Sprintf("  ✗ %s: %v", label, err)))
		case mediaType == media.TypeSeries:
			fmt.Println(successStyle.Render(fmt.Sprintf("  %s -> folder icon (series)", label)))
		case mediaType == media.TypeMovie:
			fmt.Println(successStyle.Render(fmt.Sprintf("  %s -> embedded artwork (movie)", label)))
		default:
			fmt.Println(mutedStyle.Render(fmt.Sprintf("  - %s: no media found", label)))
		}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(applyCmd)
}
