package cmd

import (
	"fmt"

	"github.com/Sanjay-Dhandapani/smart-media-icon/internal/ffmpeg"
	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:   "verify <file>",
	Short: "Check whether a video file has embedded artwork",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		verifier := ffmpeg.NewVerifier()
		has, err := verifier.HasArtwork(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("probe %s: %w", args[0], err)
		}
		if has {
			fmt.Println(successStyle.Render("✓ embedded artwork present"))
		} else {
			fmt.Println(mutedStyle.Render("- no embedded artwork"))
		}
		return nil
	},
}

var extractCmd = &cobra.Command{
	Use:   "extract <file> <output.jpg>",
	Short: "Extract embedded artwork from a video file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		verifier := ffmpeg.NewVerifier()
		if err := verifier.ExtractArtwork(cmd.Context(), args[0], args[1]); err != nil {
			return err
		}
		fmt.Printf("Extracted artwork to %s\n", args[1])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(extractCmd)
}
