package ffmpeg

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"gopkg.in/vansante/go-ffprobe.v2"
)

// probeFunc defines the function signature used to execute ffprobe.
type probeFunc func(ctx context.Context, path string, extraOpts ...string) (*ffprobe.ProbeData, error)

// Verifier inspects video containers for embedded artwork via ffprobe.
type Verifier struct {
	probe probeFunc
}

// NewVerifier creates a Verifier backed by the ffprobe binary.
func NewVerifier() *Verifier {
	return &Verifier{probe: ffprobe.ProbeURL}
}

// HasArtwork reports whether the file carries an attached_pic video stream.
func (v *Verifier) HasArtwork(ctx context.Context, mediaPath string) (bool, error) {
	if _, err := os.Stat(mediaPath); err != nil {
		return false, fmt.Errorf("media file not found: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	data, err := v.probe(ctx, mediaPath)
	if err != nil {
		return false, fmt.Errorf("ffprobe failed for %s: %w", mediaPath, err)
	}

	for _, stream := range data.Streams {
		if stream.Disposition.AttachedPic == 1 {
			return true, nil
		}
	}
	return false, nil
}

// ExtractArtwork copies the embedded artwork stream out to a file.
func (v *Verifier) ExtractArtwork(ctx context.Context, mediaPath, outputPath string) error {
	has, err := v.HasArtwork(ctx, mediaPath)
	if err != nil {
		return err
	}
	if !has {
		return fmt.Errorf("no embedded artwork in %s", mediaPath)
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-i", mediaPath,
		"-an",
		"-vcodec", "copy",
		"-vframes", "1",
		"-y",
		outputPath,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("artwork extraction failed: %w: %s", err, tail(out, 512))
	}

	if _, err := os.Stat(outputPath); err != nil {
		return fmt.Errorf("artwork extraction produced no output: %w", err)
	}
	return nil
}
