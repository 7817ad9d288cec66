package ffmpeg

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"time"
)

const (
	// BackupSuffix marks the pristine copy kept next to a modified file.
	BackupSuffix = ".backup"

	// embedTimeout bounds a single ffmpeg invocation. Stream copy is I/O
	// bound, so five minutes covers even very large remuxes.
	embedTimeout = 5 * time.Minute
)

// supportedRe gates the container formats ffmpeg can remux with an
// attached picture without re-encoding.
var supportedRe = regexp.MustCompile(`(?i)\.(mp4|mkv|avi|mov|wmv|flv|webm|m4v|mpe?g)$`)

// Embedder embeds poster artwork into video containers via ffmpeg.
type Embedder struct {
	// ffmpegPath is the binary to invoke, "ffmpeg" by default.
	ffmpegPath string

	available bool
}

// NewEmbedder creates an Embedder and probes for the ffmpeg binary.
func NewEmbedder() *Embedder {
	e := &Embedder{ffmpegPath: "ffmpeg"}
	e.available = e.checkAvailable()
	return e
}

// Available reports whether the ffmpeg binary was found.
func (e *Embedder) Available() bool {
	return e.available
}

func (e *Embedder) checkAvailable() bool {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return exec.CommandContext(ctx, e.ffmpegPath, "-version").Run() == nil
}

// Supported reports whether the file's container can carry embedded artwork.
func Supported(path string) bool {
	return supportedRe.MatchString(path)
}

// Embed attaches the poster to the video file as an attached_pic stream.
// A one-time backup copy is kept next to the original, the remux happens in
// a temp file, and the original is only replaced after ffmpeg succeeds.
func (e *Embedder) Embed(ctx context.Context, mediaPath, posterPath string) error {
	if !e.available {
		return fmt.Errorf("ffmpeg not available")
	}
	if _, err := os.Stat(mediaPath); err != nil {
		return fmt.Errorf("media file not found: %w", err)
	}
	if _, err := os.Stat(posterPath); err != nil {
		return fmt.Errorf("poster file not found: %w", err)
	}
	if !Supported(mediaPath) {
		return fmt.Errorf("unsupported file type: %s", filepath.Ext(mediaPath))
	}

	backupPath := mediaPath + BackupSuffix
	if _, err := os.Stat(backupPath); os.IsNotExist(err) {
		if err := copyFile(mediaPath, backupPath); err != nil {
			return fmt.Errorf("failed to create backup: %w", err)
		}
	}

	tempOutput := mediaPath + ".temp.mp4"
	defer os.Remove(tempOutput)

	ctx, cancel := context.WithTimeout(ctx, embedTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, e.ffmpegPath,
		"-i", mediaPath,
		"-i", posterPath,
		"-map", "0",
		"-map", "1",
		"-c", "copy",
		"-disposition:v:1", "attached_pic",
		"-y",
		tempOutput,
	)

	if out, err := cmd.CombinedOutput(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("ffmpeg timed out embedding artwork in %s", filepath.Base(mediaPath))
		}
		return fmt.Errorf("ffmpeg failed for %s: %w: %s", filepath.Base(mediaPath), err, tail(out, 512))
	}

	if err := os.Rename(tempOutput, mediaPath); err != nil {
		return fmt.Errorf("failed to replace %s: %w", filepath.Base(mediaPath), err)
	}
	return nil
}

// Restore puts the backup copy back in place of the modified file.
func Restore(mediaPath string) error {
	backupPath := mediaPath + BackupSuffix
	if _, err := os.Stat(backupPath); err != nil {
		return fmt.Errorf("no backup for %s: %w", filepath.Base(mediaPath), err)
	}
	return os.Rename(backupPath, mediaPath)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		os.Remove(dst)
		return err
	}
	return out.Close()
}

func tail(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[len(b)-n:])
}
