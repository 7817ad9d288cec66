package ffmpeg

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	ffprobeLib "gopkg.in/vansante/go-ffprobe.v2"
)

func touchVideo(t *testing.T, dir, name string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte("video"), 0644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestHasArtwork_AttachedPic(t *testing.T) {
	media := touchVideo(t, t.TempDir(), "movie.mkv")

	v := NewVerifier()
	v.probe = func(ctx context.Context, path string, extraOpts ...string) (*ffprobeLib.ProbeData, error) {
		if path != media {
			t.Errorf("probe path = %q, want %q", path, media)
		}
		return &ffprobeLib.ProbeData{
			Streams: []*ffprobeLib.Stream{
				{CodecType: string(ffprobeLib.StreamVideo)},
				{
					CodecType:   string(ffprobeLib.StreamVideo),
					Disposition: ffprobeLib.StreamDisposition{AttachedPic: 1},
				},
			},
		}, nil
	}

	has, err := v.HasArtwork(context.Background(), media)
	if err != nil {
		t.Fatalf("HasArtwork() unexpected error: %v", err)
	}
	if !has {
		t.Error("HasArtwork() = false, want true")
	}
}

func TestHasArtwork_NoAttachedPic(t *testing.T) {
	media := touchVideo(t, t.TempDir(), "movie.mp4")

	v := NewVerifier()
	v.probe = func(ctx context.Context, path string, extraOpts ...string) (*ffprobeLib.ProbeData, error) {
		return &ffprobeLib.ProbeData{
			Streams: []*ffprobeLib.Stream{
				{CodecType: string(ffprobeLib.StreamVideo)},
				{CodecType: string(ffprobeLib.StreamAudio)},
			},
		}, nil
	}

	has, err := v.HasArtwork(context.Background(), media)
	if err != nil {
		t.Fatalf("HasArtwork() unexpected error: %v", err)
	}
	if has {
		t.Error("HasArtwork() = true, want false")
	}
}

func TestHasArtwork_MissingFile(t *testing.T) {
	v := NewVerifier()
	v.probe = func(ctx context.Context, path string, extraOpts ...string) (*ffprobeLib.ProbeData, error) {
		t.Error("probe called for missing file")
		return nil, nil
	}

	_, err := v.HasArtwork(context.Background(), filepath.Join(t.TempDir(), "missing.mkv"))
	if err == nil {
		t.Fatal("HasArtwork() expected error for missing file, got nil")
	}
}

func TestHasArtwork_ProbeError(t *testing.T) {
	media := touchVideo(t, t.TempDir(), "broken.avi")

	probeErr := errors.New("moov atom not found")
	v := NewVerifier()
	v.probe = func(ctx context.Context, path string, extraOpts ...string) (*ffprobeLib.ProbeData, error) {
		return nil, probeErr
	}

	_, err := v.HasArtwork(context.Background(), media)
	if !errors.Is(err, probeErr) {
		t.Errorf("HasArtwork() error = %v, want wrapped %v", err, probeErr)
	}
}

func TestExtractArtwork_NoArtwork(t *testing.T) {
	media := touchVideo(t, t.TempDir(), "plain.mkv")

	v := NewVerifier()
	v.probe = func(ctx context.Context, path string, extraOpts ...string) (*ffprobeLib.ProbeData, error) {
		return &ffprobeLib.ProbeData{Streams: []*ffprobeLib.Stream{}}, nil
	}

	err := v.ExtractArtwork(context.Background(), media, filepath.Join(t.TempDir(), "out.jpg"))
	if err == nil {
		t.Fatal("ExtractArtwork() expected error when no artwork present, got nil")
	}
}
