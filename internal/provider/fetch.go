package provider

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"net/http"
	"time"

	// Register decoders for the formats poster APIs serve.
	_ "image/gif"
	_ "image/png"

	"github.com/avast/retry-go"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// Downloader fetches poster images over HTTP with retries and normalizes
// them to bounded JPEG data.
type Downloader struct {
	client  *http.Client
	maxSize int // maximum width/height in pixels, 0 = unbounded
}

// NewDownloader creates a Downloader. maxSize bounds the longer poster edge.
func NewDownloader(maxSize int) *Downloader {
	return &Downloader{
		client:  &http.Client{Timeout: 30 * time.Second},
		maxSize: maxSize,
	}
}

// SetHTTPClient overrides the HTTP client (useful for tests).
func (d *Downloader) SetHTTPClient(client *http.Client) {
	d.client = client
}

// Download retrieves the poster image and returns normalized JPEG bytes.
func (d *Downloader) Download(ctx context.Context, poster *Poster) ([]byte, error) {
	if poster == nil || poster.ImageURL == "" {
		return nil, fmt.Errorf("poster has no image URL")
	}

	var raw []byte
	err := retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, poster.ImageURL, nil)
			if err != nil {
				return retry.Unrecoverable(err)
			}
			resp, err := d.client.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				err := fmt.Errorf("poster download failed: %s", resp.Status)
				if resp.StatusCode >= 400 && resp.StatusCode < 500 {
					return retry.Unrecoverable(err)
				}
				return err
			}

			raw, err = io.ReadAll(resp.Body)
			return err
		},
		retry.Attempts(3),
		retry.Delay(500*time.Millisecond),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to download poster from %s: %w", poster.Provider, err)
	}

	return NormalizeImage(raw, d.maxSize), nil
}

// NormalizeImage re-encodes image data as JPEG, downscaling so neither
// dimension exceeds maxSize. Undecodable data is returned unchanged so a
// poster with an exotic encoding still reaches the caller.
func NormalizeImage(data []byte, maxSize int) []byte {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return data
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if maxSize > 0 && (w > maxSize || h > maxSize) {
		ratio := float64(maxSize) / float64(w)
		if rh := float64(maxSize) / float64(h); rh < ratio {
			ratio = rh
		}
		nw := int(float64(w) * ratio)
		nh := int(float64(h) * ratio)
		scaled := image.NewRGBA(image.Rect(0, 0, nw, nh))
		draw.CatmullRom.Scale(scaled, scaled.Bounds(), img, bounds, draw.Over, nil)
		img = scaled
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
		return data
	}
	return buf.Bytes()
}
