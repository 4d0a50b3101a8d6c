package imageutil

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
)

// Default preview bounds, matching the dashboard card size.
const (
	DefaultMaxWidth  = 400
	DefaultMaxHeight = 600
)

// PreviewConfig holds configuration for preview generation
type PreviewConfig struct {
	MaxWidth  int // Maximum width in pixels (default 400)
	MaxHeight int // Maximum height in pixels (default 600)
	Quality   int // JPEG quality 1-100 (default 85)
}

// DefaultConfig returns default preview configuration
func DefaultConfig() *PreviewConfig {
	return &PreviewConfig{
		MaxWidth:  DefaultMaxWidth,
		MaxHeight: DefaultMaxHeight,
		Quality:   85,
	}
}

// PreviewJPEG downscales the given image into a bounded JPEG thumbnail while
// maintaining aspect ratio. Images already inside the bounds are re-encoded
// but not resized.
func PreviewJPEG(imageData []byte, config *PreviewConfig) ([]byte, error) {
	if config == nil {
		config = DefaultConfig()
	}

	img, err := imaging.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() > config.MaxWidth || bounds.Dy() > config.MaxHeight {
		img = imaging.Fit(img, config.MaxWidth, config.MaxHeight, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(config.Quality)); err != nil {
		return nil, fmt.Errorf("failed to encode preview: %w", err)
	}

	return buf.Bytes(), nil
}
