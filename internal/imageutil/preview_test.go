package imageutil

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeTestJPEG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x += 10 {
		for y := 0; y < height; y += 10 {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func decodeDims(t *testing.T, data []byte) (int, int) {
	t.Helper()
	img, _, err := image.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return img.Bounds().Dx(), img.Bounds().Dy()
}

func TestPreviewJPEG(t *testing.T) {
	t.Run("DownscalesOversizedImage", func(t *testing.T) {
		data := encodeTestJPEG(t, 1600, 2400)

		preview, err := PreviewJPEG(data, nil)
		require.NoError(t, err)

		w, h := decodeDims(t, preview)
		assert.LessOrEqual(t, w, DefaultMaxWidth)
		assert.LessOrEqual(t, h, DefaultMaxHeight)
		// Aspect ratio preserved: 1600x2400 fits as 400x600.
		assert.Equal(t, 400, w)
		assert.Equal(t, 600, h)
	})

	t.Run("KeepsSmallImageDimensions", func(t *testing.T) {
		data := encodeTestJPEG(t, 120, 80)

		preview, err := PreviewJPEG(data, nil)
		require.NoError(t, err)

		w, h := decodeDims(t, preview)
		assert.Equal(t, 120, w)
		assert.Equal(t, 80, h)
	})

	t.Run("HonorsCustomBounds", func(t *testing.T) {
		data := encodeTestJPEG(t, 1000, 1000)

		preview, err := PreviewJPEG(data, &PreviewConfig{MaxWidth: 100, MaxHeight: 100, Quality: 70})
		require.NoError(t, err)

		w, h := decodeDims(t, preview)
		assert.Equal(t, 100, w)
		assert.Equal(t, 100, h)
	})

	t.Run("RejectsNonImageData", func(t *testing.T) {
		_, err := PreviewJPEG([]byte("definitely not an image"), nil)
		assert.Error(t, err)
	})
}
