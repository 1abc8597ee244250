package storage

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngFixture(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDetectContentType(t *testing.T) {
	assert.Equal(t, "image/png", DetectContentType(pngFixture(t, 2, 2), ""))
	assert.Equal(t, "application/pdf", DetectContentType([]byte("%PDF-1.7\n"), "application/octet-stream"))
	assert.Equal(t, "application/epub+zip", DetectContentType([]byte{0x00, 0x01, 0x02}, "application/epub+zip"))
}

func TestCountPDFPagesRejectsGarbage(t *testing.T) {
	_, err := CountPDFPages([]byte("definitely not a pdf"))
	assert.Error(t, err)
}

func TestThumbnailFitsBounds(t *testing.T) {
	p := NewImageProcessor()
	src := pngFixture(t, 600, 600)

	require.NoError(t, p.ValidateImage(src))

	thumb, err := p.Thumbnail(src)
	require.NoError(t, err)

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(thumb))
	require.NoError(t, err)
	assert.LessOrEqual(t, cfg.Width, 300)
	assert.LessOrEqual(t, cfg.Height, 450)
}

func TestValidateImageRejectsNonImage(t *testing.T) {
	assert.Error(t, NewImageProcessor().ValidateImage([]byte("nope")))
}
