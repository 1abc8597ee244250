package storage

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"path"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

// ImageProcessor renders cover thumbnails.
type ImageProcessor struct {
	Width   int
	Height  int
	Quality int
}

func NewImageProcessor() *ImageProcessor {
	return &ImageProcessor{Width: 300, Height: 450, Quality: 85}
}

// ValidateImage checks the bytes decode as one of the accepted cover formats.
func (p *ImageProcessor) ValidateImage(data []byte) error {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("not an image: %w", err)
	}
	switch format {
	case "jpeg", "png", "webp":
		return nil
	default:
		return fmt.Errorf("image format %s not allowed", format)
	}
}

// Thumbnail fits the image into Width x Height and encodes it as JPEG.
func (p *ImageProcessor) Thumbnail(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("cannot decode image: %w", err)
	}

	resized := imaging.Fit(img, p.Width, p.Height, imaging.Lanczos)

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, resized, &jpeg.Options{Quality: p.Quality}); err != nil {
		return nil, fmt.Errorf("cannot encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}

// ThumbnailKey derives the thumbnail key from the original cover key.
// covers/1700-sapiens.png -> covers/thumbs/1700-sapiens.jpg
func ThumbnailKey(coverKey string) string {
	dir, file := path.Split(coverKey)
	base := strings.TrimSuffix(file, path.Ext(file))
	return path.Join(dir, "thumbs", base+".jpg")
}
