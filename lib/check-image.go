package changewallpaperlib

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

var ErrNotImage = errors.New("Downloaded content is not a supported image")

// Returns the detected format. DecodeConfig only reads the header, which is
// enough to reject error pages served with a success status.
func checkImage(data []byte) (string, error) {
	img, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotImage, err)
	}
	if img.Width <= 0 || img.Height <= 0 {
		return "", fmt.Errorf(
			"%w: %s image has size %dx%d", ErrNotImage, format, img.Width, img.Height)
	}

	return format, nil
}
