package transformation

import (
	"bytes"
	"fmt"
	"image"

	// Sprites are named .png but the decoder goes by content, so register
	// the other common formats too.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	"github.com/mahirjain10/pixelmancer/internal/utils"
)

// Decode reads and decodes the image at path.
func Decode(path string) (image.Image, error) {
	buffer, err := utils.ReadImageBuffer(path)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(buffer))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	return img, nil
}

// Cover scales img to fill a size x size box and crops the overflow around
// the center. The aspect ratio of the kept region is preserved.
func Cover(img image.Image, size int) *image.NRGBA {
	return imaging.Fill(img, size, size, imaging.Center, imaging.Lanczos)
}

// Resize returns the PNG encoding of the cover fit of img.
func Resize(img image.Image, size int) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := imaging.Encode(buf, Cover(img, size), imaging.PNG); err != nil {
		return nil, fmt.Errorf("error while resizing: %w", err)
	}
	return buf.Bytes(), nil
}

// ResizeToFile writes the cover fit of img to dst as PNG.
func ResizeToFile(img image.Image, size int, dst string) error {
	buffer, err := Resize(img, size)
	if err != nil {
		return err
	}
	return utils.WriteImageBuffer(dst, buffer)
}
