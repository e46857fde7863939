package pnm

import (
	"image"
	"image/color"
	"io"
)

// Pixmaps (P3, P6) decode the same way as everywhere else, so they are
// registered with the image package. Bitmaps and greymaps are not: this
// package reads their payload as RGB triplets.
func init() {
	image.RegisterFormat("ppm", "P3", decodeImage, decodeImageConfig)
	image.RegisterFormat("ppm", "P6", decodeImage, decodeImageConfig)
}

func decodeImage(r io.Reader) (image.Image, error) {
	m, err := Decode(r)
	if err != nil {
		return nil, err
	}
	defer m.Close()
	img, err := m.ToNRGBA()
	if err != nil {
		return nil, err
	}
	return img, nil
}

func decodeImageConfig(r io.Reader) (image.Config, error) {
	h, err := ReadHeader(r)
	if err != nil {
		return image.Config{}, err
	}
	return image.Config{
		ColorModel: color.NRGBAModel,
		Width:      h.Width,
		Height:     h.Height,
	}, nil
}
