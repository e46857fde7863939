package pnm

import (
	"image"
	"image/color"
)

// ToNRGBA copies the pixels into an opaque *image.NRGBA so the image can be
// handed to code working with the standard image interfaces.
func (m *Image) ToNRGBA() (*image.NRGBA, error) {
	if err := m.ready("to nrgba"); err != nil {
		return nil, err
	}
	dst := image.NewNRGBA(m.Bounds())
	for i, p := range m.pixels {
		o := i * 4
		dst.Pix[o] = p.R
		dst.Pix[o+1] = p.G
		dst.Pix[o+2] = p.B
		dst.Pix[o+3] = 0xff
	}
	return dst, nil
}

// FromImage builds an image of variant v from src. Colors are converted to
// 8-bit RGB with alpha discarded; maxval is 255. The source bounds must fit
// the width and height limits.
func FromImage(src image.Image, v Variant) (*Image, error) {
	b := src.Bounds()
	m, err := New(v, b.Dx(), b.Dy(), DefaultMaxval)
	if err != nil {
		return nil, err
	}
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(src.At(x, y)).(color.NRGBA)
			m.pixels[i] = Pixel{R: c.R, G: c.G, B: c.B}
			i++
		}
	}
	return m, nil
}
