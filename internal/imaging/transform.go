package imaging

import (
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/segment"
	"github.com/ironsheep/pnm-tools/pkg/pnm"
)

// DefaultThreshold is the luminance cut used when flattening to a bitmap.
const DefaultThreshold = 128

// ConvertOptions controls Convert.
type ConvertOptions struct {
	// Flatten rewrites the pixels to match the depth of the target variant:
	// greymaps become gray, bitmaps become pure black and white. Without it
	// only the variant (magic number and body codec) changes.
	Flatten bool

	// Threshold is the luminance cut used when flattening to a bitmap:
	// brighter pixels become white, darker ones black.
	Threshold uint8
}

// Convert returns a copy of img stored as variant v. The source image is not
// modified. Comments and maxval carry over.
func Convert(img *pnm.Image, v pnm.Variant, opts ConvertOptions) (*pnm.Image, error) {
	if !v.Valid() {
		return nil, fmt.Errorf("invalid target variant %d", int(v))
	}

	if !opts.Flatten || v.Depth() == pnm.Pixmap {
		out := img.Clone()
		if err := out.SetVariant(v); err != nil {
			return nil, fmt.Errorf("failed to set variant: %w", err)
		}
		return out, nil
	}

	src, err := img.ToNRGBA()
	if err != nil {
		return nil, fmt.Errorf("failed to convert image: %w", err)
	}

	var flat image.Image
	switch v.Depth() {
	case pnm.Greymap:
		flat = effect.Grayscale(src)
	case pnm.Bitmap:
		flat = segment.Threshold(src, opts.Threshold)
	}

	out, err := pnm.FromImage(flat, v)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s image: %w", v.Magic(), err)
	}
	if err := out.SetMaxval(img.Maxval()); err != nil {
		out.Close()
		return nil, fmt.Errorf("failed to set maxval: %w", err)
	}
	for _, c := range img.Comments() {
		if err := out.AddComment(c); err != nil {
			out.Close()
			return nil, fmt.Errorf("failed to copy comments: %w", err)
		}
	}
	return out, nil
}

// Negate returns a copy of img with every pixel replaced by its negative.
func Negate(img *pnm.Image) (*pnm.Image, error) {
	out := img.Clone()
	if err := out.Negate(); err != nil {
		return nil, fmt.Errorf("failed to negate image: %w", err)
	}
	return out, nil
}

// CreateOptions describes a new blank image.
type CreateOptions struct {
	Variant  pnm.Variant
	Width    int
	Height   int
	Maxval   int // 0 means pnm.DefaultMaxval
	Fill     pnm.Pixel
	Comments []string
}

// Create builds a new image filled with a single color.
func Create(opts CreateOptions) (*pnm.Image, error) {
	maxval := opts.Maxval
	if maxval == 0 {
		maxval = pnm.DefaultMaxval
	}
	img, err := pnm.New(opts.Variant, opts.Width, opts.Height, maxval)
	if err != nil {
		return nil, fmt.Errorf("failed to create image: %w", err)
	}
	if err := img.Fill(opts.Fill); err != nil {
		img.Close()
		return nil, fmt.Errorf("failed to fill image: %w", err)
	}
	for _, c := range opts.Comments {
		if err := img.AddComment(c); err != nil {
			img.Close()
			return nil, fmt.Errorf("failed to add comment: %w", err)
		}
	}
	return img, nil
}

// EditComments applies a single comment-store action to img in place.
// Action is "add", "replace" or "delete"; index is ignored for "add".
func EditComments(img *pnm.Image, action string, index int, text string) error {
	switch action {
	case "add":
		return img.AddComment(text)
	case "replace":
		return img.ReplaceComment(index, text)
	case "delete":
		return img.DeleteComment(index)
	}
	return fmt.Errorf("unknown comment action %q: want add, replace or delete", action)
}
