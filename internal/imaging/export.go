package imaging

import (
	"fmt"
	"os"

	"github.com/disintegration/imaging"
	"github.com/ironsheep/pnm-tools/pkg/pnm"
)

// ExportResult describes a file written in a non-PNM format.
type ExportResult struct {
	Path          string `json:"path"`
	Format        string `json:"format"`
	Width         int    `json:"width"`
	Height        int    `json:"height"`
	FileSizeBytes int64  `json:"file_size_bytes"`
}

// Export writes img to path in the format named by the file extension
// (.png, .jpg/.jpeg, .gif, .tif/.tiff or .bmp), optionally scaled.
func Export(img *pnm.Image, path string, scale float64) (*ExportResult, error) {
	format, err := imaging.FormatFromFilename(path)
	if err != nil {
		return nil, fmt.Errorf("failed to determine output format: %w", err)
	}

	src, err := img.ToNRGBA()
	if err != nil {
		return nil, fmt.Errorf("failed to convert image: %w", err)
	}
	out := scaleImage(src, scale)

	if err := imaging.Save(out, path); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", format, err)
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	return &ExportResult{
		Path:          path,
		Format:        format.String(),
		Width:         out.Bounds().Dx(),
		Height:        out.Bounds().Dy(),
		FileSizeBytes: stat.Size(),
	}, nil
}

// Import decodes a PNG, JPEG, GIF, TIFF or BMP file into a new image of
// variant v. EXIF orientation is applied and alpha is discarded.
func Import(path string, v pnm.Variant) (*pnm.Image, error) {
	src, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	img, err := pnm.FromImage(src, v)
	if err != nil {
		return nil, fmt.Errorf("failed to convert image: %w", err)
	}
	return img, nil
}
