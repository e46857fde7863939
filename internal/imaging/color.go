package imaging

import (
	"fmt"
	"image"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/ironsheep/pnm-tools/pkg/pnm"
	"github.com/lucasb-eyer/go-colorful"
)

// RGBColor represents an RGB color with 8-bit components.
type RGBColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// HSLColor represents a color in HSL space using the familiar integer units.
//
// HSL is often more intuitive for color manipulation than RGB:
//   - Hue represents the color type (red, green, blue, etc.)
//   - Saturation represents color intensity (gray to vivid)
//   - Lightness represents brightness (black to white)
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	L int `json:"l"` // Lightness: 0-100 percent (0=black, 50=normal, 100=white)
}

// ColorResult contains a pixel value in several representations.
//
//   - Hex: Compact "#RRGGBB" string
//   - RGB: The stored 8-bit channels
//   - HSL: Degrees and percentages
//   - HSLUnit: The unit-interval form used by pnm.RGBToHSL, with H = -1 for grays
//   - Negative: The channel-wise complement in hex
type ColorResult struct {
	Hex      string       `json:"hex"`
	RGB      RGBColor     `json:"rgb"`
	HSL      HSLColor     `json:"hsl"`
	HSLUnit  pnm.HSLPixel `json:"hsl_unit"`
	Negative string       `json:"negative"`
}

// NewColorResult describes p in every supported representation.
func NewColorResult(p pnm.Pixel) *ColorResult {
	return &ColorResult{
		Hex:      HexOf(p),
		RGB:      RGBColor{R: p.R, G: p.G, B: p.B},
		HSL:      hslDegrees(p),
		HSLUnit:  pnm.RGBToHSL(p),
		Negative: HexOf(pnm.Negative(p)),
	}
}

// SamplePixel extracts the pixel at a specific coordinate.
//
// Coordinates are 0-based with origin at top-left:
//   - Valid X range: 0 to width-1
//   - Valid Y range: 0 to height-1
//
// An out-of-range coordinate yields the pnm.ValueOutOfRange error from the
// pixel accessor.
func SamplePixel(img *pnm.Image, x, y int) (*ColorResult, error) {
	p, err := img.At(x, y)
	if err != nil {
		return nil, err
	}
	return NewColorResult(p), nil
}

// LabeledPoint represents a pixel coordinate with an optional descriptive label.
type LabeledPoint struct {
	X     int    // X coordinate (0-based)
	Y     int    // Y coordinate (0-based)
	Label string // Optional descriptive label for this point
}

// LabeledColorResult combines a color sample with its location and optional label.
type LabeledColorResult struct {
	Label string      `json:"label,omitempty"` // Optional label (empty if not provided)
	X     int         `json:"x"`               // X coordinate that was sampled
	Y     int         `json:"y"`               // Y coordinate that was sampled
	Color ColorResult `json:"color"`           // The color at this location
}

// MultiColorResult contains color samples from multiple points, in input order.
type MultiColorResult struct {
	Samples []LabeledColorResult `json:"samples"`
}

// SamplePixelsMulti samples several coordinates in a single call. If any
// coordinate is outside the image, no partial results are returned.
func SamplePixelsMulti(img *pnm.Image, points []LabeledPoint) (*MultiColorResult, error) {
	results := make([]LabeledColorResult, 0, len(points))

	for _, p := range points {
		c, err := SamplePixel(img, p.X, p.Y)
		if err != nil {
			return nil, fmt.Errorf("failed to sample point (%d,%d): %w", p.X, p.Y, err)
		}
		results = append(results, LabeledColorResult{
			Label: p.Label,
			X:     p.X,
			Y:     p.Y,
			Color: *c,
		})
	}

	return &MultiColorResult{Samples: results}, nil
}

// Region represents a rectangular region within an image.
//
// (X1, Y1) is the top-left corner (inclusive) and (X2, Y2) the bottom-right
// corner (exclusive).
type Region struct {
	X1 int
	Y1 int
	X2 int
	Y2 int
}

func (r Region) rect() image.Rectangle {
	return image.Rect(r.X1, r.Y1, r.X2, r.Y2)
}

// ColorFrequency represents a color and its occurrence frequency in an image.
type ColorFrequency struct {
	Hex        string   `json:"hex"`        // Hex color "#RRGGBB" (quantized)
	Percentage float64  `json:"percentage"` // Percentage of pixels with this color (0-100)
	RGB        RGBColor `json:"rgb"`        // RGB components (quantized)
}

// DominantColorsResult contains the most frequent colors, most common first.
type DominantColorsResult struct {
	Colors []ColorFrequency `json:"colors"`
}

// DominantColors returns the count most common colors of img, or of region
// when it is not nil.
//
// # Color Quantization
//
// To group similar colors, each channel is rounded down to a multiple of 16:
//
//	quantized = (original / 16) * 16
//
// For example, #F0F0F0 and #FAFAFA are both counted as #F0F0F0. Ties are
// broken by hex value so the result is deterministic.
func DominantColors(img *pnm.Image, count int, region *Region) (*DominantColorsResult, error) {
	bounds := img.Bounds()
	if region != nil {
		r := region.rect()
		if !r.In(bounds) || r.Empty() {
			return nil, fmt.Errorf("region (%d,%d)-(%d,%d) outside image bounds %dx%d",
				region.X1, region.Y1, region.X2, region.Y2, bounds.Dx(), bounds.Dy())
		}
		bounds = r
	}

	counts := make(map[pnm.Pixel]int)
	total := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			p, err := img.At(x, y)
			if err != nil {
				return nil, err
			}
			q := pnm.Pixel{R: p.R / 16 * 16, G: p.G / 16 * 16, B: p.B / 16 * 16}
			counts[q]++
			total++
		}
	}

	colors := make([]ColorFrequency, 0, len(counts))
	for p, n := range counts {
		colors = append(colors, ColorFrequency{
			Hex:        HexOf(p),
			Percentage: float64(n) / float64(total) * 100,
			RGB:        RGBColor{R: p.R, G: p.G, B: p.B},
		})
	}

	sort.Slice(colors, func(i, j int) bool {
		if colors[i].Percentage != colors[j].Percentage {
			return colors[i].Percentage > colors[j].Percentage
		}
		return colors[i].Hex < colors[j].Hex
	})

	if count > 0 && len(colors) > count {
		colors = colors[:count]
	}

	return &DominantColorsResult{Colors: colors}, nil
}

// HexOf formats p as "#RRGGBB".
func HexOf(p pnm.Pixel) string {
	return strings.ToUpper(toColorful(p).Hex())
}

// ParseColor parses "#RRGGBB", "#RGB" or a decimal "r,g,b" triplet.
func ParseColor(s string) (pnm.Pixel, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		c, err := colorful.Hex(s)
		if err != nil {
			return pnm.Pixel{}, fmt.Errorf("invalid hex color %q: %w", s, err)
		}
		r, g, b := c.RGB255()
		return pnm.Pixel{R: r, G: g, B: b}, nil
	}

	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return pnm.Pixel{}, fmt.Errorf("invalid color %q: want #RRGGBB or r,g,b", s)
	}
	var ch [3]uint8
	for i, part := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(part), 10, 8)
		if err != nil {
			return pnm.Pixel{}, fmt.Errorf("invalid color %q: channel %d: %w", s, i, err)
		}
		ch[i] = uint8(v)
	}
	return pnm.Pixel{R: ch[0], G: ch[1], B: ch[2]}, nil
}

func toColorful(p pnm.Pixel) colorful.Color {
	return colorful.Color{R: float64(p.R) / 255, G: float64(p.G) / 255, B: float64(p.B) / 255}
}

// hslDegrees reports hue in whole degrees and saturation/lightness in whole
// percent. Grays report hue 0.
func hslDegrees(p pnm.Pixel) HSLColor {
	h, s, l := toColorful(p).Hsl()
	if math.IsNaN(h) {
		h = 0
	}
	return HSLColor{
		H: int(math.Round(h)) % 360,
		S: int(math.Round(s * 100)),
		L: int(math.Round(l * 100)),
	}
}
