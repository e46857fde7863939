// Package imaging provides the operations the MCP server and the CLI perform
// on PNM images loaded through pkg/pnm.
//
// It covers pixel sampling, variant conversion, whole-image negatives,
// comment editing, pixel comparison, cropping to PNG previews, and
// import/export between PNM and the common raster formats. Work that needs
// resampling or format encoders goes through disintegration/imaging and bild
// on an *image.NRGBA copy; the PNM codec itself never sees those formats.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, (x1,y1) is inclusive (top-left), (x2,y2) is exclusive (bottom-right)
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use and hands out copies, so
// every caller owns the *pnm.Image it receives. The other functions are
// stateless and return new images; only EditComments changes its argument.
//
// # Color Representation
//
// Sampled pixels are returned in several forms:
//   - Hex: "#RRGGBB"
//   - RGB: 8-bit components (0-255)
//   - HSL: Hue (0-360), Saturation (0-100), Lightness (0-100)
//   - HSLUnit: the unit-interval form of pnm.RGBToHSL
//
// # Error Handling
//
// Errors from pkg/pnm are wrapped with %w, so callers can still use
// errors.Is with the pnm sentinels or pnm.KindOf to classify them.
package imaging
