package pnm

import "fmt"

// Variant is one of the six PNM sub-formats. Its numeric value is the digit
// of the magic number.
type Variant int

const (
	AsciiBitmap   Variant = 1 // P1
	AsciiGreymap  Variant = 2 // P2
	AsciiRgb      Variant = 3 // P3
	BinaryBitmap  Variant = 4 // P4
	BinaryGreymap Variant = 5 // P5
	BinaryRgb     Variant = 6 // P6
)

// Depth is the color depth half of a Variant.
type Depth int

const (
	Bitmap Depth = iota
	Greymap
	Pixmap
)

func (d Depth) String() string {
	switch d {
	case Bitmap:
		return "bitmap"
	case Greymap:
		return "greymap"
	case Pixmap:
		return "pixmap"
	}
	return fmt.Sprintf("depth(%d)", int(d))
}

// Valid reports whether v is one of the six variants.
func (v Variant) Valid() bool {
	return v >= AsciiBitmap && v <= BinaryRgb
}

// Binary reports whether the payload is raw bytes (P4-P6) rather than
// decimal text (P1-P3).
func (v Variant) Binary() bool {
	switch v {
	case BinaryBitmap, BinaryGreymap, BinaryRgb:
		return true
	}
	return false
}

// Depth returns the color depth of v.
func (v Variant) Depth() Depth {
	switch v {
	case AsciiBitmap, BinaryBitmap:
		return Bitmap
	case AsciiGreymap, BinaryGreymap:
		return Greymap
	}
	return Pixmap
}

// Magic returns the two-byte magic number, e.g. "P6".
func (v Variant) Magic() string {
	return fmt.Sprintf("P%d", int(v))
}

// Encoding returns "ascii" or "binary".
func (v Variant) Encoding() string {
	if v.Binary() {
		return "binary"
	}
	return "ascii"
}

func (v Variant) String() string {
	switch v {
	case AsciiBitmap:
		return "AsciiBitmap"
	case AsciiGreymap:
		return "AsciiGreymap"
	case AsciiRgb:
		return "AsciiRgb"
	case BinaryBitmap:
		return "BinaryBitmap"
	case BinaryGreymap:
		return "BinaryGreymap"
	case BinaryRgb:
		return "BinaryRgb"
	}
	return fmt.Sprintf("Variant(%d)", int(v))
}

// ParseVariant accepts a magic number ("P1".."P6") or a bare digit ("1".."6").
func ParseVariant(s string) (Variant, error) {
	if len(s) == 2 && s[0] == 'P' {
		s = s[1:]
	}
	if len(s) == 1 && s[0] >= '1' && s[0] <= '6' {
		return Variant(s[0] - '0'), nil
	}
	return 0, newError(WrongHeader, "parse variant", nil, "`%s' is not one of P1..P6", s)
}

// VariantFor returns the variant with the given depth and encoding.
func VariantFor(d Depth, binary bool) Variant {
	v := Variant(int(d) + 1)
	if binary {
		v += 3
	}
	return v
}
