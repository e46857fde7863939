package pnm

import "image"

// Bounds accepted for width, height and maxval.
const (
	MinValue      = 1
	MaxWidth      = 65535
	MaxHeight     = 65535
	MaxMaxval     = 65535
	DefaultMaxval = 255
)

// MaxPixels caps the pixel buffer of one image. Allocating or decoding more
// pixels than this fails with MemoryFailure. The default allows 8192x8192.
var MaxPixels = 1 << 26

// decoders start with room for this many pixels and grow as data arrives
const decodeChunk = 1 << 16

// Image is a PNM image held in memory: the variant, the dimensions, the
// declared maxval, a row-major pixel buffer and the header comments.
//
// An Image exclusively owns its buffer and comments. It is not safe for
// concurrent use; callers sharing one across goroutines must serialize access.
type Image struct {
	variant Variant
	width   int
	height  int
	maxval  int

	pixels   []Pixel
	comments []string
	closed   bool

	// dimensions the buffer was allocated for
	allocW, allocH int
}

// New returns an image of the given variant and dimensions with every pixel
// set to {0,0,0}.
//
// Width, height and maxval must each be in [1, 65535]; a violation fails with
// LimitOverflow and no image is returned.
func New(v Variant, width, height, maxval int) (*Image, error) {
	m := &Image{}
	if err := m.SetVariant(v); err != nil {
		return nil, err
	}
	if err := m.SetWidth(width); err != nil {
		return nil, err
	}
	if err := m.SetHeight(height); err != nil {
		return nil, err
	}
	if err := m.SetMaxval(maxval); err != nil {
		return nil, err
	}
	if err := m.Initialize(); err != nil {
		return nil, err
	}
	return m, nil
}

// Initialize allocates a zero-filled buffer for the current dimensions,
// discarding any previous pixels. It must be called after SetWidth or
// SetHeight before pixels are accessed again. A buffer larger than MaxPixels
// fails with MemoryFailure and leaves the image unchanged.
func (m *Image) Initialize() error {
	const op = "initialize"
	if m.closed {
		return errClosed(op)
	}
	n := m.width * m.height
	if n <= 0 {
		return newError(Uninitialized, op, nil,
			"dimensions %dx%d have not been set", m.width, m.height)
	}
	if err := checkAlloc(op, n); err != nil {
		return err
	}
	m.pixels = make([]Pixel, n)
	m.allocW, m.allocH = m.width, m.height
	return nil
}

func checkAlloc(op string, n int) error {
	if n > MaxPixels {
		return newError(MemoryFailure, op, nil,
			"allocation of %d pixels (%d bytes) exceeds the limit of %d pixels", n, 3*n, MaxPixels)
	}
	return nil
}

// beginDecode empties the buffer so the body codecs can append pixels as
// they are read.
func (m *Image) beginDecode() {
	if m.pixels == nil {
		m.pixels = make([]Pixel, 0, min(m.width*m.height, decodeChunk))
	}
	m.pixels = m.pixels[:0]
	m.allocW, m.allocH = 0, 0
}

// endDecode marks a completely read buffer as matching the dimensions.
func (m *Image) endDecode() {
	m.allocW, m.allocH = m.width, m.height
}

// Close releases the pixel buffer and the comments. The image is unusable
// afterwards; a second Close fails with Uninitialized.
func (m *Image) Close() error {
	if m.closed {
		return errClosed("close")
	}
	m.pixels = nil
	m.comments = nil
	m.closed = true
	return nil
}

// SetVariant changes the variant used for the next Encode or Save.
func (m *Image) SetVariant(v Variant) error {
	if m.closed {
		return errClosed("set variant")
	}
	if !v.Valid() {
		return newError(ValueOutOfRange, "set variant", nil,
			"variant `%d' must be between %d and %d", int(v), int(AsciiBitmap), int(BinaryRgb))
	}
	m.variant = v
	return nil
}

// SetWidth sets the width without reallocating the buffer.
func (m *Image) SetWidth(w int) error {
	if err := checkLimit("set width", "Width", w, MaxWidth); err != nil {
		return err
	}
	if m.closed {
		return errClosed("set width")
	}
	m.width = w
	return nil
}

// SetHeight sets the height without reallocating the buffer.
func (m *Image) SetHeight(h int) error {
	if err := checkLimit("set height", "Height", h, MaxHeight); err != nil {
		return err
	}
	if m.closed {
		return errClosed("set height")
	}
	m.height = h
	return nil
}

// SetMaxval sets the declared maximum channel value. Channels stay 8-bit
// whatever the maxval.
func (m *Image) SetMaxval(v int) error {
	if err := checkLimit("set maxval", "Maxval", v, MaxMaxval); err != nil {
		return err
	}
	if m.closed {
		return errClosed("set maxval")
	}
	m.maxval = v
	return nil
}

func checkLimit(op, name string, v, max int) error {
	if v < MinValue || v > max {
		return newError(LimitOverflow, op, nil,
			"%s value `%d' must be between %d and %d", name, v, MinValue, max)
	}
	return nil
}

func errClosed(op string) error {
	return newError(Uninitialized, op, nil, "image has been closed")
}

func (m *Image) Variant() Variant { return m.variant }
func (m *Image) Width() int       { return m.width }
func (m *Image) Height() int      { return m.height }
func (m *Image) Maxval() int      { return m.maxval }

// Bounds returns the rectangle (0,0)-(width,height).
func (m *Image) Bounds() image.Rectangle {
	return image.Rect(0, 0, m.width, m.height)
}

// Clone returns a deep copy of m. Cloning a closed image yields a closed image.
func (m *Image) Clone() *Image {
	c := *m
	if m.pixels != nil {
		c.pixels = append([]Pixel(nil), m.pixels...)
	}
	if m.comments != nil {
		c.comments = append([]string(nil), m.comments...)
	}
	return &c
}

// ready checks that pixels can be addressed with the current dimensions.
func (m *Image) ready(op string) error {
	if m.closed {
		return errClosed(op)
	}
	if m.pixels == nil || m.allocW != m.width || m.allocH != m.height {
		return newError(Uninitialized, op, nil,
			"pixel buffer was allocated for %dx%d but the image is %dx%d; call Initialize",
			m.allocW, m.allocH, m.width, m.height)
	}
	return nil
}
