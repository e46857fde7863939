package pnm

// At returns the pixel at (x, y). Coordinates are 0-based from the top-left
// corner; x must be below the width and y below the height.
func (m *Image) At(x, y int) (Pixel, error) {
	if err := m.checkCoord("get pixel", x, y); err != nil {
		return Pixel{}, err
	}
	return m.pixels[m.index(x, y)], nil
}

// Set stores p at (x, y).
func (m *Image) Set(x, y int, p Pixel) error {
	if err := m.checkCoord("set pixel", x, y); err != nil {
		return err
	}
	m.pixels[m.index(x, y)] = p
	return nil
}

// Fill sets every pixel to p.
func (m *Image) Fill(p Pixel) error {
	if err := m.ready("fill"); err != nil {
		return err
	}
	for y := 0; y < m.height; y++ {
		row := m.pixels[y*m.width : (y+1)*m.width]
		for x := range row {
			row[x] = p
		}
	}
	return nil
}

// Negate replaces every pixel with its Negative.
func (m *Image) Negate() error {
	if err := m.ready("negate"); err != nil {
		return err
	}
	for i, p := range m.pixels {
		m.pixels[i] = Negative(p)
	}
	return nil
}

// Pixels returns a copy of the row-major pixel buffer.
func (m *Image) Pixels() []Pixel {
	return append([]Pixel(nil), m.pixels...)
}

// row returns the backing slice of row y. Callers check bounds.
func (m *Image) row(y int) []Pixel {
	return m.pixels[y*m.width : (y+1)*m.width]
}

func (m *Image) index(x, y int) int {
	return y*m.width + x
}

func (m *Image) checkCoord(op string, x, y int) error {
	if err := m.ready(op); err != nil {
		return err
	}
	if x < 0 || x >= m.width {
		return newError(ValueOutOfRange, op, nil,
			"`x' pixel coordinate is out of range (must be between 0 and %d, current value is `%d')",
			m.width-1, x)
	}
	if y < 0 || y >= m.height {
		return newError(ValueOutOfRange, op, nil,
			"`y' pixel coordinate is out of range (must be between 0 and %d, current value is `%d')",
			m.height-1, y)
	}
	return nil
}
