package pnm

import (
	"bufio"
	"fmt"
	"io"
)

// readASCII fills m's buffer from whitespace-separated decimal triplets.
// Each value is reduced modulo 256. Reading stops at end of input or once
// the buffer is full; a short payload leaves the remaining pixels black.
func readASCII(r io.Reader, m *Image) error {
	const op = "read ascii body"
	m.beginDecode()

	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)

	want := m.width * m.height
	var ch [3]uint8
	n := 0
	for len(m.pixels) < want && sc.Scan() {
		v, ok := mod256(sc.Bytes())
		if !ok {
			return newError(ReadFailure, op, nil,
				"`%s' at pixel %d is not an unsigned decimal integer", sc.Text(), len(m.pixels))
		}
		ch[n] = v
		n++
		if n == 3 {
			if err := checkAlloc(op, len(m.pixels)+1); err != nil {
				return err
			}
			m.pixels = append(m.pixels, Pixel{R: ch[0], G: ch[1], B: ch[2]})
			n = 0
		}
	}
	if err := sc.Err(); err != nil {
		return newError(ReadFailure, op, err, "reading pixel data")
	}

	switch got := len(m.pixels); {
	case got < want:
		Logger().Warn("short ascii payload", "pixels", got, "expected", want, "partial_values", n)
		if err := checkAlloc(op, want); err != nil {
			return err
		}
		m.pixels = append(m.pixels, make([]Pixel, want-got)...)
	case sc.Scan():
		Logger().Debug("ignoring data after the last pixel")
	}
	m.endDecode()
	return nil
}

// mod256 parses an unsigned decimal number and returns it modulo 256.
func mod256(tok []byte) (uint8, bool) {
	if len(tok) == 0 {
		return 0, false
	}
	var v uint
	for _, c := range tok {
		if c < '0' || c > '9' {
			return 0, false
		}
		v = (v*10 + uint(c-'0')) % 256
	}
	return uint8(v), true
}

// writeASCII emits "%3d %3d %3d " per pixel and a newline after every row.
func writeASCII(w io.Writer, m *Image) error {
	for y := 0; y < m.height; y++ {
		for _, p := range m.row(y) {
			if _, err := fmt.Fprintf(w, "%3d %3d %3d ", p.R, p.G, p.B); err != nil {
				return newError(OutputFileFailure, "write ascii body", err,
					"writing row %d of %d", y, m.height)
			}
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return newError(OutputFileFailure, "write ascii body", err,
				"writing row %d of %d", y, m.height)
		}
	}
	return nil
}
