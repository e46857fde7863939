package pnm

import "io"

// readBinary fills m's buffer row by row from raw RGB byte triplets. Each row
// is appended only after it has been read in full.
func readBinary(r io.Reader, m *Image) error {
	const op = "read binary body"
	m.beginDecode()
	buf := make([]byte, m.width*3)
	var cause error
	for y := 0; y < m.height; y++ {
		n, err := readRow(r, buf)
		if n < len(buf) {
			cause = err
			break
		}
		if err := checkAlloc(op, len(m.pixels)+m.width); err != nil {
			return err
		}
		for x := 0; x < m.width; x++ {
			m.pixels = append(m.pixels, Pixel{R: buf[3*x], G: buf[3*x+1], B: buf[3*x+2]})
		}
	}
	if rows := len(m.pixels) / m.width; rows < m.height {
		if cause == io.EOF || cause == io.ErrUnexpectedEOF {
			cause = nil
		}
		return newError(ReadFailure, op, cause,
			"reading error (%d of %d rows read)", rows, m.height)
	}
	m.endDecode()
	return nil
}

// readRow asks for a whole row in one request, then keeps requesting the
// remainder after a short read for as long as each request makes progress.
func readRow(r io.Reader, buf []byte) (int, error) {
	n := 0
	for n < len(buf) {
		k, err := r.Read(buf[n:])
		n += k
		if err != nil {
			if n == len(buf) {
				return n, nil
			}
			return n, err
		}
		if k == 0 {
			return n, io.ErrNoProgress
		}
		if n < len(buf) {
			Logger().Trace("short read, retrying", "got", n, "want", len(buf))
		}
	}
	return n, nil
}

// writeBinary writes each row in one request and stops at the first short
// write, then checks the total against width*height*3.
func writeBinary(w io.Writer, m *Image) error {
	buf := make([]byte, m.width*3)
	total := 0
	var cause error
	for y := 0; y < m.height; y++ {
		for x, p := range m.row(y) {
			buf[3*x], buf[3*x+1], buf[3*x+2] = p.R, p.G, p.B
		}
		n, err := w.Write(buf)
		total += n
		if n != len(buf) || err != nil {
			cause = err
			break
		}
	}
	if want := m.width * m.height * 3; total != want {
		return newError(OutputFileFailure, "write binary body", cause,
			"an error occurred writing (%d of %d bytes written)", total, want)
	}
	return nil
}
