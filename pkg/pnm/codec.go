package pnm

import (
	"bufio"
	"io"
	"os"
)

// Decode reads a complete PNM image from r. The header's variant selects the
// ASCII (P1-P3) or binary (P4-P6) body codec. The pixel buffer grows as the
// body is read, so a truncated binary body fails with ReadFailure before the
// declared size is allocated. On failure no image is returned.
func Decode(r io.Reader) (*Image, error) {
	br := asBufioReader(r)
	m, err := readHeader(br)
	if err != nil {
		return nil, err
	}
	if m.variant.Binary() {
		err = readBinary(br, m)
	} else {
		err = readASCII(br, m)
	}
	if err != nil {
		m.Close()
		return nil, err
	}
	return m, nil
}

// ReadHeader reads only the header of a PNM image.
func ReadHeader(r io.Reader) (Header, error) {
	m, err := readHeader(asBufioReader(r))
	if err != nil {
		return Header{}, err
	}
	return m.Header(), nil
}

// Encode writes m to w using the body codec of m's variant.
func Encode(w io.Writer, m *Image) error {
	const op = "encode"
	if err := m.ready(op); err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	if err := writeHeader(bw, m); err != nil {
		return newError(OutputFileFailure, op, err, "writing header")
	}
	var err error
	if m.variant.Binary() {
		err = writeBinary(bw, m)
	} else {
		err = writeASCII(bw, m)
	}
	if err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return newError(OutputFileFailure, op, err, "flushing output")
	}
	return nil
}

// Load reads the PNM file at path.
func Load(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, newError(ReadFailure, "load", err, "an error occurred opening file `%s'", path)
	}
	defer f.Close()

	m, err := Decode(f)
	if err != nil {
		return nil, err
	}
	Logger().Debug("loaded image", "path", path, "magic", m.variant.Magic(),
		"width", m.width, "height", m.height)
	return m, nil
}

// Save writes m to path, creating or truncating the file.
func Save(m *Image, path string) error {
	if err := m.ready("save"); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return newError(OutputFileFailure, "save", err, "an error occurred opening file `%s'", path)
	}
	err = Encode(f, m)
	if cerr := f.Close(); cerr != nil && err == nil {
		err = newError(OutputFileFailure, "save", cerr, "closing file `%s'", path)
	}
	if err != nil {
		return err
	}
	Logger().Debug("saved image", "path", path, "magic", m.variant.Magic(),
		"width", m.width, "height", m.height)
	return nil
}

func asBufioReader(r io.Reader) *bufio.Reader {
	if b, ok := r.(*bufio.Reader); ok {
		return b
	}
	return bufio.NewReader(r)
}
