package pnm

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Header is the information carried before the pixel payload.
type Header struct {
	Variant  Variant  `json:"variant"`
	Width    int      `json:"width"`
	Height   int      `json:"height"`
	Maxval   int      `json:"maxval"`
	Comments []string `json:"comments"`
}

// Header returns a copy of m's header fields.
func (m *Image) Header() Header {
	return Header{
		Variant:  m.variant,
		Width:    m.width,
		Height:   m.height,
		Maxval:   m.maxval,
		Comments: m.Comments(),
	}
}

var fieldNames = [3]string{"Width", "Height", "Maxval"}

// readHeader scans the magic number and the three numeric fields into a new
// image whose pixel buffer is not yet allocated.
//
// sep counts separators: a separator starts at the first whitespace byte or
// comment that follows a token (the magic number included). Tokens after the
// first, second and third separator are the width, height and maxval, so
// reaching the fourth separator implies all three were read. It ends the
// header; when it is a whitespace byte, it is the only byte consumed, so a
// binary payload may begin with whitespace values.
func readHeader(br *bufio.Reader) (*Image, error) {
	const op = "read header"

	magic := make([]byte, 2)
	if n, err := io.ReadFull(br, magic); err != nil {
		return nil, newError(WrongHeader, op, nil,
			"missing magic number (%d bytes before end of input)", n)
	}
	if magic[0] != 'P' || magic[1] < '1' || magic[1] > '6' {
		return nil, newError(WrongHeader, op, nil,
			"magic number %q is not one of P1..P6", magic)
	}

	m := &Image{variant: Variant(magic[1] - '0')}
	var fields [3]int
	sep := 0
	afterToken := true

	for sep < 4 {
		c, err := br.ReadByte()
		if err == io.EOF {
			return nil, newError(WrongHeader, op, nil,
				"incomplete header: end of input after %d of 4 fields", sep)
		}
		if err != nil {
			return nil, newError(ReadFailure, op, err, "reading header")
		}

		switch {
		case isSpace(c):
			if afterToken {
				sep++
				afterToken = false
			}

		case c == '#':
			line, err := br.ReadString('\n')
			if err != nil && err != io.EOF {
				return nil, newError(ReadFailure, op, err, "comment could not be fully read")
			}
			line = strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
			if err := m.AddComment(line); err != nil {
				return nil, err
			}
			if afterToken {
				sep++
				afterToken = false
			}

		default:
			if err := br.UnreadByte(); err != nil {
				return nil, newError(ReadFailure, op, err, "reading header")
			}
			tok, err := readToken(br)
			if err != nil {
				return nil, newError(ReadFailure, op, err, "reading header")
			}
			if sep == 0 {
				return nil, newError(WrongHeader, op, nil,
					"unexpected `%s' directly after the magic number", tok)
			}
			v, err := parseField(op, fieldNames[sep-1], tok)
			if err != nil {
				return nil, err
			}
			fields[sep-1] = v
			afterToken = true
		}
	}

	if err := m.SetWidth(fields[0]); err != nil {
		return nil, err
	}
	if err := m.SetHeight(fields[1]); err != nil {
		return nil, err
	}
	if err := m.SetMaxval(fields[2]); err != nil {
		return nil, err
	}

	Logger().Debug("parsed header", "magic", m.variant.Magic(),
		"width", m.width, "height", m.height, "maxval", m.maxval, "comments", len(m.comments))
	return m, nil
}

// readToken reads bytes up to whitespace, '#' or end of input.
func readToken(br *bufio.Reader) (string, error) {
	var sb strings.Builder
	for {
		c, err := br.ReadByte()
		if err == io.EOF {
			return sb.String(), nil
		}
		if err != nil {
			return "", err
		}
		if isSpace(c) || c == '#' {
			return sb.String(), br.UnreadByte()
		}
		sb.WriteByte(c)
	}
}

func parseField(op, name, tok string) (int, error) {
	v, err := strconv.ParseUint(tok, 10, 32)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, newError(LimitOverflow, op, nil,
				"%s value `%s' must be between %d and %d", name, tok, MinValue, MaxWidth)
		}
		return 0, newError(WrongHeader, op, nil,
			"%s field `%s' is not an unsigned decimal integer", name, tok)
	}
	return int(v), nil
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

// writeHeader emits the magic number, one "#" line per comment, then the
// dimensions and maxval.
func writeHeader(w io.Writer, m *Image) error {
	if _, err := fmt.Fprintf(w, "%s\n", m.variant.Magic()); err != nil {
		return err
	}
	for _, c := range m.comments {
		if _, err := fmt.Fprintf(w, "#%s\n", c); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%d %d\n%d\n", m.width, m.height, m.maxval)
	return err
}
