package pnm

import "strings"

// AddComment appends text to the comments, one entry per line. Empty lines
// produce no entry, so a trailing newline adds nothing.
func (m *Image) AddComment(text string) error {
	if m.closed {
		return errClosed("add comment")
	}
	for _, line := range strings.Split(text, "\n") {
		if line == "" {
			continue
		}
		m.comments = append(m.comments, line)
	}
	return nil
}

// ReplaceComment overwrites the comment at index i. Newlines in text are
// dropped so an entry always stays a single line.
func (m *Image) ReplaceComment(i int, text string) error {
	if m.closed {
		return errClosed("replace comment")
	}
	if i < 0 || i >= len(m.comments) {
		return newError(ValueOutOfRange, "replace comment", nil,
			"trying to replace inexistent comment %d (have %d)", i, len(m.comments))
	}
	m.comments[i] = strings.ReplaceAll(text, "\n", "")
	return nil
}

// DeleteComment removes the comment at index i, shifting later entries down.
func (m *Image) DeleteComment(i int) error {
	if m.closed {
		return errClosed("delete comment")
	}
	if i < 0 || i >= len(m.comments) {
		return newError(ValueOutOfRange, "delete comment", nil,
			"trying to delete inexistent comment %d (have %d)", i, len(m.comments))
	}
	m.comments = append(m.comments[:i], m.comments[i+1:]...)
	return nil
}

// Comments returns a copy of the comments in insertion order.
func (m *Image) Comments() []string {
	return append([]string(nil), m.comments...)
}

// CommentCount returns the number of comments.
func (m *Image) CommentCount() int {
	return len(m.comments)
}
