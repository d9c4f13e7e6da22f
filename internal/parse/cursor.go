package parse

// Cursor is an immutable position in the input text. Matchers never modify a
// cursor; Advance returns a new one that shares the same text.
type Cursor struct {
	text   string
	offset int
}

// NewCursor returns a cursor at the start of text.
func NewCursor(text string) Cursor {
	return Cursor{text: text}
}

// Offset returns the byte offset of the cursor.
func (c Cursor) Offset() int {
	return c.offset
}

// Text returns the full input the cursor points into.
func (c Cursor) Text() string {
	return c.text
}

// AtEnd reports whether the whole input has been consumed.
func (c Cursor) AtEnd() bool {
	return c.offset >= len(c.text)
}

// Remaining returns the unconsumed input, or "" at the end.
func (c Cursor) Remaining() string {
	if c.AtEnd() {
		return ""
	}
	return c.text[c.offset:]
}

// Advance returns a cursor n bytes further along. Callers derive n from the
// length of their own successful match, so the result stays within bounds.
func (c Cursor) Advance(n int) Cursor {
	return Cursor{text: c.text, offset: c.offset + n}
}
