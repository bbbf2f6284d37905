package rdbstream

// cursor is a rewindable, non-blocking view over a byte buffer. It plays
// the role the teacher's memoryBackedBuffer plays (buffer.go: Get(n)
// advances a position and errors on short reads), except a short read
// here is not an error: get reports ok=false and leaves pos untouched so
// the caller can restore any outer snapshot and ask again once more bytes
// have arrived.
type cursor struct {
	buf []byte
	pos int
}

func newCursor(buf []byte) *cursor {
	return &cursor{buf: buf}
}

// mark snapshots the current position; rewind restores it. Every
// multi-byte read in this package snapshots before attempting a unit and
// rewinds on a short read, so a chunk boundary landing mid-unit never
// leaves the cursor partway through it.
func (c *cursor) mark() int { return c.pos }

func (c *cursor) rewind(m int) { c.pos = m }

// get returns the next n bytes and advances past them, or reports
// ok=false without consuming anything if fewer than n bytes remain.
func (c *cursor) get(n int) (b []byte, ok bool) {
	if c.pos+n > len(c.buf) {
		return nil, false
	}
	b = c.buf[c.pos : c.pos+n]
	c.pos += n
	return b, true
}

func (c *cursor) skip(n int) bool {
	_, ok := c.get(n)
	return ok
}

func (c *cursor) remaining() int { return len(c.buf) - c.pos }

// rest returns the unconsumed tail of the buffer, for surfacing as the
// next chunk's leftover or as TruncatedError.Leftover.
func (c *cursor) rest() []byte { return c.buf[c.pos:] }
