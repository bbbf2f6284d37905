package rdbstream

import "encoding/binary"

// readElement reads one Redis-encoded string (spec.md §4.2): either the
// raw bytes of a declared length, or (via the special length encoding) a
// signed 8/16/32-bit integer, or an LZF-compressed payload handed to the
// configured Decompressor.
//
// Returns errIncomplete, with c rewound to its entry position, if any
// sub-read comes up short.
func (d *decoder) readElement(c *cursor) (Element, error) {
	mark := c.mark()

	l, err := readLength(c)
	if err != nil {
		return Element{}, err
	}

	if !l.Special {
		b, ok := c.get(int(l.Value))
		if !ok {
			c.rewind(mark)
			return Element{}, errIncomplete
		}
		// Copy out: the cursor's backing array is reused/grown by the
		// scanner across chunks, so a returned record must not alias it.
		out := make([]byte, len(b))
		copy(out, b)
		return BytesElement(out), nil
	}

	switch specialStringEncoding(l.Value) {
	case encInt8:
		b, ok := c.get(1)
		if !ok {
			c.rewind(mark)
			return Element{}, errIncomplete
		}
		return IntElement(int64(int8(b[0]))), nil

	case encInt16:
		b, ok := c.get(2)
		if !ok {
			c.rewind(mark)
			return Element{}, errIncomplete
		}
		return IntElement(int64(int16(binary.LittleEndian.Uint16(b)))), nil

	case encInt32:
		b, ok := c.get(4)
		if !ok {
			c.rewind(mark)
			return Element{}, errIncomplete
		}
		return IntElement(int64(int32(binary.LittleEndian.Uint32(b)))), nil

	case encLZF:
		compLen, err := readLength(c)
		if err != nil {
			c.rewind(mark)
			return Element{}, err
		}
		rawLen, err := readLength(c)
		if err != nil {
			c.rewind(mark)
			return Element{}, err
		}
		payload, ok := c.get(int(compLen.Value))
		if !ok {
			c.rewind(mark)
			return Element{}, errIncomplete
		}

		decompressed, err := d.decompressor().Decompress(payload, int(rawLen.Value))
		if err != nil {
			return Element{}, malformed(mark, "lzf decompression failed: %w", err)
		}
		if len(decompressed) != int(rawLen.Value) {
			return Element{}, malformed(mark, "lzf decompressed length mismatch: want %d got %d", rawLen.Value, len(decompressed))
		}
		return BytesElement(decompressed), nil

	default:
		return Element{}, malformed(mark, "unknown special string encoding %d", l.Value)
	}
}
