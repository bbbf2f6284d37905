package rdbstream

import (
	"encoding/binary"
	"strconv"
)

// readBytesString reads one StringCodec-encoded field and requires it to be
// a byte string, not an integer encoding — used where the container format
// (ziplist, intset) expects a raw buffer it will parse itself.
func (d *decoder) readBytesString(c *cursor) ([]byte, error) {
	mark := c.mark()
	elem, err := d.readElement(c)
	if err != nil {
		return nil, err
	}
	if elem.IsInt {
		return nil, malformed(mark, "expected a byte string, got an integer-encoded value")
	}
	return elem.Bytes, nil
}

// readKeyElement reads one StringCodec-encoded field as an Entry key. Redis
// applies the integer special length-encoding to any string, key names
// included, so an int-encoded key is rendered to its canonical decimal-ASCII
// form rather than rejected — the same behavior the teacher's ReadString
// gives every caller, key or not.
func (d *decoder) readKeyElement(c *cursor) ([]byte, error) {
	elem, err := d.readElement(c)
	if err != nil {
		return nil, err
	}
	if elem.IsInt {
		return []byte(strconv.FormatInt(elem.Integer, 10)), nil
	}
	return elem.Bytes, nil
}

// readList decodes a plain (non-ziplist) List value: spec.md §4.4,
// <len><elem>...<elem>.
func (d *decoder) readList(c *cursor) ([]Element, error) {
	mark := c.mark()
	l, err := readLength(c)
	if err != nil {
		return nil, err
	}
	if l.Special {
		return nil, malformed(mark, "list length used special string encoding")
	}

	elems := make([]Element, 0, l.Value)
	for i := uint64(0); i < l.Value; i++ {
		elem, err := d.readElement(c)
		if err != nil {
			c.rewind(mark)
			return nil, err
		}
		elems = append(elems, elem)
	}
	return elems, nil
}

// readSet decodes a plain (non-intset) Set value: same wire shape as a List,
// with duplicate elements dropped (first occurrence kept).
func (d *decoder) readSet(c *cursor) ([]Element, error) {
	elems, err := d.readList(c)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(elems))
	unique := elems[:0]
	for _, e := range elems {
		k := elementKey(e)
		if seen[k] {
			continue
		}
		seen[k] = true
		unique = append(unique, e)
	}
	return unique, nil
}

// readHash decodes a plain (non-ziplist) Hash value: spec.md §4.4,
// <len><field><value>...<field><value>.
func (d *decoder) readHash(c *cursor) ([]HashField, error) {
	mark := c.mark()
	l, err := readLength(c)
	if err != nil {
		return nil, err
	}
	if l.Special {
		return nil, malformed(mark, "hash length used special string encoding")
	}

	fields := make([]HashField, 0, l.Value)
	index := make(map[string]int, l.Value)
	for i := uint64(0); i < l.Value; i++ {
		key, err := d.readElement(c)
		if err != nil {
			c.rewind(mark)
			return nil, err
		}
		val, err := d.readElement(c)
		if err != nil {
			c.rewind(mark)
			return nil, err
		}
		k := elementKey(key)
		if pos, dup := index[k]; dup {
			fields[pos].Value = val
			continue
		}
		index[k] = len(fields)
		fields = append(fields, HashField{Key: key, Value: val})
	}
	return fields, nil
}

// elementKey builds a comparable map key for an Element, distinguishing
// the integer and byte-string domains so e.g. Integer(49) and Bytes("1")
// never collide.
func elementKey(e Element) string {
	if e.IsInt {
		return "i:" + strconv.FormatInt(e.Integer, 10)
	}
	return "b:" + string(e.Bytes)
}

// intset encoding widths, spec.md §4.4: a 4-byte little-endian tag
// selecting 2/4/8-byte signed elements, followed by a 4-byte little-endian
// element count.
const (
	intsetEncInt16 uint32 = 2
	intsetEncInt32 uint32 = 4
	intsetEncInt64 uint32 = 8
)

// readIntset decodes a Set stored in the RDB intset representation: a raw
// string buffer whose own header carries the element width.
func (d *decoder) readIntset(c *cursor) ([]Element, error) {
	mark := c.mark()
	buf, err := d.readBytesString(c)
	if err != nil {
		return nil, err
	}

	ic := newCursor(buf)
	hdr, ok := ic.get(8)
	if !ok {
		return nil, malformed(mark, "intset: truncated header")
	}
	encoding := binary.LittleEndian.Uint32(hdr[0:4])
	count := binary.LittleEndian.Uint32(hdr[4:8])

	var width int
	switch encoding {
	case intsetEncInt16:
		width = 2
	case intsetEncInt32:
		width = 4
	case intsetEncInt64:
		width = 8
	default:
		return nil, malformed(mark, "intset: unknown encoding width %d", encoding)
	}

	elems := make([]Element, 0, count)
	for i := uint32(0); i < count; i++ {
		b, ok := ic.get(width)
		if !ok {
			return nil, malformed(mark, "intset: truncated element %d", i)
		}
		var v int64
		switch width {
		case 2:
			v = int64(int16(binary.LittleEndian.Uint16(b)))
		case 4:
			v = int64(int32(binary.LittleEndian.Uint32(b)))
		case 8:
			v = int64(binary.LittleEndian.Uint64(b))
		}
		elems = append(elems, IntElement(v))
	}
	return elems, nil
}

// readListZiplist decodes a List stored as a single ziplist buffer.
func (d *decoder) readListZiplist(c *cursor) ([]Element, error) {
	mark := c.mark()
	buf, err := d.readBytesString(c)
	if err != nil {
		return nil, err
	}
	elems, err := parseZiplist(buf)
	if err != nil {
		return nil, wrapMalformed(mark, err)
	}
	return elems, nil
}

// readHashZiplist decodes a Hash stored as a single ziplist buffer of
// alternating field/value entries.
func (d *decoder) readHashZiplist(c *cursor) ([]HashField, error) {
	mark := c.mark()
	buf, err := d.readBytesString(c)
	if err != nil {
		return nil, err
	}
	entries, err := parseZiplist(buf)
	if err != nil {
		return nil, wrapMalformed(mark, err)
	}
	return pairEntries(mark, entries)
}

func pairEntries(mark int, entries []Element) ([]HashField, error) {
	if len(entries)%2 != 0 {
		return nil, malformed(mark, "ziplist hash has an odd number of entries")
	}
	fields := make([]HashField, 0, len(entries)/2)
	for i := 0; i < len(entries); i += 2 {
		fields = append(fields, HashField{Key: entries[i], Value: entries[i+1]})
	}
	return fields, nil
}

// readListQuicklist decodes a List stored as a quicklist: a length-prefixed
// sequence of ziplist buffers, concatenated in order (spec.md §4.4).
func (d *decoder) readListQuicklist(c *cursor) ([]Element, error) {
	mark := c.mark()
	l, err := readLength(c)
	if err != nil {
		return nil, err
	}
	if l.Special {
		return nil, malformed(mark, "quicklist node count used special string encoding")
	}

	var all []Element
	for i := uint64(0); i < l.Value; i++ {
		nodeMark := c.mark()
		buf, err := d.readBytesString(c)
		if err != nil {
			c.rewind(mark)
			return nil, err
		}
		elems, err := parseZiplist(buf)
		if err != nil {
			return nil, wrapMalformed(nodeMark, err)
		}
		all = append(all, elems...)
	}
	return all, nil
}
