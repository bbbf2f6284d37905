package rdbstream

import (
	"encoding/binary"
	"log/slog"
	"strconv"
)

const (
	rdbMagic      = "REDIS"
	rdbHeaderSize = len(rdbMagic) + 4
)

// decodeHeader reads the 9-byte "REDISnnnn" file prefix and emits the
// Version record that must be the first thing a ChunkScanner produces
// (spec.md §3, §4.5).
func (d *decoder) decodeHeader(c *cursor) (Record, error) {
	mark := c.mark()
	b, ok := c.get(rdbHeaderSize)
	if !ok {
		return Record{}, errIncomplete
	}
	if string(b[:len(rdbMagic)]) != rdbMagic {
		return Record{}, malformed(mark, "missing REDIS file signature")
	}
	version, err := strconv.Atoi(string(b[len(rdbMagic):]))
	if err != nil {
		return Record{}, malformed(mark, "invalid version digits: %w", err)
	}
	return Record{Kind: RecordVersion, Version: version}, nil
}

// decodeUnit reads exactly one opcode or type byte and the unit it
// introduces, returning one Record. On a short read anywhere inside the
// unit it returns errIncomplete with c rewound to mark (the position
// before the opcode byte), per spec.md §4.5's snapshot/restore rule.
func (d *decoder) decodeUnit(c *cursor) (Record, error) {
	mark := c.mark()

	tb, ok := c.get(1)
	if !ok {
		return Record{}, errIncomplete
	}
	tag := tb[0]

	switch opcode(tag) {
	case opAux:
		key, err := d.readElement(c)
		if err != nil {
			c.rewind(mark)
			return Record{}, err
		}
		val, err := d.readElement(c)
		if err != nil {
			c.rewind(mark)
			return Record{}, err
		}
		return Record{Kind: RecordAux, AuxKey: key, AuxValue: val}, nil

	case opResizeDB:
		main, err := readLength(c)
		if err != nil {
			c.rewind(mark)
			return Record{}, err
		}
		if main.Special {
			return Record{}, malformed(mark, "resizedb main count used special string encoding")
		}
		expires, err := readLength(c)
		if err != nil {
			c.rewind(mark)
			return Record{}, err
		}
		if expires.Special {
			return Record{}, malformed(mark, "resizedb expires count used special string encoding")
		}
		return Record{Kind: RecordResizeDB, ResizeMain: main.Value, ResizeExpires: expires.Value}, nil

	case opExpireTimeMS:
		b, ok := c.get(8)
		if !ok {
			c.rewind(mark)
			return Record{}, errIncomplete
		}
		ms := binary.LittleEndian.Uint64(b)
		rec, err := d.decodeEntry(c)
		if err != nil {
			c.rewind(mark)
			return Record{}, err
		}
		rec.ExpireUnit = ExpireMillis
		rec.ExpireMillis = ms
		return rec, nil

	case opExpireTime:
		b, ok := c.get(4)
		if !ok {
			c.rewind(mark)
			return Record{}, errIncomplete
		}
		secs := binary.LittleEndian.Uint32(b)
		rec, err := d.decodeEntry(c)
		if err != nil {
			c.rewind(mark)
			return Record{}, err
		}
		rec.ExpireUnit = ExpireSeconds
		rec.ExpireSeconds = secs
		return rec, nil

	case opSelectDB:
		b, ok := c.get(1)
		if !ok {
			c.rewind(mark)
			return Record{}, errIncomplete
		}
		return Record{Kind: RecordSelectDB, DBID: b[0]}, nil

	case opEOF:
		sum, ok := c.get(8)
		if !ok {
			c.rewind(mark)
			return Record{}, errIncomplete
		}
		var checksum [8]byte
		copy(checksum[:], sum)
		return Record{Kind: RecordEOF, Checksum: checksum}, nil
	}

	// Not an opcode: tag is a value-type byte introducing an Entry with no
	// expiration metadata.
	c.rewind(mark)
	return d.decodeEntry(c)
}

// decodeEntry reads a type byte, key, and value, and emits the
// corresponding Entry record (without expiration metadata — callers that
// saw an expiretime opcode fill that in themselves).
func (d *decoder) decodeEntry(c *cursor) (Record, error) {
	mark := c.mark()

	tb, ok := c.get(1)
	if !ok {
		return Record{}, errIncomplete
	}
	vt := valueType(tb[0])

	key, err := d.readKeyElement(c)
	if err != nil {
		c.rewind(mark)
		return Record{}, err
	}

	value, err := d.decodeValue(c, vt, mark)
	if err != nil {
		c.rewind(mark)
		return Record{}, err
	}

	return Record{Kind: RecordEntry, Key: key, Value: value}, nil
}

func (d *decoder) decodeValue(c *cursor, vt valueType, unitMark int) (Value, error) {
	switch vt {
	case valTypeString:
		elem, err := d.readElement(c)
		if err != nil {
			return Value{}, err
		}
		return elementToValue(elem), nil

	case valTypeList:
		elems, err := d.readList(c)
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: ValueList, List: elems}, nil

	case valTypeSet:
		elems, err := d.readSet(c)
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: ValueSet, Set: elems}, nil

	case valTypeHash:
		fields, err := d.readHash(c)
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: ValueHash, Hash: fields}, nil

	case valTypeListZiplist:
		elems, err := d.readListZiplist(c)
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: ValueList, List: elems}, nil

	case valTypeSetIntset:
		elems, err := d.readIntset(c)
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: ValueSet, Set: elems}, nil

	case valTypeHashZiplist:
		fields, err := d.readHashZiplist(c)
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: ValueHash, Hash: fields}, nil

	case valTypeListQuicklist:
		elems, err := d.readListQuicklist(c)
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: ValueList, List: elems}, nil

	case 9, 12:
		// HASH-ZIPMAP and ZSET-ZIPLIST: explicitly reserved by name in
		// spec.md's opcode table, not merely "unrecognized".
		return Value{}, malformed(unitMark, "unsupported reserved value type %d", vt)

	default:
		if vt <= 15 {
			slog.Warn("rdbstream: unknown value type", "type", vt, "offset", unitMark)
			return Value{}, malformed(unitMark, "unknown value type %d", vt)
		}
		if vt <= maxKnownOpcodeRangeType {
			return Value{}, malformed(unitMark, "unsupported value type %d (needs ZSet/Stream/Module/Listpack support)", vt)
		}
		return Value{}, malformed(unitMark, "value type %d out of the known RDB range", vt)
	}
}

func elementToValue(e Element) Value {
	if e.IsInt {
		return Value{Kind: ValueInteger, Integer: e.Integer}
	}
	return Value{Kind: ValueBytes, Bytes: e.Bytes}
}
