package rdbstream

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

// buildZiplist assembles a minimal ziplist buffer from already-encoded
// entry bytes. zlbytes/zltail are not validated by parseZiplist, so
// placeholder zeros are fine.
func buildZiplist(entries ...[]byte) []byte {
	buf := make([]byte, 0)
	buf = append(buf, 0, 0, 0, 0) // zlbytes
	buf = append(buf, 0, 0, 0, 0) // zltail
	lenBytes := make([]byte, 2)
	binary.LittleEndian.PutUint16(lenBytes, uint16(len(entries)))
	buf = append(buf, lenBytes...)
	for _, e := range entries {
		buf = append(buf, e...)
	}
	buf = append(buf, zlEnd)
	return buf
}

// ziplistStrEntry builds a <prevlen=0><6-bit-string-len><content> entry.
func ziplistStrEntry(s string) []byte {
	return append([]byte{0x00, byte(len(s))}, s...)
}

// ziplistIntEntry builds a <prevlen=0><encoding><little-endian bytes> entry
// for the fixed-width integer encodings.
func ziplistIntEntry(encoding uint8, raw []byte) []byte {
	return append([]byte{0x00, encoding}, raw...)
}

func TestParseZiplist_strings(t *testing.T) {
	buf := buildZiplist(ziplistStrEntry("hello"), ziplistStrEntry("world"))
	entries, err := parseZiplist(buf)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "hello", string(entries[0].Bytes))
	require.Equal(t, "world", string(entries[1].Bytes))
}

func TestParseZiplist_integers(t *testing.T) {
	n16, n64 := int16(-1000), int64(-5000000000)
	i16 := make([]byte, 2)
	binary.LittleEndian.PutUint16(i16, uint16(n16))
	i32 := make([]byte, 4)
	binary.LittleEndian.PutUint32(i32, uint32(int32(100000)))
	i64 := make([]byte, 8)
	binary.LittleEndian.PutUint64(i64, uint64(n64))

	buf := buildZiplist(
		ziplistIntEntry(zlEncInt8, []byte{0xF6}), // -10
		ziplistIntEntry(zlEncInt16, i16),
		ziplistIntEntry(zlEncInt32, i32),
		ziplistIntEntry(zlEncInt64, i64),
		[]byte{0x00, 0xF5}, // small literal int encoding 0xF5 -> 0xF5-0xF1 = 4
	)

	entries, err := parseZiplist(buf)
	require.NoError(t, err)
	require.Len(t, entries, 5)
	require.Equal(t, int64(-10), entries[0].Integer)
	require.Equal(t, int64(-1000), entries[1].Integer)
	require.Equal(t, int64(100000), entries[2].Integer)
	require.Equal(t, int64(-5000000000), entries[3].Integer)
	require.Equal(t, int64(4), entries[4].Integer)
	for _, e := range entries {
		require.True(t, e.IsInt)
	}
}

func TestParseZiplist_missingEndMarker(t *testing.T) {
	buf := buildZiplist(ziplistStrEntry("a"))
	buf = buf[:len(buf)-1] // drop the 0xFF terminator
	_, err := parseZiplist(buf)
	require.Error(t, err)
}

func TestParseZiplist_bigPrevlen(t *testing.T) {
	entry := append([]byte{zlPrevLenBig, 0, 0, 0, 0}, ziplistStrEntry("x")[1:]...)
	buf := buildZiplist(entry)
	entries, err := parseZiplist(buf)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "x", string(entries[0].Bytes))
}
