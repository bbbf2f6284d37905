package rdbstream

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func emptyDatabaseFixture() []byte {
	return []byte{
		'R', 'E', 'D', 'I', 'S', '0', '0', '0', '6',
		0xFA, 0x09, 'r', 'e', 'd', 'i', 's', '-', 'v', 'e', 'r', 0x05, '3', '.', '2', '.', '1',
		0xFF, 1, 2, 3, 4, 5, 6, 7, 8,
	}
}

func singleStringFixture() []byte {
	f := []byte{'R', 'E', 'D', 'I', 'S', '0', '0', '0', '6'}
	f = append(f, 0xFE, 0x00)
	f = append(f, 0x00, 0x05, 'm', 'y', 'k', 'e', 'y', 0x07, 'm', 'y', 'v', 'a', 'l', 'u', 'e')
	f = append(f, 0xFF, 1, 2, 3, 4, 5, 6, 7, 8)
	return f
}

func TestChunkScanner_emptyDatabase(t *testing.T) {
	s, err := NewScanner(Config{})
	require.NoError(t, err)

	records, err := s.Feed(emptyDatabaseFixture())
	require.NoError(t, err)
	require.NoError(t, s.Finish())

	require.Len(t, records, 3)
	require.Equal(t, RecordVersion, records[0].Kind)
	require.Equal(t, 6, records[0].Version)
	require.Equal(t, RecordAux, records[1].Kind)
	require.Equal(t, "redis-ver", string(records[1].AuxKey.Bytes))
	require.Equal(t, "3.2.1", string(records[1].AuxValue.Bytes))
	require.Equal(t, RecordEOF, records[2].Kind)
}

func TestChunkScanner_singleString(t *testing.T) {
	s, err := NewScanner(Config{})
	require.NoError(t, err)

	records, err := s.Feed(singleStringFixture())
	require.NoError(t, err)
	require.NoError(t, s.Finish())

	require.Len(t, records, 4)
	require.Equal(t, RecordSelectDB, records[1].Kind)
	require.Equal(t, uint8(0), records[1].DBID)
	require.Equal(t, RecordEntry, records[2].Kind)
	require.Equal(t, "mykey", string(records[2].Key))
	require.Equal(t, "myvalue", string(records[2].Value.Bytes))
}

// TestChunkScanner_byteAtATime exercises the Incomplete restart protocol at
// every possible split point: chunk_size = 1 must decode identically to
// feeding the whole file at once (spec.md §8).
func TestChunkScanner_byteAtATime(t *testing.T) {
	full := singleStringFixture()

	s, err := NewScanner(Config{})
	require.NoError(t, err)

	var records []Record
	for i := 0; i < len(full); i++ {
		got, err := s.Feed(full[i : i+1])
		require.NoError(t, err)
		records = append(records, got...)
	}
	require.NoError(t, s.Finish())

	require.Len(t, records, 4)
	require.Equal(t, RecordEntry, records[2].Kind)
	require.Equal(t, "myvalue", string(records[2].Value.Bytes))
	require.Equal(t, RecordEOF, records[3].Kind)
}

// TestChunkScanner_arbitrarySplits checks that splitting the same input at
// a handful of different, non-unit-aligned points produces the identical
// record sequence (spec.md §8's chunk-boundary-invisibility property,
// spot-checked rather than exhaustively).
func TestChunkScanner_arbitrarySplits(t *testing.T) {
	full := singleStringFixture()
	splits := [][]int{
		{len(full)},
		{1, len(full) - 1},
		{9, 2, len(full) - 11},
		{5, 5, 5, 5, len(full) - 20},
	}

	var reference []Record
	for _, sizes := range splits {
		s, err := NewScanner(Config{})
		require.NoError(t, err)

		var records []Record
		pos := 0
		for _, n := range sizes {
			got, err := s.Feed(full[pos : pos+n])
			require.NoError(t, err)
			records = append(records, got...)
			pos += n
		}
		require.NoError(t, s.Finish())

		if reference == nil {
			reference = records
			continue
		}
		require.Equal(t, len(reference), len(records))
		for i := range reference {
			require.Equal(t, reference[i], records[i])
		}
	}
}

func TestChunkScanner_truncatedStreamIsError(t *testing.T) {
	full := singleStringFixture()
	truncated := full[:len(full)-3]

	s, err := NewScanner(Config{})
	require.NoError(t, err)

	_, err = s.Feed(truncated)
	require.NoError(t, err)

	err = s.Finish()
	require.Error(t, err)
	var te *TruncatedError
	require.ErrorAs(t, err, &te)
}

func TestChunkScanner_expireMillisEntry(t *testing.T) {
	f := []byte{'R', 'E', 'D', 'I', 'S', '0', '0', '0', '6'}
	f = append(f, 0xFC, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00)
	f = append(f, 0x00, 0x05, 'm', 'y', 'k', 'e', 'y', 0x07, 'm', 'y', 'v', 'a', 'l', 'u', 'e')
	f = append(f, 0xFF, 0, 0, 0, 0, 0, 0, 0, 0)

	s, err := NewScanner(Config{})
	require.NoError(t, err)
	records, err := s.Feed(f)
	require.NoError(t, err)
	require.NoError(t, s.Finish())

	require.Len(t, records, 3)
	require.Equal(t, ExpireMillis, records[1].ExpireUnit)
	require.Equal(t, uint64(0), records[1].ExpireMillis)
}
