// Package crc64verify implements the Redis-variant CRC-64 used to verify
// the checksum trailer of an RDB file. It is not imported by the core
// decoder — spec.md treats CRC-64 verification as an external collaborator
// that only sees the raw bytes and the decoder's Eof checksum — but is
// available to callers (see cmd/rdbdump's --verify flag) who want to check
// a file's trailer against its contents.
package crc64verify

import (
	"encoding/binary"
	"errors"
	"hash/crc64"
	"math/bits"
	"sync"
)

// poly is the polynomial Redis uses for its CRC-64, distinct from any of
// the standard library's predefined tables.
const poly uint64 = 0xAD93D23594C935A9

var tableOnce sync.Once
var table *crc64.Table

func buildTable() {
	t := new(crc64.Table)
	for i := 0; i < 256; i++ {
		var crc uint64
		for j := uint8(1); j != 0; j <<= 1 {
			bit := crc & 0x8000000000000000
			if uint8(i)&j != 0 {
				bit ^= 0x8000000000000000
			}
			crc <<= 1
			if bit != 0 {
				crc ^= poly
			}
		}
		t[i] = bits.Reverse64(crc)
	}
	table = t
}

// Hash accumulates the Redis-variant CRC-64 over bytes fed to it across
// successive Write calls, so it can run incrementally alongside a
// ChunkScanner's Feed calls without re-reading the file.
type Hash struct {
	crc uint64
}

// New returns a Hash ready to accumulate the bytes preceding an RDB file's
// 8-byte checksum trailer.
func New() *Hash {
	tableOnce.Do(buildTable)
	return &Hash{}
}

// Write feeds more file bytes into the running checksum. It never fails.
func (h *Hash) Write(p []byte) (int, error) {
	tableOnce.Do(buildTable)
	// Go's crc64.Update pre/post-inverts; Redis's construction doesn't, so
	// the inversion is undone on the way in and redone on the way out.
	h.crc = ^crc64.Update(^h.crc, table, p)
	return len(p), nil
}

// Sum64 returns the checksum accumulated so far.
func (h *Hash) Sum64() uint64 { return h.crc }

// ErrMismatch is returned by Verify when the trailer doesn't match the
// accumulated checksum.
var ErrMismatch = errors.New("crc64verify: checksum mismatch")

// Verify compares an RDB Eof record's 8-byte trailer against the checksum
// accumulated so far. A trailer of all zero bytes means checksumming was
// disabled on the server that wrote the file, and always verifies.
func (h *Hash) Verify(trailer [8]byte) error {
	want := binary.LittleEndian.Uint64(trailer[:])
	if want == 0 {
		return nil
	}
	if want != h.Sum64() {
		return ErrMismatch
	}
	return nil
}
