// Package lzfgo is a pure-Go LZF (FastLZ level-1) decompressor, for callers
// of rdbstream who want an in-process Decompressor without taking the cgo
// surface of an external library, or who want to audit decompression
// without reading a third-party vendor's source.
package lzfgo

import "errors"

// ErrCorrupt is returned when the compressed stream's instructions don't
// add up to the declared output length.
var ErrCorrupt = errors.New("lzfgo: corrupt compressed content")

// Decompressor implements rdbstream.Decompressor.
type Decompressor struct{}

// Decompress expands an LZF (FastLZ level-1) compressed buffer.
//
// The stream is a sequence of instructions, tagged by their first byte:
//   - 000xxxxx: literal run. Copy (xxxxx + 1) bytes verbatim from the
//     input to the output.
//   - anything else: back-reference. Copy a run of previously-produced
//     output bytes, where the top 3 bits of the control byte (plus a
//     possible extension byte, for long matches) give the run length and
//     the remaining bits plus the next input byte give the distance back
//     into the output already produced.
func (Decompressor) Decompress(compressed []byte, expectedLen int) ([]byte, error) {
	out := make([]byte, 0, expectedLen)
	src := compressed

	for len(src) > 0 {
		ctrl := src[0]
		src = src[1:]

		if ctrl < 32 {
			run := int(ctrl) + 1
			if len(src) < run || len(out)+run > expectedLen {
				return nil, ErrCorrupt
			}
			out = append(out, src[:run]...)
			src = src[run:]
			continue
		}

		if len(src) == 0 {
			return nil, ErrCorrupt
		}

		matchLen := int(ctrl>>5) + 2
		if matchLen == 9 {
			matchLen += int(src[0])
			src = src[1:]
			if len(src) == 0 {
				return nil, ErrCorrupt
			}
		}

		backRef := len(out) - (int(ctrl&0x1F) << 8) - 1 - int(src[0])
		src = src[1:]

		if backRef < 0 || len(out)+matchLen > expectedLen {
			return nil, ErrCorrupt
		}

		if backRef+matchLen <= len(out) {
			out = append(out, out[backRef:backRef+matchLen]...)
		} else {
			for ; matchLen > 0; matchLen-- {
				out = append(out, out[backRef])
				backRef++
			}
		}
	}

	if len(out) != expectedLen {
		return nil, ErrCorrupt
	}
	return out, nil
}
