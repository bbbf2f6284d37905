package rdbstream

import (
	"fmt"

	lzf "github.com/zhuyie/golzf"
)

// golzfDecompressor is the default Decompressor, backed by the real LZF
// (FastLZ level-1) implementation used for RDB string decompression
// elsewhere in the Redis/Dragonfly ecosystem.
type golzfDecompressor struct{}

var defaultDecompressor Decompressor = golzfDecompressor{}

func (golzfDecompressor) Decompress(compressed []byte, expectedLen int) ([]byte, error) {
	dst := make([]byte, expectedLen)
	n, err := lzf.Decompress(compressed, dst)
	if err != nil {
		return nil, fmt.Errorf("golzf: %w", err)
	}
	if n != expectedLen {
		return nil, fmt.Errorf("golzf: decompressed %d bytes, want %d", n, expectedLen)
	}
	return dst, nil
}
