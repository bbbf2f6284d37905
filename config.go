package rdbstream

import "fmt"

// DefaultChunkSize is used when Config.ChunkSize is left at zero.
const DefaultChunkSize = 65536

// Config controls how a ChunkScanner decodes a byte stream.
type Config struct {
	// ChunkSize is advisory: callers are free to Feed chunks of any size,
	// but cmd/rdbdump uses it as the read size from the underlying
	// file. Defaults to DefaultChunkSize.
	ChunkSize int

	// Decompressor decodes LZF-compressed strings (spec.md §4.2, §6). If
	// nil, a golzf-backed implementation is used.
	Decompressor Decompressor
}

// withDefaults returns a copy of cfg with zero-valued fields replaced by
// their defaults, validating the rest.
func (cfg Config) withDefaults() (Config, error) {
	if cfg.ChunkSize == 0 {
		cfg.ChunkSize = DefaultChunkSize
	}
	if cfg.ChunkSize < 0 {
		return Config{}, fmt.Errorf("rdbstream: ChunkSize must be positive, got %d", cfg.ChunkSize)
	}
	return cfg, nil
}
