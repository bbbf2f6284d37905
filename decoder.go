package rdbstream

// decoder carries the configuration and external collaborators every
// sub-decoder in this package needs. It holds no stream position itself —
// that lives in the cursor passed to each call — so a *decoder is safe to
// reuse across chunks and across concurrent ChunkScanners.
type decoder struct {
	cfg Config
}

func newDecoder(cfg Config) *decoder {
	return &decoder{cfg: cfg}
}

func (d *decoder) decompressor() Decompressor {
	if d.cfg.Decompressor != nil {
		return d.cfg.Decompressor
	}
	return defaultDecompressor
}
