package rdbstream

// ChunkScanner is the boundary-tolerant driver (spec.md §4.6): it owns a
// growing leftover buffer, accepts chunks from the outside, feeds the
// opcode dispatcher, and hands back the records each chunk was enough to
// complete. In steady state its buffer never holds more than one chunk
// plus one in-flight unit.
type ChunkScanner struct {
	cfg     Config
	dec     *decoder
	buf     []byte
	sawEOF  bool
	sawVers bool
	done    bool
}

// NewScanner constructs a ChunkScanner. An invalid Config is rejected
// immediately rather than surfacing on the first Feed call.
func NewScanner(cfg Config) (*ChunkScanner, error) {
	cfg, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}
	return &ChunkScanner{cfg: cfg, dec: newDecoder(cfg)}, nil
}

// Feed appends chunk to the scanner's buffer and decodes as many complete
// records as the buffered bytes allow. Once Eof has been emitted, further
// calls to Feed are a no-op and return no records.
//
// The returned error is nil or a *MalformedError; a malformed error is
// terminal, and no further calls to Feed should be made. Eof is surfaced
// as a Record, not an error.
func (s *ChunkScanner) Feed(chunk []byte) ([]Record, error) {
	if s.done {
		return nil, nil
	}
	if len(chunk) > 0 {
		s.buf = append(s.buf, chunk...)
	}

	var out []Record
	for {
		c := newCursor(s.buf)

		if !s.sawVers {
			rec, err := s.dec.decodeHeader(c)
			if err != nil {
				if isIncomplete(err) {
					return out, nil
				}
				s.done = true
				return out, err
			}
			s.sawVers = true
			out = append(out, rec)
			s.buf = c.rest()
			continue
		}

		rec, err := s.dec.decodeUnit(c)
		if err != nil {
			if isIncomplete(err) {
				return out, nil
			}
			s.done = true
			return out, err
		}

		out = append(out, rec)
		s.buf = c.rest()

		if rec.Kind == RecordEOF {
			s.sawEOF = true
			s.done = true
			return out, nil
		}
	}
}

// Finish signals that the upstream byte source has ended. It returns a
// *TruncatedError if bytes remain buffered (a unit was left incomplete) or
// if the stream ended before an Eof record was ever produced.
func (s *ChunkScanner) Finish() error {
	if s.sawEOF {
		return nil
	}
	return &TruncatedError{Leftover: s.buf}
}
