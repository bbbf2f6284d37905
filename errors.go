package rdbstream

import (
	"errors"
	"fmt"
)

// errIncomplete never crosses the package boundary. It signals that a
// sub-decoder needs more bytes than the current buffer holds; every caller
// that sees it must rewind its cursor to the position it held before the
// attempted read and propagate errIncomplete upward unchanged.
var errIncomplete = errors.New("rdbstream: incomplete unit")

func isIncomplete(err error) bool {
	return errors.Is(err, errIncomplete)
}

// MalformedError is terminal: the byte stream violates the RDB framing or
// encoding rules spec.md describes. No further records are produced once
// this is returned.
type MalformedError struct {
	Offset int // byte offset within the current decode unit where detected
	Err    error
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("rdbstream: malformed input at offset %d: %v", e.Offset, e.Err)
}

func (e *MalformedError) Unwrap() error { return e.Err }

func malformed(offset int, format string, args ...any) error {
	return &MalformedError{Offset: offset, Err: fmt.Errorf(format, args...)}
}

func wrapMalformed(offset int, err error) error {
	if err == nil {
		return nil
	}
	var me *MalformedError
	if errors.As(err, &me) {
		return me
	}
	return &MalformedError{Offset: offset, Err: err}
}

// TruncatedError is terminal: the upstream byte source ended while bytes
// were still buffered and no Eof record had been emitted.
type TruncatedError struct {
	// Leftover holds the unparsed bytes, for diagnostics.
	Leftover []byte
}

func (e *TruncatedError) Error() string {
	return fmt.Sprintf("rdbstream: truncated input, %d unparsed byte(s) remaining", len(e.Leftover))
}
