package genomics

import (
	"errors"
	"fmt"
)

// ErrClosed is returned when a reader is used after Close.
var ErrClosed = errors.New("reader is closed")

// FormatError reports a structurally malformed line.  It is fatal for the
// call that encountered it: the current pass over the file cannot continue,
// though closing the reader remains safe.
type FormatError struct {
	Line int // 1-based line number within the file, 0 if unknown
	Msg  string
}

func (e *FormatError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
	}
	return e.Msg
}

// ValidationError reports record content that fails a content-level check,
// such as a disallowed character in a FASTA sequence.  Readers that support
// skipping return it for the offending record only; the stream stays usable.
type ValidationError struct {
	ID  string // identifier of the offending record
	Msg string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("record %q: %s", e.ID, e.Msg)
}
