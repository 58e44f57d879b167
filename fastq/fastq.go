// Package fastq provides support for parsing FASTQ files.
package fastq

import (
	"fmt"
	"io"
	"strings"

	"github.com/genobase/bioread/genomics"
	"github.com/genobase/bioread/internal/scan"
)

// phredOffset is the ASCII offset of the Phred+33 quality encoding: '!'
// (ASCII 33) decodes to score zero.
const phredOffset = 33

// Reader reads SequenceRecords from a FASTQ file.  FASTQ parsing is a single
// forward pass: reading the file again requires a fresh Reader.
type Reader struct {
	lines *scan.Lines
}

// Open opens the FASTQ file at path.
func Open(path string) (*Reader, error) {
	lines, err := scan.Open(path)
	if err != nil {
		return nil, err
	}
	return &Reader{lines: lines}, nil
}

// Next returns the next record, or io.EOF at end of file.  Every record
// occupies exactly four lines; a truncated block, a missing '@' or '+'
// marker, or a quality string whose length differs from the sequence is a
// *genomics.FormatError and aborts the stream.
func (r *Reader) Next() (*genomics.SequenceRecord, error) {
	header, ok := r.lines.Next()
	if !ok {
		if err := r.lines.Err(); err != nil {
			return nil, err
		}
		return nil, io.EOF
	}
	if !strings.HasPrefix(header, "@") {
		return nil, &genomics.FormatError{
			Line: r.lines.Line(),
			Msg:  fmt.Sprintf("record header %q does not start with '@'", header),
		}
	}

	var block [3]string
	for i := range block {
		line, ok := r.lines.Next()
		if !ok {
			if err := r.lines.Err(); err != nil {
				return nil, err
			}
			return nil, &genomics.FormatError{
				Line: r.lines.Line(),
				Msg:  "truncated record block at end of file",
			}
		}
		block[i] = line
	}
	sequence, separator, quality := strings.ToUpper(block[0]), block[1], block[2]

	if !strings.HasPrefix(separator, "+") {
		return nil, &genomics.FormatError{
			Line: r.lines.Line() - 1,
			Msg:  fmt.Sprintf("separator line %q does not start with '+'", separator),
		}
	}
	if sequence == "" {
		return nil, &genomics.FormatError{Line: r.lines.Line() - 2, Msg: "empty sequence"}
	}
	if len(quality) != len(sequence) {
		return nil, &genomics.FormatError{
			Line: r.lines.Line(),
			Msg: fmt.Sprintf("quality length %d does not match sequence length %d",
				len(quality), len(sequence)),
		}
	}

	id := "unknown"
	if fields := strings.Fields(header[1:]); len(fields) > 0 {
		id = fields[0]
	}
	return &genomics.SequenceRecord{
		ID:       id,
		Sequence: sequence,
		Quality:  decodeQuality(quality),
	}, nil
}

// decodeQuality converts an ASCII quality string into Phred scores.
func decodeQuality(s string) []int {
	scores := make([]int, len(s))
	for i := 0; i < len(s); i++ {
		scores[i] = int(s[i]) - phredOffset
	}
	return scores
}

// Close releases the underlying file.  It is idempotent; reads after Close
// fail with genomics.ErrClosed.
func (r *Reader) Close() error {
	return r.lines.Close()
}
