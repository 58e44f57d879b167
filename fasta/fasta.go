// Package fasta provides support for parsing FASTA files.
package fasta

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/genobase/bioread/genomics"
	"github.com/genobase/bioread/internal/scan"
)

// Permitted sequence characters: the IUPAC nucleotide codes plus the
// alignment gap.
const alphabet = "ACGTURYKMSWBDHVN-"

// Reader reads SequenceRecords from a FASTA file.  The aggregate methods
// rewind the underlying file before draining it, so a single Reader supports
// repeated passes; interleaving them with Next restarts the record stream.
type Reader struct {
	lines *scan.Lines

	pending string // header of the record being accumulated, without '>'
	started bool

	count       int
	totalLength int
	counted     bool
}

// Open opens the FASTA file at path.
func Open(path string) (*Reader, error) {
	lines, err := scan.Open(path)
	if err != nil {
		return nil, err
	}
	return &Reader{lines: lines}, nil
}

// Next returns the next sequence record, or io.EOF at end of file.  A record
// whose sequence contains characters outside the permitted IUPAC alphabet
// produces a *genomics.ValidationError; the stream stays usable and the
// following call returns the next record, so callers may skip bad entries
// without losing the rest of the file.
func (r *Reader) Next() (*genomics.SequenceRecord, error) {
	var seq strings.Builder
	for {
		line, ok := r.lines.Next()
		if !ok {
			if err := r.lines.Err(); err != nil {
				return nil, err
			}
			if r.started {
				r.started = false
				return build(r.pending, seq.String())
			}
			return nil, io.EOF
		}
		line = strings.TrimSpace(line)
		switch {
		case line == "":
		case strings.HasPrefix(line, ">"):
			id := strings.TrimSpace(line[1:])
			if r.started {
				done := r.pending
				r.pending = id
				return build(done, seq.String())
			}
			r.started = true
			r.pending = id
		case !r.started:
			return nil, &genomics.FormatError{
				Line: r.lines.Line(),
				Msg:  "sequence data before the first '>' header",
			}
		default:
			seq.WriteString(line)
		}
	}
}

func build(id, seq string) (*genomics.SequenceRecord, error) {
	seq = strings.ToUpper(seq)
	if i := strings.IndexFunc(seq, invalidBase); i >= 0 {
		return nil, &genomics.ValidationError{
			ID:  id,
			Msg: fmt.Sprintf("disallowed character %q in sequence", seq[i]),
		}
	}
	return &genomics.SequenceRecord{ID: id, Sequence: seq}, nil
}

func invalidBase(c rune) bool {
	return !strings.ContainsRune(alphabet, c)
}

// Count returns the number of valid sequence records in the file.  The first
// call drains a full pass over the file; the result is cached, so repeated
// calls do not re-read.
func (r *Reader) Count() (int, error) {
	if err := r.drain(); err != nil {
		return 0, err
	}
	return r.count, nil
}

// MeanLength returns the arithmetic mean of the sequence lengths of all valid
// records, or zero for a file with none.  Like Count it drains the file once
// and caches the result.
func (r *Reader) MeanLength() (float64, error) {
	if err := r.drain(); err != nil {
		return 0, err
	}
	if r.count == 0 {
		return 0, nil
	}
	return float64(r.totalLength) / float64(r.count), nil
}

func (r *Reader) drain() error {
	if r.counted {
		return nil
	}
	if err := r.Reset(); err != nil {
		return err
	}
	var count, total int
	for {
		rec, err := r.Next()
		if err == io.EOF {
			break
		}
		var verr *genomics.ValidationError
		if errors.As(err, &verr) {
			continue
		}
		if err != nil {
			return err
		}
		count++
		total += len(rec.Sequence)
	}
	r.count, r.totalLength, r.counted = count, total, true
	return nil
}

// Reset restarts the record stream at the top of the file.
func (r *Reader) Reset() error {
	r.started = false
	r.pending = ""
	return r.lines.Rewind()
}

// Close releases the underlying file.  It is idempotent; reads after Close
// fail with genomics.ErrClosed.
func (r *Reader) Close() error {
	return r.lines.Close()
}
