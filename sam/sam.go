// Package sam provides support for parsing SAM files.
package sam

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/genobase/bioread/genomics"
	"github.com/genobase/bioread/internal/scan"
	"github.com/genobase/bioread/stats"
)

var (
	// @SQ SN:foo LN:5 AN:bar,baz ...
	tagRe   = regexp.MustCompile(`\b(SN|AN):(\S+)\b`)
	cigarRe = regexp.MustCompile(`(\d+)([MIDNSHP=X])`)
)

// recordFields is the number of mandatory columns in a SAM alignment line.
const recordFields = 11

// Reader reads AlignmentRecords from a SAM file.  The header block is parsed
// once, on first use, and cached for the lifetime of the Reader; record
// passes re-scan the file from the top and skip header lines, so a single
// Reader supports repeated counting and filtering.
type Reader struct {
	lines *scan.Lines

	header       map[string][]string
	headerParsed bool
}

// Open opens the SAM file at path.
func Open(path string) (*Reader, error) {
	lines, err := scan.Open(path)
	if err != nil {
		return nil, err
	}
	return &Reader{lines: lines}, nil
}

// Header returns every header line of the file, grouped by tag ("@SQ", "@RG",
// "@PG", "@CO", ...) in file order within each group.  The header is parsed
// on the first call and memoized; later calls do not touch the file.
func (r *Reader) Header() (map[string][]string, error) {
	if err := r.ensureHeader(); err != nil {
		return nil, err
	}
	return r.header, nil
}

// HeaderGroup returns the header lines carrying the given group tag, or nil
// if the file has none.
func (r *Reader) HeaderGroup(tag string) ([]string, error) {
	if err := r.ensureHeader(); err != nil {
		return nil, err
	}
	return r.header[tag], nil
}

// ReferenceID returns the position of the named reference within the @SQ
// header group, matching either the SN name or any AN alias.
func (r *Reader) ReferenceID(reference string) (int32, error) {
	group, err := r.HeaderGroup("@SQ")
	if err != nil {
		return 0, err
	}
	for i, line := range group {
		for _, tag := range tagRe.FindAllStringSubmatch(line, -1) {
			switch tag[1] {
			case "SN":
				if tag[2] == reference {
					return int32(i), nil
				}
			case "AN":
				for _, ref := range strings.Split(tag[2], ",") {
					if reference == ref {
						return int32(i), nil
					}
				}
			}
		}
	}
	return 0, fmt.Errorf("reference %q not found", reference)
}

func (r *Reader) ensureHeader() error {
	if r.headerParsed {
		return nil
	}
	if err := r.lines.Rewind(); err != nil {
		return err
	}
	header := make(map[string][]string)
	for {
		line, ok := r.lines.Next()
		if !ok {
			if err := r.lines.Err(); err != nil {
				return fmt.Errorf("reading header: %w", err)
			}
			break
		}
		if !strings.HasPrefix(line, "@") {
			break
		}
		tag := line
		if i := strings.IndexAny(tag, " \t"); i >= 0 {
			tag = tag[:i]
		}
		header[tag] = append(header[tag], line)
	}
	r.header = header
	r.headerParsed = true
	// Leave the scanner at the top so that a following Next pass sees every
	// record line.
	return r.lines.Rewind()
}

// Next returns the next alignment record, or io.EOF once the file is
// exhausted.  Header lines are skipped; any malformed record line is a
// *genomics.FormatError and aborts the pass, since silently dropping
// alignments would corrupt downstream counts.
func (r *Reader) Next() (*genomics.AlignmentRecord, error) {
	if err := r.ensureHeader(); err != nil {
		return nil, err
	}
	for {
		line, ok := r.lines.Next()
		if !ok {
			if err := r.lines.Err(); err != nil {
				return nil, err
			}
			return nil, io.EOF
		}
		if strings.HasPrefix(line, "@") || line == "" {
			continue
		}
		return r.parseRecord(line)
	}
}

func (r *Reader) parseRecord(line string) (*genomics.AlignmentRecord, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < recordFields {
		return nil, &genomics.FormatError{
			Line: r.lines.Line(),
			Msg:  fmt.Sprintf("alignment line has %d fields, want at least %d", len(fields), recordFields),
		}
	}
	flag, err := strconv.Atoi(fields[1])
	if err != nil {
		return nil, r.fieldError("FLAG", fields[1])
	}
	pos, err := strconv.ParseInt(fields[3], 10, 64)
	if err != nil || pos < 0 {
		return nil, r.fieldError("POS", fields[3])
	}
	// An unavailable mapping quality is written as "*" by some aligners.
	mapq := 0
	if fields[4] != "*" {
		if mapq, err = strconv.Atoi(fields[4]); err != nil {
			return nil, r.fieldError("MAPQ", fields[4])
		}
	}
	length, err := AlignedLength(fields[5])
	if err != nil {
		return nil, &genomics.FormatError{Line: r.lines.Line(), Msg: err.Error()}
	}
	return &genomics.AlignmentRecord{
		ID:    fields[0],
		Chrom: fields[2],
		Start: pos,
		End:   pos + length,
		Cigar: fields[5],
		MapQ:  mapq,
		Flag:  flag,
	}, nil
}

func (r *Reader) fieldError(column, value string) error {
	return &genomics.FormatError{
		Line: r.lines.Line(),
		Msg:  fmt.Sprintf("bad %s value %q", column, value),
	}
}

// AlignedLength returns the number of reference bases consumed by the CIGAR
// string: the sum of the lengths of the M, D, N, = and X operations.  I, S, H
// and P operations consume no reference.  An empty or unavailable ("*") CIGAR
// consumes nothing.
func AlignedLength(cigar string) (int64, error) {
	if cigar == "" || cigar == "*" {
		return 0, nil
	}
	var length int64
	var consumed int
	for _, op := range cigarRe.FindAllStringSubmatch(cigar, -1) {
		consumed += len(op[0])
		n, err := strconv.ParseInt(op[1], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("bad CIGAR operation length %q", op[1])
		}
		switch op[2] {
		case "M", "D", "N", "=", "X":
			length += n
		}
	}
	if consumed != len(cigar) {
		return 0, fmt.Errorf("unparsable CIGAR %q", cigar)
	}
	return length, nil
}

// Count returns the total number of alignment records in the file.  It
// restarts the record stream and drains a full pass; it is a real count, not
// an estimate.
func (r *Reader) Count() (int, error) {
	if err := r.Reset(); err != nil {
		return 0, err
	}
	var count int
	for {
		if _, err := r.Next(); err != nil {
			if err == io.EOF {
				return count, nil
			}
			return 0, err
		}
		count++
	}
}

// StatsByChromosome groups the alignment records by chromosome and returns an
// ordered (chromosome, count) table sorted by label.  It restarts and drains
// the record stream.
func (r *Reader) StatsByChromosome() (stats.Table, error) {
	if err := r.Reset(); err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for {
		rec, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		counts[rec.Chrom]++
	}
	return stats.FromCounts(counts), nil
}

// Chromosomes returns the sorted set of chromosome labels that appear in the
// alignment records.
func (r *Reader) Chromosomes() ([]string, error) {
	table, err := r.StatsByChromosome()
	if err != nil {
		return nil, err
	}
	return table.Labels(), nil
}

// FilterByRegion restarts the record stream and returns a lazy iterator over
// the alignments that overlap region: the chromosome matches exactly and the
// half-open interval [Start, End) intersects [region.Start, region.End).
func (r *Reader) FilterByRegion(region genomics.Region) (*RegionIter, error) {
	if err := r.Reset(); err != nil {
		return nil, err
	}
	return &RegionIter{reader: r, region: region}, nil
}

// RegionIter is a lazy iterator over the alignments overlapping one region.
// It advances the Reader it was created from.
type RegionIter struct {
	reader *Reader
	region genomics.Region
}

// Next returns the next overlapping alignment, or io.EOF when the stream is
// exhausted.
func (it *RegionIter) Next() (*genomics.AlignmentRecord, error) {
	for {
		rec, err := it.reader.Next()
		if err != nil {
			return nil, err
		}
		if rec.Chrom == it.region.Chrom && it.region.Overlaps(rec.Start, rec.End) {
			return rec, nil
		}
	}
}

// Reset restarts the record stream at the top of the file.  The cached header
// is kept.
func (r *Reader) Reset() error {
	return r.lines.Rewind()
}

// Close releases the underlying file.  It is idempotent; reads after Close
// fail with genomics.ErrClosed.
func (r *Reader) Close() error {
	return r.lines.Close()
}
