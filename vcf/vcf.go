// Package vcf provides support for parsing VCF files.
package vcf

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/genobase/bioread/genomics"
	"github.com/genobase/bioread/internal/scan"
	"github.com/genobase/bioread/stats"
)

// recordFields is the number of mandatory columns in a VCF data line, through
// INFO.
const recordFields = 8

// Reader reads VariantRecords from a VCF file.  The "##" meta headers and the
// "#CHROM" column header are parsed once, on first use, and cached; record
// passes re-scan the file from the top and skip header lines, so a single
// Reader supports repeated counting and filtering.
type Reader struct {
	lines *scan.Lines

	meta         []string
	columns      []string
	headerParsed bool
}

// Open opens the VCF file at path.
func Open(path string) (*Reader, error) {
	lines, err := scan.Open(path)
	if err != nil {
		return nil, err
	}
	return &Reader{lines: lines}, nil
}

// Header returns the raw "##" meta-header lines in file order.  The header is
// parsed on the first call and memoized; later calls do not touch the file.
func (r *Reader) Header() ([]string, error) {
	if err := r.ensureHeader(); err != nil {
		return nil, err
	}
	return r.meta, nil
}

// Columns returns the column names from the "#CHROM ..." header line, with
// the leading '#' stripped, or nil if the file has no column header.
func (r *Reader) Columns() ([]string, error) {
	if err := r.ensureHeader(); err != nil {
		return nil, err
	}
	return r.columns, nil
}

// HeaderGroup returns the meta-header lines that begin with "##<key>=", such
// as HeaderGroup("INFO") for the ##INFO= declarations, preserving file order.
// It returns nil when no line matches; an unknown key is indistinguishable
// from a known key with no declarations.
func (r *Reader) HeaderGroup(key string) ([]string, error) {
	if err := r.ensureHeader(); err != nil {
		return nil, err
	}
	prefix := "##" + key + "="
	var group []string
	for _, line := range r.meta {
		if strings.HasPrefix(line, prefix) {
			group = append(group, line)
		}
	}
	return group, nil
}

func (r *Reader) ensureHeader() error {
	if r.headerParsed {
		return nil
	}
	if err := r.lines.Rewind(); err != nil {
		return err
	}
	for {
		line, ok := r.lines.Next()
		if !ok {
			if err := r.lines.Err(); err != nil {
				return fmt.Errorf("reading header: %w", err)
			}
			break
		}
		if strings.HasPrefix(line, "##") {
			r.meta = append(r.meta, line)
			continue
		}
		if strings.HasPrefix(line, "#") {
			r.columns = strings.Split(strings.TrimPrefix(line, "#"), "\t")
		}
		break
	}
	r.headerParsed = true
	return r.lines.Rewind()
}

// Next returns the next variant record, or io.EOF once the file is
// exhausted.  Header lines are skipped; any malformed data line is a
// *genomics.FormatError and aborts the pass, since silently dropping
// variants would corrupt downstream counts.
func (r *Reader) Next() (*genomics.VariantRecord, error) {
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
		if strings.HasPrefix(line, "#") || line == "" {
			continue
		}
		return r.parseRecord(line)
	}
}

func (r *Reader) parseRecord(line string) (*genomics.VariantRecord, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < recordFields {
		return nil, &genomics.FormatError{
			Line: r.lines.Line(),
			Msg:  fmt.Sprintf("variant line has %d fields, want at least %d", len(fields), recordFields),
		}
	}
	pos, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil || pos < 1 {
		return nil, &genomics.FormatError{
			Line: r.lines.Line(),
			Msg:  fmt.Sprintf("bad POS value %q", fields[1]),
		}
	}
	return &genomics.VariantRecord{
		Chrom:  fields[0],
		Pos:    pos,
		Ref:    fields[3],
		Alt:    fields[4],
		Filter: fields[6],
		Info:   parseInfo(fields[7]),
	}, nil
}

// parseInfo decodes the semicolon-separated INFO column.  A bare KEY token is
// stored with an empty value.
func parseInfo(s string) map[string]string {
	info := make(map[string]string)
	if s == "" || s == "." {
		return info
	}
	for _, token := range strings.Split(s, ";") {
		if token == "" {
			continue
		}
		key, value, _ := strings.Cut(token, "=")
		info[key] = value
	}
	return info
}

// Count returns the total number of variant records in the file.  It restarts
// the record stream and drains a full pass.
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

// StatsByRegion groups the variant records by chromosome and returns an
// ordered (chromosome, count) table sorted by label.  It restarts and drains
// the record stream.
func (r *Reader) StatsByRegion() (stats.Table, error) {
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
// variant records.
func (r *Reader) Chromosomes() ([]string, error) {
	table, err := r.StatsByRegion()
	if err != nil {
		return nil, err
	}
	return table.Labels(), nil
}

// FilterByRegion restarts the record stream and returns a lazy iterator over
// the variants inside region: the chromosome matches exactly and
// region.Start <= Pos < region.End.
func (r *Reader) FilterByRegion(region genomics.Region) (*RegionIter, error) {
	if err := r.Reset(); err != nil {
		return nil, err
	}
	return &RegionIter{reader: r, region: region}, nil
}

// RegionIter is a lazy iterator over the variants inside one region.  It
// advances the Reader it was created from.
type RegionIter struct {
	reader *Reader
	region genomics.Region
}

// Next returns the next variant inside the region, or io.EOF when the stream
// is exhausted.
func (it *RegionIter) Next() (*genomics.VariantRecord, error) {
	for {
		rec, err := it.reader.Next()
		if err != nil {
			return nil, err
		}
		if rec.Chrom == it.region.Chrom && it.region.Contains(rec.Pos) {
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
