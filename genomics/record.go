package genomics

import "fmt"

// Record is implemented by every record type produced by the readers.
// Records are plain values: once yielded by a reader they hold no reference
// back to it and remain valid after the reader is closed.
type Record interface {
	// RecordID returns the record identifier: the sequence name for
	// FASTA/FASTQ records, the query name for alignments and "chrom:pos"
	// for variants.
	RecordID() string
}

// SequenceRecord holds one FASTA or FASTQ entry.
type SequenceRecord struct {
	ID       string
	Sequence string
	// Quality holds the per-base Phred scores of a FASTQ record.  It is nil
	// for FASTA records and has the same length as Sequence otherwise.
	Quality []int
}

// RecordID returns the sequence name.
func (r *SequenceRecord) RecordID() string { return r.ID }

// AlignmentRecord holds one SAM alignment line.
type AlignmentRecord struct {
	ID    string // query name (QNAME)
	Chrom string // reference name (RNAME)
	Start int64  // leftmost mapping position, as written in the file
	End   int64  // Start plus the reference length consumed by the CIGAR
	Cigar string
	MapQ  int
	Flag  int
}

// RecordID returns the query name.
func (r *AlignmentRecord) RecordID() string { return r.ID }

// FilterUnset is stored in VariantRecord.Filter when the FILTER column of the
// source line is ".".
const FilterUnset = "."

// VariantRecord holds one VCF data line.  A line listing multiple alternate
// alleles yields a single record with the raw comma-joined ALT string.
type VariantRecord struct {
	Chrom  string
	Pos    int64 // 1-based, as in the VCF specification
	Ref    string
	Alt    string
	Filter string
	Info   map[string]string
}

// RecordID returns the "chrom:pos" coordinate of the variant.
func (r *VariantRecord) RecordID() string { return fmt.Sprintf("%s:%d", r.Chrom, r.Pos) }
