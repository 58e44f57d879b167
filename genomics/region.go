// Package genomics contains record and region definitions shared by the
// format-specific readers.
package genomics

// Region defines a region of genomic interest.
type Region struct {
	// Chrom specifies the chromosome (reference sequence) label to match.
	// Matching is exact: "1" does not match "chr1".
	Chrom string
	// Start and End specify the half-open range [Start, End) in base pairs.
	// If End is zero, it is treated as though it was set to the last possible
	// position.
	Start, End int64
}

// WholeChromosome returns a Region covering every position on chrom.
func WholeChromosome(chrom string) Region {
	return Region{Chrom: chrom}
}

// Overlaps reports whether the half-open interval [start, end) intersects the
// region interval.
func (r Region) Overlaps(start, end int64) bool {
	if r.End == 0 {
		return end > r.Start
	}
	return start < r.End && end > r.Start
}

// Contains reports whether the single position pos falls inside the region
// interval.
func (r Region) Contains(pos int64) bool {
	if pos < r.Start {
		return false
	}
	return r.End == 0 || pos < r.End
}
