package fastq

import (
	"io"
	"strings"
)

// Summary aggregates simple quality-inspection figures over a whole FASTQ
// file.
type Summary struct {
	Records     int     `json:"records"`
	MeanLength  float64 `json:"mean_length"`
	MeanQuality float64 `json:"mean_quality"`
	GCPercent   float64 `json:"gc_percent"`
}

// Summarize drains the record stream of r and returns per-file aggregates.
// Because FASTQ readers are forward-only, it consumes the reader: records
// already read are not included, and the reader is exhausted afterwards.
func Summarize(r *Reader) (Summary, error) {
	var (
		records    int
		bases      int64
		gc         int64
		qualitySum int64
	)
	for {
		rec, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Summary{}, err
		}
		records++
		bases += int64(len(rec.Sequence))
		gc += int64(strings.Count(rec.Sequence, "G") + strings.Count(rec.Sequence, "C"))
		for _, q := range rec.Quality {
			qualitySum += int64(q)
		}
	}

	s := Summary{Records: records}
	if records > 0 {
		s.MeanLength = float64(bases) / float64(records)
	}
	if bases > 0 {
		s.MeanQuality = float64(qualitySum) / float64(bases)
		s.GCPercent = float64(gc) / float64(bases) * 100
	}
	return s, nil
}
