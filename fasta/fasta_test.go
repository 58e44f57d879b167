package fasta

import (
	"errors"
	"io"
	"os"
	"reflect"
	"testing"

	"github.com/genobase/bioread/genomics"
)

func TestNext_WrappedSequences(t *testing.T) {
	r, err := Open("testdata/simple.fa")
	if err != nil {
		t.Fatalf("Failed to open testdata: %v", err)
	}
	defer r.Close()

	want := []*genomics.SequenceRecord{
		{ID: "seq1 first sequence", Sequence: "ACGTACGTACGT"},
		{ID: "seq2", Sequence: "GGGGCCCCA"},
	}
	for i, w := range want {
		rec, err := r.Next()
		if err != nil {
			t.Fatalf("Next() #%d returned error: %v", i, err)
		}
		if !reflect.DeepEqual(rec, w) {
			t.Errorf("Wrong record #%d: got %+v, want %+v", i, rec, w)
		}
	}
	if _, err := r.Next(); err != io.EOF {
		t.Errorf("Next() past last record: got %v, want io.EOF", err)
	}
}

func TestNext_SkipsInvalidSequence(t *testing.T) {
	r, err := Open("testdata/dirty.fa")
	if err != nil {
		t.Fatalf("Failed to open testdata: %v", err)
	}
	defer r.Close()

	rec, err := r.Next()
	if err != nil {
		t.Fatalf("Next() returned error: %v", err)
	}
	if got, want := rec.ID, "good1"; got != want {
		t.Errorf("Wrong first record: got %q, want %q", got, want)
	}

	_, err = r.Next()
	var verr *genomics.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Next() on bad record: got %v, want *genomics.ValidationError", err)
	}
	if got, want := verr.ID, "bad"; got != want {
		t.Errorf("Wrong offending record: got %q, want %q", got, want)
	}

	// The stream must survive the bad record.
	rec, err = r.Next()
	if err != nil {
		t.Fatalf("Next() after bad record returned error: %v", err)
	}
	if got, want := rec.Sequence, "TTNN-"; got != want {
		t.Errorf("Wrong sequence after bad record: got %q, want %q", got, want)
	}
	if _, err := r.Next(); err != io.EOF {
		t.Errorf("Next() past last record: got %v, want io.EOF", err)
	}
}

func TestCountAndMeanLength(t *testing.T) {
	testCases := []struct {
		file  string
		count int
		mean  float64
	}{
		{"testdata/simple.fa", 2, 10.5},
		{"testdata/dirty.fa", 2, 4.5}, // the invalid record is skipped
	}

	for _, tc := range testCases {
		t.Run(tc.file, func(t *testing.T) {
			r, err := Open(tc.file)
			if err != nil {
				t.Fatalf("Failed to open testdata: %v", err)
			}
			defer r.Close()

			for i := 0; i < 2; i++ {
				if got, err := r.Count(); err != nil {
					t.Fatalf("Count() returned error: %v", err)
				} else if got != tc.count {
					t.Errorf("Wrong count: got %d, want %d", got, tc.count)
				}
				if got, err := r.MeanLength(); err != nil {
					t.Fatalf("MeanLength() returned error: %v", err)
				} else if got != tc.mean {
					t.Errorf("Wrong mean length: got %v, want %v", got, tc.mean)
				}
			}
		})
	}
}

func TestNext_TwoReadersAgree(t *testing.T) {
	read := func() []*genomics.SequenceRecord {
		r, err := Open("testdata/simple.fa")
		if err != nil {
			t.Fatalf("Failed to open testdata: %v", err)
		}
		defer r.Close()

		var records []*genomics.SequenceRecord
		for {
			rec, err := r.Next()
			if err == io.EOF {
				return records
			}
			if err != nil {
				t.Fatalf("Next() returned error: %v", err)
			}
			records = append(records, rec)
		}
	}

	first, second := read(), read()
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Independent readers disagree: %+v vs %+v", first, second)
	}
}

func TestOpen_MissingFile(t *testing.T) {
	if _, err := Open("testdata/no-such-file.fa"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Open() on missing file: got %v, want os.ErrNotExist", err)
	}
}

func TestNext_AfterClose(t *testing.T) {
	r, err := Open("testdata/simple.fa")
	if err != nil {
		t.Fatalf("Failed to open testdata: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close() returned error: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Errorf("Second Close() returned error: %v", err)
	}
	if _, err := r.Next(); err != genomics.ErrClosed {
		t.Errorf("Next() after Close: got %v, want genomics.ErrClosed", err)
	}
}
