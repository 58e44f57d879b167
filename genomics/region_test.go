package genomics

import "testing"

func TestRegion_Overlaps(t *testing.T) {
	testCases := []struct {
		name       string
		region     Region
		start, end int64
		want       bool
	}{
		{"inside", Region{Chrom: "1", Start: 100, End: 200}, 120, 150, true},
		{"spanning", Region{Chrom: "1", Start: 100, End: 200}, 50, 300, true},
		{"touching start", Region{Chrom: "1", Start: 100, End: 200}, 50, 100, false},
		{"touching end", Region{Chrom: "1", Start: 100, End: 200}, 200, 250, false},
		{"one base overlap", Region{Chrom: "1", Start: 100, End: 200}, 199, 300, true},
		{"zero end is unbounded", Region{Chrom: "1", Start: 100}, 500, 600, true},
		{"before unbounded start", Region{Chrom: "1", Start: 100}, 50, 100, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.region.Overlaps(tc.start, tc.end); got != tc.want {
				t.Errorf("Overlaps(%d, %d): got %t, want %t", tc.start, tc.end, got, tc.want)
			}
		})
	}
}

func TestRegion_Contains(t *testing.T) {
	region := Region{Chrom: "1", Start: 100, End: 200}

	testCases := []struct {
		pos  int64
		want bool
	}{
		{99, false},
		{100, true},
		{199, true},
		{200, false},
	}
	for _, tc := range testCases {
		if got := region.Contains(tc.pos); got != tc.want {
			t.Errorf("Contains(%d): got %t, want %t", tc.pos, got, tc.want)
		}
	}

	if !WholeChromosome("1").Contains(1 << 40) {
		t.Errorf("WholeChromosome should contain any position")
	}
}
