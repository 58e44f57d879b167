// Package stats holds the in-memory tables produced by the reader aggregate
// operations.  Rendering a table is the caller's concern.
package stats

import "sort"

// Row is a single (label, count) entry of a Table.
type Row struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Table is an ordered sequence of rows with unique labels, sorted by label.
type Table []Row

// FromCounts builds a Table from a counter map.
func FromCounts(counts map[string]int) Table {
	t := make(Table, 0, len(counts))
	for label, count := range counts {
		t = append(t, Row{Label: label, Count: count})
	}
	sort.Slice(t, func(i, j int) bool { return t[i].Label < t[j].Label })
	return t
}

// Labels returns the table labels in order.
func (t Table) Labels() []string {
	labels := make([]string, len(t))
	for i, row := range t {
		labels[i] = row.Label
	}
	return labels
}

// Count returns the count stored for label, or zero if the label is absent.
func (t Table) Count(label string) int {
	i := sort.Search(len(t), func(i int) bool { return t[i].Label >= label })
	if i < len(t) && t[i].Label == label {
		return t[i].Count
	}
	return 0
}

// Total returns the sum of all counts in the table.
func (t Table) Total() int {
	var total int
	for _, row := range t {
		total += row.Count
	}
	return total
}
