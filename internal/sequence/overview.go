package sequence

import (
	"fmt"
	"strings"
)

// Entry summarises one record.
type Entry struct {
	Index  int
	Header string
	Length int
	Type   Molecule
}

// Overview summarises a dataset.
type Overview struct {
	Total   int
	Counts  map[Molecule]int
	Entries []Entry
}

// Summarize builds the overview of ds.
func Summarize(ds Dataset) Overview {
	ov := Overview{
		Total:   len(ds),
		Counts:  map[Molecule]int{DNA: 0, RNA: 0, Error: 0},
		Entries: make([]Entry, 0, len(ds)),
	}
	for i, r := range ds {
		body := r.Body()
		t := Classify(body)
		ov.Counts[t]++
		ov.Entries = append(ov.Entries, Entry{
			Index:  i,
			Header: r.Header,
			Length: len(body),
			Type:   t,
		})
	}
	return ov
}

// String renders the overview as a plain text report.
func (ov Overview) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Total sequences: %d (DNA: %d, RNA: %d, ERROR: %d)\n\n",
		ov.Total, ov.Counts[DNA], ov.Counts[RNA], ov.Counts[Error])
	for _, e := range ov.Entries {
		fmt.Fprintf(&sb, "Seq %d: %s\n   Length: %d | Type: %s\n\n", e.Index+1, e.Header, e.Length, e.Type)
	}
	return sb.String()
}
