// Package sequence provides the in-memory model for FASTA-like sequence records
// and the operations over it: parsing, classification, search and gap handling.
package sequence

import "strings"

// Marker starts every header line.
const Marker = '>'

// Gap is the alignment gap symbol.
const Gap = '-'

// Record is one header plus the body lines that followed it.
type Record struct {
	// Header is the full header line, marker included.
	Header string
	Lines  []string
}

// Dataset is the ordered collection of loaded records.
type Dataset []Record

// NewRecord creates a Record from a header line and its body lines.
func NewRecord(header string, lines ...string) Record {
	return Record{Header: header, Lines: lines}
}

// Body returns the logical sequence: all body lines joined without separators.
func (r Record) Body() string {
	switch len(r.Lines) {
	case 0:
		return ""
	case 1:
		return r.Lines[0]
	}
	return strings.Join(r.Lines, "")
}

// Name returns the header text without the leading marker.
func (r Record) Name() string {
	if len(r.Header) > 0 && r.Header[0] == Marker {
		return r.Header[1:]
	}
	return r.Header
}

// Len returns the length of the body.
func (r Record) Len() int {
	n := 0
	for _, l := range r.Lines {
		n += len(l)
	}
	return n
}

// Type classifies the record body.
func (r Record) Type() Molecule {
	return Classify(r.Body())
}

// Equal reports whether two records have the same header and body.
// Line structure is ignored.
func (r Record) Equal(o Record) bool {
	return r.Header == o.Header && r.Body() == o.Body()
}

// Equal reports whether both datasets hold equal records in the same order.
func (d Dataset) Equal(o Dataset) bool {
	if len(d) != len(o) {
		return false
	}
	for i := range d {
		if !d[i].Equal(o[i]) {
			return false
		}
	}
	return true
}
