package sequence

import (
	"fmt"
	"strings"
)

// Molecule is the kind of genetic material a body holds.
type Molecule int

const (
	Error Molecule = iota
	DNA
	RNA
)

func (m Molecule) String() string {
	switch m {
	case DNA:
		return "DNA"
	case RNA:
		return "RNA"
	default:
		return "ERROR"
	}
}

// ParseMolecule converts a type name back to a Molecule. Matching ignores case.
func ParseMolecule(s string) (Molecule, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DNA":
		return DNA, nil
	case "RNA":
		return RNA, nil
	case "ERROR":
		return Error, nil
	}
	return Error, fmt.Errorf("unknown molecule type %q", s)
}

// Classify determines the molecule type of body.
// Gaps are ignored and case does not matter. A body made only of A, C, G and T is DNA,
// one made only of A, C, G and U is RNA, and anything else (including an empty body)
// is Error.
func Classify(body string) Molecule {
	var t, u, n int
	for i := 0; i < len(body); i++ {
		switch body[i] {
		case Gap:
			continue
		case 'A', 'a', 'C', 'c', 'G', 'g':
		case 'T', 't':
			t++
		case 'U', 'u':
			u++
		default:
			return Error
		}
		n++
	}

	switch {
	case n == 0:
		return Error
	case u == 0:
		return DNA
	case t == 0:
		return RNA
	}
	return Error
}
