package sequence

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownGapMode is returned by ParseGapMode for unrecognised names.
var ErrUnknownGapMode = errors.New("unknown gap mode")

// GapMode selects how gap characters are rewritten.
type GapMode int

const (
	GapKeep GapMode = iota
	GapReplace
	GapStrip
)

func (m GapMode) String() string {
	switch m {
	case GapReplace:
		return "replace"
	case GapStrip:
		return "strip"
	default:
		return "keep"
	}
}

// GapModes lists every mode in menu order.
func GapModes() []GapMode {
	return []GapMode{GapKeep, GapReplace, GapStrip}
}

// ParseGapMode converts a mode name to a GapMode.
func ParseGapMode(s string) (GapMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "keep", "manter":
		return GapKeep, nil
	case "replace", "substituir":
		return GapReplace, nil
	case "strip", "remove", "remover":
		return GapStrip, nil
	}
	return GapKeep, fmt.Errorf("%w: %q (want keep, replace or strip)", ErrUnknownGapMode, s)
}

// Apply rewrites a single body.
func (m GapMode) Apply(body string) string {
	switch m {
	case GapReplace:
		return strings.ReplaceAll(body, string(Gap), "N")
	case GapStrip:
		return strings.ReplaceAll(body, string(Gap), "")
	default:
		return body
	}
}

// TransformGaps returns a new dataset with every body rewritten by mode.
// Headers are kept and each body collapses to a single line. The input is not modified.
func TransformGaps(ds Dataset, mode GapMode) Dataset {
	out := make(Dataset, len(ds))
	for i, r := range ds {
		out[i] = Record{
			Header: r.Header,
			Lines:  []string{mode.Apply(r.Body())},
		}
	}
	return out
}
