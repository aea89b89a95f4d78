package sequence

import "strings"

// ViewMode tells whether a search result is the whole dataset or a filtered subset.
type ViewMode int

const (
	All ViewMode = iota
	Filtered
)

func (m ViewMode) String() string {
	if m == Filtered {
		return "FILTERED"
	}
	return "ALL"
}

// Result is the outcome of a search.
type Result struct {
	Mode    ViewMode
	Indices []int
}

// Empty reports whether a filtered search matched nothing.
func (r Result) Empty() bool {
	return r.Mode == Filtered && len(r.Indices) == 0
}

// AllOf returns the unfiltered view over n records.
func AllOf(n int) Result {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return Result{Mode: All, Indices: idx}
}

// Tokenize splits a query on whitespace and lowercases each term.
func Tokenize(query string) []string {
	terms := strings.Fields(query)
	for i, t := range terms {
		terms[i] = strings.ToLower(t)
	}
	return terms
}

// Search returns the indices of records matching every term of query.
// A term matches when it occurs in the header, the body or the molecule type,
// ignoring case. An empty query yields the All view; a query that matches
// nothing yields an empty Filtered view.
func Search(ds Dataset, query string) Result {
	terms := Tokenize(query)
	if len(terms) == 0 {
		return AllOf(len(ds))
	}

	matches := []int{}
	for i, r := range ds {
		body := r.Body()
		fields := [3]string{
			strings.ToLower(r.Header),
			strings.ToLower(body),
			strings.ToLower(Classify(body).String()),
		}
		if matchAll(terms, fields) {
			matches = append(matches, i)
		}
	}
	return Result{Mode: Filtered, Indices: matches}
}

func matchAll(terms []string, fields [3]string) bool {
	for _, t := range terms {
		if !strings.Contains(fields[0], t) &&
			!strings.Contains(fields[1], t) &&
			!strings.Contains(fields[2], t) {
			return false
		}
	}
	return true
}
