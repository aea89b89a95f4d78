package sequence

import (
	"bufio"
	"io"
	"strings"
)

// maxLine allows single-line sequences of whole chromosomes.
const maxLine = 64 * 1024 * 1024

// Parse splits raw text into records.
// Lines are trimmed of surrounding whitespace. Lines before the first header are dropped.
// A line longer than the scanner limit ends parsing with the records read so far;
// use ParseReader to see that error.
func Parse(text string) Dataset {
	ds, _ := ParseReader(strings.NewReader(text))
	return ds
}

// ParseReader reads r to the end and returns the records it contains.
func ParseReader(r io.Reader) (Dataset, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLine)

	var records Dataset
	var current *Record

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if len(line) > 0 && line[0] == Marker {
			if current != nil {
				records = append(records, *current)
			}
			current = &Record{Header: line}
			continue
		}

		if current == nil {
			continue
		}
		current.Lines = append(current.Lines, line)
	}

	if current != nil {
		records = append(records, *current)
	}

	return records, scanner.Err()
}

// Format writes the dataset back to FASTA text, one body line per record.
func (d Dataset) Format() string {
	var sb strings.Builder
	for _, r := range d {
		sb.WriteString(r.Header)
		sb.WriteByte('\n')
		sb.WriteString(r.Body())
		sb.WriteByte('\n')
	}
	return sb.String()
}
