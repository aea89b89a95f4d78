// Package export writes selected sequence records to FASTA, TXT, CSV or JSON files.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/metcalfc/seqh/internal/sequence"
)

// Format serializes records in one output format.
type Format interface {
	Name() string
	Extension() string
	// WriteAll writes records as the content of a single file.
	WriteAll(w io.Writer, recs []sequence.Record) error
	// WriteOne writes the content of a file holding only r.
	WriteOne(w io.Writer, r sequence.Record) error
}

var (
	FASTA Format = blockFormat{name: "FASTA", ext: ".fasta"}
	TXT   Format = blockFormat{name: "TXT", ext: ".txt"}
	CSV   Format = csvFormat{}
	JSON  Format = jsonFormat{}
)

var registry []Format

func init() {
	Register(FASTA)
	Register(TXT)
	Register(CSV)
	Register(JSON)
}

// Register adds an output format.
func Register(f Format) {
	registry = append(registry, f)
}

// Formats returns every registered format in menu order.
func Formats() []Format {
	return append([]Format(nil), registry...)
}

// FormatNames returns the names of every registered format.
func FormatNames() []string {
	names := make([]string, len(registry))
	for i, f := range registry {
		names[i] = f.Name()
	}
	return names
}

// ParseFormat looks up a format by name, ignoring case.
func ParseFormat(name string) (Format, error) {
	want := strings.ToUpper(strings.TrimSpace(name))
	for _, f := range registry {
		if f.Name() == want {
			return f, nil
		}
	}
	return nil, validation(fmt.Errorf("%w: %q", ErrUnsupportedFormat, name))
}

// blockFormat writes the header line followed by the body on one line.
type blockFormat struct {
	name string
	ext  string
}

func (f blockFormat) Name() string      { return f.name }
func (f blockFormat) Extension() string { return f.ext }

func (f blockFormat) WriteAll(w io.Writer, recs []sequence.Record) error {
	for _, r := range recs {
		if err := f.WriteOne(w, r); err != nil {
			return err
		}
	}
	return nil
}

func (f blockFormat) WriteOne(w io.Writer, r sequence.Record) error {
	_, err := io.WriteString(w, r.Header+"\n"+r.Body()+"\n")
	return err
}

var csvHeader = []string{"Header", "Sequence", "Type"}

type csvFormat struct{}

func (csvFormat) Name() string      { return "CSV" }
func (csvFormat) Extension() string { return ".csv" }

func (csvFormat) WriteAll(w io.Writer, recs []sequence.Record) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range recs {
		body := r.Body()
		if err := cw.Write([]string{r.Header, body, sequence.Classify(body).String()}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func (f csvFormat) WriteOne(w io.Writer, r sequence.Record) error {
	return f.WriteAll(w, []sequence.Record{r})
}

// jsonRecord fixes the key order of exported objects.
type jsonRecord struct {
	Header   string `json:"header"`
	Sequence string `json:"sequence"`
	Type     string `json:"type"`
}

func toJSON(r sequence.Record) jsonRecord {
	body := r.Body()
	return jsonRecord{Header: r.Header, Sequence: body, Type: sequence.Classify(body).String()}
}

type jsonFormat struct{}

func (jsonFormat) Name() string      { return "JSON" }
func (jsonFormat) Extension() string { return ".json" }

func (jsonFormat) WriteAll(w io.Writer, recs []sequence.Record) error {
	out := make([]jsonRecord, len(recs))
	for i, r := range recs {
		out[i] = toJSON(r)
	}
	return encodeJSON(w, out)
}

func (jsonFormat) WriteOne(w io.Writer, r sequence.Record) error {
	return encodeJSON(w, toJSON(r))
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	return enc.Encode(v)
}
