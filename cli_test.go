package main

import (
	"bytes"
	"errors"
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testFASTA = ">seq1 human\nAC-GT\n>seq2 mouse\nACGU\n>seq3\nACGX\n"

// isolate points config and session state at temporary directories.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_STATE_HOME", t.TempDir())
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return p
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	return string(data)
}

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		batch     bool
		split     bool
		splitSet  bool
		files     []string
		wantQuery string
	}{
		{name: "files only", args: []string{"a.fa", "b.fa"}, files: []string{"a.fa", "b.fa"}},
		{name: "export", args: []string{"-export", "csv", "a.fa"}, batch: true, files: []string{"a.fa"}},
		{name: "summary", args: []string{"-summary", "a.fa"}, batch: true, files: []string{"a.fa"}},
		{name: "split set", args: []string{"-split", "-export", "json", "a.fa"}, batch: true, split: true, splitSet: true, files: []string{"a.fa"}},
		{name: "split false", args: []string{"-split=false", "-export", "json"}, batch: true, splitSet: true},
		{name: "query", args: []string{"-q", "human dna"}, wantQuery: "human dna"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := parseFlags("seqh", tt.args, io.Discard)
			if err != nil {
				t.Fatalf("parseFlags: %v", err)
			}
			if opts.batch() != tt.batch {
				t.Errorf("batch() = %v, want %v", opts.batch(), tt.batch)
			}
			if opts.split != tt.split || opts.splitSet != tt.splitSet {
				t.Errorf("split = %v/%v, want %v/%v", opts.split, opts.splitSet, tt.split, tt.splitSet)
			}
			if strings.Join(opts.files, ",") != strings.Join(tt.files, ",") {
				t.Errorf("files = %v, want %v", opts.files, tt.files)
			}
			if opts.query != tt.wantQuery {
				t.Errorf("query = %q, want %q", opts.query, tt.wantQuery)
			}
		})
	}
}

func TestParseFlagsHelp(t *testing.T) {
	var stderr bytes.Buffer
	_, err := parseFlags("seqh", []string{"-h"}, &stderr)
	if !errors.Is(err, flag.ErrHelp) {
		t.Fatalf("err = %v, want flag.ErrHelp", err)
	}
	for _, want := range []string{"Usage:", "-export", "Gzip (.gz, .gzip)", "HTML (.html, .htm)"} {
		if !strings.Contains(stderr.String(), want) {
			t.Errorf("usage missing %q:\n%s", want, stderr.String())
		}
	}
}

func TestParseFlagsUnknown(t *testing.T) {
	if _, err := parseFlags("seqh", []string{"-nope"}, io.Discard); err == nil {
		t.Error("expected error for unknown flag")
	}
}

func runArgs(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	opts, err := parseFlags("seqh", args, io.Discard)
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	var out, errOut bytes.Buffer
	code = runBatch(opts, &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestRunBatchSummary(t *testing.T) {
	isolate(t)
	in := writeFile(t, t.TempDir(), "in.fasta", testFASTA)

	code, out, stderr := runArgs(t, "-summary", in)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr)
	}
	want := "Total sequences: 3 (DNA: 1, RNA: 1, ERROR: 1)\n\n" +
		"Seq 1: >seq1 human\n   Length: 5 | Type: DNA\n\n" +
		"Seq 2: >seq2 mouse\n   Length: 4 | Type: RNA\n\n" +
		"Seq 3: >seq3\n   Length: 4 | Type: ERROR\n\n"
	if out != want {
		t.Errorf("summary =\n%q\nwant\n%q", out, want)
	}
}

func TestRunBatchSummaryAfterGaps(t *testing.T) {
	isolate(t)
	in := writeFile(t, t.TempDir(), "in.fasta", testFASTA)

	code, out, stderr := runArgs(t, "-gaps", "strip", "-summary", in)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr)
	}
	if !strings.Contains(out, "Seq 1: >seq1 human\n   Length: 4 | Type: DNA") {
		t.Errorf("gaps not stripped before summary:\n%s", out)
	}
}

func TestRunBatchExportCSV(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	in := writeFile(t, dir, "in.fasta", testFASTA)
	outDir := t.TempDir()

	code, out, stderr := runArgs(t, "-q", "human", "-export", "csv", "-o", outDir, in)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr)
	}
	path := filepath.Join(outDir, "selected_sequences.csv")
	if strings.TrimSpace(out) != path {
		t.Errorf("stdout = %q, want %q", out, path)
	}
	want := "Header,Sequence,Type\r\n>seq1 human,AC-GT,DNA\r\n"
	if got := readFile(t, path); got != want {
		t.Errorf("csv = %q, want %q", got, want)
	}
}

func TestRunBatchExportSplit(t *testing.T) {
	isolate(t)
	in := writeFile(t, t.TempDir(), "in.fasta", testFASTA)
	outDir := t.TempDir()

	code, out, stderr := runArgs(t, "-gaps", "replace", "-export", "fasta", "-split", "-o", outDir, in)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr)
	}
	if lines := strings.Fields(out); len(lines) != 3 {
		t.Fatalf("stdout = %q, want 3 paths", out)
	}
	if got := readFile(t, filepath.Join(outDir, "sequence_1.fasta")); got != ">seq1 human\nACNGT\n" {
		t.Errorf("sequence_1.fasta = %q", got)
	}
	if got := readFile(t, filepath.Join(outDir, "sequence_3.fasta")); got != ">seq3\nACGX\n" {
		t.Errorf("sequence_3.fasta = %q", got)
	}
}

func TestRunBatchSplitFromConfig(t *testing.T) {
	isolate(t)
	cfg := writeFile(t, t.TempDir(), "config.json", `{"split":true}`)
	in := writeFile(t, t.TempDir(), "in.fasta", testFASTA)
	outDir := t.TempDir()

	code, _, stderr := runArgs(t, "-config", cfg, "-export", "txt", "-o", outDir, in)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr)
	}
	if _, err := os.Stat(filepath.Join(outDir, "sequence_2.txt")); err != nil {
		t.Errorf("config split not applied: %v", err)
	}

	// An explicit flag wins over the config.
	outDir = t.TempDir()
	code, _, stderr = runArgs(t, "-config", cfg, "-split=false", "-export", "txt", "-o", outDir, in)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr)
	}
	if _, err := os.Stat(filepath.Join(outDir, "selected_sequences.txt")); err != nil {
		t.Errorf("-split=false not applied: %v", err)
	}
}

func TestRunBatchErrors(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	in := writeFile(t, dir, "in.fasta", testFASTA)
	badCfg := writeFile(t, dir, "bad.json", `{"log_level":"loud"}`)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no files", []string{"-export", "csv"}, "no input files"},
		{"missing file", []string{"-export", "csv", "-o", dir, filepath.Join(dir, "nope.fa")}, "nope.fa"},
		{"no match", []string{"-q", "zebrafish", "-export", "csv", "-o", dir, in}, "no sequences match"},
		{"bad format", []string{"-export", "xml", "-o", dir, in}, "unsupported"},
		{"bad gaps", []string{"-gaps", "squash", "-export", "csv", "-o", dir, in}, "gap"},
		{"missing destination", []string{"-export", "csv", "-o", filepath.Join(dir, "missing"), in}, "missing"},
		{"bad config", []string{"-config", badCfg, "-summary", in}, "config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := runArgs(t, tt.args...)
			if code != 1 {
				t.Errorf("exit = %d, want 1", code)
			}
			if !strings.Contains(strings.ToLower(stderr), tt.want) {
				t.Errorf("stderr %q does not mention %q", stderr, tt.want)
			}
		})
	}
	if _, err := os.Stat(filepath.Join(dir, "selected_sequences.csv")); !os.IsNotExist(err) {
		t.Errorf("failed runs left an export behind: %v", err)
	}
}

func TestRunBatchRejectsBeforeLoading(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"bad format", []string{"-export", "xml", "-gaps", "strip"}, "unsupported"},
		{"bad gaps", []string{"-gaps", "squash", "-export", "csv"}, "gap"},
		{"bad gaps with summary", []string{"-gaps", "squash", "-summary"}, "gap"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			in := writeFile(t, t.TempDir(), "in.fasta", testFASTA)

			code, _, stderr := runArgs(t, append(tt.args, "-o", t.TempDir(), in)...)
			if code != 1 || !strings.Contains(strings.ToLower(stderr), tt.want) {
				t.Errorf("exit = %d, stderr %q", code, stderr)
			}
			session := filepath.Join(os.Getenv("XDG_STATE_HOME"), "seqh", "session.json")
			if _, err := os.Stat(session); !os.IsNotExist(err) {
				t.Errorf("rejected run wrote %s: %v", session, err)
			}
		})
	}
}

func TestRunBatchResume(t *testing.T) {
	isolate(t)
	in := writeFile(t, t.TempDir(), "in.fasta", testFASTA)
	outDir := t.TempDir()

	if code, _, stderr := runArgs(t, "-gaps", "strip", "-export", "json", "-o", outDir, in); code != 0 {
		t.Fatalf("exit %d: %s", code, stderr)
	}

	// Files and gap mode come from the previous session.
	code, out, stderr := runArgs(t, "-resume", "-summary")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr)
	}
	if !strings.Contains(out, "Total sequences: 3") || !strings.Contains(out, "Length: 4 | Type: DNA") {
		t.Errorf("resumed summary =\n%s", out)
	}

	// Without -resume nothing is reloaded.
	if code, _, _ := runArgs(t, "-summary"); code != 1 {
		t.Errorf("exit = %d, want 1 without files", code)
	}
}

func TestExportDefaults(t *testing.T) {
	isolate(t)
	opts, _ := parseFlags("seqh", nil, io.Discard)
	a, err := newApp(opts, true, io.Discard)
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}
	defer a.Close()

	format, split, dir := a.exportDefaults()
	if format != "FASTA" || split || dir != "." {
		t.Errorf("defaults = %q, %v, %q", format, split, dir)
	}

	in := writeFile(t, t.TempDir(), "in.fasta", testFASTA)
	outDir := t.TempDir()
	if err := a.load([]string{in}); err != nil {
		t.Fatalf("load: %v", err)
	}
	a.store.MarkView(true)
	if _, err := a.export("json", true, outDir); err != nil {
		t.Fatalf("export: %v", err)
	}

	format, split, dir = a.exportDefaults()
	if format != "JSON" || !split || dir != outDir {
		t.Errorf("after export = %q, %v, %q", format, split, dir)
	}
}

func TestLogOutput(t *testing.T) {
	isolate(t)
	var stderr bytes.Buffer
	logPath := filepath.Join(t.TempDir(), "seqh.log")

	opts, _ := parseFlags("seqh", nil, io.Discard)
	cfgPath := writeFile(t, t.TempDir(), "config.json", `{"log_file":"`+logPath+`","log_level":"debug"}`)
	opts.configPath = cfgPath

	a, err := newApp(opts, true, &stderr)
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}
	a.log.Info("hello", "records", 3)
	a.Close()

	if stderr.Len() != 0 {
		t.Errorf("interactive run wrote to stderr: %q", stderr.String())
	}
	got := readFile(t, logPath)
	if !strings.Contains(got, "hello") || !strings.Contains(got, "records=3") {
		t.Errorf("log file = %q", got)
	}
}
