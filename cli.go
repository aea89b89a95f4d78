package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/metcalfc/seqh/internal/config"
	"github.com/metcalfc/seqh/internal/export"
	"github.com/metcalfc/seqh/internal/sequence"
	"github.com/metcalfc/seqh/internal/source"
	"github.com/metcalfc/seqh/internal/state"
	"github.com/metcalfc/seqh/internal/store"
)

// Version info (injected via ldflags)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

type options struct {
	query      string
	gaps       string
	format     string
	outDir     string
	configPath string
	split      bool
	splitSet   bool
	summary    bool
	resume     bool
	verbose    bool
	version    bool
	files      []string
}

// batch reports whether the run needs no user interface.
func (o *options) batch() bool {
	return o.format != "" || o.summary
}

func parseFlags(name string, args []string, stderr io.Writer) (*options, error) {
	opts := &options{}
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.query, "q", "", "Search query applied before export")
	fs.StringVar(&opts.gaps, "gaps", "", "Gap handling applied after loading: keep, replace or strip")
	fs.StringVar(&opts.format, "export", "", "Export format (FASTA, TXT, CSV, JSON); runs without the UI")
	fs.StringVar(&opts.outDir, "o", "", "Destination directory for exports (default: last used, else .)")
	fs.StringVar(&opts.configPath, "config", "", "Path to config.json (default: "+config.DefaultPath()+")")
	fs.BoolVar(&opts.split, "split", false, "Write one file per sequence")
	fs.BoolVar(&opts.summary, "summary", false, "Print an overview of the loaded sequences and exit")
	fs.BoolVar(&opts.resume, "resume", false, "Reopen the files of the previous session when none are given")
	fs.BoolVar(&opts.verbose, "verbose", false, "Enable debug logging")
	fs.BoolVar(&opts.version, "v", false, "Show version information")
	fs.BoolVar(&opts.version, "version", false, "Show version information")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "%s - Sequence Handler\n\n", name)
		fmt.Fprintf(stderr, "Usage:\n")
		fmt.Fprintf(stderr, "  %s [options] [file ...]\n\n", name)
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nInput formats:\n")
		for _, f := range source.SupportedFormats() {
			fmt.Fprintf(stderr, "  %s\n", f)
		}
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  %s a.fasta b.fa                       Browse sequences from two files\n", name)
		fmt.Fprintf(stderr, "  %s -summary reads.fasta.gz            Print counts, lengths and types\n", name)
		fmt.Fprintf(stderr, "  %s -q \"human dna\" -export csv a.fasta  Export matching sequences to CSV\n", name)
		fmt.Fprintf(stderr, "  %s -gaps strip -export fasta -split -o out aln.fasta\n", name)
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "split" {
			opts.splitSet = true
		}
	})
	opts.files = fs.Args()
	return opts, nil
}

// app bundles the services shared by every front end.
type app struct {
	cfg      config.Config
	log      *log.Logger
	store    *store.SequenceStore
	state    *state.StateStore
	closeLog func()
}

func newApp(opts *options, interactive bool, stderr io.Writer) (*app, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	out, closeLog, logErr := logOutput(cfg, interactive, stderr)
	logger := newLogger(cfg, opts.verbose, out)
	if logErr != nil {
		logger.Warn("log_file specified but could not be opened", "path", cfg.LogFile, "err", logErr)
	}
	logger.Debug("loaded config", "log_level", cfg.LogLevel, "log_file", cfg.LogFile,
		"default_format", cfg.DefaultFormat, "split", cfg.Split, "preview_width", cfg.PreviewWidth)

	a := &app{
		cfg:      cfg,
		log:      logger,
		store:    store.New(logger),
		closeLog: closeLog,
	}

	st, err := state.NewStateStore()
	if err != nil {
		logger.Warn("session state unavailable", "err", err)
	} else {
		a.state = st
	}
	return a, nil
}

func (a *app) Close() {
	if a.closeLog != nil {
		a.closeLog()
	}
}

func (a *app) session() state.Session {
	if a.state == nil {
		return state.Session{}
	}
	return a.state.Session()
}

// initialFiles returns the files named on the command line, or the previous
// session's files when resuming.
func (a *app) initialFiles(opts *options) []string {
	if len(opts.files) > 0 || !opts.resume {
		return opts.files
	}
	return a.session().Files
}

// initialGaps returns the -gaps flag, or the previous session's gap mode when
// resuming its files.
func (a *app) initialGaps(opts *options) string {
	if opts.gaps != "" || len(opts.files) > 0 || !opts.resume {
		return opts.gaps
	}
	if g := a.session().GapMode; g != sequence.GapKeep.String() {
		return g
	}
	return ""
}

// start loads the initial files and applies the initial gap mode for an
// interactive session.
func (a *app) start(opts *options) error {
	files, gaps := a.initialFiles(opts), a.initialGaps(opts)
	if gaps != "" {
		if _, err := sequence.ParseGapMode(gaps); err != nil {
			return err
		}
	}
	if len(files) > 0 {
		if err := a.load(files); err != nil {
			return err
		}
	}
	if gaps != "" {
		if _, err := a.transformGaps(gaps); err != nil {
			return err
		}
	}
	return nil
}

// load replaces the dataset and remembers the files for the next session.
func (a *app) load(paths []string) error {
	if err := a.store.Load(paths); err != nil {
		return err
	}
	if a.state != nil {
		if err := a.state.SetFiles(paths); err != nil {
			a.log.Warn("failed to save session", "err", err)
		}
	}
	return nil
}

func (a *app) transformGaps(name string) (sequence.GapMode, error) {
	mode, err := sequence.ParseGapMode(name)
	if err != nil {
		return mode, err
	}
	a.store.TransformGaps(mode)
	if a.state != nil {
		if err := a.state.SetGapMode(mode.String()); err != nil {
			a.log.Warn("failed to save session", "err", err)
		}
	}
	return mode, nil
}

// exportDefaults returns the format, split flag and directory to offer for an export.
// The last session's choices win over the config defaults.
func (a *app) exportDefaults() (string, bool, string) {
	format, split := a.cfg.DefaultFormat, a.cfg.Split
	sess := a.session()
	if sess.Format != "" {
		format, split = sess.Format, sess.Split
	}
	dir := sess.ExportDir
	if dir == "" {
		dir = "."
	}
	return format, split, dir
}

func (a *app) export(format string, split bool, dir string) ([]string, error) {
	f, err := export.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	mode := export.Single
	if split {
		mode = export.Multi
	}
	paths, err := a.store.Export(f, mode, dir)
	if err != nil {
		return paths, err
	}
	if a.state != nil {
		if err := a.state.SetExport(dir, f.Name(), split); err != nil {
			a.log.Warn("failed to save session", "err", err)
		}
	}
	return paths, nil
}

// runBatch loads, filters, transforms and exports without a user interface.
// It returns the process exit status.
func runBatch(opts *options, stdout, stderr io.Writer) int {
	a, err := newApp(opts, false, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer a.Close()

	if err := a.batch(opts, stdout); err != nil {
		a.log.Error("batch run failed", "err", err)
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func (a *app) batch(opts *options, stdout io.Writer) error {
	files, gaps := a.initialFiles(opts), a.initialGaps(opts)
	if len(files) == 0 {
		return errors.New("no input files given")
	}

	// Reject bad tokens before anything is read or the session is touched.
	if gaps != "" {
		if _, err := sequence.ParseGapMode(gaps); err != nil {
			return err
		}
	}
	if !opts.summary {
		if _, err := export.ParseFormat(opts.format); err != nil {
			return err
		}
	}

	if err := a.load(files); err != nil {
		return err
	}

	if gaps != "" {
		if _, err := a.transformGaps(gaps); err != nil {
			return err
		}
	}

	if opts.summary {
		fmt.Fprint(stdout, a.store.Overview().String())
		return nil
	}

	if strings.TrimSpace(opts.query) != "" {
		if res, _ := a.store.Search(opts.query); res.Empty() {
			return fmt.Errorf("no sequences match %q", opts.query)
		}
	}
	a.store.MarkView(true)

	_, _, dir := a.exportDefaults()
	split := a.cfg.Split
	if opts.splitSet {
		split = opts.split
	}
	if opts.outDir != "" {
		dir = opts.outDir
	}

	paths, err := a.export(opts.format, split, dir)
	if err != nil {
		return err
	}
	for _, p := range paths {
		fmt.Fprintln(stdout, p)
	}
	return nil
}
