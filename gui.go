//go:build gui

package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/metcalfc/seqh/internal/export"
	"github.com/metcalfc/seqh/internal/sequence"
)

type model struct {
	*app
	w fyne.Window

	list      *widget.List
	status    *widget.Label
	search    *widget.Entry
	formatSel *widget.Select
	splitChk  *widget.Check
	allChk    *widget.Check
}

func newModel(a *app, w fyne.Window) *model {
	m := &model{app: a, w: w}

	m.status = widget.NewLabel("")
	m.status.Alignment = fyne.TextAlignCenter

	m.list = widget.NewList(
		func() int { return len(m.store.View().Indices) },
		func() fyne.CanvasObject {
			return container.NewBorder(nil, nil, widget.NewCheck("", nil), nil,
				container.NewVBox(
					widget.NewLabel("Header"),
					widget.NewLabel("Sequence"),
				),
			)
		},
		m.updateRow,
	)
	m.list.OnSelected = func(id widget.ListItemID) {
		m.list.Unselect(id)
		view := m.store.View()
		if id < len(view.Indices) {
			if r, ok := m.store.Record(view.Indices[id]); ok {
				m.showText(r.Header, r.Body())
			}
		}
	}

	m.search = widget.NewEntry()
	m.search.SetPlaceHolder("Search header, sequence or type (all terms must match)")
	m.search.OnSubmitted = m.runSearch

	m.allChk = widget.NewCheck("Select all shown", func(on bool) {
		m.store.MarkView(on)
		m.refresh()
	})

	format, split, _ := a.exportDefaults()
	m.formatSel = widget.NewSelect(export.FormatNames(), nil)
	if f, err := export.ParseFormat(format); err == nil {
		m.formatSel.SetSelected(f.Name())
	} else {
		m.formatSel.SetSelectedIndex(0)
	}
	m.splitChk = widget.NewCheck("One file per sequence", nil)
	m.splitChk.SetChecked(split)

	return m
}

func (m *model) updateRow(id widget.ListItemID, obj fyne.CanvasObject) {
	view := m.store.View()
	if id >= len(view.Indices) {
		return
	}
	idx := view.Indices[id]
	r, ok := m.store.Record(idx)
	if !ok {
		return
	}

	row := obj.(*fyne.Container)
	labels := row.Objects[0].(*fyne.Container)
	check := row.Objects[1].(*widget.Check)

	// SetChecked fires OnChanged, so detach it while syncing
	check.OnChanged = nil
	check.SetChecked(m.store.Marked(idx))
	check.OnChanged = func(on bool) {
		m.store.SetMark(idx, on)
		m.updateStatus()
	}

	body := r.Body()
	headerLabel := labels.Objects[0].(*widget.Label)
	headerLabel.TextStyle.Bold = true
	headerLabel.SetText(fmt.Sprintf("%s   Type: %s   Length: %d", r.Header, sequence.Classify(body), len(body)))
	labels.Objects[1].(*widget.Label).SetText(preview(body, m.cfg.PreviewWidth))
}

func (m *model) runSearch(query string) {
	res, fellBack := m.store.Search(query)
	if fellBack {
		dialog.ShowInformation("No results",
			fmt.Sprintf("No sequence or header matched %q.\nShowing all sequences.", query), m.w)
	} else if res.Mode == sequence.All {
		m.search.SetText("")
	}
	m.list.ScrollToTop()
	m.refresh()
}

func (m *model) refresh() {
	m.list.Refresh()
	m.updateStatus()
}

func (m *model) updateStatus() {
	view := m.store.View()
	marked := 0
	for _, i := range view.Indices {
		if m.store.Marked(i) {
			marked++
		}
	}
	shown := "all shown"
	if view.Mode == sequence.Filtered {
		shown = fmt.Sprintf("%d matching %q", len(view.Indices), m.store.Query())
	}
	m.status.SetText(fmt.Sprintf("%d sequences (%s) | %d selected", m.store.Len(), shown, marked))
}

// openFile asks for a file and loads it on its own, or after the current files when add is set.
func (m *model) openFile(add bool) {
	dialog.ShowFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, m.w)
			return
		}
		if rc == nil {
			return
		}
		path := rc.URI().Path()
		rc.Close()

		paths := []string{path}
		if add {
			paths = append(m.store.Files(), path)
		}
		if err := m.load(paths); err != nil {
			dialog.ShowError(err, m.w)
			return
		}
		m.search.SetText("")
		m.allChk.SetChecked(false)
		m.refresh()
	}, m.w)
}

func (m *model) chooseGaps() {
	labels := []string{"Keep '-' (default)", "Replace with 'N'", "Remove gaps"}
	radio := widget.NewRadioGroup(labels, nil)
	radio.SetSelected(labels[0])

	content := container.NewVBox(
		widget.NewLabel("Gaps are currently shown as '-'. Select how to handle them:"),
		radio,
	)
	dialog.ShowCustomConfirm("Gaps", "Apply", "Cancel", content, func(ok bool) {
		if !ok {
			return
		}
		for i, l := range labels {
			if l != radio.Selected {
				continue
			}
			mode, err := m.transformGaps(sequence.GapModes()[i].String())
			if err != nil {
				dialog.ShowError(err, m.w)
				return
			}
			m.search.SetText("")
			m.refresh()
			dialog.ShowInformation("Gaps", fmt.Sprintf("Gaps processed with method: %s.", mode), m.w)
		}
	}, m.w)
}

func (m *model) exportSelected() {
	dialog.ShowFolderOpen(func(dir fyne.ListableURI, err error) {
		if err != nil {
			dialog.ShowError(err, m.w)
			return
		}
		if dir == nil {
			return
		}
		paths, err := m.export(m.formatSel.Selected, m.splitChk.Checked, dir.Path())
		switch {
		case errors.Is(err, export.ErrNoSelection):
			dialog.ShowInformation("Export", "No sequences selected.", m.w)
		case err != nil:
			m.log.Error("export failed", "err", err)
			dialog.ShowError(err, m.w)
		case m.splitChk.Checked:
			dialog.ShowInformation("Export", fmt.Sprintf("Saved %d files to '%s'.", len(paths), dir.Path()), m.w)
		default:
			dialog.ShowInformation("Export", fmt.Sprintf("Saved to '%s'.", paths[0]), m.w)
		}
	}, m.w)
}

func (m *model) showText(title, text string) {
	label := widget.NewLabel(text)
	label.Wrapping = fyne.TextWrapBreak
	d := dialog.NewCustom(title, "Close", container.NewVScroll(label), m.w)
	d.Resize(fyne.NewSize(700, 500))
	d.Show()
}

func (m *model) content() fyne.CanvasObject {
	top := container.NewVBox(
		m.status,
		container.NewBorder(nil, nil, nil, widget.NewButton("Clear", func() { m.runSearch("") }), m.search),
	)
	bottom := container.NewHBox(
		m.allChk,
		widget.NewButton("Gaps...", m.chooseGaps),
		widget.NewButton("Overview", func() { m.showText("Overview", m.store.Overview().String()) }),
		widget.NewLabel("Format:"),
		m.formatSel,
		m.splitChk,
		widget.NewButton("Export...", m.exportSelected),
	)
	return container.NewBorder(top, bottom, nil, nil, m.list)
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	opts, err := parseFlags("seqh-gui", args, os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		return 2
	}

	if opts.version {
		fmt.Printf("seqh-gui %s (commit: %s, built: %s)\n", version, commit, date)
		return 0
	}

	if opts.batch() {
		return runBatch(opts, os.Stdout, os.Stderr)
	}

	a, err := newApp(opts, true, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer a.Close()

	if err := a.start(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	fa := fyneapp.New()
	w := fa.NewWindow("seqh - Sequence Handler")
	m := newModel(a, w)

	w.SetMainMenu(fyne.NewMainMenu(
		fyne.NewMenu("File",
			fyne.NewMenuItem("Open...", func() { m.openFile(false) }),
			fyne.NewMenuItem("Add file...", func() { m.openFile(true) }),
			fyne.NewMenuItemSeparator(),
			fyne.NewMenuItem("Export...", m.exportSelected),
		),
		fyne.NewMenu("Sequences",
			fyne.NewMenuItem("Gaps...", m.chooseGaps),
			fyne.NewMenuItem("Overview", func() { m.showText("Overview", m.store.Overview().String()) }),
		),
	))

	w.Canvas().SetOnTypedKey(func(key *fyne.KeyEvent) {
		switch key.Name {
		case fyne.KeyEscape:
			m.runSearch("")
		case fyne.KeyF11:
			w.SetFullScreen(!w.FullScreen())
		}
	})

	if opts.query != "" {
		m.search.SetText(opts.query)
		m.runSearch(opts.query)
	}
	m.updateStatus()

	w.Resize(fyne.NewSize(1000, 700))
	w.SetContent(m.content())
	w.ShowAndRun()
	return 0
}
