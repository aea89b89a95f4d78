//go:build !gui

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/metcalfc/seqh/internal/export"
	"github.com/metcalfc/seqh/internal/sequence"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5FAFFF"))

	cursorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFAA00"))

	bodyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#DDDDDD"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Padding(0, 1)

	controlsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			Italic(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00"))

	typeStyles = map[sequence.Molecule]lipgloss.Style{
		sequence.DNA:   lipgloss.NewStyle().Foreground(lipgloss.Color("#00D787")),
		sequence.RNA:   lipgloss.NewStyle().Foreground(lipgloss.Color("#AF87FF")),
		sequence.Error: lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F")),
	}
)

type screen int

const (
	screenList screen = iota
	screenSearch
	screenLoad
	screenExport
	screenGaps
	screenPager
)

// chromeLines is the height taken by the status, message, input and controls lines.
const chromeLines = 4

// recordItem is one row of the record list.
type recordItem struct {
	index int // dataset index
	rec   sequence.Record
	typ   sequence.Molecule
}

func (i recordItem) FilterValue() string { return i.rec.Header }

// recordDelegate draws a record as a header line and a preview line.
type recordDelegate struct {
	app *app
}

func (d recordDelegate) Height() int                             { return 2 }
func (d recordDelegate) Spacing() int                            { return 0 }
func (d recordDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d recordDelegate) Render(w io.Writer, l list.Model, index int, item list.Item) {
	it, ok := item.(recordItem)
	if !ok {
		return
	}
	box := "[ ]"
	if d.app.store.Marked(it.index) {
		box = "[x]"
	}
	pointer := "  "
	if index == l.Index() {
		pointer = cursorStyle.Render("> ")
	}

	body := it.rec.Body()
	fmt.Fprintf(w, "%s%s %s  %s  %d\n      %s", pointer, box, headerStyle.Render(it.rec.Header),
		typeStyles[it.typ].Render("Type: "+it.typ.String()), len(body),
		bodyStyle.Render(preview(body, previewWidth(d.app.cfg.PreviewWidth, l.Width()))))
}

// previewWidth caps the configured preview width to what fits beside the row indent.
func previewWidth(configured, width int) int {
	avail := max(width-10, 10)
	if configured <= 0 || configured > avail {
		return avail
	}
	return configured
}

func newRecordList(a *app) list.Model {
	l := list.New(nil, recordDelegate{app: a}, 80, 24-chromeLines)

	// Only navigation reaches the list; every other key is a command.
	km := list.DefaultKeyMap()
	km.PrevPage = key.NewBinding(key.WithKeys("pgup", "left"))
	km.NextPage = key.NewBinding(key.WithKeys("pgdown", "right"))
	km.GoToStart = key.NewBinding(key.WithKeys("home"))
	km.GoToEnd = key.NewBinding(key.WithKeys("end"))
	l.KeyMap = km

	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	l.SetStatusBarItemName("sequence", "sequences")
	return l
}

type model struct {
	app *app

	screen screen
	list   list.Model
	input  textinput.Model
	pager  viewport.Model

	format int // index into export.Formats()
	split  bool
	gapSel int

	status    string
	statusErr bool
	quitting  bool
	width     int
	height    int
}

func newModel(a *app) model {
	ti := textinput.New()
	ti.CharLimit = 4096

	format, split, _ := a.exportDefaults()
	fi := 0
	for i, name := range export.FormatNames() {
		if strings.EqualFold(name, format) {
			fi = i
		}
	}

	m := model{
		app:    a,
		list:   newRecordList(a),
		input:  ti,
		pager:  viewport.New(80, 20),
		format: fi,
		split:  split,
		width:  80,
		height: 24,
	}
	m.refreshItems()
	return m
}

// refreshItems rebuilds the list from the store's current view and moves to the top.
func (m *model) refreshItems() {
	view := m.app.store.View()
	items := make([]list.Item, 0, len(view.Indices))
	for _, i := range view.Indices {
		if r, ok := m.app.store.Record(i); ok {
			items = append(items, recordItem{index: i, rec: r, typ: r.Type()})
		}
	}
	m.list.SetItems(items)
	m.list.ResetSelected()
}

func (m model) current() (recordItem, bool) {
	it, ok := m.list.SelectedItem().(recordItem)
	return it, ok
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, max(msg.Height-chromeLines, 2))
		m.pager.Width = msg.Width
		m.pager.Height = max(msg.Height-2, 1)
		m.input.Width = max(msg.Width-20, 10)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		switch m.screen {
		case screenSearch, screenLoad, screenExport:
			return m.updateInput(msg)
		case screenGaps:
			return m.updateGaps(msg)
		case screenPager:
			return m.updatePager(msg)
		}
		return m.updateList(msg)
	}

	if m.screen == screenPager {
		var cmd tea.Cmd
		m.pager, cmd = m.pager.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	view := m.app.store.View()

	switch msg.String() {
	case "q", "Q":
		m.quitting = true
		return m, tea.Quit

	case " ":
		if it, ok := m.current(); ok {
			m.app.store.ToggleMark(it.index)
		}
		return m, nil
	case "a":
		m.app.store.MarkView(!m.allMarked(view))
		return m, nil

	case "/":
		return m.openInput(screenSearch, "Search: ", m.app.store.Query(), "terms matched against header, sequence and type")
	case "esc":
		if view.Mode == sequence.Filtered {
			m.app.store.Search("")
			m.refreshItems()
			m.setStatus("Showing all sequences.", false)
		}
		return m, nil
	case "l":
		return m.openInput(screenLoad, "Open: ", strings.Join(m.app.store.Files(), "; "), "files separated by ;")
	case "e":
		_, _, dir := m.app.exportDefaults()
		return m.openInput(screenExport, "Save to: ", dir, "destination directory")
	case "f":
		m.format = (m.format + 1) % len(export.FormatNames())
		return m, nil
	case "s":
		m.split = !m.split
		return m, nil
	case "g":
		m.screen = screenGaps
		m.gapSel = 0
		return m, nil

	case "enter":
		if it, ok := m.current(); ok {
			body := lipgloss.NewStyle().Width(m.pager.Width).Render(it.rec.Body())
			m.showPager(it.rec.Header + "\n\n" + body)
		}
		return m, nil
	case "o":
		m.showPager(m.app.store.Overview().String())
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m model) allMarked(view sequence.Result) bool {
	if len(view.Indices) == 0 {
		return false
	}
	for _, i := range view.Indices {
		if !m.app.store.Marked(i) {
			return false
		}
	}
	return true
}

func (m model) openInput(s screen, prompt, value, placeholder string) (tea.Model, tea.Cmd) {
	m.screen = s
	m.input.Prompt = prompt
	m.input.Placeholder = placeholder
	m.input.SetValue(value)
	m.input.CursorEnd()
	cmd := m.input.Focus()
	return m, cmd
}

func (m model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.input.Blur()
		m.screen = screenList
		return m, nil

	case "enter":
		value := m.input.Value()
		m.input.Blur()
		s := m.screen
		m.screen = screenList
		switch s {
		case screenSearch:
			m.search(value)
		case screenLoad:
			m.loadFiles(value)
		case screenExport:
			m.export(value)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *model) search(query string) {
	res, fellBack := m.app.store.Search(query)
	m.refreshItems()
	switch {
	case fellBack:
		m.setStatus(fmt.Sprintf("No sequence or header matched %q. Showing all sequences.", query), true)
	case res.Mode == sequence.All:
		m.setStatus("Showing all sequences.", false)
	default:
		m.setStatus(fmt.Sprintf("%d sequences match %q.", len(res.Indices), query), false)
	}
}

func (m *model) loadFiles(value string) {
	paths := splitPaths(value)
	if len(paths) == 0 {
		m.setStatus("No files given.", true)
		return
	}
	if err := m.app.load(paths); err != nil {
		m.setStatus(err.Error(), true)
		return
	}
	m.refreshItems()
	m.setStatus(fmt.Sprintf("Loaded %d sequences from %d files.", m.app.store.Len(), len(paths)), false)
}

func (m *model) export(dir string) {
	name := export.FormatNames()[m.format]
	paths, err := m.app.export(name, m.split, strings.TrimSpace(dir))
	switch {
	case errors.Is(err, export.ErrNoSelection):
		m.setStatus("No sequences selected.", true)
	case err != nil:
		m.setStatus(err.Error(), true)
	case m.split:
		m.setStatus(fmt.Sprintf("Saved %d files to '%s'.", len(paths), dir), false)
	default:
		m.setStatus(fmt.Sprintf("Saved to '%s'.", paths[0]), false)
	}
}

func (m model) updateGaps(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	modes := sequence.GapModes()
	switch msg.String() {
	case "esc", "q":
		m.screen = screenList
	case "up", "k":
		if m.gapSel > 0 {
			m.gapSel--
		}
	case "down", "j":
		if m.gapSel < len(modes)-1 {
			m.gapSel++
		}
	case "1", "2", "3":
		m.gapSel = int(msg.String()[0] - '1')
		fallthrough
	case "enter":
		mode, err := m.app.transformGaps(modes[m.gapSel].String())
		if err != nil {
			m.setStatus(err.Error(), true)
		} else {
			m.setStatus(fmt.Sprintf("Gaps processed with method: %s.", mode), false)
		}
		m.screen = screenList
		m.refreshItems()
	}
	return m, nil
}

func (m model) updatePager(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q", "enter":
		m.screen = screenList
		return m, nil
	}
	var cmd tea.Cmd
	m.pager, cmd = m.pager.Update(msg)
	return m, cmd
}

func (m *model) showPager(content string) {
	m.pager.SetContent(content)
	m.pager.GotoTop()
	m.screen = screenPager
}

func (m *model) setStatus(s string, isErr bool) {
	m.status = s
	m.statusErr = isErr
}

func (m model) View() string {
	if m.quitting {
		return ""
	}
	if m.screen == screenPager {
		return m.pager.View() + "\n" + controlsStyle.Render("↑/↓: scroll  ESC/Q: back")
	}

	body := m.list.View()
	if m.screen == screenGaps {
		body = lipgloss.NewStyle().Height(m.list.Height()).Render(m.gapsView())
	}

	var input string
	switch m.screen {
	case screenSearch, screenLoad, screenExport:
		input = m.input.View()
	}

	return strings.Join([]string{m.statusLine(), m.messageLine(), body, input, m.controls()}, "\n")
}

func (m model) statusLine() string {
	view := m.app.store.View()
	total := m.app.store.Len()
	marked := 0
	for _, i := range view.Indices {
		if m.app.store.Marked(i) {
			marked++
		}
	}

	shown := "all"
	if view.Mode == sequence.Filtered {
		shown = fmt.Sprintf("%d matching %q", len(view.Indices), m.app.store.Query())
	}
	layout := "single file"
	if m.split {
		layout = "one file per sequence"
	}
	return statusStyle.Render(fmt.Sprintf("%d sequences (%s) | %d selected | %s, %s",
		total, shown, marked, export.FormatNames()[m.format], layout))
}

func (m model) messageLine() string {
	if m.status == "" {
		return ""
	}
	if m.statusErr {
		return errorStyle.Render(m.status)
	}
	return infoStyle.Render(m.status)
}

func (m model) gapsView() string {
	var sb strings.Builder
	sb.WriteString("Gaps are currently shown as '-'. Select how to handle them:\n\n")
	labels := map[sequence.GapMode]string{
		sequence.GapKeep:    "Keep '-' (default)",
		sequence.GapReplace: "Replace with 'N'",
		sequence.GapStrip:   "Remove gaps",
	}
	for i, mode := range sequence.GapModes() {
		pointer := "  "
		if i == m.gapSel {
			pointer = cursorStyle.Render("> ")
		}
		fmt.Fprintf(&sb, "%s%d. %s\n", pointer, i+1, labels[mode])
	}
	return sb.String()
}

func (m model) controls() string {
	switch m.screen {
	case screenSearch, screenLoad, screenExport:
		return controlsStyle.Render("ENTER: confirm  ESC: cancel")
	case screenGaps:
		return controlsStyle.Render("↑/↓: choose  ENTER/1-3: apply  ESC: cancel")
	}
	return controlsStyle.Render("SPACE: select  A: select all  /: search  ENTER: full sequence  " +
		"L: open  G: gaps  F: format  S: split  E: export  O: overview  Q: quit")
}

// splitPaths splits a list of paths on ';', or on whitespace when there is no ';'.
func splitPaths(s string) []string {
	var parts []string
	if strings.Contains(s, ";") {
		parts = strings.Split(s, ";")
	} else {
		parts = strings.Fields(s)
	}
	var out []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	opts, err := parseFlags("seqh", args, os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		return 2
	}

	if opts.version {
		fmt.Printf("seqh %s (commit: %s, built: %s)\n", version, commit, date)
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

	m := newModel(a)
	if opts.query != "" {
		m.search(opts.query)
	}
	p := tea.NewProgram(m, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
