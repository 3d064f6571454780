// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	btable "github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	ls "github.com/db47h/logicsim"
	"github.com/db47h/logicsim/internal/metrics"
	"github.com/pkg/errors"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF00FF")).
			MarginLeft(2).
			MarginTop(1)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF")).
			MarginLeft(2)

	boardStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FF00")).
			Padding(0, 2).
			MarginLeft(2)

	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF00FF")).Bold(true)
	litStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFF00")).Bold(true)
	darkStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true).
			MarginLeft(2)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginLeft(2)

	playHelpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginTop(1).
			MarginLeft(2)
)

type playKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	Switch key.Binding
	Table  key.Binding
	Back   key.Binding
	Quit   key.Binding
}

var playKeys = playKeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Toggle: key.NewBinding(
		key.WithKeys(" ", "space", "enter"),
		key.WithHelp("space", "toggle"),
	),
	Switch: key.NewBinding(
		key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
		key.WithHelp("1-9", "toggle switch n"),
	),
	Table: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "truth table"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

func (k playKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Switch, k.Table, k.Quit}
}

func (k playKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Toggle, k.Switch},
		{k.Table, k.Back, k.Quit},
	}
}

// playModel is an interactive breadboard: switches can be toggled and bulbs
// are updated after each change.
type playModel struct {
	g              *ls.Graph
	name           string
	switches       []string // switch ids, top to bottom
	bulbs          []string // bulb ids, top to bottom
	cursor         int
	result         ls.Result
	maxTableInputs int

	tableView bool
	truth     btable.Model

	help    help.Model
	keys    playKeyMap
	message string
}

// idsByY returns the ids of the nodes of kind k, sorted by vertical position.
func idsByY(nodes []ls.Node, k ls.Kind) []string {
	var sel []ls.Node
	for _, n := range nodes {
		if n.Kind == k {
			sel = append(sel, n)
		}
	}
	sort.SliceStable(sel, func(i, j int) bool { return sel[i].Y < sel[j].Y })
	ids := make([]string, len(sel))
	for i, n := range sel {
		ids[i] = n.ID
	}
	return ids
}

func newPlayModel(g *ls.Graph, name string, maxTableInputs int) playModel {
	nodes := g.Nodes()
	m := playModel{
		g:              g,
		name:           name,
		switches:       idsByY(nodes, ls.Input),
		bulbs:          idsByY(nodes, ls.Output),
		maxTableInputs: maxTableInputs,
		help:           help.New(),
		keys:           playKeys,
	}
	m.result = g.Run()
	return m
}

func (m playModel) Init() tea.Cmd {
	return nil
}

func (m *playModel) toggle(i int) {
	if i < 0 || i >= len(m.switches) {
		return
	}
	on, err := m.g.Toggle(m.switches[i])
	if err != nil {
		m.message = err.Error()
		return
	}
	m.cursor = i
	m.message = ""
	m.result = m.g.Run()
	n, _ := m.g.Node(m.switches[i])
	if on {
		m.message = n.Label + " on"
	} else {
		m.message = n.Label + " off"
	}
}

func (m *playModel) openTable() {
	if len(m.switches) > m.maxTableInputs {
		m.message = "too many switches for a truth table (" + strconv.Itoa(len(m.switches)) + " > " + strconv.Itoa(m.maxTableInputs) + ")"
		return
	}
	tt, err := m.g.TruthTable()
	if err != nil {
		m.message = err.Error()
		return
	}
	cols := make([]btable.Column, 0, len(tt.Inputs)+len(tt.Outputs))
	for _, n := range append(append([]ls.Node(nil), tt.Inputs...), tt.Outputs...) {
		w := len(n.Label)
		if w < 3 {
			w = 3
		}
		cols = append(cols, btable.Column{Title: n.Label, Width: w})
	}
	rows := make([]btable.Row, 0, len(tt.Rows))
	for _, r := range tt.Rows {
		row := make(btable.Row, 0, len(cols))
		for _, b := range r.Inputs {
			row = append(row, strconv.Itoa(b))
		}
		for _, b := range r.Outputs {
			row = append(row, strconv.Itoa(b))
		}
		rows = append(rows, row)
	}
	h := len(rows) + 1
	if h > 17 {
		h = 17
	}
	m.truth = btable.New(
		btable.WithColumns(cols),
		btable.WithRows(rows),
		btable.WithFocused(true),
		btable.WithHeight(h),
	)
	s := btable.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#00FFFF")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color("#FF00FF")).
		Bold(false)
	m.truth.SetStyles(s)
	m.tableView = true
	m.message = ""
}

func (m playModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		if m.tableView {
			switch {
			case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Table):
				m.tableView = false
				return m, nil
			}
			var cmd tea.Cmd
			m.truth, cmd = m.truth.Update(msg)
			return m, cmd
		}
		switch {
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.switches)-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Toggle):
			m.toggle(m.cursor)
		case key.Matches(msg, m.keys.Switch):
			n, _ := strconv.Atoi(msg.String())
			m.toggle(n - 1)
		case key.Matches(msg, m.keys.Table):
			m.openTable()
		}
	}
	return m, nil
}

func (m playModel) label(id string) string {
	n, _ := m.g.Node(id)
	return n.Label
}

func (m playModel) renderBoard() string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("Switches"))
	b.WriteByte('\n')
	var sw strings.Builder
	if len(m.switches) == 0 {
		sw.WriteString(darkStyle.Render("(none)"))
	}
	for i, id := range m.switches {
		if i > 0 {
			sw.WriteByte('\n')
		}
		cur := "  "
		if i == m.cursor {
			cur = cursorStyle.Render("> ")
		}
		num := "   "
		if i < 9 {
			num = "[" + strconv.Itoa(i+1) + "]"
		}
		state := darkStyle.Render("off")
		if m.result.Values[id] {
			state = litStyle.Render("ON ")
		}
		sw.WriteString(cur + num + " " + state + " " + m.label(id))
	}
	b.WriteString(boardStyle.Render(sw.String()))
	b.WriteByte('\n')

	b.WriteString(sectionStyle.Render("Bulbs"))
	b.WriteByte('\n')
	var bl strings.Builder
	if len(m.bulbs) == 0 {
		bl.WriteString(darkStyle.Render("(none)"))
	}
	for i, id := range m.bulbs {
		if i > 0 {
			bl.WriteByte('\n')
		}
		if m.result.Values[id] {
			bl.WriteString(litStyle.Render("●") + " " + m.label(id))
		} else {
			bl.WriteString(darkStyle.Render("○") + " " + m.label(id))
		}
	}
	b.WriteString(boardStyle.Render(bl.String()))
	return b.String()
}

func (m playModel) View() string {
	var s strings.Builder
	s.WriteString(titleStyle.Render("logicsim: " + m.name))
	s.WriteString("\n\n")
	if m.tableView {
		s.WriteString(sectionStyle.Render("Truth table"))
		s.WriteByte('\n')
		s.WriteString(boardStyle.Render(m.truth.View()))
	} else {
		s.WriteString(m.renderBoard())
		s.WriteByte('\n')
		s.WriteString(statusStyle.Render(settleStatus(m.result)))
	}
	if m.message != "" {
		s.WriteByte('\n')
		s.WriteString(errorStyle.Render(m.message))
	}
	s.WriteByte('\n')
	s.WriteString(playHelpStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp())))
	s.WriteByte('\n')
	return s.String()
}

// serveMetrics serves reg on addr until ctx is done.
func serveMetrics(ctx context.Context, log *slog.Logger, addr string, reg *metrics.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", reg.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(sctx)
	}()
	log.Info("serving metrics", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("metrics server failed", "error", err)
	}
}

func runPlay(a *app, args []string) error {
	var src source
	fs := newFlagSet(a, "play")
	src.register(fs)
	addr := fs.String("metrics-addr", a.cfg.MetricsAddr, "serve Prometheus metrics on `host:port`")
	logFile := fs.String("log-file", "", "write logs to `file` while playing")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	c, name, err := src.load(a)
	if err != nil {
		return err
	}

	// the terminal belongs to the UI
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return errors.Wrap(err, "open log file")
		}
		defer f.Close()
		log = a.cfg.Logger(f)
	}

	reg := metrics.NewRegistry()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if *addr != "" {
		go serveMetrics(ctx, log, *addr, reg)
	}

	g := ls.NewGraph(ls.WithLogger(log), ls.WithRecorder(reg), ls.WithMaxPasses(a.cfg.MaxPasses), ls.WithWorkers(a.cfg.Workers))
	g.Load(c)
	log.Info("playing", "circuit", name, "nodes", g.Len())

	p := tea.NewProgram(newPlayModel(g, name, a.cfg.MaxTableInputs), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return errors.Wrap(err, "run UI")
	}
	return nil
}
