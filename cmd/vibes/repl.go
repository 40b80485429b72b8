package main

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/maruel/natural"
	"github.com/mgomes/vibetables/tablib"
	"github.com/mgomes/vibetables/vibes"
)

var (
	accentColor    = lipgloss.Color("#3B82F6")
	successColor   = lipgloss.Color("#10B981")
	errorColor     = lipgloss.Color("#EF4444")
	mutedColor     = lipgloss.Color("#6B7280")
	highlightColor = lipgloss.Color("#F59E0B")
)

type replStyles struct {
	title  lipgloss.Style
	muted  lipgloss.Style
	result lipgloss.Style
	err    lipgloss.Style
	name   lipgloss.Style
	panel  lipgloss.Style
	prompt lipgloss.Style
}

func newReplStyles() replStyles {
	return replStyles{
		title:  lipgloss.NewStyle().Foreground(accentColor).Bold(true).Padding(0, 1),
		muted:  lipgloss.NewStyle().Foreground(mutedColor),
		result: lipgloss.NewStyle().Foreground(successColor),
		err:    lipgloss.NewStyle().Foreground(errorColor),
		name:   lipgloss.NewStyle().Foreground(highlightColor),
		panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accentColor).
			Padding(0, 1),
		prompt: lipgloss.NewStyle().Foreground(accentColor).Bold(true),
	}
}

// replKeys satisfies help.KeyMap so the footer is rendered from the same
// bindings Update matches against.
type replKeys struct {
	Prev     key.Binding
	Next     key.Binding
	Submit   key.Binding
	Complete key.Binding
	Vars     key.Binding
	Help     key.Binding
	Clear    key.Binding
	Quit     key.Binding
}

func defaultReplKeys() replKeys {
	return replKeys{
		Prev:     key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "previous input")),
		Next:     key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "next input")),
		Submit:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "evaluate")),
		Complete: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "complete name")),
		Vars:     key.NewBinding(key.WithKeys("ctrl+v"), key.WithHelp("ctrl+v", "variables")),
		Help:     key.NewBinding(key.WithKeys("ctrl+k"), key.WithHelp("ctrl+k", "reference")),
		Clear:    key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "clear")),
		Quit:     key.NewBinding(key.WithKeys("ctrl+c", "ctrl+d"), key.WithHelp("ctrl+c", "quit")),
	}
}

func (k replKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Vars, k.Complete, k.Clear, k.Quit}
}

func (k replKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Prev, k.Next, k.Submit, k.Complete},
		{k.Help, k.Vars, k.Clear, k.Quit},
	}
}

// transcriptEntry is one submitted line and its outcome. note carries
// command output that is neither a result list nor an error.
type transcriptEntry struct {
	input   string
	results []vibes.Value
	err     error
	note    string
}

type replCommandSpec struct {
	name  string
	alias string
	usage string
	desc  string
	run   func(m replModel, arg string) (replModel, tea.Cmd)
}

var replCommands = []replCommandSpec{
	{name: ":help", alias: ":h", usage: ":help", desc: "toggle this reference", run: func(m replModel, _ string) (replModel, tea.Cmd) {
		m.showHelp = !m.showHelp
		return m, nil
	}},
	{name: ":vars", alias: ":v", usage: ":vars", desc: "toggle the variables panel", run: func(m replModel, _ string) (replModel, tea.Cmd) {
		m.showVars = !m.showVars
		return m, nil
	}},
	{name: ":caps", alias: ":k", usage: ":caps <expr>", desc: "show the capability hooks of a value", run: func(m replModel, arg string) (replModel, tea.Cmd) {
		m.transcript = append(m.transcript, m.inspectCapabilities(arg))
		return m, nil
	}},
	{name: ":clear", alias: ":c", usage: ":clear", desc: "clear the transcript", run: func(m replModel, _ string) (replModel, tea.Cmd) {
		m.transcript = nil
		return m, nil
	}},
	{name: ":reset", alias: ":r", usage: ":reset", desc: "drop every variable", run: func(m replModel, _ string) (replModel, tea.Cmd) {
		clear(m.eval.env)
		m.transcript = append(m.transcript, transcriptEntry{input: ":reset", note: "environment reset"})
		return m, nil
	}},
	{name: ":quit", alias: ":q", usage: ":quit", desc: "leave the REPL", run: func(m replModel, _ string) (replModel, tea.Cmd) {
		m.quitting = true
		return m, tea.Quit
	}},
}

// referenceRows documents the callable surface for the reference panel.
var referenceRows = [][2]string{
	{"table.concat(list [, sep [, i [, j]]])", "join list[i..j] as text"},
	{"table.pack(...)", "collect the arguments into a table with field n"},
	{"table.unpack(list [, i [, j]])", "return list[i..j] as separate results"},
	{`proxy(t [, hooks])`, `userdata forwarding hooks from "rwl" to t, default "rl"`},
	{"type(v)", "type name of v"},
	{"x = e", "store the first result of e in x"},
	{"_", "first result of the last expression"},
}

type replModel struct {
	input      textinput.Model
	help       help.Model
	keys       replKeys
	styles     replStyles
	engine     *vibes.Engine
	eval       *evaluator
	transcript []transcriptEntry
	recall     []string
	recallPos  int
	width      int
	height     int
	showHelp   bool
	showVars   bool
	quitting   bool
	ready      bool
}

func newREPLModel(engine *vibes.Engine) replModel {
	styles := newReplStyles()
	ti := textinput.New()
	ti.Placeholder = `table.concat({10, 20, 30}, "-")`
	ti.Prompt = "tables> "
	ti.PromptStyle = styles.prompt
	ti.CharLimit = 500
	ti.Width = 60
	ti.Focus()

	return replModel{
		input:     ti,
		help:      help.New(),
		keys:      defaultReplKeys(),
		styles:    styles,
		engine:    engine,
		eval:      newEvaluator(engine),
		recallPos: -1,
	}
}

func (m replModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m replModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.input.Width = max(msg.Width-12, 10)
		m.help.Width = msg.Width
		m.ready = true
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Clear):
			m.transcript = nil
			return m, nil
		case key.Matches(msg, m.keys.Vars):
			m.showVars = !m.showVars
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
			return m, nil
		case key.Matches(msg, m.keys.Prev):
			return m.recallStep(-1), nil
		case key.Matches(msg, m.keys.Next):
			return m.recallStep(1), nil
		case key.Matches(msg, m.keys.Complete):
			return m.complete(), nil
		case key.Matches(msg, m.keys.Submit):
			return m.submit()
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m replModel) submit() (tea.Model, tea.Cmd) {
	line := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")
	m.recallPos = -1
	if line == "" {
		return m, nil
	}
	m.recall = append(m.recall, line)
	if strings.HasPrefix(line, ":") {
		return m.runCommand(line)
	}
	m.transcript = append(m.transcript, m.evaluate(line))
	return m, nil
}

func (m replModel) runCommand(line string) (replModel, tea.Cmd) {
	name, arg, _ := strings.Cut(line, " ")
	for _, c := range replCommands {
		if name == c.name || name == c.alias {
			return c.run(m, strings.TrimSpace(arg))
		}
	}
	m.transcript = append(m.transcript, transcriptEntry{
		input: line,
		err:   fmt.Errorf("unknown command %s (try :help)", name),
	})
	return m, nil
}

// evaluate runs input and records its first result as _.
func (m replModel) evaluate(input string) transcriptEntry {
	values, err := m.eval.Eval(context.Background(), input)
	if err != nil {
		return transcriptEntry{input: input, err: err}
	}
	if len(values) > 0 {
		m.eval.env["_"] = values[0]
	}
	return transcriptEntry{input: input, results: values}
}

func (m replModel) inspectCapabilities(expr string) transcriptEntry {
	entry := transcriptEntry{input: ":caps " + expr}
	if expr == "" {
		entry.err = errors.New("usage: :caps <expr>")
		return entry
	}
	values, err := m.eval.Eval(context.Background(), expr)
	if err != nil {
		entry.err = err
		return entry
	}
	if len(values) == 0 {
		entry.err = errors.New("expression produced no value")
		return entry
	}
	entry.note = capabilitySummary(m.engine, values[0])
	return entry
}

// capabilitySummary names the hooks v provides and whether the library's
// default-length operations accept it.
func capabilitySummary(engine *vibes.Engine, v vibes.Value) string {
	if v.Kind() == vibes.KindTable {
		return "table: native container, accepted by table.concat and table.unpack"
	}
	caps := engine.CapabilitiesOf(v)
	var mask vibes.Capability
	for _, bit := range []vibes.Capability{vibes.CapRead, vibes.CapWrite, vibes.CapLength} {
		if caps.Has(bit) {
			mask |= bit
		}
	}
	verdict := "accepted by table.concat and table.unpack"
	if err := tablib.EnsureContainerLike(engine, v, vibes.CapRead|vibes.CapLength); err != nil {
		verdict = "needs read|length for table.concat and table.unpack"
	}
	return fmt.Sprintf("%s: hooks %s, %s", v.TypeName(), mask, verdict)
}

func (m replModel) recallStep(delta int) replModel {
	if len(m.recall) == 0 {
		return m
	}
	pos := m.recallPos
	switch {
	case pos == -1 && delta < 0:
		pos = len(m.recall) - 1
	case pos == -1:
		return m
	default:
		pos = max(pos+delta, 0)
	}
	if pos >= len(m.recall) {
		m.recallPos = -1
		m.input.SetValue("")
		return m
	}
	m.recallPos = pos
	m.input.SetValue(m.recall[pos])
	m.input.CursorEnd()
	return m
}

// complete extends the name fragment at the end of the input. Several
// matches extend it to their common prefix, or get listed when there is
// nothing to extend.
func (m replModel) complete() replModel {
	value := m.input.Value()
	start := len(value)
	for start > 0 && isNameByte(value[start-1]) {
		start--
	}
	prefix := value[start:]
	if prefix == "" {
		return m
	}

	var matches []string
	for _, name := range completionCandidates(m.engine, m.eval.env) {
		if strings.HasPrefix(name, prefix) {
			matches = append(matches, name)
		}
	}
	switch len(matches) {
	case 0:
		return m
	case 1:
		m.input.SetValue(value[:start] + matches[0])
	default:
		common := commonPrefix(matches)
		if len(common) == len(prefix) {
			m.transcript = append(m.transcript, transcriptEntry{note: "completions: " + strings.Join(matches, "  ")})
			return m
		}
		m.input.SetValue(value[:start] + common)
	}
	m.input.CursorEnd()
	return m
}

func isNameByte(c byte) bool {
	return c == '_' || c == '.' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}

func commonPrefix(words []string) string {
	prefix := words[0]
	for _, w := range words[1:] {
		n := 0
		for n < len(prefix) && n < len(w) && prefix[n] == w[n] {
			n++
		}
		prefix = prefix[:n]
	}
	return prefix
}

// completionCandidates lists every name the evaluator can resolve, in
// natural order without duplicates.
func completionCandidates(engine *vibes.Engine, env map[string]vibes.Value) []string {
	names := append(engine.Globals(), tablib.Names()...)
	names = append(names, "nil", "true", "false")
	names = append(names, slices.Collect(maps.Keys(env))...)
	sort.Slice(names, func(i, j int) bool { return natural.Less(names[i], names[j]) })
	return slices.Compact(names)
}

func (m replModel) renderEntry(e transcriptEntry) []string {
	var lines []string
	if e.input != "" {
		lines = append(lines, m.styles.muted.Render("  › ")+e.input)
	}
	switch {
	case e.err != nil:
		for i, line := range strings.Split(e.err.Error(), "\n") {
			if i == 0 {
				line = "✗ " + line
			}
			lines = append(lines, "  "+m.styles.err.Render(line))
		}
	case e.note != "":
		lines = append(lines, "  "+m.styles.muted.Render(e.note))
	case len(e.results) == 0:
		lines = append(lines, "  "+m.styles.muted.Render("→ (no results)"))
	case len(e.results) == 1:
		lines = append(lines, "  "+m.styles.result.Render("→ "+formatValue(e.results[0])))
	default:
		lines = append(lines, "  "+m.styles.result.Render(fmt.Sprintf("→ %d results", len(e.results))))
		for i, v := range e.results {
			lines = append(lines, fmt.Sprintf("    %s %s", m.styles.muted.Render(fmt.Sprintf("[%d]", i+1)), m.styles.result.Render(formatValue(v))))
		}
	}
	return lines
}

func (m replModel) View() string {
	if m.quitting {
		return m.styles.muted.Render("bye\n")
	}
	if !m.ready {
		return "Loading..."
	}

	header := m.styles.title.Render("VibeTables REPL") +
		m.styles.muted.Render(fmt.Sprintf("max stack %d", m.engine.Config().MaxStack))
	rule := m.styles.muted.Render(strings.Repeat("─", max(min(m.width-2, 60), 0)))

	var panels []string
	if m.showVars {
		panels = append(panels, m.renderVars())
	}
	if m.showHelp {
		panels = append(panels, m.renderReference())
	}
	footer := m.help.View(m.keys)

	var lines []string
	for _, e := range m.transcript {
		lines = append(lines, m.renderEntry(e)...)
	}
	used := 5 + lipgloss.Height(footer)
	for _, p := range panels {
		used += lipgloss.Height(p)
	}
	if avail := max(m.height-used, 0); len(lines) > avail {
		lines = lines[len(lines)-avail:]
	}

	var b strings.Builder
	b.WriteString(header + "\n" + rule + "\n")
	for _, line := range lines {
		b.WriteString(line + "\n")
	}
	for _, p := range panels {
		b.WriteString(p + "\n")
	}
	b.WriteString("\n" + m.input.View() + "\n\n")
	b.WriteString(footer)
	return b.String()
}

func (m replModel) renderVars() string {
	env := m.eval.env
	if len(env) == 0 {
		return m.styles.panel.Render(m.styles.muted.Render("no variables"))
	}
	names := slices.Collect(maps.Keys(env))
	sort.Slice(names, func(i, j int) bool { return natural.Less(names[i], names[j]) })
	lines := []string{m.styles.title.UnsetPadding().Render("Variables")}
	for _, name := range names {
		lines = append(lines, fmt.Sprintf("  %s = %s", m.styles.name.Render(name), formatValue(env[name])))
	}
	return m.styles.panel.Render(strings.Join(lines, "\n"))
}

func (m replModel) renderReference() string {
	lines := []string{m.styles.title.UnsetPadding().Render("Reference")}
	for _, row := range referenceRows {
		lines = append(lines, fmt.Sprintf("  %s  %s", m.styles.name.Render(fmt.Sprintf("%-40s", row[0])), m.styles.muted.Render(row[1])))
	}
	lines = append(lines, "")
	for _, c := range replCommands {
		usage := fmt.Sprintf("%s (%s)", c.usage, c.alias)
		lines = append(lines, fmt.Sprintf("  %s  %s", m.styles.name.Render(fmt.Sprintf("%-40s", usage)), m.styles.muted.Render(c.desc)))
	}
	return m.styles.panel.Render(strings.Join(lines, "\n"))
}
