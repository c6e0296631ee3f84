package repl

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/defconf/lang"
	"github.com/ardnew/defconf/log"
)

const (
	evalPrompt = "➜ "
	contPrompt = "… "
)

func helpMessage() string {
	return `
Commands:

  :help    Print this cruft
  :list    List constants and their values
  :show    Print the merged document as YAML
  :json    Print the merged document as JSON
  :reset   Discard all constants and data
  :clear   Clear screen
  :quit    Exit REPL

Usage:
  Enter declarations (def NAME = EXPR;) and dict statements as in a file
  A statement with open brackets or strings continues on the next line
  Type ^ to complete constant names
  Press Tab / Shift-Tab to cycle through candidates
  Press Esc to cancel completion or discard a continued statement
  Use Up/Down arrows for history navigation
  Press Ctrl+C on empty line or Ctrl+D to exit
`
}

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	contPromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("5")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
)

// maxPreview is the width of constant values shown by :list.
const maxPreview = 48

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc      func() context.Context
	input        textinput.Model
	session      *Session
	logger       log.Logger
	history      *History
	historyIdx   int
	pending      []string      // lines of an open statement
	matches      fuzzy.Matches // current completion candidates
	wordStart    int           // byte offset of current word start
	wordEnd      int           // byte offset of current word end
	suggIdx      int           // selected candidate index
	tabActive    bool          // whether user is tab-cycling
	preTabText   string        // input text before tab-cycling began
	preTabCursor int           // cursor position before tab-cycling began
	width        int           // terminal width for ellipsization
	quitting     bool
}

// Run loads source into a new session and runs the REPL until the user
// quits. History is persisted at historyPath unless it is empty.
func Run(
	ctx context.Context,
	source string,
	historyPath string,
	logger log.Logger,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	session := NewSession(lang.WithLogger(logger))

	if strings.TrimSpace(source) != "" {
		if _, err := session.Eval(ctx, source); err != nil {
			return err
		}
	}

	logger.TraceContext(ctx, "repl session loaded",
		slog.Int("constant_count", len(session.Constants())),
		slog.Int("statement_count", session.Document().Statements),
	)

	history := NewHistory(historyPath)
	if err := history.Load(); err != nil {
		logger.WarnContext(ctx, "could not load history",
			slog.String("path", historyPath),
			slog.Any("error", err),
		)
	}

	p := tea.NewProgram(
		newModel(ctx, session, history, logger),
		tea.WithContext(ctx),
	)
	_, err = p.Run()

	return err
}

const defaultWidth = 80

func newModel(
	ctx context.Context,
	session *Session,
	history *History,
	logger log.Logger,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(evalPrompt)
	ti.Focus()
	ti.CharLimit = 4096
	ti.Width = defaultWidth

	return model{
		ctxFunc:    func() context.Context { return ctx },
		input:      ti,
		session:    session,
		logger:     logger,
		history:    history,
		historyIdx: history.Len(),
		suggIdx:    -1,
		width:      defaultWidth,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(msg.Width-lipgloss.Width(evalPrompt)-2, 1)

		return m, nil
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")

	switch {
	case len(m.matches) > 0:
		selected := -1
		if m.tabActive {
			selected = m.suggIdx
		}

		b.WriteString(renderCandidateBar(m.matches, selected, m.width))

	case m.historyIdx < m.history.Len():
		b.WriteString(hintStyle.Render(fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)),
			m.history.Len())))

	case len(m.pending) > 0:
		b.WriteString(hintStyle.Render(
			"Statement continues (press Esc to discard)"))

	case strings.TrimSpace(m.input.Value()) == "":
		b.WriteString(hintStyle.Render(
			"Type a statement, ^ to complete constants, or :help"))
	}

	b.WriteString("\n")

	return b.String()
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(m.ctxFunc(), "repl keypress",
		slog.String("key", msg.String()),
		slog.Int("type", int(msg.Type)),
	)

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" && len(m.pending) == 0 {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.discardPending()
		m.tabActive = false
		m.historyIdx = m.history.Len()
		m.refreshMatches()

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" && len(m.pending) == 0 {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if m.tabActive && len(m.matches) > 0 {
			// Lock in the current candidate without submitting.
			m.tabActive = false
			m.refreshMatches()

			return m, nil
		}

		return m.submit()

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		return m.historyMove(-1), nil

	case tea.KeyDown:
		return m.historyMove(1), nil

	case tea.KeyEsc:
		switch {
		case m.tabActive:
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			m.refreshMatches()

		case len(m.pending) > 0:
			m.discardPending()

			return m, tea.Println(hintStyle.Render("statement discarded"))
		}

		return m, nil
	}

	var cmd tea.Cmd

	m.tabActive = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	m.refreshMatches()

	return m, cmd
}

// cycle selects the next (dir > 0) or previous completion candidate and
// writes it into the input. A sole candidate is accepted immediately.
func (m model) cycle(dir int) model {
	if len(m.matches) == 0 {
		return m
	}

	if len(m.matches) == 1 {
		m.replaceWord(m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m
	}

	switch {
	case !m.tabActive:
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()

		m.suggIdx = 0
		if dir < 0 {
			m.suggIdx = len(m.matches) - 1
		}

	default:
		m.suggIdx = (m.suggIdx + dir + len(m.matches)) % len(m.matches)
	}

	m.replaceWord(m.matches[m.suggIdx].Str)

	return m
}

// replaceWord replaces the current word with s and moves the cursor after
// it.
func (m *model) replaceWord(s string) {
	input := m.input.Value()

	m.input.SetValue(input[:m.wordStart] + s + input[m.wordEnd:])
	m.input.SetCursor(m.wordStart + len(s))
	m.wordEnd = m.wordStart + len(s)
}

// refreshMatches recomputes the completion candidates for the cursor
// position. Candidates shown while tab-cycling are left alone.
func (m *model) refreshMatches() {
	if m.tabActive {
		return
	}

	m.matches, m.wordStart, m.wordEnd = complete(
		m.input.Value(), m.input.Position(), m.session.Constants(),
	)
	m.suggIdx = -1

	// Hide the bar once the word is complete and unambiguous.
	if len(m.matches) == 1 &&
		m.input.Value()[m.wordStart:m.wordEnd] == m.matches[0].Str {
		m.matches = nil
	}
}

func (m model) historyMove(dir int) model {
	idx := m.historyIdx + dir

	switch {
	case idx < 0:
		return m

	case idx >= m.history.Len():
		m.historyIdx = m.history.Len()
		m.input.SetValue("")

	default:
		line, err := m.history.Get(idx)
		if err != nil {
			return m
		}

		m.historyIdx = idx
		m.input.SetValue(line)
		m.input.SetCursor(len(line))
	}

	m.tabActive = false
	m.refreshMatches()

	return m
}

func (m *model) discardPending() {
	m.pending = nil
	m.input.Prompt = promptStyle.Render(evalPrompt)
}

// submit handles the entered line: a command, another line of an open
// statement, or the last line of one or more complete statements.
func (m model) submit() (model, tea.Cmd) {
	line := m.input.Value()

	m.input.SetValue("")
	m.matches = nil
	m.historyIdx = m.history.Len()

	if len(m.pending) == 0 && strings.TrimSpace(line) == "" {
		return m, nil
	}

	prompt := m.input.Prompt
	echo := tea.Println(prompt + inputStyle.Render(line))

	if err := m.history.Add(line); err != nil {
		m.logger.DebugContext(m.ctxFunc(), "history not saved",
			slog.Any("error", err),
		)
	}

	m.historyIdx = m.history.Len()

	if len(m.pending) == 0 {
		if name, ok := strings.CutPrefix(strings.TrimSpace(line), commandPrefix); ok {
			return m.command(echo, name)
		}
	}

	m.pending = append(m.pending, line)
	text := strings.Join(m.pending, "\n")

	open, err := lang.Pending(text)
	if err == nil && open {
		m.input.Prompt = contPromptStyle.Render(contPrompt)

		return m, echo
	}

	m.discardPending()

	var out string
	if err == nil {
		out, err = m.eval(text)
	}

	if err != nil {
		return m, tea.Sequence(echo, tea.Println(errorStyle.Render("error: "+err.Error())))
	}

	if out == "" {
		return m, echo
	}

	return m, tea.Sequence(echo, tea.Println(resultStyle.Render(out)))
}

// eval applies text to the session and returns the YAML of each statement.
func (m *model) eval(text string) (string, error) {
	ctx := m.ctxFunc()

	docs, err := m.session.Eval(ctx, text)

	m.logger.TraceContext(ctx, "repl eval",
		slog.Int("statement_count", len(docs)),
		slog.Bool("ok", err == nil),
	)

	if err != nil {
		return "", err
	}

	parts := make([]string, 0, len(docs))

	for _, doc := range docs {
		if s := renderYAML(ctx, doc); s != "" {
			parts = append(parts, s)
		}
	}

	return strings.Join(parts, "\n"), nil
}

// command runs the named REPL command. Any single-letter prefix of a command
// name selects it.
func (m model) command(echo tea.Cmd, input string) (model, tea.Cmd) {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return m, tea.Sequence(echo, tea.Println(m.helpView()))
	}

	name := lookupCommand(fields[0])

	m.logger.TraceContext(m.ctxFunc(), "repl command",
		slog.String("command", name),
	)

	switch name {
	case "quit":
		m.quitting = true

		return m, tea.Sequence(echo, tea.Quit)

	case "clear":
		return m, tea.ClearScreen

	case "reset":
		m.session.Reset()

		return m, tea.Sequence(echo, tea.Println(hintStyle.Render("session reset")))

	case "":
		return m, tea.Sequence(echo, tea.Println(errorStyle.Render(
			"unknown command: "+fields[0]+" (try :help)")))
	}

	return m, tea.Sequence(echo, tea.Println(m.commandOutput(name)))
}

// lookupCommand returns the command named or abbreviated by s, or "".
func lookupCommand(s string) string {
	for _, c := range commands {
		if s == c || (len(s) == 1 && c[0] == s[0]) {
			return c
		}
	}

	return ""
}

// commandOutput returns the text printed by the commands that only report.
func (m model) commandOutput(name string) string {
	ctx := m.ctxFunc()

	switch name {
	case "help":
		return m.helpView()

	case "list":
		return m.listConstants()

	case "show":
		if s := renderYAML(ctx, m.session.Document()); s != "" {
			return resultStyle.Render(s)
		}

	case "json":
		var buf bytes.Buffer

		if err := m.session.Document().FormatJSON(ctx, &buf, 2); err != nil {
			return errorStyle.Render("error: " + err.Error())
		}

		if buf.Len() > 0 {
			return resultStyle.Render(strings.TrimRight(buf.String(), "\n"))
		}
	}

	return hintStyle.Render("(empty)")
}

func (m model) helpView() string { return helpMessage() }

func (m model) listConstants() string {
	names := m.session.Constants()
	if len(names) == 0 {
		return hintStyle.Render("(no constants)")
	}

	width := 0
	for _, name := range names {
		width = max(width, len(name))
	}

	var b strings.Builder

	for i, name := range names {
		if i > 0 {
			b.WriteString("\n")
		}

		val, _ := m.session.Constant(name)

		fmt.Fprintf(&b, "  %-*s  %s", width, name,
			hintStyle.Render(preview(val.String(), maxPreview)))
	}

	return b.String()
}

// preview shortens s to at most n runes.
func preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}

	return string(r[:n-3]) + "..."
}

// renderYAML returns doc as YAML without the trailing newline, or "" for an
// empty document.
func renderYAML(ctx context.Context, doc *lang.Document) string {
	var buf bytes.Buffer

	if err := doc.FormatYAML(ctx, &buf, 2); err != nil {
		return errorStyle.Render("error: " + err.Error())
	}

	return strings.TrimRight(buf.String(), "\n")
}
