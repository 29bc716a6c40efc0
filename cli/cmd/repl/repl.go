package repl

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/wml/lang"
	"github.com/ardnew/wml/lang/object"
	"github.com/ardnew/wml/log"
)

// editedMsg is sent when session editing completes with a source that
// parses.
type editedMsg struct{ source string }

// editCancelledMsg is sent when the user cleared the editor content.
type editCancelledMsg struct{}

// editDeclinedMsg is sent when the user declined to re-edit after a parse
// error.
type editDeclinedMsg struct{}

// editErrorMsg is sent when the edit process encounters a non-parse error.
type editErrorMsg struct{ err error }

const (
	prompt     = "➜ "
	commandTag = ":"
	maxPreview = 40
)

// commands are the REPL control commands, entered with a leading colon.
var commands = []struct{ name, help string }{
	{"help", "Print this help"},
	{"list", "List global bindings"},
	{"pretty", "Print the session source, formatted"},
	{"edit", "Edit the session source in $EDITOR and re-run it"},
	{"clear", "Clear screen"},
	{"reset", "Discard all bindings and the session source"},
	{"quit", "Exit REPL"},
}

func commandNames() []string {
	names := make([]string, len(commands))
	for i, c := range commands {
		names[i] = c.name
	}

	return names
}

func helpMessage() string {
	var b strings.Builder

	b.WriteString("\nCommands:\n\n")

	for _, c := range commands {
		fmt.Fprintf(&b, "  %s%-8s %s\n", commandTag, c.name, c.help)
	}

	b.WriteString(`
Usage:
  Type statements to evaluate them; bindings persist between lines
  Completions appear automatically as you type
  Press Tab / Shift-Tab to cycle through candidates
  Press Space to accept the current candidate
  Use Up/Down arrows for history navigation
  Use Shift+Up/Shift+Down to navigate only programs or only commands
  Press Ctrl+C on empty line or Ctrl+D to exit
`)

	return b.String()
}

// inputMode distinguishes programs from control commands.
type inputMode int

const (
	modeEval inputMode = iota
	modeCtrl
)

// modeOf returns the mode of an input line.
func modeOf(line string) inputMode {
	if strings.HasPrefix(strings.TrimSpace(line), commandTag) {
		return modeCtrl
	}

	return modeEval
}

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().
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

// echo formats a submitted line with its prompt.
func echo(line string) string {
	style := promptStyle
	if modeOf(line) == modeCtrl {
		style = ctrlPromptStyle
	}

	return style.Render(prompt) + inputStyle.Render(line)
}

// diagnostic returns the language error text carried by err.
func diagnostic(err error) string {
	var (
		perr *lang.ParseError
		oerr *object.Error
	)

	switch {
	case errors.As(err, &perr):
		return perr.Error()

	case errors.As(err, &oerr):
		return oerr.Error()

	default:
		return err.Error()
	}
}

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc      func() context.Context
	input        textinput.Model
	interp       *lang.Interpreter
	logger       log.Logger
	history      *History
	historyIdx   int
	transcript   []string      // programs evaluated without error
	matches      fuzzy.Matches // current fuzzy match results
	wordStart    int           // byte offset of current word start
	wordEnd      int           // byte offset of current word end
	suggIdx      int           // selected candidate index
	tabActive    bool          // whether user is tab-cycling
	preTabText   string        // input text before tab-cycling began
	preTabCursor int           // cursor position before tab-cycling began
	width        int           // terminal width for ellipsization
	quitting     bool
}

// Run starts an interactive session evaluating against in. History is kept
// in cacheDir.
func Run(
	ctx context.Context,
	in *lang.Interpreter,
	cacheDir string,
	logger log.Logger,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	logger.TraceContext(ctx, "repl start", slog.String("cache_dir", cacheDir))

	history := NewHistory(filepath.Join(cacheDir, baseHistory))
	if err := history.Load(); err != nil {
		logger.WarnContext(ctx, "could not load history", slog.String("error", err.Error()))
	}

	logger.TraceContext(
		ctx,
		"repl history loaded",
		slog.Int("entry_count", history.Len()),
	)

	p := tea.NewProgram(newModel(ctx, in, history, logger), tea.WithContext(ctx))
	_, err = p.Run()

	return err
}

const defaultWidth = 80

func newModel(
	ctx context.Context,
	in *lang.Interpreter,
	history *History,
	logger log.Logger,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(prompt)
	ti.Focus()
	ti.CharLimit = 4096
	ti.Width = defaultWidth

	return model{
		ctxFunc:    func() context.Context { return ctx },
		input:      ti,
		interp:     in,
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
		m.input.Width = msg.Width - lipgloss.Width(prompt) - 2

		return m, nil

	case editedMsg:
		return m.rerun(msg.source)

	case editCancelledMsg:
		return m, tea.Println(hintStyle.Render("edit cancelled"))

	case editDeclinedMsg:
		m.quitting = true

		return m, tea.Quit

	case editErrorMsg:
		return m, tea.Println(errorStyle.Render("error: " + msg.err.Error()))
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
	b.WriteString(m.hint())
	b.WriteString("\n")

	return b.String()
}

// hint returns the line shown below the input.
func (m model) hint() string {
	input := m.input.Value()

	if m.historyIdx < m.history.Len() {
		return hintStyle.Render(fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)),
			m.history.Len()))
	}

	if strings.TrimSpace(input) == "" {
		return hintStyle.Render("Type a program, or " + commandTag + "help for commands")
	}

	if modeOf(input) == modeEval {
		call := detectFunctionCall(input, m.input.Position())
		if call.inCall {
			if params, ok := getSignature(m.interp, call.name); ok {
				return renderSignatureHint(call.name, params, call.argIndex)
			}
		}
	}

	return m.renderCandidateBar()
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(
		m.ctxFunc(),
		"repl keypress",
		slog.String("key", msg.String()),
		slog.Int("type", int(msg.Type)),
	)

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.setInput("")
		m.tabActive = false
		m.historyIdx = m.history.Len()
		refreshMatches(&m, false)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if !m.tabActive || len(m.matches) == 0 {
			return m.executeInput()
		}
		// Lock in the current tab candidate without executing.
		m.tabActive = false
		refreshMatches(&m, true)

		return m, nil

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		return m.historyMove(-1, false), nil

	case tea.KeyDown:
		return m.historyMove(1, false), nil

	case tea.KeyShiftUp:
		return m.historyMove(-1, true), nil

	case tea.KeyShiftDown:
		return m.historyMove(1, true), nil

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.setInput(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
		} else {
			m.setInput("")
		}

		refreshMatches(&m, false)

		return m, nil

	case tea.KeyRunes, tea.KeySpace:
		// Space is the "breaking" key while tab-cycling.
		if m.tabActive && msg.String() == " " {
			m.tabActive = false
		}

		var cmd tea.Cmd

		m.historyIdx = m.history.Len()
		m.input, cmd = m.input.Update(msg)
		refreshMatches(&m, true)

		return m, cmd
	}

	// For any other key (backspace, delete, arrows, etc.),
	// update input and recompute matches without auto-confirm.
	var cmd tea.Cmd

	m.tabActive = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	refreshMatches(&m, false)

	return m, cmd
}

// cycle moves the tab selection by step, wrapping at either end. A single
// candidate is completed and confirmed immediately.
func (m model) cycle(step int) model {
	n := len(m.matches)
	if n == 0 {
		return m
	}

	if n == 1 {
		replaceCurrentWord(&m, m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m
	}

	if m.tabActive {
		m.suggIdx = (m.suggIdx + step + n) % n
	} else {
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()

		m.suggIdx = 0
		if step < 0 {
			m.suggIdx = n - 1
		}
	}

	replaceCurrentWord(&m, m.matches[m.suggIdx].Str)

	return m
}

// setInput replaces the input text and updates the prompt to its mode.
func (m *model) setInput(s string) {
	m.input.SetValue(s)
	m.input.SetCursor(len(s))
	m.updatePrompt()
}

func (m *model) updatePrompt() {
	if modeOf(m.input.Value()) == modeCtrl {
		m.input.Prompt = ctrlPromptStyle.Render(prompt)
	} else {
		m.input.Prompt = promptStyle.Render(prompt)
	}
}

// replaceCurrentWord replaces the current word boundaries in the input with
// the given replacement text and repositions the cursor.
func replaceCurrentWord(m *model, replacement string) {
	input := m.input.Value()

	m.input.SetValue(input[:m.wordStart] + replacement + input[m.wordEnd:])
	m.input.SetCursor(m.wordStart + len(replacement))

	m.wordEnd = m.wordStart + len(replacement)
}

// refreshMatches recomputes fuzzy matches for the current input state.
// When autoConfirm is true it also drops the completion when exactly one
// candidate remains and the typed word already equals it. autoConfirm
// should be false for deletions and cursor navigation.
func refreshMatches(m *model, autoConfirm bool) {
	m.updatePrompt()
	m.matches, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}

	if !autoConfirm || len(m.matches) != 1 {
		return
	}

	if m.input.Value()[m.wordStart:m.wordEnd] == m.matches[0].Str {
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil
	}
}

// historyMove steps through history by dir. With sameMode set, entries of
// the other mode are skipped. Moving past the newest entry clears the input.
func (m model) historyMove(dir int, sameMode bool) model {
	mode := modeOf(m.input.Value())

	for i := m.historyIdx + dir; i >= 0 && i < m.history.Len(); i += dir {
		entry, err := m.history.Entry(i)
		if err != nil || (sameMode && entry.Mode != mode) {
			continue
		}

		m.historyIdx = i
		m.setInput(entry.Line)
		refreshMatches(&m, false)

		return m
	}

	if dir > 0 && m.historyIdx < m.history.Len() {
		m.historyIdx = m.history.Len()
		m.setInput("")
		refreshMatches(&m, false)
	}

	return m
}

func (m model) executeInput() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	m.setInput("")
	m.matches = nil

	if err := m.history.Add(input); err != nil {
		m.logger.DebugContext(m.ctxFunc(), "history write failed", slog.String("error", err.Error()))
	}

	m.historyIdx = m.history.Len()

	if modeOf(input) == modeCtrl {
		return m.executeCommand(input)
	}

	return m.evaluate(input)
}

// evaluate runs one program against the session environment.
func (m model) evaluate(input string) (model, tea.Cmd) {
	ctx := m.ctxFunc()

	m.logger.TraceContext(ctx, "repl eval", slog.String("input", input))

	echoCmd := tea.Println(echo(input))

	result, err := m.interp.Run(ctx, input)
	if err != nil {
		m.logger.TraceContext(ctx, "repl eval failed", slog.String("error", err.Error()))

		return m, tea.Sequence(echoCmd, tea.Println(errorStyle.Render(diagnostic(err))))
	}

	m.transcript = append(m.transcript, input)

	if result == nil {
		return m, echoCmd
	}

	m.logger.TraceContext(ctx, "repl eval result", slog.String("kind", result.Kind().String()))

	return m, tea.Sequence(echoCmd, tea.Println(resultStyle.Render(result.Inspect())))
}

func (m model) executeCommand(input string) (model, tea.Cmd) {
	parts := strings.Fields(strings.TrimPrefix(input, commandTag))

	echoCmd := tea.Println(echo(input))

	if len(parts) == 0 {
		return m, echoCmd
	}

	cmd := parts[0]

	m.logger.TraceContext(m.ctxFunc(), "repl command", slog.String("command", cmd))

	switch cmd {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echoCmd, tea.Quit)

	case "h", "help":
		return m, tea.Sequence(echoCmd, tea.Println(helpMessage()))

	case "l", "list":
		return m, tea.Sequence(echoCmd, tea.Println(m.listBindings()))

	case "p", "pretty":
		text, err := m.pretty()
		if err != nil {
			return m, tea.Sequence(echoCmd, tea.Println(errorStyle.Render(diagnostic(err))))
		}

		return m, tea.Sequence(echoCmd, tea.Println(text))

	case "c", "clear":
		return m, tea.ClearScreen

	case "r", "reset":
		m.interp.Reset()
		m.transcript = nil

		return m, tea.Sequence(echoCmd, tea.Println(hintStyle.Render("environment reset")))

	case "e", "edit":
		return m, tea.Sequence(echoCmd, m.edit())

	default:
		return m, tea.Sequence(echoCmd, tea.Println(
			errorStyle.Render("Unknown command: "+cmd+" (try "+commandTag+"help)"),
		))
	}
}

// session returns the transcript as one program, each entry terminated.
func (m model) session() string {
	var b strings.Builder

	for _, line := range m.transcript {
		b.WriteString(line)

		if !strings.HasSuffix(line, ";") {
			b.WriteString(";")
		}

		b.WriteString("\n")
	}

	return b.String()
}

// pretty returns the session source formatted.
func (m model) pretty() (string, error) {
	ctx := m.ctxFunc()

	program, err := lang.ParseString(ctx, m.session(), lang.WithLogger(m.logger))
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := lang.Format(ctx, &buf, program, 2); err != nil {
		return "", err
	}

	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// edit opens the session source in an editor.
func (m model) edit() tea.Cmd {
	source, err := m.pretty()
	if err != nil {
		source = m.session()
	}

	cmd := &editCommand{
		source:  source,
		ctxFunc: m.ctxFunc,
		logger:  m.logger,
	}

	return tea.Exec(cmd, func(err error) tea.Msg {
		if errors.Is(err, ErrEditDeclined) {
			return editDeclinedMsg{}
		}

		if err != nil {
			return editErrorMsg{err: err}
		}

		if cmd.edited == "" {
			return editCancelledMsg{}
		}

		return editedMsg{source: cmd.edited}
	})
}

// rerun replaces the session with source, evaluated in a fresh environment.
func (m model) rerun(source string) (model, tea.Cmd) {
	ctx := m.ctxFunc()

	m.interp.Reset()
	m.transcript = []string{strings.TrimSpace(source)}

	m.logger.TraceContext(ctx, "repl edit complete", slog.Int("content_length", len(source)))

	result, err := m.interp.Run(ctx, source)
	if err != nil {
		return m, tea.Println(errorStyle.Render(diagnostic(err)))
	}

	done := tea.Println(resultStyle.Render("session re-evaluated"))
	if result == nil {
		return m, done
	}

	return m, tea.Sequence(done, tea.Println(resultStyle.Render(result.Inspect())))
}

// listBindings renders every global binding with its kind and a preview of
// its value.
func (m model) listBindings() string {
	var b strings.Builder

	for _, name := range m.interp.Env().Names() {
		v, _ := m.interp.Env().Get(name)

		preview := ansi.Truncate(v.Inspect(), maxPreview, "...")

		fmt.Fprintf(&b, "  %s %s %s\n", name, hintStyle.Render(v.Kind().String()), hintStyle.Render(preview))
	}

	if b.Len() == 0 {
		return hintStyle.Render("  (no bindings)")
	}

	return strings.TrimSuffix(b.String(), "\n")
}
