package repl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/lala/lang"
	"github.com/ardnew/lala/log"
)

// editDoneMsg is sent when the edited script ran successfully.
type editDoneMsg struct {
	script string
	result lang.Result
}

// editCancelledMsg is sent when the user cleared the editor content.
type editCancelledMsg struct{}

// editDeclinedMsg is sent when the user declined to re-edit a failing
// script.
type editDeclinedMsg struct{}

// editErrorMsg is sent when the editor could not be run.
type editErrorMsg struct{ err error }

const (
	evalPrompt = "➜ "
	ctrlPrompt = " :"
)

func helpMessage() string {
	return `
: Commands (press Esc to toggle mode):

  help     Print this help
  list     List variables and their values
  reset    Restore the initial variables
  edit     Edit the session script in $EDITOR and run it
  clear    Clear screen
  quit     Exit REPL

Usage:
  Type a statement to run it; variables persist between lines
  Completions appear automatically as you type
  Press Tab / Shift-Tab to cycle through candidates
  Press Space to accept the current candidate
  Press Esc to toggle between eval and command modes
  Use Up/Down arrows for history navigation (mode switches automatically)
  Use Shift+Up/Shift+Down for history navigation within current mode only
  Use Alt+Up/Alt+Down to navigate command history
  Press Ctrl+C on empty line or Ctrl+D to exit
`
}

// inputMode represents the current input mode.
type inputMode int

const (
	modeEval inputMode = iota
	modeCtrl
)

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

func (m inputMode) echo(input string) string {
	if m == modeCtrl {
		return ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(input)
	}

	return promptStyle.Render(evalPrompt) + inputStyle.Render(input)
}

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc  func() context.Context
	input    textinput.Model
	language *lang.Language
	vars     map[string]any // live variables, modified by each line
	initial  map[string]any // variables restored by reset
	script   []string       // lines that ran successfully since the last reset
	logger   log.Logger
	history  *History

	matches          fuzzy.Matches // current fuzzy match results
	candidates       []string      // backing candidate list
	historyIdx       int
	wordStart        int       // byte offset of current word start
	wordEnd          int       // byte offset of current word end
	suggIdx          int       // selected candidate index
	preTabCursor     int       // cursor position before tab-cycling began
	altNavOrigCursor int       // original cursor position before Alt navigation
	width            int       // terminal width for ellipsization
	evalCursor       int
	ctrlCursor       int
	preTabText       string    // input text before tab-cycling began
	altNavOrigText   string    // original text before Alt navigation
	evalText         string
	ctrlText         string
	altNavOrigMode   inputMode // original mode before Alt navigation
	mode             inputMode
	tabActive        bool // whether user is tab-cycling
	altNavActive     bool // whether user is in Alt+Up/Down navigation
	quitting         bool
}

// Run starts an interactive session over vars, which it modifies in place.
// The history is loaded from and appended to historyPath.
func Run(
	ctx context.Context,
	language *lang.Language,
	vars map[string]any,
	historyPath string,
	logger log.Logger,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	if vars == nil {
		vars = make(map[string]any)
	}

	history := NewHistory(historyPath)
	if err := history.Load(); err != nil {
		logger.WarnContext(ctx, "could not load history",
			slog.String("path", historyPath),
			slog.Any("error", err),
		)
	}

	logger.TraceContext(ctx, "repl start",
		slog.String("history", historyPath),
		slog.Int("history_entries", history.Len()),
		slog.Int("variables", len(vars)),
	)

	m := newModel(ctx, language, vars, history, logger)

	_, err = tea.NewProgram(m, tea.WithContext(ctx)).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}

	return err
}

const defaultWidth = 80

func newModel(
	ctx context.Context,
	language *lang.Language,
	vars map[string]any,
	history *History,
	logger log.Logger,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(evalPrompt)
	ti.Focus()
	ti.CharLimit = 1024
	ti.Width = defaultWidth

	return model{
		ctxFunc:    func() context.Context { return ctx },
		input:      ti,
		language:   language,
		vars:       vars,
		initial:    lang.NewEnvironment(vars).Clone().Map(),
		logger:     logger,
		history:    history,
		historyIdx: history.Len(),
		width:      defaultWidth,
		mode:       modeEval,
	}
}

func (m model) completer() completer {
	return completer{grammar: m.language.Grammar(), vars: m.vars}
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
		m.input.Width = msg.Width - len(evalPrompt) - 2

		return m, nil

	case editDoneMsg:
		m.replaceVars(msg.result.Variables)
		m.script = []string{msg.script}

		m.logger.TraceContext(m.ctxFunc(), "repl edit complete",
			slog.Int("variables", len(m.vars)),
		)

		return m, tea.Println(resultStyle.Render(lang.Stringify(msg.result.ReturnValue)))

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

	switch {
	case m.historyIdx < m.history.Len():
		hint := fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)),
			m.history.Len())
		b.WriteString(hintStyle.Render(hint))

	case strings.TrimSpace(m.input.Value()) == "":
		hint := "Type a statement or press Esc for commands"
		if m.mode == modeCtrl {
			hint = "Type: " + strings.Join(ctrlCommands, ", ") + " (press Esc to return)"
		}

		b.WriteString(hintStyle.Render(hint))

	case len(m.matches) > 0:
		isFunction := func(string) bool { return false }
		if m.mode == modeEval {
			isFunction = m.completer().isFunction
		}

		b.WriteString(renderCandidateBar(
			m.matches, m.suggIdx, m.tabActive, m.width, isFunction,
		))
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
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
		m.altNavActive = false
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
		m.altNavActive = false

		if !m.tabActive || len(m.matches) == 0 {
			return m.executeInput()
		}

		// Lock in the current tab candidate without executing.
		m.tabActive = false
		refreshMatches(&m, true)

		return m, nil

	case tea.KeyTab:
		return m.cycle(+1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		if msg.Alt {
			return m.historyCtrl(-1), nil
		}

		return m.historyStep(-1, false), nil

	case tea.KeyDown:
		if msg.Alt {
			return m.historyCtrl(+1), nil
		}

		return m.historyStep(+1, false), nil

	case tea.KeyShiftUp:
		return m.historyStep(-1, true), nil

	case tea.KeyShiftDown:
		return m.historyStep(+1, true), nil

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			refreshMatches(&m, false)

			return m, nil
		}

		m.altNavActive = false

		if m.mode == modeEval {
			return m.switchToMode(modeCtrl), nil
		}

		return m.switchToMode(modeEval), nil

	case tea.KeyRunes:
		// Space accepts the candidate being cycled.
		if m.tabActive && msg.String() == " " {
			m.tabActive = false
		}

		var cmd tea.Cmd

		m.historyIdx = m.history.Len()
		m.input, cmd = m.input.Update(msg)
		refreshMatches(&m, true)

		return m, cmd
	}

	// Any other key edits or moves within the line.
	var cmd tea.Cmd

	m.tabActive = false
	m.altNavActive = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	refreshMatches(&m, false)

	return m, cmd
}

// cycle moves the selected candidate by dir, starting a tab cycle if none is
// active. A single candidate is completed and confirmed immediately.
func (m model) cycle(dir int) model {
	switch n := len(m.matches); {
	case n == 0:
		return m

	case n == 1:
		replaceCurrentWord(&m, m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m

	case m.tabActive:
		m.suggIdx = (m.suggIdx + dir + n) % n

	default:
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()

		m.suggIdx = 0
		if dir < 0 {
			m.suggIdx = n - 1
		}
	}

	replaceCurrentWord(&m, m.matches[m.suggIdx].Str)

	return m
}

// replaceCurrentWord replaces the current word boundaries in the input with
// the given replacement text and repositions the cursor.
func replaceCurrentWord(m *model, replacement string) {
	input := m.input.Value()
	cursor := m.wordStart + len(replacement)

	m.input.SetValue(input[:m.wordStart] + replacement + input[m.wordEnd:])
	m.input.SetCursor(cursor)

	m.wordEnd = cursor
}

// refreshMatches recomputes fuzzy matches for the current input state.
// When autoConfirm is true it also confirms the completion when exactly one
// candidate remains and the typed word already equals it. Deletions and
// cursor movement pass false so editing never completes unexpectedly.
func refreshMatches(m *model, autoConfirm bool) {
	m.matches, m.candidates, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}

	if !autoConfirm || len(m.matches) != 1 {
		return
	}

	candidate := m.matches[0].Str
	if m.input.Value()[m.wordStart:m.wordEnd] == candidate {
		replaceCurrentWord(m, candidate)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil
	}
}

func (m model) executeInput() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	m.evalText, m.evalCursor = "", 0
	m.ctrlText, m.ctrlCursor = "", 0
	m.input.SetValue("")

	if err := m.history.Write(input, m.mode); err != nil {
		m.logger.DebugContext(m.ctxFunc(), "repl history write",
			slog.Any("error", err))
	}

	m.historyIdx = m.history.Len()

	if m.mode == modeCtrl {
		return m.executeCommand(input)
	}

	return m.evaluate(input)
}

// evaluate runs one line against the session variables. Assignments made
// before a failing statement are kept.
func (m model) evaluate(input string) (model, tea.Cmd) {
	ctx := m.ctxFunc()
	echo := tea.Println(modeEval.echo(input))

	var calls []string

	res, err := m.language.Run(ctx, input, m.vars,
		lang.WithCallback(func(action string) { calls = append(calls, action) }))

	m.logger.TraceContext(ctx, "repl eval",
		slog.String("input", input),
		slog.String("result_type", resultTypeName(res.ReturnValue)),
		slog.Bool("ok", err == nil),
	)

	if err != nil {
		return m, tea.Sequence(echo, tea.Println(errorStyle.Render(err.Error())))
	}

	m.script = append(m.script, input)

	cmds := []tea.Cmd{echo}
	for _, call := range calls {
		cmds = append(cmds, tea.Println(hintStyle.Render(call+"()")))
	}

	if res.ReturnValue != nil {
		cmds = append(cmds, tea.Println(resultStyle.Render(lang.Stringify(res.ReturnValue))))
	}

	return m, tea.Sequence(cmds...)
}

func (m model) executeCommand(input string) (model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}

	echo := tea.Println(modeCtrl.echo(input))

	m.logger.TraceContext(m.ctxFunc(), "repl command",
		slog.String("command", parts[0]),
		slog.Any("args", parts[1:]),
	)

	switch parts[0] {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echo, tea.Quit)

	case "h", "help":
		return m, tea.Sequence(echo, tea.Println(helpMessage()))

	case "l", "list":
		return m, tea.Sequence(echo, tea.Println(m.listVariables()))

	case "r", "reset":
		m.replaceVars(lang.NewEnvironment(m.initial).Clone().Map())
		m.script = nil

		return m, tea.Sequence(echo, tea.Println(hintStyle.Render("variables reset")))

	case "c", "clear":
		return m, tea.ClearScreen

	case "e", "edit":
		return m, tea.Sequence(echo, m.edit())

	default:
		return m, tea.Println(
			errorStyle.Render("Unknown command: " + parts[0] + " (try 'help')"),
		)
	}
}

// replaceVars replaces the contents of the live variable map, which the
// host may hold a reference to.
func (m *model) replaceVars(vars map[string]any) {
	clear(m.vars)
	maps.Copy(m.vars, vars)
}

func (m model) edit() tea.Cmd {
	cmd := &editCommand{
		ctxFunc:  m.ctxFunc,
		language: m.language,
		logger:   m.logger,
		initial:  m.initial,
		script:   strings.Join(m.script, "\n") + "\n",
	}

	return tea.Exec(cmd, func(err error) tea.Msg {
		switch {
		case errors.Is(err, ErrEditDeclined):
			return editDeclinedMsg{}
		case err != nil:
			return editErrorMsg{err: err}
		case cmd.result == nil:
			return editCancelledMsg{}
		default:
			return editDoneMsg{script: cmd.script, result: *cmd.result}
		}
	})
}

// historySeek returns the index of the nearest entry from the current
// position in direction dir that satisfies match.
func (m model) historySeek(dir int, match func(HistoryEntry) bool) (int, bool) {
	for i := m.historyIdx + dir; i >= 0 && i < m.history.Len(); i += dir {
		if entry, err := m.history.Entry(i); err == nil && match(entry) {
			return i, true
		}
	}

	return 0, false
}

// recall loads entry i into the input.
func (m model) recall(i int) model {
	entry, err := m.history.Entry(i)
	if err != nil {
		return m
	}

	m.historyIdx = i
	if m.mode != entry.Mode {
		m = m.switchToMode(entry.Mode)
	}

	m.input.SetValue(entry.Line)
	m.input.SetCursor(len(entry.Line))
	refreshMatches(&m, false)

	return m
}

// historyStep moves through the history by one entry in direction dir,
// restricted to the current mode if sameMode is set. Moving past the newest
// entry clears the input.
func (m model) historyStep(dir int, sameMode bool) model {
	mode := m.mode

	i, ok := m.historySeek(dir, func(e HistoryEntry) bool {
		return !sameMode || e.Mode == mode
	})
	if ok {
		return m.recall(i)
	}

	if dir > 0 && m.historyIdx < m.history.Len() {
		m.historyIdx = m.history.Len()
		m.input.SetValue("")
		refreshMatches(&m, false)
	}

	return m
}

// historyCtrl moves through the command history only. The first move saves
// the input state, and running off either end restores it.
func (m model) historyCtrl(dir int) model {
	if !m.altNavActive {
		m.altNavActive = true
		m.altNavOrigMode = m.mode
		m.altNavOrigText = m.input.Value()
		m.altNavOrigCursor = m.input.Position()

		if m.mode != modeCtrl {
			m = m.switchToMode(modeCtrl)
		}
	}

	i, ok := m.historySeek(dir, func(e HistoryEntry) bool { return e.Mode == modeCtrl })
	if ok {
		return m.recall(i)
	}

	m.altNavActive = false
	if m.altNavOrigMode != m.mode {
		m = m.switchToMode(m.altNavOrigMode)
	}

	m.input.SetValue(m.altNavOrigText)
	m.input.SetCursor(m.altNavOrigCursor)
	m.historyIdx = m.history.Len()
	refreshMatches(&m, false)

	return m
}

// listVariables renders every variable path with its value.
func (m model) listVariables() string {
	env := lang.NewEnvironment(m.vars)
	paths := env.Paths()

	if len(paths) == 0 {
		return hintStyle.Render("  (no variables)")
	}

	var b strings.Builder

	for _, path := range paths {
		value, _ := env.Lookup(lang.ParsePath(path))

		b.WriteString("  ")
		b.WriteString(path)
		b.WriteString(" ")
		b.WriteString(hintStyle.Render(preview(value)))
		b.WriteString("\n")
	}

	return strings.TrimSuffix(b.String(), "\n")
}

// preview returns a short rendering of a value: strings are quoted and
// long renderings are truncated.
func preview(value any) string {
	s := lang.Stringify(value)
	if str, ok := value.(string); ok {
		s = strconv.Quote(str)
	}

	if len(s) > 40 {
		return s[:37] + "..."
	}

	return s
}

// switchToMode switches to the specified mode, preserving the input of the
// mode being left.
func (m model) switchToMode(mode inputMode) model {
	if m.mode == modeEval {
		m.evalText = m.input.Value()
		m.evalCursor = m.input.Position()
	} else {
		m.ctrlText = m.input.Value()
		m.ctrlCursor = m.input.Position()
	}

	m.mode = mode
	if mode == modeEval {
		m.input.Prompt = promptStyle.Render(evalPrompt)
		m.input.SetValue(m.evalText)
		m.input.SetCursor(m.evalCursor)
	} else {
		m.input.Prompt = ctrlPromptStyle.Render(ctrlPrompt)
		m.input.SetValue(m.ctrlText)
		m.input.SetCursor(m.ctrlCursor)
	}

	refreshMatches(&m, false)

	return m
}

func resultTypeName(value any) string {
	if value == nil {
		return "nil"
	}

	return fmt.Sprintf("%T", value)
}
