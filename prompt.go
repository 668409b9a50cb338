package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Prompter is the single input capability the session uses. Prompt blocks
// until a line is entered or ctx is done. It returns io.EOF when input is
// exhausted and ErrInterrupted when the operator aborts.
type Prompter interface {
	Prompt(ctx context.Context, label string) (string, error)
}

type lineResult struct {
	text string
	err  error
}

// lineReader reads newline-terminated answers from any reader. It serves
// piped input and scripted tests. A single goroutine owns the reader so a
// cancelled Prompt never leaves a second read racing the first.
type lineReader struct {
	in    *bufio.Reader
	out   io.Writer
	start sync.Once
	lines chan lineResult
	err   error
}

func newLineReader(in io.Reader, out io.Writer) *lineReader {
	return &lineReader{in: bufio.NewReader(in), out: out, lines: make(chan lineResult)}
}

func (r *lineReader) readLines() {
	for {
		line, err := r.in.ReadString('\n')
		if line != "" {
			r.lines <- lineResult{text: strings.TrimRight(line, "\r\n")}
		}
		if err != nil {
			r.lines <- lineResult{err: err}
			return
		}
	}
}

func (r *lineReader) Prompt(ctx context.Context, label string) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	if err := ctx.Err(); err != nil {
		return "", interruptedBy(err)
	}
	r.start.Do(func() { go r.readLines() })
	if r.out != nil && label != "" {
		fmt.Fprintf(r.out, "%s ", ui.prompt.Render(label))
	}
	select {
	case <-ctx.Done():
		return "", interruptedBy(ctx.Err())
	case res := <-r.lines:
		if res.err != nil {
			r.err = res.err
			return "", res.err
		}
		return res.text, nil
	}
}

// teaPrompter asks each question with a short-lived bubbletea program around
// a textinput, so the terminal gets line editing and history of the answer.
type teaPrompter struct {
	opts []tea.ProgramOption
}

func newTeaPrompter(opts ...tea.ProgramOption) *teaPrompter {
	return &teaPrompter{opts: opts}
}

func (p *teaPrompter) Prompt(ctx context.Context, label string) (string, error) {
	opts := slices.Concat(p.opts, []tea.ProgramOption{tea.WithContext(ctx)})
	final, err := tea.NewProgram(newPromptModel(label), opts...).Run()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", interruptedBy(ctxErr)
		}
		if errors.Is(err, tea.ErrInterrupted) {
			return "", ErrInterrupted
		}
		return "", fmt.Errorf("prompt: %w", err)
	}
	m, ok := final.(promptModel)
	if !ok {
		return "", errors.New("prompt: unexpected model")
	}
	switch {
	case m.interrupted:
		return "", ErrInterrupted
	case m.eof:
		return "", io.EOF
	}
	return m.value, nil
}

type promptModel struct {
	label       string
	input       textinput.Model
	value       string
	done        bool
	interrupted bool
	eof         bool
}

func newPromptModel(label string) promptModel {
	ti := textinput.New()
	ti.Prompt = "› "
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	ti.CharLimit = 4096
	ti.Focus()
	return promptModel{label: label, input: ti}
}

func (m promptModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.Type {
		case tea.KeyEnter:
			m.value = m.input.Value()
			m.done = true
			return m, tea.Quit
		case tea.KeyCtrlC:
			m.interrupted = true
			m.done = true
			return m, tea.Quit
		case tea.KeyCtrlD:
			if m.input.Value() == "" {
				m.eof = true
				m.done = true
				return m, tea.Quit
			}
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m promptModel) View() string {
	if m.done {
		return ui.prompt.Render(m.label) + " " + m.value + "\n"
	}
	return lipgloss.JoinVertical(lipgloss.Left, ui.prompt.Render(m.label), m.input.View()) + "\n"
}
