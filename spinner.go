package main

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type scanDoneMsg struct {
	Result ScanResult
}

type scanSpinnerModel struct {
	spinner spinner.Model
	root    string
	start   time.Time
	result  *ScanResult
	// interrupted is set when the operator presses Ctrl+C before the scan
	// finishes.
	interrupted bool
}

func newScanSpinnerModel(root string) scanSpinnerModel {
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	return scanSpinnerModel{spinner: sp, root: root, start: time.Now()}
}

func (m scanSpinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m scanSpinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case scanDoneMsg:
		result := msg.Result
		m.result = &result
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.interrupted = true
			return m, tea.Quit
		}
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m scanSpinnerModel) View() string {
	if m.result != nil || m.interrupted {
		return ""
	}
	elapsed := time.Since(m.start).Truncate(100 * time.Millisecond)
	return fmt.Sprintf("%s %s\n", m.spinner.View(), ui.muted.Render(fmt.Sprintf("Scanning %s… %s", m.root, elapsed)))
}

// withSpinner wraps a Scanner so a spinner is drawn while it runs. Ctrl+C on
// the spinner cancels the scan; the partial result then carries the
// cancellation in Err.
func withSpinner(scan Scanner, opts ...tea.ProgramOption) Scanner {
	return func(ctx context.Context, scanOpts ScanOptions) ScanResult {
		scanCtx, cancel := context.WithCancel(ctx)
		defer cancel()

		program := tea.NewProgram(newScanSpinnerModel(scanOpts.Root), opts...)
		done := make(chan ScanResult, 1)
		go func() {
			result := scan(scanCtx, scanOpts)
			done <- result
			program.Send(scanDoneMsg{Result: result})
		}()
		// A failed program only loses the animation.
		final, _ := program.Run()
		m, ok := final.(scanSpinnerModel)
		if !ok || !m.interrupted {
			return <-done
		}
		cancel()
		result := <-done
		if result.Err == nil {
			result.Err = context.Canceled
		}
		return result
	}
}
