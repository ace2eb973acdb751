package main

import (
	"context"
	"strings"

	"github.com/bebanjo/omnibox"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	promptStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1)
)

// inferMsg carries the inference for the input at revision seq.
type inferMsg struct {
	seq       int
	inference omnibox.Inference
}

// enteredMsg reports the outcome of confirming the input.
type enteredMsg struct {
	err error
}

// shellModel is an interactive omnibox: every edit re-runs the inference and
// Enter opens the destination.
type shellModel struct {
	ctx   context.Context
	box   *omnibox.Omnibox
	input textinput.Model

	// seq counts input revisions; inferences for older revisions are dropped.
	seq       int
	inference omnibox.Inference
	ready     bool

	err      error
	quitting bool
}

func newShellModel(ctx context.Context, box *omnibox.Omnibox) shellModel {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render("gh") + " "
	ti.Placeholder = "repository#command"
	ti.Focus()
	ti.Width = 50

	return shellModel{
		ctx:   ctx,
		box:   box,
		input: ti,
	}
}

func (m shellModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.infer(m.seq, ""))
}

func (m shellModel) infer(seq int, text string) tea.Cmd {
	return func() tea.Msg {
		return inferMsg{seq: seq, inference: m.box.Infer(m.ctx, text)}
	}
}

func (m shellModel) enter(text string) tea.Cmd {
	return func() tea.Msg {
		return enteredMsg{err: m.box.Enter(m.ctx, text)}
	}
}

func (m shellModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.quitting = true
			return m, tea.Quit
		case tea.KeyEnter:
			return m, m.enter(m.input.Value())
		}

	case inferMsg:
		if msg.seq == m.seq {
			m.inference = msg.inference
			m.ready = true
		}
		return m, nil

	case enteredMsg:
		m.err = msg.err
		m.quitting = true
		return m, tea.Quit
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() == before {
		return m, cmd
	}
	m.seq++
	return m, tea.Batch(cmd, m.infer(m.seq, m.input.Value()))
}

func (m shellModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.input.View())
	b.WriteString("\n")
	if m.ready {
		b.WriteString(renderDescription(m.inference.Default, true))
		b.WriteString("\n")
		for _, s := range m.inference.Suggestions {
			b.WriteString("  ")
			b.WriteString(renderDescription(s.Description, true))
			b.WriteString("  ")
			b.WriteString(destinationStyle.Render(s.Destination))
			b.WriteString("\n")
		}
	}
	b.WriteString(helpStyle.Render("enter: open  esc: quit"))
	return b.String()
}
