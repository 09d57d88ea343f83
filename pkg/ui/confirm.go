package ui

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
)

// --- Confirm prompt model ---

type confirmModel struct {
	question string
	answer   bool
	done     bool
}

func newConfirmModel(question string) confirmModel {
	return confirmModel{question: question}
}

func (m confirmModel) Init() tea.Cmd { return nil }

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "y", "Y":
		m.answer = true
		m.done = true
		return m, tea.Quit
	case "n", "N", "enter", "esc", "q", "ctrl+c":
		m.answer = false
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m confirmModel) View() string {
	if m.done {
		answer := StyleMuted.Render("no")
		if m.answer {
			answer = StyleSuccess.Render("yes")
		}
		return fmt.Sprintf("%s %s\n", StyleBold.Render(m.question), answer)
	}
	return fmt.Sprintf("%s %s", StyleBold.Render(m.question), StyleMuted.Render("(y/N)"))
}

// Prompt asks yes/no questions in the terminal
type Prompt struct {
	in  io.Reader
	out io.Writer
}

// NewPrompt creates a prompt. Nil streams fall back to the terminal.
func NewPrompt(in io.Reader, out io.Writer) *Prompt {
	return &Prompt{in: in, out: out}
}

// Confirm blocks until the operator answers. Anything but "y" is a no.
func (p *Prompt) Confirm(ctx context.Context, question string) (bool, error) {
	var opts []tea.ProgramOption
	opts = append(opts, tea.WithContext(ctx))
	if p.in != nil {
		opts = append(opts, tea.WithInput(p.in))
	}
	if p.out != nil {
		opts = append(opts, tea.WithOutput(p.out))
	}

	final, err := tea.NewProgram(newConfirmModel(question), opts...).Run()
	if err != nil {
		return false, err
	}

	m, ok := final.(confirmModel)
	if !ok {
		return false, fmt.Errorf("unexpected prompt model %T", final)
	}
	return m.answer, nil
}
