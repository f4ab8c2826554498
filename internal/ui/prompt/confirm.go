package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/toolprint/vibews/internal/ui/styles"
)

// ConfirmResult holds the result of a confirmation prompt.
type ConfirmResult struct {
	Confirmed bool
	Cancelled bool
}

// Request is a yes/no question with optional detail lines shown above it.
type Request struct {
	Question string
	Details  []string
}

type confirmModel struct {
	req       Request
	confirmed bool
	done      bool
	cancelled bool
}

func (m confirmModel) Init() tea.Cmd {
	return nil
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "y", "Y":
			m.confirmed = true
			m.done = true
			return m, tea.Quit
		case "n", "N", "enter":
			// enter takes the default, which is no
			m.confirmed = false
			m.done = true
			return m, tea.Quit
		case "ctrl+c", "q", "esc":
			m.cancelled = true
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m confirmModel) View() string {
	if m.done {
		return ""
	}
	var b strings.Builder
	for _, line := range m.req.Details {
		b.WriteString("  " + line + "\n")
	}
	fmt.Fprintf(&b, "%s %s ", styles.Render(styles.Bold, m.req.Question), styles.Render(styles.MutedStyle, "[y/N]"))
	return b.String()
}

// Confirm shows req on out, reads the answer from in and returns it.
// The default answer is no. Cancelling ctx cancels the prompt.
func Confirm(ctx context.Context, req Request, in io.Reader, out io.Writer) (ConfirmResult, error) {
	p := tea.NewProgram(confirmModel{req: req},
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
	)
	finalModel, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return ConfirmResult{Cancelled: true}, ctx.Err()
	}
	if err != nil {
		return ConfirmResult{}, err
	}
	m := finalModel.(confirmModel)
	return ConfirmResult{
		Confirmed: m.confirmed,
		Cancelled: m.cancelled,
	}, nil
}
