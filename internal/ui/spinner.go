package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/muurk/findradio/internal/logging"
)

// workDoneMsg tells the spinner program the wrapped work has returned
type workDoneMsg struct {
	err error
}

// SpinnerModel is a Bubble Tea model that animates while work runs and
// quits, leaving no output behind, once the work is done.
type SpinnerModel struct {
	spinner spinner.Model
	label   string
	done    bool
	err     error
}

// NewSpinnerModel creates a spinner showing label
func NewSpinnerModel(label string) SpinnerModel {
	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(WarningColor)),
	)
	return SpinnerModel{spinner: s, label: label}
}

// Init implements tea.Model
func (m SpinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update implements tea.Model
func (m SpinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case workDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model
func (m SpinnerModel) View() string {
	if m.done {
		return ""
	}
	return fmt.Sprintf("%s %s\n", m.spinner.View(), m.label)
}

// RunWithSpinner runs work while a spinner animates on out. When out is
// not a terminal the label is printed once instead. The spinner never
// reads stdin and installs no signal handler; interrupting work is the
// caller's job (via the context it closes over).
func RunWithSpinner(out io.Writer, label string, work func() error) error {
	if f, ok := out.(*os.File); !ok || !IsTerminal(f) {
		fmt.Fprintln(out, label)
		return work()
	}

	p := tea.NewProgram(NewSpinnerModel(label),
		tea.WithOutput(out),
		tea.WithInput(nil),
		tea.WithoutSignalHandler(),
	)

	errCh := make(chan error, 1)
	go func() {
		err := work()
		errCh <- err
		p.Send(workDoneMsg{err: err})
	}()

	if _, err := p.Run(); err != nil {
		logging.Debug("Spinner program exited with error", zap.Error(err))
	}
	return <-errCh
}
