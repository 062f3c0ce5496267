package ui

import (
	"io"
	"time"

	bubbles "github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
)

type tickMsg struct{}
type stopMsg struct{}

type model struct {
	viewFn func() View
	view   View
	bar    bubbles.Model
	onQuit func()
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.onQuit()
			return m, tea.Quit
		}
	case tickMsg:
		m.view = m.viewFn()
		if m.view.AllDone {
			return m, tea.Quit
		}
		return m, nil
	case stopMsg:
		return m, tea.Quit
	}
	return m, nil
}

func (m model) View() string {
	return renderView(m.view, func(percent float64) string {
		return m.bar.ViewAs(percent / 100)
	})
}

// Run starts the interactive display. viewFn is polled on a 250ms tick;
// onQuit fires when the user bails out early. The returned stop function
// shuts the display down and blocks until the terminal is restored.
func Run(w io.Writer, viewFn func() View, onQuit func()) func() {
	bar := bubbles.New(bubbles.WithDefaultGradient(), bubbles.WithWidth(40))
	program := tea.NewProgram(
		model{viewFn: viewFn, view: viewFn(), bar: bar, onQuit: onQuit},
		tea.WithOutput(w),
	)

	finished := make(chan struct{})
	go func() {
		_, _ = program.Run()
		close(finished)
	}()

	ticker := time.NewTicker(250 * time.Millisecond)
	stop := make(chan struct{})
	go func() {
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				program.Send(tickMsg{})
			}
		}
	}()

	return func() {
		close(stop)
		ticker.Stop()
		program.Send(tickMsg{})
		program.Send(stopMsg{})
		<-finished
	}
}
