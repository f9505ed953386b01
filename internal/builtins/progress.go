package builtins

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"lumen.build/cli/internal/core/config"
	"lumen.build/cli/internal/core/plugin"
)

// Progress is the built-in progress reporter. It subscribes to the build
// lifecycle events and renders a live progress bar while a build runs. It is
// appended after all other plugins and suppressed under LUMEN_TEST or when
// options.progress is false.
func Progress() *plugin.Plugin {
	return &plugin.Plugin{
		ID: "built-in:progress",
		Apply: func(api plugin.API, _ *config.Options, _ map[string]any) {
			r := &progressReporter{}
			api.On("build:start", r.start)
			api.On("build:progress", r.progress)
			api.On("build:done", r.done)
		},
	}
}

type progressReporter struct {
	program *tea.Program
}

func (r *progressReporter) start(payload any) {
	if r.program != nil {
		return
	}
	r.program = tea.NewProgram(newProgressModel(payload), tea.WithOutput(os.Stderr))
	go func() {
		_, _ = r.program.Run()
	}()
}

func (r *progressReporter) progress(payload any) {
	if r.program == nil {
		return
	}
	if m, ok := payload.(map[string]any); ok {
		if pct, ok := m["percent"].(float64); ok {
			msg, _ := m["message"].(string)
			r.program.Send(progressMsg{percent: pct, message: msg})
		}
	}
}

func (r *progressReporter) done(any) {
	if r.program == nil {
		return
	}
	r.program.Send(doneMsg{})
	r.program = nil
}

type progressMsg struct {
	percent float64
	message string
}

type doneMsg struct{}

var (
	barFilledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	barEmptyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	labelStyle     = lipgloss.NewStyle().Faint(true)
)

type progressModel struct {
	percent float64
	message string
}

func newProgressModel(payload any) progressModel {
	m := progressModel{message: "building"}
	if p, ok := payload.(map[string]any); ok {
		if mode, ok := p["mode"].(string); ok {
			m.message = "building for " + mode
		}
	}
	return m
}

func (m progressModel) Init() tea.Cmd { return nil }

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case progressMsg:
		m.percent = msg.percent
		if msg.message != "" {
			m.message = msg.message
		}
		return m, nil
	case doneMsg:
		m.percent = 1
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m progressModel) View() string {
	const width = 30
	filled := int(m.percent * width)
	if filled > width {
		filled = width
	}
	bar := barFilledStyle.Render(strings.Repeat("█", filled)) +
		barEmptyStyle.Render(strings.Repeat("░", width-filled))
	return fmt.Sprintf("%s %3.0f%% %s\n", bar, m.percent*100, labelStyle.Render(m.message))
}
