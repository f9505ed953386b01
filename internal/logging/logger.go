package logging

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"
)

// Logger is the leveled logging surface used across the CLI. Core packages
// depend on this interface so tests can substitute a recorder.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Done(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

var (
	infoTag  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Render("INFO")
	doneTag  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10")).Render("DONE")
	warnTag  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11")).Render("WARN")
	errorTag = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")).Render("ERROR")
)

// Console writes styled, leveled output for terminal users.
type Console struct {
	backend *logrus.Logger
}

// NewConsole creates a console logger writing to stderr. Debug output is
// emitted only when debug is true.
func NewConsole(debug bool) *Console {
	backend := logrus.New()
	backend.SetOutput(os.Stderr)
	backend.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp:       true,
		DisableLevelTruncation: true,
	})
	if debug {
		backend.SetLevel(logrus.DebugLevel)
	}
	return &Console{backend: backend}
}

// SetOutput redirects all console output, primarily for tests.
func (c *Console) SetOutput(w io.Writer) {
	c.backend.SetOutput(w)
}

func (c *Console) Debug(format string, args ...any) {
	c.backend.Debugf(format, args...)
}

func (c *Console) Info(format string, args ...any) {
	c.backend.Infof("%s %s", infoTag, fmt.Sprintf(format, args...))
}

// Done reports a successfully completed user-facing step.
func (c *Console) Done(format string, args ...any) {
	c.backend.Infof("%s %s", doneTag, fmt.Sprintf(format, args...))
}

func (c *Console) Warn(format string, args ...any) {
	c.backend.Warnf("%s %s", warnTag, fmt.Sprintf(format, args...))
}

func (c *Console) Error(format string, args ...any) {
	c.backend.Errorf("%s %s", errorTag, fmt.Sprintf(format, args...))
}

// Nop discards everything.
type Nop struct{}

func (Nop) Debug(string, ...any) {}
func (Nop) Info(string, ...any)  {}
func (Nop) Done(string, ...any)  {}
func (Nop) Warn(string, ...any)  {}
func (Nop) Error(string, ...any) {}

// Entry is a single captured log line.
type Entry struct {
	Level   string
	Message string
}

// Recorder captures log output for assertions in tests.
type Recorder struct {
	mu      sync.Mutex
	Entries []Entry
}

func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) record(level, format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Entries = append(r.Entries, Entry{Level: level, Message: fmt.Sprintf(format, args...)})
}

func (r *Recorder) Debug(format string, args ...any) { r.record("debug", format, args...) }
func (r *Recorder) Info(format string, args ...any)  { r.record("info", format, args...) }
func (r *Recorder) Done(format string, args ...any)  { r.record("done", format, args...) }
func (r *Recorder) Warn(format string, args ...any)  { r.record("warn", format, args...) }
func (r *Recorder) Error(format string, args ...any) { r.record("error", format, args...) }

// Messages returns all captured messages at the given level.
func (r *Recorder) Messages(level string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, e := range r.Entries {
		if e.Level == level {
			out = append(out, e.Message)
		}
	}
	return out
}
