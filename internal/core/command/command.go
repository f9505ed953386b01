// Package command implements the command registry and the per-command
// flag/pre-handler aggregation that plugins contribute to.
package command

import (
	"strings"

	"github.com/spf13/pflag"
)

// Context carries the parsed invocation to handlers.
type Context struct {
	Name  string
	Args  []string
	Flags *pflag.FlagSet
}

// Handler executes a command given the parsed context.
type Handler func(*Context) error

// PreHandler runs before a command's own handler. Returning false vetoes the
// command: remaining pre-handlers and the main handler are skipped.
type PreHandler func(*Context) bool

// Flag describes one command-line flag. Type is one of "string", "bool",
// "int", "float" or "stringSlice".
type Flag struct {
	Type    string
	Default any
	Usage   string
}

// Flags maps flag names to their specs.
type Flags map[string]Flag

// Spec is the registration payload for a command. A Spec carrying only a
// Handler registers a command with no metadata, mirroring handler-only
// registration.
type Spec struct {
	Description string
	Flags       Flags
	Aliases     []string
	Handler     Handler
}

// Descriptor is a registered command.
type Descriptor struct {
	Name        string
	FullCommand string
	Description string
	Flags       Flags
	Aliases     []string
	Handler     Handler
}

// Name extracts the command key from a full command string: internal
// whitespace runs collapse to single spaces, then the token before the first
// space outside [...] or <...> placeholder groups is taken. "serve [entry]"
// and "run <task> [args...]" key as "serve" and "run".
func Name(fullCommand string) string {
	collapsed := strings.Join(strings.Fields(fullCommand), " ")
	depth := 0
	for i, r := range collapsed {
		switch r {
		case '[', '<':
			depth++
		case ']', '>':
			if depth > 0 {
				depth--
			}
		case ' ':
			if depth == 0 {
				return strings.TrimSpace(collapsed[:i])
			}
		}
	}
	return collapsed
}
