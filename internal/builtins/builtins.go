// Package builtins provides the fixed set of plugins every run loads before
// any user plugin: baseline configuration plugins first, then the built-in
// commands. The order returned by All is part of the CLI's contract.
package builtins

import (
	"lumen.build/cli/internal/core/command"
	"lumen.build/cli/internal/core/plugin"

	"github.com/spf13/pflag"
)

// All returns the built-in plugins in their fixed load order.
func All() []*plugin.Plugin {
	return []*plugin.Plugin{
		Base(),
		CSS(),
		Dev(),
		Prod(),
		Serve(),
		Build(),
		Inspect(),
		Help(),
	}
}

func flagString(ctx *command.Context, name, fallback string) string {
	if _, ok := lookup(ctx, name); ok {
		if s, err := ctx.Flags.GetString(name); err == nil {
			return s
		}
	}
	return fallback
}

func flagInt(ctx *command.Context, name string, fallback int) int {
	if _, ok := lookup(ctx, name); ok {
		if n, err := ctx.Flags.GetInt(name); err == nil {
			return n
		}
	}
	return fallback
}

func flagBool(ctx *command.Context, name string) bool {
	if _, ok := lookup(ctx, name); ok {
		if b, err := ctx.Flags.GetBool(name); err == nil {
			return b
		}
	}
	return false
}

func lookup(ctx *command.Context, name string) (*pflag.Flag, bool) {
	if ctx == nil || ctx.Flags == nil {
		return nil, false
	}
	f := ctx.Flags.Lookup(name)
	return f, f != nil
}
