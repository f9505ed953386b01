// Package cli bridges composed command descriptors to cobra, the external
// command-line parser that performs argument parsing and final dispatch.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"lumen.build/cli/internal/core/command"
	"lumen.build/cli/internal/service"
)

// Bridge turns a composed descriptor into a cobra command and executes it.
type Bridge struct{}

func NewBridge() *Bridge { return &Bridge{} }

// Dispatch builds a cobra command from the descriptor, materializes its
// merged flag spec onto the flag set, and executes it with the raw
// arguments.
func (b *Bridge) Dispatch(d *command.Descriptor, args []string) error {
	cmd := &cobra.Command{
		Use:           d.FullCommand,
		Short:         d.Description,
		Aliases:       append([]string(nil), d.Aliases...),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(c *cobra.Command, positional []string) error {
			return d.Handler(&command.Context{
				Name:  d.Name,
				Args:  positional,
				Flags: c.Flags(),
			})
		},
	}
	ApplyFlags(cmd.Flags(), d.Flags)
	cmd.SetArgs(args)
	return cmd.Execute()
}

// ApplyFlags materializes a flag spec onto a pflag set.
func ApplyFlags(fs *pflag.FlagSet, flags command.Flags) {
	for name, f := range flags {
		switch f.Type {
		case "bool":
			fs.Bool(name, boolDefault(f.Default), f.Usage)
		case "int":
			fs.Int(name, intDefault(f.Default), f.Usage)
		case "float":
			v, _ := f.Default.(float64)
			fs.Float64(name, v, f.Usage)
		case "stringSlice":
			v, _ := f.Default.([]string)
			fs.StringSlice(name, v, f.Usage)
		default:
			v, _ := f.Default.(string)
			fs.String(name, v, f.Usage)
		}
	}
}

func boolDefault(v any) bool {
	b, _ := v.(bool)
	return b
}

func intDefault(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	default:
		return 0
	}
}

// Execute splits the command name from the raw arguments and runs the
// orchestrator, printing any fatal error the way a CLI should.
func Execute(svc *service.Service, args []string) {
	name, rest := splitArgs(args)
	if err := svc.Run(name, rest); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// splitArgs separates the command name from its arguments. A flags-only
// invocation routes to help with the flags kept, so the parser rejects
// unknown ones instead of silently dropping user input.
func splitArgs(args []string) (string, []string) {
	if len(args) > 0 && args[0] != "" && args[0][0] != '-' {
		return args[0], args[1:]
	}
	return "help", args
}
