package builtins

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/lipgloss"

	"lumen.build/cli/internal/core/command"
	"lumen.build/cli/internal/core/config"
	"lumen.build/cli/internal/core/plugin"
)

var (
	helpTitleStyle = lipgloss.NewStyle().Bold(true)
	helpCmdStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
)

// Help registers the command listing every registered command, or the
// details of one.
func Help() *plugin.Plugin {
	return &plugin.Plugin{
		ID: "built-in:commands/help",
		Apply: func(api plugin.API, _ *config.Options, _ map[string]any) {
			api.RegisterCommand("help [command]", command.Spec{
				Description: "list commands or describe one",
				Handler: func(ctx *command.Context) error {
					if len(ctx.Args) > 0 {
						return describeCommand(api, ctx.Args[0])
					}
					fmt.Println(helpTitleStyle.Render("Usage: lumen <command> [options]"))
					fmt.Println()
					for _, d := range api.Commands() {
						fmt.Printf("  %s  %s\n", helpCmdStyle.Render(fmt.Sprintf("%-18s", d.Name)), d.Description)
					}
					return nil
				},
			})
		},
	}
}

func describeCommand(api plugin.API, name string) error {
	for _, d := range api.Commands() {
		if d.Name != name {
			continue
		}
		fmt.Println(helpTitleStyle.Render("Usage: lumen " + d.FullCommand))
		if d.Description != "" {
			fmt.Println()
			fmt.Println("  " + d.Description)
		}
		if len(d.Flags) > 0 {
			fmt.Println()
			fmt.Println(helpTitleStyle.Render("Options:"))
			names := make([]string, 0, len(d.Flags))
			for n := range d.Flags {
				names = append(names, n)
			}
			sort.Strings(names)
			for _, n := range names {
				fmt.Printf("  --%-14s %s\n", n, d.Flags[n].Usage)
			}
		}
		return nil
	}
	return fmt.Errorf("unknown command %q", name)
}
