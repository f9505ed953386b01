package builtins

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"lumen.build/cli/internal/core/command"
	"lumen.build/cli/internal/core/config"
	"lumen.build/cli/internal/core/plugin"
)

// Inspect registers a command printing the fully composed configuration,
// optionally narrowed to dotted paths.
func Inspect() *plugin.Plugin {
	return &plugin.Plugin{
		ID: "built-in:commands/inspect",
		Apply: func(api plugin.API, _ *config.Options, _ map[string]any) {
			api.RegisterCommand("inspect [paths...]", command.Spec{
				Description: "print the resolved build configuration",
				Flags: command.Flags{
					"mode": {Type: "string", Usage: "build mode"},
				},
				Handler: func(ctx *command.Context) error {
					cfg, err := api.BuildConfig()
					if err != nil {
						return err
					}
					if len(ctx.Args) == 0 {
						return printJSON(cfg)
					}
					for _, path := range ctx.Args {
						v, ok := lookupPath(cfg, path)
						if !ok {
							fmt.Fprintf(os.Stderr, "no value at %q\n", path)
							continue
						}
						if err := printJSON(v); err != nil {
							return err
						}
					}
					return nil
				},
			})
		},
	}
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(stripFuncs(v), "", "  ")
	if err != nil {
		return fmt.Errorf("encoding configuration: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

// lookupPath walks a dotted path through nested maps.
func lookupPath(cfg map[string]any, path string) (any, bool) {
	var cur any = cfg
	for _, part := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// stripFuncs replaces function values (dev-server hooks) with a marker so
// the configuration stays JSON-encodable.
func stripFuncs(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = stripFuncs(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = stripFuncs(e)
		}
		return out
	default:
		if !jsonEncodable(t) {
			return fmt.Sprintf("<%T>", t)
		}
		return t
	}
}

func jsonEncodable(v any) bool {
	switch v.(type) {
	case nil, bool, string, int, int64, float64, json.Number:
		return true
	default:
		return false
	}
}
