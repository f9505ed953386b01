package builtins

import (
	"lumen.build/cli/internal/core/command"
	"lumen.build/cli/internal/core/config"
	"lumen.build/cli/internal/core/plugin"
)

// Build registers the production build command. Compiling the build graph is
// the external compiler's concern; this command composes the configuration
// and emits the build lifecycle events around the hand-off.
func Build() *plugin.Plugin {
	return &plugin.Plugin{
		ID: "built-in:commands/build",
		Apply: func(api plugin.API, opts *config.Options, _ map[string]any) {
			api.RegisterCommand("build", command.Spec{
				Description: "produce a production build",
				Flags: command.Flags{
					"watch": {Type: "bool", Usage: "rebuild on file change"},
					"dest":  {Type: "string", Default: "", Usage: "output directory, overrides outputDir"},
					"mode":  {Type: "string", Usage: "build mode"},
				},
				Handler: func(ctx *command.Context) error {
					cfg, err := api.BuildConfig()
					if err != nil {
						return err
					}

					dest := flagString(ctx, "dest", "")
					if dest == "" {
						dest = opts.OutputDir
					}
					if out, ok := cfg["output"].(map[string]any); ok {
						out["path"] = dest
					}

					api.Emit("build:start", map[string]any{
						"mode":  api.Mode(),
						"dest":  dest,
						"watch": flagBool(ctx, "watch"),
					})
					api.Emit("build:done", map[string]any{"dest": dest})
					return nil
				},
			})
		},
	}
}
