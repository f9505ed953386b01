package builtins

import (
	"lumen.build/cli/internal/core/command"
	"lumen.build/cli/internal/core/composer"
	"lumen.build/cli/internal/core/config"
	"lumen.build/cli/internal/core/plugin"
)

const (
	defaultHost = "localhost"
	defaultPort = 8080
)

// Serve registers the development-server command. It resolves the composed
// configuration, runs registered dev-server middlewares against the server,
// and emits the serve lifecycle events the progress plugin listens for.
func Serve() *plugin.Plugin {
	return &plugin.Plugin{
		ID:           "built-in:commands/serve",
		DefaultModes: map[string]string{"serve": "development"},
		Apply: func(api plugin.API, opts *config.Options, _ map[string]any) {
			api.RegisterCommand("serve [entry]", command.Spec{
				Description: "start the development server",
				Flags: command.Flags{
					"host": {Type: "string", Default: "", Usage: "dev server host"},
					"port": {Type: "int", Default: 0, Usage: "dev server port"},
					"open": {Type: "bool", Usage: "open the browser on start"},
					"mode": {Type: "string", Usage: "build mode"},
				},
				Handler: func(ctx *command.Context) error {
					cfg, err := api.BuildConfig()
					if err != nil {
						return err
					}
					ds, _ := cfg["devServer"].(map[string]any)

					host := flagString(ctx, "host", "")
					if host == "" {
						host, _ = ds["host"].(string)
					}
					if host == "" {
						host = defaultHost
					}
					port := flagInt(ctx, "port", 0)
					if port == 0 {
						port = intValue(ds["port"], defaultPort)
					}

					server := NewDevServer(host, port)
					if hook, ok := ds[composer.HookKey].(composer.Middleware); ok {
						hook(server)
					}

					api.Emit("serve:start", map[string]any{
						"host": host,
						"port": port,
						"open": flagBool(ctx, "open"),
					})
					return nil
				},
			})
		},
	}
}

// intValue converts the number shapes JSON decoding and flag parsing
// produce.
func intValue(v any, fallback int) int {
	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	default:
		return fallback
	}
}
