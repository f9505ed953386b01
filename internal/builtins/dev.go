package builtins

import (
	"lumen.build/cli/internal/core/chain"
	"lumen.build/cli/internal/core/config"
	"lumen.build/cli/internal/core/plugin"
)

// Dev contributes development-mode configuration: fast source maps and hot
// module replacement. Dev-server host/port defaults live in the serve
// command so project-level devServer options can still fill them.
func Dev() *plugin.Plugin {
	return &plugin.Plugin{
		ID: "built-in:config/dev",
		Apply: func(api plugin.API, _ *config.Options, _ map[string]any) {
			api.ChainBuild(func(cfg *chain.Config) {
				if api.Mode() != "development" {
					return
				}
				cfg.Mode("development")
				cfg.Set("devtool", "eval-cheap-module-source-map")
				cfg.Plugin("hmr").Use("HotModuleReplacementPlugin")
			})
		},
	}
}
