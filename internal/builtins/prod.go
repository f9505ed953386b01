package builtins

import (
	"lumen.build/cli/internal/core/chain"
	"lumen.build/cli/internal/core/config"
	"lumen.build/cli/internal/core/plugin"
)

// Prod contributes production-mode configuration: minification and full
// source maps when productionSourceMap is enabled.
func Prod() *plugin.Plugin {
	return &plugin.Plugin{
		ID: "built-in:config/prod",
		Apply: func(api plugin.API, opts *config.Options, _ map[string]any) {
			api.ChainBuild(func(cfg *chain.Config) {
				if api.Mode() != "production" {
					return
				}
				cfg.Mode("production")
				if opts.ProductionSourceMap {
					cfg.Set("devtool", "source-map")
				} else {
					cfg.Set("devtool", false)
				}
				cfg.Set("optimization.minimize", true)
				cfg.Plugin("minify").Use("TerserPlugin")
			})
		},
	}
}
