package builtins

import (
	"lumen.build/cli/internal/core/chain"
	"lumen.build/cli/internal/core/config"
	"lumen.build/cli/internal/core/plugin"
)

// CSS contributes the stylesheet rule. Loader options come from the css
// section of the project options.
func CSS() *plugin.Plugin {
	return &plugin.Plugin{
		ID: "built-in:config/css",
		Apply: func(api plugin.API, opts *config.Options, _ map[string]any) {
			api.ChainBuild(func(cfg *chain.Config) {
				sourceMap := false
				if v, ok := opts.CSS["sourceMap"].(bool); ok {
					sourceMap = v
				}
				loaderOptions, _ := opts.CSS["loaderOptions"].(map[string]any)

				rule := cfg.Rule("css").Test(`\.css$`)
				rule.Use("style").Loader("style-loader")
				cssUse := rule.Use("css").Loader("css-loader")
				options := map[string]any{"sourceMap": sourceMap}
				for k, v := range loaderOptions {
					options[k] = v
				}
				cssUse.Options(options)
			})
		},
	}
}
