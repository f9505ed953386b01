package builtins

import (
	"lumen.build/cli/internal/core/chain"
	"lumen.build/cli/internal/core/config"
	"lumen.build/cli/internal/core/plugin"
)

// Base contributes the baseline build configuration shared by every mode:
// entry point, output location, module resolution and the script rule.
func Base() *plugin.Plugin {
	return &plugin.Plugin{
		ID: "built-in:config/base",
		Apply: func(api plugin.API, opts *config.Options, _ map[string]any) {
			api.ChainBuild(func(cfg *chain.Config) {
				cfg.Set("context", api.Cwd())
				cfg.Entry("app").Add("src/main.js")

				cfg.Set("output.path", opts.OutputDir)
				cfg.Set("output.publicPath", opts.PublicPath)
				filename := "[name].js"
				if opts.FilenameHashing && api.Mode() == "production" {
					filename = "[name].[contenthash:8].js"
				}
				cfg.Set("output.filename", assetPath(opts, "js/"+filename))

				cfg.Set("resolve.extensions", []any{".js", ".jsx", ".mjs", ".json"})

				cfg.Rule("js").
					Test(`\.m?jsx?$`).
					Use("babel").
					Loader("babel-loader").
					Options(map[string]any{"cacheDirectory": true})
			})
		},
	}
}

// assetPath prefixes a generated asset path with the configured assets
// directory.
func assetPath(opts *config.Options, p string) string {
	if opts.AssetsDir == "" {
		return p
	}
	return opts.AssetsDir + "/" + p
}
