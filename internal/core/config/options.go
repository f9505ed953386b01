// Package config models the merged project options: compiled-in defaults,
// the project config file's contents and constructor-supplied overrides, in
// increasing precedence. Options are immutable once the orchestrator
// finishes initializing.
package config

import (
	"encoding/json"
	"fmt"
	"strings"

	"lumen.build/cli/internal/core/chain"
	"lumen.build/cli/internal/core/merge"
)

// Options is the decoded, normalized project configuration.
type Options struct {
	OutputDir           string         `json:"outputDir"`
	PublicPath          string         `json:"publicPath"`
	AssetsDir           string         `json:"assetsDir"`
	FilenameHashing     bool           `json:"filenameHashing"`
	ProductionSourceMap bool           `json:"productionSourceMap"`
	Progress            bool           `json:"progress"`
	DevServer           map[string]any `json:"devServer"`
	CSS                 map[string]any `json:"css"`
	Plugins             []string       `json:"plugins"`

	// Programmatic mutators, supplied by the embedding program rather than
	// the config file; registered into the composer during initialization.
	ChainBuild     func(*chain.Config) `json:"-"`
	ConfigureBuild any                 `json:"-"`
}

// Defaults returns the compiled-in option defaults as a merge source.
func Defaults() map[string]any {
	return map[string]any{
		"outputDir":           "dist",
		"publicPath":          "",
		"assetsDir":           "",
		"filenameHashing":     true,
		"productionSourceMap": true,
		"progress":            true,
		"devServer":           map[string]any{},
		"css":                 map[string]any{},
		"plugins":             []any{},
	}
}

// MergeSources layers the three option sources: file values win over
// defaults, overrides win over both. Arrays are replaced wholesale, a later
// source states the complete value.
func MergeSources(defaults, file, overrides map[string]any) map[string]any {
	out := merge.Maps(defaults, file, merge.ReplaceArrays)
	return merge.Maps(out, overrides, merge.ReplaceArrays)
}

// FromMap decodes a merged option map into Options and normalizes it.
func FromMap(m map[string]any) (*Options, error) {
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encoding merged options: %w", err)
	}
	var opts Options
	if err := json.Unmarshal(raw, &opts); err != nil {
		return nil, fmt.Errorf("decoding merged options: %w", err)
	}
	opts.normalize()
	return &opts, nil
}

// normalize applies the path cleanups the rest of the pipeline relies on:
// outputDir loses any trailing slash, publicPath gets exactly one leading
// and one trailing slash unless it is empty, "auto" or an absolute URL.
func (o *Options) normalize() {
	o.OutputDir = strings.TrimRight(o.OutputDir, "/")

	p := o.PublicPath
	if p == "" || p == "auto" || strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://") || strings.HasPrefix(p, "//") {
		return
	}
	p = strings.Trim(p, "/")
	if p == "" {
		o.PublicPath = "/"
		return
	}
	o.PublicPath = "/" + p + "/"
}
