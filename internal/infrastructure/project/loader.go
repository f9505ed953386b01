// Package project reads the on-disk project surface: the lumen.config.json
// project configuration and package.json metadata. Both are thin decoders;
// schema validation happens in core/config.
package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ConfigFileName is the conventional project configuration file.
const ConfigFileName = "lumen.config.json"

// LoadConfig reads the project configuration from dir. An absent file is not
// an error; the returned map is nil in that case. A file that exists but
// does not decode is a fatal configuration error.
func LoadConfig(dir string) (map[string]any, error) {
	path := filepath.Join(dir, ConfigFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", ConfigFileName, err)
	}
	var cfg map[string]any
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", ConfigFileName, err)
	}
	return cfg, nil
}

// LoadPackage reads package.json metadata from dir. Absent or malformed
// metadata degrades to an empty map; the orchestrator only consumes it as
// read-only context.
func LoadPackage(dir string) map[string]any {
	data, err := os.ReadFile(filepath.Join(dir, "package.json"))
	if err != nil {
		return map[string]any{}
	}
	var pkg map[string]any
	if err := json.Unmarshal(data, &pkg); err != nil {
		return map[string]any{}
	}
	return pkg
}

// PluginRefs extracts plugin module references declared under
// lumenPlugins.service in package.json.
func PluginRefs(pkg map[string]any) []string {
	section, _ := pkg["lumenPlugins"].(map[string]any)
	list, _ := section["service"].([]any)
	var refs []string
	for _, v := range list {
		if s, ok := v.(string); ok {
			refs = append(refs, s)
		}
	}
	return refs
}
