// Package plugin defines the plugin unit, the specifiers that designate
// plugins to load, and the capability-scoped API every plugin receives.
package plugin

import (
	"lumen.build/cli/internal/core/chain"
	"lumen.build/cli/internal/core/command"
	"lumen.build/cli/internal/core/composer"
	"lumen.build/cli/internal/core/config"
)

// Plugin is a unit of extension: a unique identifier plus an Apply function
// invoked exactly once during initialization with a capability-scoped API.
type Plugin struct {
	ID    string
	Apply func(api API, projectOptions *config.Options, pluginOptions map[string]any)

	// DefaultModes maps command names this plugin registers to the mode they
	// should run under when no explicit mode is given.
	DefaultModes map[string]string
}

// Record pairs a loaded plugin with its instance options. Records live for
// the process lifetime.
type Record struct {
	Plugin  *Plugin
	Options map[string]any
}

// Specifier designates one plugin to load: either a module reference string
// resolved through the registry's Resolver, or a pre-built Plugin. Options
// are handed to Apply.
type Specifier struct {
	Module  string
	Plugin  *Plugin
	Options map[string]any
}

// EventHandler receives event payloads published through the API.
type EventHandler func(payload any)

// API is the capability surface handed to Apply. It is the only way plugins
// mutate orchestrator state; they never receive the underlying collections.
type API interface {
	// Read-only accessors.
	ID() string
	Cwd() string
	Version() string
	Mode() string
	Pkg() map[string]any
	ProjectOptions() *config.Options
	Commands() []*command.Descriptor

	// Command surface.
	RegisterCommand(fullCommand string, spec command.Spec)
	RegisterCommandFlag(name string, flags command.Flags, pre command.PreHandler)

	// Events.
	On(event string, fn EventHandler)
	Emit(event string, payload any)

	// Plugin graph.
	AddPlugin(spec Specifier)

	// Configuration composition.
	ChainBuild(fn composer.ChainFn)
	ConfigureBuild(v any)
	BuildChainConfig() (*chain.Config, error)
	BuildConfig() (map[string]any, error)
	AddDevServerMiddleware(f composer.MiddlewareFactory)
}
