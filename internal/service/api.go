package service

import (
	"lumen.build/cli/internal/core/chain"
	"lumen.build/cli/internal/core/command"
	"lumen.build/cli/internal/core/composer"
	"lumen.build/cli/internal/core/config"
	"lumen.build/cli/internal/core/plugin"
)

// pluginAPI is the capability-scoped façade handed to each plugin's Apply.
// It exposes exactly the allow-listed operations backed by a private service
// reference; plugins never touch the orchestrator's collections directly.
type pluginAPI struct {
	service *Service
	id      string
}

var _ plugin.API = (*pluginAPI)(nil)

func (a *pluginAPI) ID() string      { return a.id }
func (a *pluginAPI) Cwd() string     { return a.service.cwd }
func (a *pluginAPI) Version() string { return a.service.version }
func (a *pluginAPI) Mode() string    { return a.service.mode }

func (a *pluginAPI) Pkg() map[string]any { return a.service.pkg }

func (a *pluginAPI) ProjectOptions() *config.Options { return a.service.projectOptions }

func (a *pluginAPI) Commands() []*command.Descriptor { return a.service.commands.Descriptors() }

func (a *pluginAPI) RegisterCommand(fullCommand string, spec command.Spec) {
	a.service.commands.Register(fullCommand, spec)
}

func (a *pluginAPI) RegisterCommandFlag(name string, flags command.Flags, pre command.PreHandler) {
	a.service.commands.RegisterFlag(name, flags, pre)
}

func (a *pluginAPI) On(event string, fn plugin.EventHandler) { a.service.bus.On(event, fn) }
func (a *pluginAPI) Emit(event string, payload any)          { a.service.bus.Emit(event, payload) }

func (a *pluginAPI) AddPlugin(spec plugin.Specifier) { a.service.addPlugin(spec) }

func (a *pluginAPI) ChainBuild(fn composer.ChainFn) { a.service.composer.AddChainFn(fn) }

// ConfigureBuild registers a raw mutator: a function or a literal fragment.
// Anything else is logged and ignored, matching the plugin load-failure
// policy of never escalating a single plugin's mistake.
func (a *pluginAPI) ConfigureBuild(v any) {
	switch t := v.(type) {
	case composer.RawFn:
		a.service.composer.AddRawFn(t)
	case func(map[string]any) map[string]any:
		a.service.composer.AddRawFn(t)
	case map[string]any:
		a.service.composer.AddRawFragment(t)
	default:
		a.service.logger.Warn("plugin %q passed an unsupported raw configuration value (%T)", a.id, v)
	}
}

func (a *pluginAPI) BuildChainConfig() (*chain.Config, error) {
	return a.service.composer.ChainConfig()
}

func (a *pluginAPI) BuildConfig() (map[string]any, error) {
	return a.service.composer.BuildFinal()
}

func (a *pluginAPI) AddDevServerMiddleware(f composer.MiddlewareFactory) {
	a.service.composer.AddMiddleware(f)
}
