// Package service implements the orchestrator: it loads environment files,
// loads and validates project configuration, resolves and initializes
// plugins, and dispatches the requested command.
package service

import (
	"fmt"
	"strings"

	"lumen.build/cli/internal/builtins"
	"lumen.build/cli/internal/core/command"
	"lumen.build/cli/internal/core/composer"
	"lumen.build/cli/internal/core/config"
	"lumen.build/cli/internal/core/plugin"
	"lumen.build/cli/internal/infrastructure/env"
	"lumen.build/cli/internal/infrastructure/project"
	"lumen.build/cli/internal/logging"
)

// State is the initialization state machine. Once Initialized, the service
// never re-reads configuration: a second Init is a no-op even if option
// sources changed in between. That staleness is deliberate and documented,
// not a bug to fix silently.
type State int

const (
	StateUninitialized State = iota
	StateInitialized
)

// TestEnvKey suppresses the progress plugin when present in the environment,
// keeping test output deterministic.
const TestEnvKey = "LUMEN_TEST"

// Dispatcher hands a composed descriptor to the external command-line parser
// for argument parsing and final dispatch.
type Dispatcher interface {
	Dispatch(d *command.Descriptor, args []string) error
}

// Options configures a Service. Overrides take precedence over both the
// config file and compiled-in defaults.
type Options struct {
	Cwd            string
	Version        string
	Overrides      map[string]any
	Plugins        []plugin.Specifier
	ChainBuild     composer.ChainFn
	ConfigureBuild any
	Env            env.Store
	Resolver       plugin.Resolver
	Builtins       []*plugin.Plugin
	Logger         logging.Logger
	Dispatcher     Dispatcher
}

// Service owns every mutable collection of the orchestration core. Plugins
// reach them only through the capability façade in api.go.
type Service struct {
	cwd     string
	version string
	pkg     map[string]any

	logger    logging.Logger
	envStore  env.Store
	envLoader *env.Loader
	registry  *plugin.Registry
	commands  *command.Registry
	composer  *composer.Composer
	bus       *Bus

	overrides   map[string]any
	ctorPlugins []plugin.Specifier
	ctorChain   composer.ChainFn
	ctorRaw     any
	dispatcher  Dispatcher

	state          State
	mode           string
	modes          map[string]string
	plugins        []plugin.Record
	projectOptions *config.Options
}

func New(opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop{}
	}
	store := opts.Env
	if store == nil {
		store = env.OSStore{}
	}
	resolver := opts.Resolver
	if resolver == nil {
		resolver = plugin.DefaultResolver
	}
	builtinSet := opts.Builtins
	if builtinSet == nil {
		builtinSet = builtins.All()
	}

	s := &Service{
		cwd:         opts.Cwd,
		version:     opts.Version,
		pkg:         project.LoadPackage(opts.Cwd),
		logger:      logger,
		envStore:    store,
		envLoader:   env.NewLoader(opts.Cwd, store, logger),
		commands:    command.NewRegistry(logger),
		composer:    composer.New(),
		bus:         NewBus(),
		overrides:   opts.Overrides,
		ctorPlugins: opts.Plugins,
		ctorChain:   opts.ChainBuild,
		ctorRaw:     opts.ConfigureBuild,
		dispatcher:  opts.Dispatcher,
		modes:       make(map[string]string),
	}
	s.registry = plugin.NewRegistry(builtinSet, resolver, logger)

	// Built-in default modes are known statically so the mode can be
	// resolved before plugins initialize. Pre-built user plugins declare
	// theirs the same way.
	for _, b := range builtinSet {
		for name, mode := range b.DefaultModes {
			s.modes[name] = mode
		}
	}
	for _, spec := range opts.Plugins {
		if spec.Plugin != nil {
			for name, mode := range spec.Plugin.DefaultModes {
				s.modes[name] = mode
			}
		}
	}
	return s
}

// State reports the initialization state.
func (s *Service) State() State { return s.state }

// Mode reports the effective mode once initialized.
func (s *Service) Mode() string { return s.mode }

// ProjectOptions returns the frozen project options once initialized.
func (s *Service) ProjectOptions() *config.Options { return s.projectOptions }

// Run executes the named command: resolve mode, load env files, initialize
// once, compose the descriptor and hand it to the dispatcher. An unknown
// command is logged and halts without an error; configuration failures
// propagate.
func (s *Service) Run(name string, args []string) error {
	s.harvestDefaultModes()
	mode := s.resolveMode(name, args)

	if err := s.envLoader.Load(mode); err != nil {
		return fmt.Errorf("loading environment files: %w", err)
	}

	if err := s.Init(mode); err != nil {
		return err
	}

	d, ok := s.commands.Compose(name)
	if !ok {
		s.logger.Error("unknown command %q (run \"lumen help\" for the list of commands)", name)
		return nil
	}

	if s.dispatcher == nil {
		return fmt.Errorf("no command dispatcher configured")
	}
	return s.dispatcher.Dispatch(d, args)
}

// Init runs initialization exactly once: load and validate project options,
// resolve plugins (built-ins first), invoke each plugin's Apply with its
// capability façade, then open the composer for reads. A second call is a
// no-op returning the already-initialized state.
func (s *Service) Init(mode string) error {
	if s.state == StateInitialized {
		return nil
	}

	opts, err := s.loadOptions()
	if err != nil {
		return err
	}
	// Commit the mode only alongside the validated options, so a fatal
	// configuration failure leaves no half-initialized observable state.
	s.mode = mode
	s.projectOptions = opts

	s.plugins = s.registry.Resolve(s.pluginSpecs(opts), true)

	// Indexed loop: AddPlugin may append while we iterate, and dynamically
	// added plugins must initialize too.
	for i := 0; i < len(s.plugins); i++ {
		rec := s.plugins[i]
		for name, m := range rec.Plugin.DefaultModes {
			s.modes[name] = m
		}
		api := &pluginAPI{service: s, id: rec.Plugin.ID}
		rec.Plugin.Apply(api, opts, rec.Options)
	}

	if opts.ChainBuild != nil {
		s.composer.AddChainFn(composer.ChainFn(opts.ChainBuild))
	}
	if opts.ConfigureBuild != nil {
		(&pluginAPI{service: s, id: "project-options"}).ConfigureBuild(opts.ConfigureBuild)
	}
	s.composer.SetDevServerOptions(opts.DevServer)
	s.composer.MarkReady()

	s.state = StateInitialized
	return nil
}

func (s *Service) loadOptions() (*config.Options, error) {
	fileCfg, err := project.LoadConfig(s.cwd)
	if err != nil {
		return nil, err
	}

	merged := config.MergeSources(config.Defaults(), fileCfg, s.overrides)
	if err := config.Validate(merged); err != nil {
		return nil, fmt.Errorf("project configuration is invalid: %w", err)
	}

	opts, err := config.FromMap(merged)
	if err != nil {
		return nil, err
	}
	opts.ChainBuild = s.ctorChain
	opts.ConfigureBuild = s.ctorRaw
	return opts, nil
}

// pluginSpecs assembles the non-built-in plugin list: constructor-supplied
// plugins, then config-file references, then package.json references, then
// the progress plugin unless suppressed.
func (s *Service) pluginSpecs(opts *config.Options) []plugin.Specifier {
	specs := append([]plugin.Specifier(nil), s.ctorPlugins...)
	for _, ref := range opts.Plugins {
		specs = append(specs, plugin.Specifier{Module: ref})
	}
	for _, ref := range project.PluginRefs(s.pkg) {
		specs = append(specs, plugin.Specifier{Module: ref})
	}
	if _, testing := s.envStore.Lookup(TestEnvKey); opts.Progress && !testing {
		specs = append(specs, plugin.Specifier{Plugin: builtins.Progress()})
	}
	return specs
}

func (s *Service) addPlugin(spec plugin.Specifier) {
	if s.state == StateInitialized {
		s.logger.Warn("plugin added after initialization is ignored")
		return
	}
	rec, err := s.registry.ResolveOne(spec)
	if err != nil {
		s.logger.Error("skipping plugin: %v", err)
		return
	}
	s.plugins = append(s.plugins, rec)
}

// harvestDefaultModes resolves module-referenced plugins ahead of mode
// resolution so their declared default modes take effect on the very run
// that dispatches their commands. Loading here needs no mode; failures stay
// silent because Init performs the authoritative, logged resolution.
func (s *Service) harvestDefaultModes() {
	if s.state == StateInitialized {
		return
	}

	refs := project.PluginRefs(s.pkg)
	if fileCfg, err := project.LoadConfig(s.cwd); err == nil {
		if list, ok := fileCfg["plugins"].([]any); ok {
			for _, v := range list {
				if ref, ok := v.(string); ok {
					refs = append(refs, ref)
				}
			}
		}
	}

	for _, ref := range refs {
		rec, err := s.registry.ResolveOne(plugin.Specifier{Module: ref})
		if err != nil {
			continue
		}
		for name, mode := range rec.Plugin.DefaultModes {
			s.modes[name] = mode
		}
	}
}

// resolveMode computes the effective mode: an explicit --mode flag wins,
// build --watch implies development, otherwise the command's registered
// default mode, otherwise production.
func (s *Service) resolveMode(name string, args []string) string {
	explicit, watch := scanModeFlags(args)
	if explicit != "" {
		return explicit
	}
	if name == "build" && watch {
		return "development"
	}
	if m, ok := s.modes[name]; ok {
		return m
	}
	return "production"
}

// scanModeFlags pre-scans raw arguments for --mode and --watch before the
// command-line parser runs, since the mode decides which env files load.
func scanModeFlags(args []string) (mode string, watch bool) {
	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "--mode" && i+1 < len(args):
			mode = args[i+1]
			i++
		case strings.HasPrefix(args[i], "--mode="):
			mode = strings.TrimPrefix(args[i], "--mode=")
		case args[i] == "--watch" || args[i] == "--watch=true":
			watch = true
		}
	}
	return mode, watch
}
