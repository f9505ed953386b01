package builtins

import (
	"net/http"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lumen.build/cli/internal/core/chain"
	"lumen.build/cli/internal/core/command"
	"lumen.build/cli/internal/core/composer"
	"lumen.build/cli/internal/core/config"
	"lumen.build/cli/internal/core/plugin"
)

// fakeAPI backs plugin application in tests with the real registries, minus
// the orchestrator around them.
type fakeAPI struct {
	mode     string
	cwd      string
	opts     *config.Options
	commands *command.Registry
	comp     *composer.Composer
	events   map[string][]plugin.EventHandler
	added    []plugin.Specifier
}

func newFakeAPI(t *testing.T, mode string) *fakeAPI {
	t.Helper()
	opts, err := config.FromMap(config.Defaults())
	require.NoError(t, err)
	return &fakeAPI{
		mode:     mode,
		cwd:      "/project",
		opts:     opts,
		commands: command.NewRegistry(nil),
		comp:     composer.New(),
		events:   make(map[string][]plugin.EventHandler),
	}
}

func (a *fakeAPI) ID() string                          { return "test" }
func (a *fakeAPI) Cwd() string                         { return a.cwd }
func (a *fakeAPI) Version() string                     { return "0.0.0-test" }
func (a *fakeAPI) Mode() string                        { return a.mode }
func (a *fakeAPI) Pkg() map[string]any                 { return nil }
func (a *fakeAPI) ProjectOptions() *config.Options     { return a.opts }
func (a *fakeAPI) Commands() []*command.Descriptor     { return a.commands.Descriptors() }
func (a *fakeAPI) AddPlugin(spec plugin.Specifier)     { a.added = append(a.added, spec) }
func (a *fakeAPI) ChainBuild(fn composer.ChainFn)      { a.comp.AddChainFn(fn) }
func (a *fakeAPI) BuildChainConfig() (*chain.Config, error) {
	return a.comp.ChainConfig()
}
func (a *fakeAPI) BuildConfig() (map[string]any, error) { return a.comp.BuildFinal() }

func (a *fakeAPI) RegisterCommand(fullCommand string, spec command.Spec) {
	a.commands.Register(fullCommand, spec)
}

func (a *fakeAPI) RegisterCommandFlag(name string, flags command.Flags, pre command.PreHandler) {
	a.commands.RegisterFlag(name, flags, pre)
}

func (a *fakeAPI) On(event string, fn plugin.EventHandler) {
	a.events[event] = append(a.events[event], fn)
}

func (a *fakeAPI) Emit(event string, payload any) {
	for _, fn := range a.events[event] {
		fn(payload)
	}
}

func (a *fakeAPI) ConfigureBuild(v any) {
	switch t := v.(type) {
	case composer.RawFn:
		a.comp.AddRawFn(t)
	case map[string]any:
		a.comp.AddRawFragment(t)
	}
}

func (a *fakeAPI) AddDevServerMiddleware(f composer.MiddlewareFactory) {
	a.comp.AddMiddleware(f)
}

var _ plugin.API = (*fakeAPI)(nil)

// apply runs the plugin against the fake and opens the composer for reads.
func (a *fakeAPI) apply(t *testing.T, plugins ...*plugin.Plugin) {
	t.Helper()
	for _, p := range plugins {
		p.Apply(a, a.opts, nil)
	}
	a.comp.MarkReady()
}

func flagContext(t *testing.T, name string, flags command.Flags, args []string) *command.Context {
	t.Helper()
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	for fname, f := range flags {
		switch f.Type {
		case "bool":
			b, _ := f.Default.(bool)
			fs.Bool(fname, b, f.Usage)
		case "int":
			n, _ := f.Default.(int)
			fs.Int(fname, n, f.Usage)
		default:
			s, _ := f.Default.(string)
			fs.String(fname, s, f.Usage)
		}
	}
	require.NoError(t, fs.Parse(args))
	return &command.Context{Name: name, Args: fs.Args(), Flags: fs}
}

func TestAll_FixedOrder(t *testing.T) {
	want := []string{
		"built-in:config/base",
		"built-in:config/css",
		"built-in:config/dev",
		"built-in:config/prod",
		"built-in:commands/serve",
		"built-in:commands/build",
		"built-in:commands/inspect",
		"built-in:commands/help",
	}
	var got []string
	for _, p := range All() {
		got = append(got, p.ID)
	}
	assert.Equal(t, want, got)
}

func TestBase_ContributesBaseline(t *testing.T) {
	api := newFakeAPI(t, "production")
	api.apply(t, Base())

	cfg, err := api.BuildConfig()
	require.NoError(t, err)

	assert.Equal(t, "/project", cfg["context"])

	entry := cfg["entry"].(map[string]any)
	assert.Equal(t, []any{"src/main.js"}, entry["app"])

	out := cfg["output"].(map[string]any)
	assert.Equal(t, "dist", out["path"])
	assert.Equal(t, "", out["publicPath"])
	assert.Equal(t, "js/[name].[contenthash:8].js", out["filename"],
		"production filenames are content-hashed when filenameHashing is on")

	rules := cfg["module"].(map[string]any)["rules"].([]any)
	require.Len(t, rules, 1)
	rule := rules[0].(map[string]any)
	assert.Equal(t, `\.m?jsx?$`, rule["test"])
}

func TestBase_DevelopmentFilenamesAreStable(t *testing.T) {
	api := newFakeAPI(t, "development")
	api.apply(t, Base())

	cfg, err := api.BuildConfig()
	require.NoError(t, err)
	out := cfg["output"].(map[string]any)
	assert.Equal(t, "js/[name].js", out["filename"])
}

func TestDevAndProd_GateOnMode(t *testing.T) {
	t.Run("development", func(t *testing.T) {
		api := newFakeAPI(t, "development")
		api.apply(t, Dev(), Prod())

		cfg, err := api.BuildConfig()
		require.NoError(t, err)
		assert.Equal(t, "development", cfg["mode"])
		assert.Equal(t, "eval-cheap-module-source-map", cfg["devtool"])
		assert.NotContains(t, cfg, "optimization")
	})

	t.Run("production", func(t *testing.T) {
		api := newFakeAPI(t, "production")
		api.apply(t, Dev(), Prod())

		cfg, err := api.BuildConfig()
		require.NoError(t, err)
		assert.Equal(t, "production", cfg["mode"])
		assert.Equal(t, "source-map", cfg["devtool"], "productionSourceMap defaults on")
		opt := cfg["optimization"].(map[string]any)
		assert.Equal(t, true, opt["minimize"])
	})
}

func TestCSS_LoaderOptionsFromProjectOptions(t *testing.T) {
	api := newFakeAPI(t, "production")
	api.opts.CSS = map[string]any{
		"sourceMap":     true,
		"loaderOptions": map[string]any{"modules": true},
	}
	api.apply(t, CSS())

	cfg, err := api.BuildConfig()
	require.NoError(t, err)
	rules := cfg["module"].(map[string]any)["rules"].([]any)
	require.Len(t, rules, 1)
	uses := rules[0].(map[string]any)["use"].([]any)
	require.Len(t, uses, 2)
	assert.Equal(t, "style-loader", uses[0].(map[string]any)["loader"])
	cssUse := uses[1].(map[string]any)
	assert.Equal(t, "css-loader", cssUse["loader"])
	assert.Equal(t, map[string]any{"sourceMap": true, "modules": true}, cssUse["options"])
}

func TestServe_HostPortPrecedence(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		devServer map[string]any
		wantHost  string
		wantPort  int
	}{
		{
			name:     "defaults",
			wantHost: "localhost",
			wantPort: 8080,
		},
		{
			name:      "project_options_fill_gaps",
			devServer: map[string]any{"host": "0.0.0.0", "port": float64(3000)},
			wantHost:  "0.0.0.0",
			wantPort:  3000,
		},
		{
			name:      "flags_win",
			args:      []string{"--host", "example.test", "--port", "9999"},
			devServer: map[string]any{"host": "0.0.0.0", "port": float64(3000)},
			wantHost:  "example.test",
			wantPort:  9999,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newFakeAPI(t, "development")
			serve := Serve()
			serve.Apply(api, api.opts, nil)
			api.comp.SetDevServerOptions(tt.devServer)
			api.comp.MarkReady()

			var payload map[string]any
			api.On("serve:start", func(p any) { payload, _ = p.(map[string]any) })

			d, ok := api.commands.Lookup("serve")
			require.True(t, ok)
			require.NoError(t, d.Handler(flagContext(t, "serve", d.Flags, tt.args)))

			require.NotNil(t, payload)
			assert.Equal(t, tt.wantHost, payload["host"])
			assert.Equal(t, tt.wantPort, payload["port"])
		})
	}
}

func TestServe_RunsDevServerMiddlewares(t *testing.T) {
	api := newFakeAPI(t, "development")
	serve := Serve()
	serve.Apply(api, api.opts, nil)

	var served *DevServer
	api.AddDevServerMiddleware(func() composer.Middleware {
		return func(server any) {
			s := server.(*DevServer)
			s.Handle("/__ping", http.NotFoundHandler())
			served = s
		}
	})
	api.comp.MarkReady()

	d, ok := api.commands.Lookup("serve")
	require.True(t, ok)
	require.NoError(t, d.Handler(flagContext(t, "serve", d.Flags, nil)))

	require.NotNil(t, served, "middleware ran against the dev server")
	assert.Equal(t, []string{"/__ping"}, served.Patterns())
	assert.Equal(t, "http://localhost:8080/", served.URL())
}

func TestBuild_EmitsLifecycleAndDestOverride(t *testing.T) {
	api := newFakeAPI(t, "production")
	api.apply(t, Base(), Prod(), Build())

	var started, done map[string]any
	api.On("build:start", func(p any) { started, _ = p.(map[string]any) })
	api.On("build:done", func(p any) { done, _ = p.(map[string]any) })

	d, ok := api.commands.Lookup("build")
	require.True(t, ok)
	require.NoError(t, d.Handler(flagContext(t, "build", d.Flags, []string{"--dest", "out"})))

	require.NotNil(t, started)
	assert.Equal(t, "out", started["dest"])
	assert.Equal(t, "production", started["mode"])
	require.NotNil(t, done)
	assert.Equal(t, "out", done["dest"])
}

func TestInspect_PathLookup(t *testing.T) {
	cfg := map[string]any{
		"output": map[string]any{"path": "dist"},
		"mode":   "production",
	}

	v, ok := lookupPath(cfg, "output.path")
	require.True(t, ok)
	assert.Equal(t, "dist", v)

	_, ok = lookupPath(cfg, "output.missing")
	assert.False(t, ok)

	_, ok = lookupPath(cfg, "mode.nested")
	assert.False(t, ok, "cannot descend into a scalar")
}

func TestInspect_StripFuncsKeepsConfigEncodable(t *testing.T) {
	cfg := map[string]any{
		"devServer": map[string]any{
			composer.HookKey: composer.Middleware(func(any) {}),
			"port":           8080,
		},
		"list": []any{"a", 1, true},
	}

	out := stripFuncs(cfg).(map[string]any)
	ds := out["devServer"].(map[string]any)
	assert.IsType(t, "", ds[composer.HookKey], "function values become markers")
	assert.Equal(t, 8080, ds["port"])
	assert.Equal(t, []any{"a", 1, true}, out["list"])
}

func TestHelp_DescribeUnknownCommand(t *testing.T) {
	api := newFakeAPI(t, "production")
	api.apply(t, Help())

	d, ok := api.commands.Lookup("help")
	require.True(t, ok)
	err := d.Handler(&command.Context{Name: "help", Args: []string{"nope"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope")
}

func TestDevServer_Handles(t *testing.T) {
	s := NewDevServer("localhost", 9090)
	s.Handle("/a", http.NotFoundHandler())
	s.Handle("/b", http.NotFoundHandler())

	assert.Equal(t, []string{"/a", "/b"}, s.Patterns())
	assert.Equal(t, "http://localhost:9090/", s.URL())
	assert.NotNil(t, s.Handler())
}
