// Package composer accumulates the build-configuration mutations plugins
// register and produces the final configuration: chain mutators run first
// against a fresh chainable builder, then raw mutators layer over the
// finalized map, then dev-server options and middleware wrapping apply.
package composer

import (
	"errors"
	"reflect"

	"lumen.build/cli/internal/core/chain"
	"lumen.build/cli/internal/core/merge"
)

// ErrNotInitialized is returned when configuration is requested before the
// orchestrator finished initializing plugins. Reading earlier would silently
// miss mutators, so this fails loudly instead.
var ErrNotInitialized = errors.New("build configuration requested before plugin initialization completed")

// ChainFn mutates the chainable builder in place.
type ChainFn func(*chain.Config)

// RawFn receives the current finalized configuration. It may mutate it in
// place, or return a replacement fragment which is deep-merged over the
// current configuration. Returning nil leaves the configuration unchanged.
type RawFn func(map[string]any) map[string]any

// Middleware installs itself on the dev server it is given during setup.
type Middleware func(server any)

// MiddlewareFactory produces a Middleware when the dev server starts.
type MiddlewareFactory func() Middleware

// HookKey is the dev-server configuration key holding the before-server-start
// hook. The composer wraps it when middleware factories are registered.
const HookKey = "onBeforeSetup"

type rawEntry struct {
	fn       RawFn
	fragment map[string]any
}

// Composer owns the append-only mutator sequences. It is not safe for
// concurrent use; the orchestrator drives it sequentially.
type Composer struct {
	chainFns    []ChainFn
	raw         []rawEntry
	middlewares []MiddlewareFactory
	devServer   map[string]any
	ready       bool
}

func New() *Composer {
	return &Composer{}
}

// AddChainFn appends a chain mutator. Order of registration is order of
// application.
func (c *Composer) AddChainFn(fn ChainFn) {
	if fn != nil {
		c.chainFns = append(c.chainFns, fn)
	}
}

// AddRawFn appends a raw mutator function.
func (c *Composer) AddRawFn(fn RawFn) {
	if fn != nil {
		c.raw = append(c.raw, rawEntry{fn: fn})
	}
}

// AddRawFragment appends a literal fragment to deep-merge over the
// configuration in sequence with the raw mutator functions.
func (c *Composer) AddRawFragment(fragment map[string]any) {
	if fragment != nil {
		c.raw = append(c.raw, rawEntry{fragment: fragment})
	}
}

// AddMiddleware appends a dev-server middleware factory.
func (c *Composer) AddMiddleware(f MiddlewareFactory) {
	if f != nil {
		c.middlewares = append(c.middlewares, f)
	}
}

// SetDevServerOptions supplies the project-level dev-server options merged
// into the final configuration. Keys already produced by mutators win.
func (c *Composer) SetDevServerOptions(opts map[string]any) {
	c.devServer = opts
}

// MarkReady opens the composer for reads. Called once by the orchestrator
// when plugin initialization completes.
func (c *Composer) MarkReady() {
	c.ready = true
}

// ChainConfig builds a fresh chainable builder with every chain mutator
// applied in registration order.
func (c *Composer) ChainConfig() (*chain.Config, error) {
	if !c.ready {
		return nil, ErrNotInitialized
	}
	cfg := chain.New()
	for _, fn := range c.chainFns {
		fn(cfg)
	}
	return cfg, nil
}

// BuildChain finalizes the chain mutators into a plain configuration map,
// before any raw mutation.
func (c *Composer) BuildChain() (map[string]any, error) {
	cfg, err := c.ChainConfig()
	if err != nil {
		return nil, err
	}
	return cfg.Resolve(), nil
}

// BuildFinal produces the effective configuration: chain output, raw
// mutators in order, dev-server option merge, middleware hook wrapping.
func (c *Composer) BuildFinal() (map[string]any, error) {
	cfg, err := c.BuildChain()
	if err != nil {
		return nil, err
	}

	for _, entry := range c.raw {
		if entry.fragment != nil {
			cfg = merge.Maps(cfg, entry.fragment, merge.ExtendArrays)
			continue
		}
		out := entry.fn(cfg)
		if out == nil || sameMap(out, cfg) {
			continue
		}
		merged := merge.Maps(cfg, out, merge.ExtendArrays)
		// The mutator replaced the object; carry the rule-name bookkeeping
		// across so downstream tooling still sees it.
		merge.PropagateRuleNames(cfg, merged)
		cfg = merged
	}

	cfg["devServer"] = c.mergeDevServer(cfg)
	return cfg, nil
}

func (c *Composer) mergeDevServer(cfg map[string]any) map[string]any {
	ds, _ := cfg["devServer"].(map[string]any)
	if ds == nil {
		ds = map[string]any{}
	}
	if len(c.devServer) > 0 {
		// Project-level options fill gaps only; keys the mutator pipeline
		// already set stay as they are.
		ds = merge.Maps(c.devServer, ds, merge.ReplaceArrays)
	}

	if len(c.middlewares) > 0 {
		var prev Middleware
		switch h := ds[HookKey].(type) {
		case Middleware:
			prev = h
		case func(any):
			prev = h
		}
		factories := append([]MiddlewareFactory(nil), c.middlewares...)
		ds[HookKey] = Middleware(func(server any) {
			for _, f := range factories {
				f()(server)
			}
			if prev != nil {
				prev(server)
			}
		})
	}
	return ds
}

// sameMap reports whether two maps are the same underlying object.
func sameMap(a, b map[string]any) bool {
	return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
}
