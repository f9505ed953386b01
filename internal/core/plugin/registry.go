package plugin

import (
	"fmt"

	"lumen.build/cli/internal/logging"
)

// Resolver loads a module reference into a value expected to be a *Plugin
// (or a Plugin by value). It is injected so tests can substitute an
// in-memory table for on-disk resolution.
type Resolver func(module string) (any, error)

// Registry resolves plugin specifiers into loaded records. Built-ins load
// unconditionally before any user plugin, in the fixed order supplied at
// construction. Any single plugin's load failure is logged and skipped; it
// never aborts resolution or affects other plugins.
type Registry struct {
	builtins []*Plugin
	resolver Resolver
	logger   logging.Logger
}

func NewRegistry(builtins []*Plugin, resolver Resolver, logger logging.Logger) *Registry {
	if logger == nil {
		logger = logging.Nop{}
	}
	return &Registry{builtins: builtins, resolver: resolver, logger: logger}
}

// Resolve loads the given specifiers in input order. When includeBuiltins is
// set, the built-in plugins are prepended first.
func (r *Registry) Resolve(specs []Specifier, includeBuiltins bool) []Record {
	var records []Record
	if includeBuiltins {
		for _, b := range r.builtins {
			records = append(records, Record{Plugin: b})
		}
	}
	for _, spec := range specs {
		rec, err := r.ResolveOne(spec)
		if err != nil {
			r.logger.Error("skipping plugin: %v", err)
			continue
		}
		records = append(records, rec)
	}
	return records
}

// ResolveOne loads a single specifier.
func (r *Registry) ResolveOne(spec Specifier) (Record, error) {
	p := spec.Plugin
	if p == nil {
		if spec.Module == "" {
			return Record{}, fmt.Errorf("empty plugin specifier")
		}
		loaded, err := r.load(spec.Module)
		if err != nil {
			return Record{}, err
		}
		p = loaded
	}

	if p.ID == "" {
		if spec.Module == "" {
			return Record{}, fmt.Errorf("plugin is missing an id")
		}
		p.ID = spec.Module
	}
	if p.Apply == nil {
		return Record{}, fmt.Errorf("plugin %q has no apply function", p.ID)
	}
	return Record{Plugin: p, Options: spec.Options}, nil
}

func (r *Registry) load(module string) (*Plugin, error) {
	if r.resolver == nil {
		return nil, fmt.Errorf("cannot load %q: no module resolver configured", module)
	}
	v, err := r.resolver(module)
	if err != nil {
		return nil, fmt.Errorf("loading %q: %w", module, err)
	}
	switch p := v.(type) {
	case *Plugin:
		return p, nil
	case Plugin:
		return &p, nil
	default:
		return nil, fmt.Errorf("module %q does not export a plugin (got %T)", module, v)
	}
}
