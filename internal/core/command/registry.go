package command

import (
	"lumen.build/cli/internal/logging"
)

// Registry stores command descriptors and, independently, the flags and
// pre-handlers plugins aggregate onto each command name. Re-registering a
// name replaces the descriptor but leaves the aggregates untouched.
type Registry struct {
	commands    map[string]*Descriptor
	order       []string
	flags       map[string]Flags
	preHandlers map[string][]PreHandler
	logger      logging.Logger
}

func NewRegistry(logger logging.Logger) *Registry {
	if logger == nil {
		logger = logging.Nop{}
	}
	return &Registry{
		commands:    make(map[string]*Descriptor),
		flags:       make(map[string]Flags),
		preHandlers: make(map[string][]PreHandler),
		logger:      logger,
	}
}

// Register stores the descriptor for the command keyed by fullCommand's name
// token. A nil handler is replaced with a warning no-op so dispatch never
// panics.
func (r *Registry) Register(fullCommand string, spec Spec) {
	name := Name(fullCommand)
	if name == "" {
		r.logger.Warn("ignoring command registration with empty name")
		return
	}

	handler := spec.Handler
	if handler == nil {
		logger := r.logger
		handler = func(*Context) error {
			logger.Warn("command %q has an empty handler", name)
			return nil
		}
	}

	if _, exists := r.commands[name]; !exists {
		r.order = append(r.order, name)
	}
	r.commands[name] = &Descriptor{
		Name:        name,
		FullCommand: fullCommand,
		Description: spec.Description,
		Flags:       spec.Flags,
		Aliases:     append([]string(nil), spec.Aliases...),
		Handler:     handler,
	}
}

// Lookup returns the descriptor registered under name.
func (r *Registry) Lookup(name string) (*Descriptor, bool) {
	d, ok := r.commands[name]
	return d, ok
}

// Descriptors returns all registered descriptors in first-registration order.
func (r *Registry) Descriptors() []*Descriptor {
	out := make([]*Descriptor, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.commands[name])
	}
	return out
}

// RegisterFlag aggregates extra flags and an optional pre-handler onto the
// named command. Flags shallow-merge with newest-wins on collision;
// pre-handlers append in registration order and are never deduplicated.
func (r *Registry) RegisterFlag(name string, flags Flags, pre PreHandler) {
	if len(flags) > 0 {
		agg, ok := r.flags[name]
		if !ok {
			agg = make(Flags, len(flags))
			r.flags[name] = agg
		}
		for k, f := range flags {
			agg[k] = f
		}
	}
	if pre != nil {
		r.preHandlers[name] = append(r.preHandlers[name], pre)
	}
}

// AggregatedFlags returns a copy of the flags plugins attached to name.
func (r *Registry) AggregatedFlags(name string) Flags {
	agg := r.flags[name]
	out := make(Flags, len(agg))
	for k, f := range agg {
		out[k] = f
	}
	return out
}

// PreHandlers returns the pre-handler chain for name in registration order.
func (r *Registry) PreHandlers(name string) []PreHandler {
	return append([]PreHandler(nil), r.preHandlers[name]...)
}

// Compose returns a dispatch-ready copy of the named descriptor: aggregated
// flags merged over the descriptor's own (aggregated win on collision) and
// the handler wrapped with the pre-handler chain. Any pre-handler returning
// false stops the chain and skips the main handler.
func (r *Registry) Compose(name string) (*Descriptor, bool) {
	d, ok := r.commands[name]
	if !ok {
		return nil, false
	}

	flags := make(Flags, len(d.Flags))
	for k, f := range d.Flags {
		flags[k] = f
	}
	for k, f := range r.flags[name] {
		flags[k] = f
	}

	chain := r.PreHandlers(name)
	inner := d.Handler
	handler := func(ctx *Context) error {
		for _, pre := range chain {
			if !pre(ctx) {
				return nil
			}
		}
		return inner(ctx)
	}

	return &Descriptor{
		Name:        d.Name,
		FullCommand: d.FullCommand,
		Description: d.Description,
		Flags:       flags,
		Aliases:     append([]string(nil), d.Aliases...),
		Handler:     handler,
	}, true
}
