// Package chain provides the mutable, fluent build-configuration builder that
// chain mutators operate on. A Config accumulates entries, rules and plugins
// through chainable calls and finalizes into a plain map with Resolve.
package chain

import (
	"sort"
	"strings"

	"lumen.build/cli/internal/core/merge"
)

// Config is the chainable builder. All mutating methods return their receiver
// (or a child node) so plugin code can chain calls.
type Config struct {
	values     map[string]any
	entryOrder []string
	entries    map[string]*Entry
	ruleOrder  []string
	rules      map[string]*Rule
	pluginOrd  []string
	plugins    map[string]*Plugin
}

func New() *Config {
	return &Config{
		values:  make(map[string]any),
		entries: make(map[string]*Entry),
		rules:   make(map[string]*Rule),
		plugins: make(map[string]*Plugin),
	}
}

// Set stores a value at a dot-separated path ("output.path"). Later calls to
// the same path overwrite.
func (c *Config) Set(path string, v any) *Config {
	c.values[path] = v
	return c
}

// Get returns the value previously Set at path.
func (c *Config) Get(path string) (any, bool) {
	v, ok := c.values[path]
	return v, ok
}

// Mode sets the build mode.
func (c *Config) Mode(mode string) *Config {
	return c.Set("mode", mode)
}

// Entry returns the named entry point, creating it on first use. Creation
// order is preserved in the finalized config.
func (c *Config) Entry(name string) *Entry {
	if e, ok := c.entries[name]; ok {
		return e
	}
	e := &Entry{name: name, cfg: c}
	c.entries[name] = e
	c.entryOrder = append(c.entryOrder, name)
	return e
}

// Rule returns the named module rule, creating it on first use.
func (c *Config) Rule(name string) *Rule {
	if r, ok := c.rules[name]; ok {
		return r
	}
	r := &Rule{name: name, cfg: c, uses: make(map[string]*Use)}
	c.rules[name] = r
	c.ruleOrder = append(c.ruleOrder, name)
	return r
}

// Plugin returns the named build plugin slot, creating it on first use.
func (c *Config) Plugin(name string) *Plugin {
	if p, ok := c.plugins[name]; ok {
		return p
	}
	p := &Plugin{name: name, cfg: c}
	c.plugins[name] = p
	c.pluginOrd = append(c.pluginOrd, name)
	return p
}

// Entry is a named entry point accumulating source files.
type Entry struct {
	name  string
	files []string
	cfg   *Config
}

// Add appends a source file to the entry.
func (e *Entry) Add(file string) *Entry {
	e.files = append(e.files, file)
	return e
}

// Clear removes all files from the entry.
func (e *Entry) Clear() *Entry {
	e.files = nil
	return e
}

// End returns to the owning Config.
func (e *Entry) End() *Config { return e.cfg }

// Rule is a named module rule matching files and applying loaders.
type Rule struct {
	name    string
	test    string
	useOrd  []string
	uses    map[string]*Use
	cfg     *Config
}

// Test sets the file pattern the rule matches.
func (r *Rule) Test(pattern string) *Rule {
	r.test = pattern
	return r
}

// Use returns the named loader slot for this rule, creating it on first use.
func (r *Rule) Use(name string) *Use {
	if u, ok := r.uses[name]; ok {
		return u
	}
	u := &Use{name: name, rule: r}
	r.uses[name] = u
	r.useOrd = append(r.useOrd, name)
	return u
}

// End returns to the owning Config.
func (r *Rule) End() *Config { return r.cfg }

// Use configures a single loader inside a rule.
type Use struct {
	name    string
	loader  string
	options map[string]any
	rule    *Rule
}

// Loader sets the loader module reference.
func (u *Use) Loader(loader string) *Use {
	u.loader = loader
	return u
}

// Options sets the loader options.
func (u *Use) Options(o map[string]any) *Use {
	u.options = o
	return u
}

// End returns to the owning Rule.
func (u *Use) End() *Rule { return u.rule }

// Plugin configures a named build plugin instantiation.
type Plugin struct {
	name string
	ctor string
	args []any
	cfg  *Config
}

// Use sets the plugin constructor reference and its arguments.
func (p *Plugin) Use(ctor string, args ...any) *Plugin {
	p.ctor = ctor
	p.args = args
	return p
}

// End returns to the owning Config.
func (p *Plugin) End() *Config { return p.cfg }

// Resolve finalizes the builder into a plain configuration map. Dotted paths
// expand into nested maps; rules carry their names under merge.RuleNameKey so
// downstream tooling can identify them after raw mutation.
func (c *Config) Resolve() map[string]any {
	out := make(map[string]any)

	paths := make([]string, 0, len(c.values))
	for p := range c.values {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		setPath(out, p, merge.Clone(c.values[p]))
	}

	if len(c.entryOrder) > 0 {
		entry := make(map[string]any, len(c.entryOrder))
		for _, name := range c.entryOrder {
			files := make([]any, 0, len(c.entries[name].files))
			for _, f := range c.entries[name].files {
				files = append(files, f)
			}
			entry[name] = files
		}
		out["entry"] = entry
	}

	if len(c.ruleOrder) > 0 {
		rules := make([]any, 0, len(c.ruleOrder))
		for _, name := range c.ruleOrder {
			rules = append(rules, c.rules[name].resolve())
		}
		setPath(out, "module.rules", rules)
	}

	if len(c.pluginOrd) > 0 {
		plugins := make([]any, 0, len(c.pluginOrd))
		for _, name := range c.pluginOrd {
			p := c.plugins[name]
			plugins = append(plugins, map[string]any{
				"name": p.name,
				"use":  p.ctor,
				"args": append([]any(nil), p.args...),
			})
		}
		out["plugins"] = plugins
	}

	return out
}

func (r *Rule) resolve() map[string]any {
	m := map[string]any{
		merge.RuleNameKey: []any{r.name},
	}
	if r.test != "" {
		m["test"] = r.test
	}
	if len(r.useOrd) > 0 {
		uses := make([]any, 0, len(r.useOrd))
		for _, name := range r.useOrd {
			u := r.uses[name]
			um := map[string]any{"loader": u.loader}
			if u.options != nil {
				um["options"] = merge.Clone(u.options)
			}
			uses = append(uses, um)
		}
		m["use"] = uses
	}
	return m
}

func setPath(m map[string]any, path string, v any) {
	parts := strings.Split(path, ".")
	for i := 0; i < len(parts)-1; i++ {
		next, ok := m[parts[i]].(map[string]any)
		if !ok {
			next = make(map[string]any)
			m[parts[i]] = next
		}
		m = next
	}
	m[parts[len(parts)-1]] = v
}
