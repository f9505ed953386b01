package plugin

import (
	"fmt"
	"sync"
)

// Go cannot load code at runtime the way a scripting host can, so module
// references resolve against a process-wide table. Embedders and plugin
// packages register their plugins at init time; string specifiers in config
// files then refer to these names.
var (
	modulesMu sync.RWMutex
	modules   = make(map[string]*Plugin)
)

// RegisterModule makes a plugin loadable under the given module reference.
func RegisterModule(name string, p *Plugin) {
	modulesMu.Lock()
	defer modulesMu.Unlock()
	modules[name] = p
}

// DefaultResolver resolves module references against the registered table.
func DefaultResolver(module string) (any, error) {
	modulesMu.RLock()
	defer modulesMu.RUnlock()
	p, ok := modules[module]
	if !ok {
		return nil, fmt.Errorf("module %q is not registered", module)
	}
	return p, nil
}
