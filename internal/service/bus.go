package service

import "lumen.build/cli/internal/core/plugin"

// Bus is the synchronous event channel between plugins. Handlers run
// sequentially in subscription order on the emitting goroutine.
type Bus struct {
	handlers map[string][]plugin.EventHandler
}

func NewBus() *Bus {
	return &Bus{handlers: make(map[string][]plugin.EventHandler)}
}

func (b *Bus) On(event string, fn plugin.EventHandler) {
	if fn != nil {
		b.handlers[event] = append(b.handlers[event], fn)
	}
}

func (b *Bus) Emit(event string, payload any) {
	for _, fn := range b.handlers[event] {
		fn(payload)
	}
}
