package bridge

import (
	"context"
	"fmt"
	"sync"

	"github.com/wailsapp/wails/v2/pkg/runtime"
)

// Emitter pushes a named, fire-and-forget notification to UI listeners
type Emitter interface {
	Emit(name string, payload any) error
}

var _ Emitter = (*WailsEmitter)(nil)

// WailsEmitter emits through the Wails runtime. It has no UI surface until
// Attach is called with the context the host passes to OnStartup.
type WailsEmitter struct {
	mu  sync.RWMutex
	ctx context.Context
}

// NewWailsEmitter creates an emitter with no attached surface
func NewWailsEmitter() *WailsEmitter {
	return &WailsEmitter{}
}

// Attach binds the emitter to the runtime context
func (e *WailsEmitter) Attach(ctx context.Context) {
	e.mu.Lock()
	e.ctx = ctx
	e.mu.Unlock()
}

// Detach drops the runtime context, e.g. on shutdown
func (e *WailsEmitter) Detach() {
	e.mu.Lock()
	e.ctx = nil
	e.mu.Unlock()
}

// Emit sends payload to every listener of name
func (e *WailsEmitter) Emit(name string, payload any) error {
	e.mu.RLock()
	ctx := e.ctx
	e.mu.RUnlock()

	if ctx == nil {
		return fmt.Errorf("emit %q: %w", name, ErrEmission)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("emit %q: %w: %v", name, ErrEmission, err)
	}

	runtime.EventsEmit(ctx, name, payload)
	return nil
}
