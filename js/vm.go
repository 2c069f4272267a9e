package js

import (
	"context"
	"log/slog"

	"github.com/dop251/goja"
	"github.com/shiroyk/crumb"
)

// VM the js runtime with the global cookie and console objects.
// An instance of VM can only be used by a single goroutine at a time.
type VM struct {
	runtime *goja.Runtime
}

// NewVM creates a new JavaScript VM.
func NewVM(codec *crumb.Codec, logger *slog.Logger) *VM {
	if logger == nil {
		logger = slog.Default()
	}
	runtime := goja.New()
	EnableConsole(runtime, logger)
	EnableCookie(runtime, codec)
	return &VM{runtime}
}

// RunString runs the script and returns the exported value of its last
// expression. The script is interrupted when ctx is done.
func (vm *VM) RunString(ctx context.Context, src string) (any, error) {
	// resets the interrupt flag.
	vm.runtime.ClearInterrupt()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			// Interrupt running JavaScript.
			vm.runtime.Interrupt(ctx.Err())
		case <-done:
		}
	}()

	value, err := vm.runtime.RunString(src)
	if err != nil {
		return nil, err
	}
	return value.Export(), nil
}

// Runtime the js runtime
func (vm *VM) Runtime() *goja.Runtime {
	return vm.runtime
}
