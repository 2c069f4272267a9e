// Package modulestest the module test vm
package modulestest

import (
	"errors"
	"testing"

	"github.com/dop251/goja"
	"github.com/shiroyk/crumb"
	"github.com/shiroyk/crumb/js"
	"github.com/stretchr/testify/assert"
)

// New returns a test VM instance with a global assert object.
func New(t *testing.T, codec *crumb.Codec) *js.VM {
	vm := js.NewVM(codec, nil)
	runtime := vm.Runtime()

	assertObject := runtime.NewObject()
	_ = assertObject.Set("equal", func(call goja.FunctionCall, vm *goja.Runtime) (ret goja.Value) {
		var msg string
		if !goja.IsUndefined(call.Argument(2)) {
			msg = call.Argument(2).String()
		}
		if !assert.Equal(t, call.Argument(1).Export(), call.Argument(0).Export(), msg) {
			js.Throw(vm, errors.New("not equal"))
		}
		return
	})
	_ = assertObject.Set("true", func(call goja.FunctionCall, vm *goja.Runtime) (ret goja.Value) {
		var msg string
		if !goja.IsUndefined(call.Argument(1)) {
			msg = call.Argument(1).String()
		}
		if !assert.True(t, call.Argument(0).ToBoolean(), msg) {
			js.Throw(vm, errors.New("should be true"))
		}
		return
	})

	_ = runtime.Set("assert", assertObject)

	return vm
}
