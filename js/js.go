// Package js runs JavaScript with the cookie object backed by a crumb.Codec.
package js

import (
	"errors"

	"github.com/dop251/goja"
)

// Throw throws a JS exception carrying the Go error.
func Throw(rt *goja.Runtime, err error) {
	var exception *goja.Exception
	if errors.As(err, &exception) {
		panic(exception)
	}
	panic(rt.NewGoError(err))
}
