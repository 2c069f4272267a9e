package js

import (
	"context"
	"log/slog"
	"strings"

	"github.com/dop251/goja"
)

// EnableConsole sets the global console object that writes to the logger.
func EnableConsole(rt *goja.Runtime, logger *slog.Logger) {
	c := &console{logger: logger}
	obj := rt.NewObject()
	_ = obj.Set("log", c.log)
	_ = obj.Set("info", c.info)
	_ = obj.Set("warn", c.warn)
	_ = obj.Set("error", c.error)
	_ = obj.Set("debug", c.debug)
	_ = rt.Set("console", obj)
}

// console implements the js console
type console struct {
	logger *slog.Logger
}

func (c *console) output(level slog.Level, call goja.FunctionCall) goja.Value {
	args := make([]string, len(call.Arguments))
	for i, arg := range call.Arguments {
		args[i] = arg.String()
	}
	c.logger.Log(context.Background(), level, strings.Join(args, " "))
	return goja.Undefined()
}

// log calls slog.Info.
func (c *console) log(call goja.FunctionCall) goja.Value {
	return c.output(slog.LevelInfo, call)
}

// info calls slog.Info.
func (c *console) info(call goja.FunctionCall) goja.Value {
	return c.output(slog.LevelInfo, call)
}

// warn calls slog.Warn.
func (c *console) warn(call goja.FunctionCall) goja.Value {
	return c.output(slog.LevelWarn, call)
}

// error calls slog.Error.
func (c *console) error(call goja.FunctionCall) goja.Value {
	return c.output(slog.LevelError, call)
}

// debug calls slog.Debug.
func (c *console) debug(call goja.FunctionCall) goja.Value {
	return c.output(slog.LevelDebug, call)
}
