package js

import (
	"math"
	"time"

	"github.com/dop251/goja"
	"github.com/shiroyk/crumb"
	"github.com/spf13/cast"
)

const cookieNameMessage = "Cookie name must be a non-empty string"

// EnableCookie sets the global cookie object backed by the codec.
func EnableCookie(rt *goja.Runtime, codec *crumb.Codec) {
	_ = rt.Set("cookie", NewCookie(rt, codec))
}

// NewCookie returns the JS cookie object with get, set and remove.
func NewCookie(rt *goja.Runtime, codec *crumb.Codec) *goja.Object {
	c := &cookie{codec: codec}
	obj := rt.NewObject()
	_ = obj.Set("get", c.get)
	_ = obj.Set("set", c.set)
	_ = obj.Set("remove", c.remove)
	return obj
}

type cookie struct {
	codec *crumb.Codec
}

// get returns the cookie value, or undefined if it does not exist.
// The second argument is an options object or a converter function.
func (c *cookie) get(call goja.FunctionCall, rt *goja.Runtime) goja.Value {
	name := cookieName(call.Argument(0), rt)

	var arg crumb.Argument
	if fn, ok := goja.AssertFunction(call.Argument(1)); ok {
		arg = converter(fn, rt)
	} else {
		arg = toOptions(call.Argument(1), rt)
	}

	value, err := c.codec.Get(name, arg)
	if err != nil {
		Throw(rt, err)
	}
	switch v := value.(type) {
	case nil:
		return goja.Undefined()
	case goja.Value:
		return v
	default:
		return rt.ToValue(v)
	}
}

// set writes the cookie and returns the directive string.
func (c *cookie) set(call goja.FunctionCall, rt *goja.Runtime) goja.Value {
	name := cookieName(call.Argument(0), rt)
	str, err := c.codec.Set(name, call.Argument(1).String(), toOptions(call.Argument(2), rt))
	if err != nil {
		Throw(rt, err)
	}
	return rt.ToValue(str)
}

// remove expires the cookie and returns the directive string.
func (c *cookie) remove(call goja.FunctionCall, rt *goja.Runtime) goja.Value {
	name := cookieName(call.Argument(0), rt)
	str, err := c.codec.Remove(name, toOptions(call.Argument(1), rt))
	if err != nil {
		Throw(rt, err)
	}
	return rt.ToValue(str)
}

func cookieName(v goja.Value, rt *goja.Runtime) string {
	name, ok := v.Export().(string)
	if !ok || name == "" {
		panic(rt.NewTypeError(cookieNameMessage))
	}
	return name
}

// converter wraps a JS function as a crumb.Converter, passing undefined
// for a missing cookie.
func converter(fn goja.Callable, rt *goja.Runtime) crumb.Converter {
	return func(value string, found bool) any {
		arg := goja.Undefined()
		if found {
			arg = rt.ToValue(value)
		}
		ret, err := fn(goja.Undefined(), arg)
		if err != nil {
			panic(err)
		}
		return ret
	}
}

// toOptions converts an options object. Unrecognized or mistyped fields are
// ignored: expires must be a number of days or a Date, domain and path
// non-empty strings.
func toOptions(v goja.Value, rt *goja.Runtime) (opt crumb.Options) {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return
	}
	obj := v.ToObject(rt)

	if expires := obj.Get("expires"); expires != nil {
		switch e := expires.Export().(type) {
		case int64, float64:
			if days := cast.ToFloat64(e); validDays(days) {
				opt.Expires = crumb.Days(int(days))
			}
		case time.Time:
			opt.Expires = crumb.At(e)
		}
	}
	if domain, ok := exportString(obj.Get("domain")); ok {
		opt.Domain = domain
	}
	if path, ok := exportString(obj.Get("path")); ok {
		opt.Path = path
	}
	if secure := obj.Get("secure"); secure != nil {
		opt.Secure = secure.ToBoolean()
	}
	if raw := obj.Get("raw"); raw != nil {
		opt.Raw = raw.ToBoolean()
	}
	if conv := obj.Get("converter"); conv != nil {
		if fn, ok := goja.AssertFunction(conv); ok {
			opt.Converter = converter(fn, rt)
		}
	}
	return
}

// maxDays the largest day offset a Date can hold, 8.64e15 ms.
const maxDays = 1e8

// validDays reports whether days is a finite offset within the Date range.
// Other numbers leave the cookie a session cookie.
func validDays(days float64) bool {
	return !math.IsNaN(days) && !math.IsInf(days, 0) && math.Abs(days) <= maxDays
}

func exportString(v goja.Value) (string, bool) {
	if v == nil {
		return "", false
	}
	s, ok := v.Export().(string)
	return s, ok && s != ""
}
