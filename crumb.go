// Package crumb reads and writes cookies through a host cookie store.
//
// The store exposes the whole cookie header string on read and accepts one
// cookie directive per write, the way document.cookie does in a browser.
// Every Get parses a fresh snapshot; every Set or Remove writes one directive.
package crumb

import (
	"fmt"

	"github.com/shiroyk/crumb/internal/clock"
	"github.com/spf13/cast"
)

// Store is the host cookie store.
type Store interface {
	// Read returns the full cookie header string, "name1=value1; name2=value2".
	Read() string
	// Write applies one cookie directive.
	Write(directive string)
}

// Codec translates between cookie values and the directives of a Store.
type Codec struct {
	store Store
	clock clock.Clock
}

// CodecOption configures a Codec.
type CodecOption func(*Codec)

// WithClock sets the time source used to resolve day offset expiry.
func WithClock(c clock.Clock) CodecOption {
	return func(codec *Codec) { codec.clock = c }
}

// NewCodec returns a Codec over the given store.
func NewCodec(store Store, opts ...CodecOption) *Codec {
	c := &Codec{store: store, clock: clock.Real{}}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the value of the named cookie. The arg is either Options or a
// Converter. Without a converter the result is the value string, or nil when
// the cookie does not exist; with one it is whatever the converter returns.
func (c *Codec) Get(name string, arg Argument) (any, error) {
	if err := validateName("get", name); err != nil {
		return nil, err
	}
	opt := normalize(arg)

	value, ok := c.All(opt)[name]
	if opt.Converter != nil {
		return opt.Converter(value, ok), nil
	}
	if !ok {
		return nil, nil
	}
	return value, nil
}

// Lookup returns the value of the named cookie and whether it exists.
// opt.Converter is ignored.
func (c *Codec) Lookup(name string, opt Options) (string, bool, error) {
	if err := validateName("lookup", name); err != nil {
		return "", false, err
	}
	value, ok := c.All(opt)[name]
	return value, ok, nil
}

// All returns a snapshot of every cookie in the store.
func (c *Codec) All(opt Options) map[string]string {
	return Parse(c.store.Read(), !opt.Raw)
}

// Set writes the cookie and returns the directive sent to the store.
// value is converted to its string form.
func (c *Codec) Set(name string, value any, opt Options) (string, error) {
	if err := validateName("set", name); err != nil {
		return "", err
	}

	str, err := cast.ToStringE(value)
	if err != nil {
		str = fmt.Sprint(value)
	}

	directive := Serialize(name, str, opt, c.clock.Now())
	c.store.Write(directive)
	return directive, nil
}

// Remove expires the cookie immediately and returns the directive sent to
// the store.
func (c *Codec) Remove(name string, opt Options) (string, error) {
	if err := validateName("remove", name); err != nil {
		return "", err
	}
	opt.Expires = At(epoch)
	return c.Set(name, "", opt)
}
