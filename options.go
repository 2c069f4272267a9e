package crumb

import "time"

// epoch is the expiry Remove uses to clear a cookie.
var epoch = time.Unix(0, 0)

type expiryKind uint8

const (
	expiryUnset expiryKind = iota
	expiryDays
	expiryAt
)

// Expiry is the expires attribute of a cookie: unset, a day offset from the
// time of writing, or an absolute time.
type Expiry struct {
	kind expiryKind
	days int
	at   time.Time
}

// Days returns an Expiry n calendar days after the time the cookie is written.
func Days(n int) Expiry { return Expiry{kind: expiryDays, days: n} }

// At returns an Expiry at the absolute time t.
func At(t time.Time) Expiry { return Expiry{kind: expiryAt, at: t} }

// IsZero reports whether no expiry was given.
func (e Expiry) IsZero() bool { return e.kind == expiryUnset }

// Time resolves the expiry against now. The second result is false for an
// unset Expiry.
func (e Expiry) Time(now time.Time) (time.Time, bool) {
	switch e.kind {
	case expiryDays:
		return now.AddDate(0, 0, e.days), true
	case expiryAt:
		return e.at, true
	default:
		return time.Time{}, false
	}
}

// Converter transforms a looked-up cookie value before Get returns it.
// found is false when the cookie does not exist.
type Converter func(value string, found bool) any

// Argument is either Options or a Converter. A Converter passed where
// options are expected is used as Options.Converter.
type Argument interface {
	options() Options
}

// Options configures how a cookie is read or written.
type Options struct {
	Expires Expiry
	Domain  string
	Path    string
	Secure  bool
	// Raw disables percent-encoding on write and value decoding on read.
	Raw       bool
	Converter Converter
}

func (o Options) options() Options { return o }

func (c Converter) options() Options { return Options{Converter: c} }

func normalize(arg Argument) Options {
	if arg == nil {
		return Options{}
	}
	return arg.options()
}
