// Package store implements host cookie stores for crumb.Codec.
package store

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ErrInvalidDirective the directive has no name=value pair.
var ErrInvalidDirective = errors.New("invalid cookie directive")

// Directive is one parsed cookie write, as produced by crumb.Serialize.
type Directive struct {
	Name       string
	Value      string
	Expires    time.Time
	HasExpires bool
	Domain     string
	Path       string
	Secure     bool
}

// ParseDirective parses "<name>=<value>[; expires=..][; domain=..][; path=..][; secure]".
// Attribute names are case-insensitive, unknown attributes and expires dates
// that cannot be read are ignored.
// The value is kept as written.
func ParseDirective(directive string) (d Directive, err error) {
	parts := strings.Split(directive, ";")
	pair := strings.TrimSpace(parts[0])
	name, value, ok := strings.Cut(pair, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return d, fmt.Errorf("%w: %q", ErrInvalidDirective, directive)
	}
	d.Name, d.Value = name, strings.TrimSpace(value)

	for _, attr := range parts[1:] {
		key, val, _ := strings.Cut(strings.TrimSpace(attr), "=")
		val = strings.TrimSpace(val)
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "expires":
			// an unreadable date is ignored and leaves a session cookie
			if t, err := http.ParseTime(val); err == nil {
				d.Expires, d.HasExpires = t, true
			}
		case "domain":
			d.Domain = strings.ToLower(strings.TrimPrefix(val, "."))
		case "path":
			d.Path = val
		case "secure":
			d.Secure = true
		}
	}
	return d, nil
}

// Expired reports whether the directive deletes its cookie at now.
func (d Directive) Expired(now time.Time) bool {
	return d.HasExpires && !d.Expires.After(now)
}

// TTL returns the remaining lifetime at now, 0 for a session cookie.
func (d Directive) TTL(now time.Time) time.Duration {
	if !d.HasExpires {
		return 0
	}
	return d.Expires.Sub(now)
}

// Pair a cookie name and value.
type Pair struct {
	Name  string
	Value string
}

// Join builds the cookie header string "name1=value1; name2=value2".
func Join(pairs []Pair) string {
	switch len(pairs) {
	case 0:
		return ""
	case 1:
		return pairs[0].Name + "=" + pairs[0].Value
	}

	var b strings.Builder
	for i, p := range pairs {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(p.Name)
		b.WriteByte('=')
		b.WriteString(p.Value)
	}
	return b.String()
}
