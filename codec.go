package crumb

import (
	"errors"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

var (
	// ";" and one whitespace character, including \v and Unicode spaces
	segmentSep = regexp.MustCompile(`;[\s\v\p{Zs}\x{FEFF}\x{2028}\x{2029}]`)

	errMalformedUTF8 = errors.New("malformed UTF-8 after unescape")
)

// Parse splits the raw cookie header string into a name to value mapping.
// Names are always percent-decoded, values only when decodeValues is true.
// Segments that fail to decode or have an empty name are dropped, and a
// later duplicate name overwrites an earlier one.
func Parse(raw string, decodeValues bool) map[string]string {
	jar := make(map[string]string)
	if strings.TrimSpace(raw) == "" {
		return jar
	}

	for _, segment := range segmentSep.Split(raw, -1) {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}

		var name, value string
		var err error
		if i := strings.IndexByte(segment, '='); i >= 0 {
			if name, err = Decode(segment[:i]); err != nil {
				continue
			}
			value = segment[i+1:]
			if decodeValues {
				if value, err = Decode(value); err != nil {
					continue
				}
			}
		} else if name, err = Decode(segment); err != nil {
			continue
		}

		if name == "" {
			continue
		}
		jar[name] = value
	}
	return jar
}

// Serialize builds the outgoing cookie directive
//
//	<name>=<value>[; expires=<date>][; domain=<domain>][; path=<path>][; secure]
//
// A day offset expiry is resolved against now.
func Serialize(name, value string, opt Options, now time.Time) string {
	if !opt.Raw {
		value = Encode(value)
	}

	var b strings.Builder
	b.WriteString(name)
	b.WriteByte('=')
	b.WriteString(value)

	if expires, ok := opt.Expires.Time(now); ok {
		b.WriteString("; expires=")
		b.WriteString(expires.UTC().Format(http.TimeFormat))
	}
	if opt.Domain != "" {
		b.WriteString("; domain=")
		b.WriteString(opt.Domain)
	}
	if opt.Path != "" {
		b.WriteString("; path=")
		b.WriteString(opt.Path)
	}
	if opt.Secure {
		b.WriteString("; secure")
	}
	return b.String()
}

// Encode percent-encodes s, leaving only A-Z a-z 0-9 and -_.!~*'() unescaped.
// Invalid UTF-8 sequences are encoded as U+FFFD.
func Encode(s string) string {
	const hex = "0123456789ABCDEF"

	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "\uFFFD")
	}

	n := 0
	for i := 0; i < len(s); i++ {
		if shouldEscape(s[i]) {
			n++
		}
	}
	if n == 0 {
		return s
	}

	buf := make([]byte, 0, len(s)+2*n)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if shouldEscape(c) {
			buf = append(buf, '%', hex[c>>4], hex[c&0x0f])
		} else {
			buf = append(buf, c)
		}
	}
	return string(buf)
}

// Decode reverses Encode. It fails on a malformed escape or when the
// unescaped bytes are not valid UTF-8.
func Decode(s string) (string, error) {
	if strings.IndexByte(s, '%') < 0 {
		return s, nil
	}
	out, err := url.PathUnescape(s)
	if err != nil {
		return "", err
	}
	if !utf8.ValidString(out) {
		return "", errMalformedUTF8
	}
	return out, nil
}

func shouldEscape(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return false
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return false
	}
	return true
}
