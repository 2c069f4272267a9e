// Package header a host cookie store over one HTTP exchange
package header

import (
	"net"
	"net/http"

	"github.com/shiroyk/crumb/store/memory"
)

// Store is an implementation of crumb.Store for a single HTTP request.
// Read starts from the request Cookie header and reflects the writes made
// since; every Write is also sent to the client as a Set-Cookie header.
type Store struct {
	jar    *memory.Store
	header http.Header
}

// New returns a Store reading the cookies of r and writing to w.
func New(r *http.Request, w http.ResponseWriter) *Store {
	host := r.Host
	if r.URL != nil && r.URL.Hostname() != "" {
		host = r.URL.Hostname()
	} else if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}

	jar := memory.New(memory.WithHost(host))
	for _, c := range r.Cookies() {
		jar.Write(c.Name + "=" + c.Value)
	}
	return &Store{jar: jar, header: w.Header()}
}

// Read returns the cookie header string.
func (s *Store) Read() string {
	return s.jar.Read()
}

// Write applies the directive and adds it as a Set-Cookie header.
func (s *Store) Write(directive string) {
	s.jar.Write(directive)
	s.header.Add("Set-Cookie", directive)
}
