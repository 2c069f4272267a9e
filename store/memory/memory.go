// Package memory an in-memory host cookie store
package memory

import (
	"net"
	"strings"
	"sync"

	"github.com/shiroyk/crumb/internal/clock"
	"github.com/shiroyk/crumb/lib/logger"
	"github.com/shiroyk/crumb/lib/utils"
	"github.com/shiroyk/crumb/store"
	"golang.org/x/exp/slices"
	"golang.org/x/net/publicsuffix"
)

// DefaultHost the host cookies are scoped to when none is configured.
const DefaultHost = "localhost"

type key struct {
	name, domain, path string
}

type entry struct {
	store.Directive
	seq uint64
}

// Store is an implementation of crumb.Store that keeps cookies in memory,
// applying each directive the way a browser applies document.cookie writes.
// Cookies are keyed by name, domain and path.
type Store struct {
	mu      sync.Mutex
	host    string
	clock   clock.Clock
	seq     uint64
	entries map[key]*entry
}

// Option configures a Store.
type Option func(*Store)

// WithHost sets the host that domain attributes must match.
func WithHost(host string) Option {
	return func(s *Store) { s.host = strings.ToLower(host) }
}

// WithClock sets the time source used for expiry.
func WithClock(c clock.Clock) Option {
	return func(s *Store) { s.clock = c }
}

// New returns a new in-memory Store.
func New(opts ...Option) *Store {
	s := &Store{
		host:    DefaultHost,
		clock:   clock.Real{},
		entries: make(map[key]*entry),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.host = utils.ZeroOr(s.host, DefaultHost)
	return s
}

// Read returns the unexpired cookies, longer paths first and then in
// creation order.
func (s *Store) Read() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	live := make([]*entry, 0, len(s.entries))
	for k, e := range s.entries {
		if e.Expired(now) {
			delete(s.entries, k)
			continue
		}
		live = append(live, e)
	}

	slices.SortFunc(live, func(a, b *entry) bool {
		if len(a.Path) != len(b.Path) {
			return len(a.Path) > len(b.Path)
		}
		return a.seq < b.seq
	})

	pairs := make([]store.Pair, len(live))
	for i, e := range live {
		pairs[i] = store.Pair{Name: e.Name, Value: e.Value}
	}
	return store.Join(pairs)
}

// Write applies one cookie directive. Malformed directives and directives
// for a foreign or public suffix domain are ignored.
func (s *Store) Write(directive string) {
	d, err := store.ParseDirective(directive)
	if err != nil {
		logger.Debugf("memory store: ignore directive %s", err)
		return
	}

	domain, ok := s.cookieDomain(d.Domain)
	if !ok {
		logger.Warnf("memory store: reject cookie %s for domain %s on host %s", d.Name, d.Domain, s.host)
		return
	}
	d.Domain = domain
	d.Path = utils.ZeroOr(d.Path, "/")

	s.mu.Lock()
	defer s.mu.Unlock()

	k := key{d.Name, d.Domain, d.Path}
	if d.Expired(s.clock.Now()) {
		delete(s.entries, k)
		return
	}
	if old, exists := s.entries[k]; exists {
		old.Directive = d
		return
	}
	s.seq++
	s.entries[k] = &entry{Directive: d, seq: s.seq}
}

// Len returns the number of stored cookies, including expired ones not yet
// swept by Read.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// cookieDomain resolves the domain attribute against the store host.
func (s *Store) cookieDomain(domain string) (string, bool) {
	if domain == "" || domain == s.host {
		return s.host, true
	}
	if net.ParseIP(s.host) != nil {
		return "", false
	}
	if ps, _ := publicsuffix.PublicSuffix(domain); ps == domain {
		return "", false
	}
	if !strings.HasSuffix(s.host, "."+domain) {
		return "", false
	}
	return domain, true
}
