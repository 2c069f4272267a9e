// Package bolt a persistent host cookie store backed by bbolt
package bolt

import (
	"github.com/shiroyk/crumb/internal/clock"
	"github.com/shiroyk/crumb/lib/logger"
	"github.com/shiroyk/crumb/store"
)

const bucketName = "cookie"

// Store is an implementation of crumb.Store that keeps cookies in a bbolt
// database, keyed by cookie name. Domain and path attributes are not part of
// the key. Storage errors are logged.
type Store struct {
	db    *DB
	clock clock.Clock
}

// New opens the cookie database under the directory path.
func New(path string, opts ...Option) (*Store, error) {
	o := newOptions(opts)
	db, err := NewDB(path, bucketName, defaultInterval, WithClock(o.clock))
	if err != nil {
		return nil, err
	}
	return &Store{db: db, clock: o.clock}, nil
}

// Read returns the unexpired cookies in name order.
func (s *Store) Read() string {
	var pairs []store.Pair
	err := s.db.ForEach(func(key, value []byte) error {
		pairs = append(pairs, store.Pair{Name: string(key), Value: string(value)})
		return nil
	})
	if err != nil {
		logger.Errorf("failed to read cookies %s", err)
	}
	return store.Join(pairs)
}

// Write applies one cookie directive.
func (s *Store) Write(directive string) {
	d, err := store.ParseDirective(directive)
	if err != nil {
		logger.Errorf("failed to parse cookie directive %s", err)
		return
	}

	now := s.clock.Now()
	if d.Expired(now) {
		if err = s.db.Delete([]byte(d.Name)); err != nil {
			logger.Errorf("failed to delete cookie %s %s", d.Name, err)
		}
		return
	}

	if err = s.db.PutWithTimeout([]byte(d.Name), []byte(d.Value), d.TTL(now)); err != nil {
		logger.Errorf("failed to set cookie %s %s", d.Name, err)
	}
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
