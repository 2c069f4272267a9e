// Package clock provides the time source used to resolve cookie expiry.
package clock

import "time"

// Clock reports the current time.
type Clock interface {
	Now() time.Time
}

// Real uses the system time.
type Real struct{}

// Now returns the current system time.
func (Real) Now() time.Time { return time.Now() }

// Mock is a fixed clock for tests.
type Mock struct {
	current time.Time
}

// NewMock creates a Mock clock set to t, or to 2024-01-01 UTC if t is zero.
func NewMock(t time.Time) *Mock {
	if t.IsZero() {
		t = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	return &Mock{current: t}
}

// Now returns the mock time.
func (m *Mock) Now() time.Time { return m.current }

// Set moves the clock to t.
func (m *Mock) Set(t time.Time) { m.current = t }

// Advance moves the clock forward by d.
func (m *Mock) Advance(d time.Duration) { m.current = m.current.Add(d) }
