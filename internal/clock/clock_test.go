package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMock(t *testing.T) {
	t.Parallel()
	m := NewMock(time.Time{})
	start := m.Now()
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), start)

	m.Advance(time.Hour)
	assert.Equal(t, start.Add(time.Hour), m.Now())

	m.Set(time.Unix(0, 0))
	assert.Equal(t, int64(0), m.Now().Unix())
}

func TestReal(t *testing.T) {
	t.Parallel()
	before := time.Now()
	assert.False(t, Real{}.Now().Before(before))
}
