package memory

import (
	"testing"
	"time"

	"github.com/shiroyk/crumb"
	"github.com/shiroyk/crumb/internal/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	t.Parallel()
	s := New()
	assert.Equal(t, "", s.Read())

	s.Write("a=1")
	s.Write("b=2; path=/docs")
	s.Write("c=3")
	assert.Equal(t, "b=2; a=1; c=3", s.Read())

	s.Write("a=4")
	assert.Equal(t, "b=2; a=4; c=3", s.Read())

	s.Write("a=1; path=/docs")
	assert.Equal(t, "b=2; a=1; a=4; c=3", s.Read())

	s.Write("a=; expires=Thu, 01 Jan 1970 00:00:00 GMT")
	assert.Equal(t, "b=2; a=1; c=3", s.Read())

	s.Write("not a directive")
	assert.Equal(t, 3, s.Len())
}

func TestStoreExpiry(t *testing.T) {
	t.Parallel()
	mock := clock.NewMock(time.Time{})
	s := New(WithClock(mock))
	codec := crumb.NewCodec(s, crumb.WithClock(mock))

	_, err := codec.Set("session", "abc", crumb.Options{Expires: crumb.Days(1)})
	require.NoError(t, err)
	_, err = codec.Set("forever", "x", crumb.Options{})
	require.NoError(t, err)

	v, err := codec.Get("session", nil)
	require.NoError(t, err)
	assert.Equal(t, "abc", v)

	mock.Advance(25 * time.Hour)
	v, err = codec.Get("session", nil)
	require.NoError(t, err)
	assert.Nil(t, v)
	assert.Equal(t, "forever=x", s.Read())
}

func TestStoreDomain(t *testing.T) {
	t.Parallel()
	s := New(WithHost("www.example.com"))

	s.Write("host=1")
	s.Write("parent=2; domain=example.com")
	s.Write("dot=3; domain=.example.com")
	s.Write("suffix=4; domain=com")
	s.Write("foreign=5; domain=other.org")
	s.Write("sibling=6; domain=api.example.com")

	assert.Equal(t, "host=1; parent=2; dot=3", s.Read())

	ip := New(WithHost("127.0.0.1"))
	ip.Write("a=1; domain=127.0.0.1")
	ip.Write("b=2; domain=0.0.1")
	assert.Equal(t, "a=1", ip.Read())
}

func TestCodecRoundTrip(t *testing.T) {
	t.Parallel()
	codec := crumb.NewCodec(New())

	for _, value := range []string{"plain", "with space", "semi; colon", "100% 好"} {
		_, err := codec.Set("k", value, crumb.Options{Path: "/"})
		require.NoError(t, err)
		v, err := codec.Get("k", nil)
		require.NoError(t, err)
		assert.Equal(t, value, v)
	}

	directive, err := codec.Set("k", "bad\xffbyte", crumb.Options{Path: "/"})
	require.NoError(t, err)
	assert.Equal(t, "k=bad%EF%BF%BDbyte; path=/", directive)
	v, err := codec.Get("k", nil)
	require.NoError(t, err)
	assert.Equal(t, "bad\uFFFDbyte", v)

	_, err = codec.Remove("k", crumb.Options{Path: "/"})
	require.NoError(t, err)
	v, err = codec.Get("k", nil)
	require.NoError(t, err)
	assert.Nil(t, v)
}
