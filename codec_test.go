package crumb

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		raw    string
		decode bool
		want   map[string]string
	}{
		{"", true, map[string]string{}},
		{"   \t ", true, map[string]string{}},
		{"a=1; b=2; a=3", true, map[string]string{"a": "3", "b": "2"}},
		{"flag; a=1", true, map[string]string{"flag": "", "a": "1"}},
		{"a=b=c", true, map[string]string{"a": "b=c"}},
		{"a=1;b=2", true, map[string]string{"a": "1;b=2"}},
		{"=1; b=2", true, map[string]string{"b": "2"}},
		{"na%20me=v%20al", true, map[string]string{"na me": "v al"}},
		{"na%20me=v%20al", false, map[string]string{"na me": "v%20al"}},
		{"bad=%E0%A4%A; ok=1", true, map[string]string{"ok": "1"}},
		{"bad=%E0%A4%A; ok=1", false, map[string]string{"bad": "%E0%A4%A", "ok": "1"}},
		{"%zz=1; ok=2", false, map[string]string{"ok": "2"}},
		{"utf=%FF; ok=3", true, map[string]string{"ok": "3"}},
		{"%E4%BD%A0=%E5%A5%BD", true, map[string]string{"你": "好"}},
		{"a=1;  b=2", true, map[string]string{"a": "1", "b": "2"}},
		{"a=1;\vb=2", true, map[string]string{"a": "1", "b": "2"}},
		{"a=1;\u00a0b=2", true, map[string]string{"a": "1", "b": "2"}},
		{"a=1;\u3000b=2;\ufeffc=3", true, map[string]string{"a": "1", "b": "2", "c": "3"}},
	}

	for _, testCase := range testCases {
		assert.Equal(t, testCase.want, Parse(testCase.raw, testCase.decode), testCase.raw)
	}
}

func TestEncodeDecode(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "abcXYZ019-_.!~*'()", Encode("abcXYZ019-_.!~*'()"))
	assert.Equal(t, "a%20b%3Bc%3Dd%2C%25", Encode("a b;c=d,%"))
	assert.Equal(t, "%E4%BD%A0%E5%A5%BD", Encode("你好"))

	for _, s := range []string{"", "plain", "with space", "semi;colon", "eq=ual", "100%", "你好", "~!@#$%^&*()"} {
		decoded, err := Decode(Encode(s))
		if assert.NoError(t, err) {
			assert.Equal(t, s, decoded)
		}
	}

	assert.Equal(t, "%EF%BF%BD", Encode("\xff"))
	assert.Equal(t, "a%EF%BF%BDb", Encode("a\xff\xfeb"))
	decoded, err := Decode(Encode("\xff"))
	require.NoError(t, err)
	assert.Equal(t, "\uFFFD", decoded)

	_, err = Decode("%")
	assert.Error(t, err)
	_, err = Decode("%C3%28")
	assert.Error(t, err)
}

func TestSerialize(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "x=y", Serialize("x", "y", Options{}, now))
	assert.Equal(t, "x=a%20b", Serialize("x", "a b", Options{}, now))
	assert.Equal(t, "x=a b", Serialize("x", "a b", Options{Raw: true}, now))
	assert.Equal(t, "x=y; domain=example.com; path=/; secure",
		Serialize("x", "y", Options{Domain: "example.com", Path: "/", Secure: true}, now))
	assert.Equal(t, "x=y; expires=Sat, 02 Mar 2024 12:00:00 GMT",
		Serialize("x", "y", Options{Expires: Days(1)}, now))
	assert.Equal(t, "x=y; expires=Fri, 01 Mar 2024 12:00:00 GMT",
		Serialize("x", "y", Options{Expires: Days(0)}, now))
	assert.Equal(t, "x=; expires=Thu, 01 Jan 1970 00:00:00 GMT; path=/",
		Serialize("x", "", Options{Expires: At(epoch), Path: "/"}, now))
}

func TestSerializeRoundTrip(t *testing.T) {
	t.Parallel()
	now := time.Now()
	for _, value := range []string{"1", "hello world", "a;b", "k=v", " !\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"} {
		assert.Equal(t, map[string]string{"name": value}, Parse(Serialize("name", value, Options{}, now), true))
	}
}
