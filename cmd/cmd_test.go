package cmd

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shiroyk/crumb/lib/config"
	"github.com/shiroyk/crumb/store/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yml")
	content := fmt.Sprintf("store:\n  driver: bolt\n  path: %s\ncookie:\n  path: /\n", filepath.Join(dir, "cookie"))
	require.NoError(t, os.WriteFile(file, []byte(content), 0o600))
	return file
}

func execute(t *testing.T, configFile string, args ...string) (string, error) {
	t.Helper()
	out := new(bytes.Buffer)
	root := NewRootCmd()
	root.SetOut(out)
	root.SetErr(new(bytes.Buffer))
	root.SetIn(strings.NewReader(""))
	root.SetArgs(append([]string{"--config", configFile}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestCookieCommands(t *testing.T) {
	t.Parallel()
	file := writeConfig(t)

	out, err := execute(t, file, "set", "greeting", "hello world", "--secure")
	require.NoError(t, err)
	assert.Equal(t, "greeting=hello%20world; path=/; secure\n", out)

	out, err = execute(t, file, "set", "theme", "dark", "--path", "")
	require.NoError(t, err)
	assert.Equal(t, "theme=dark\n", out)

	out, err = execute(t, file, "get", "greeting")
	require.NoError(t, err)
	assert.Equal(t, "hello world\n", out)

	out, err = execute(t, file, "get", "greeting", "--raw")
	require.NoError(t, err)
	assert.Equal(t, "hello%20world\n", out)

	out, err = execute(t, file, "list")
	require.NoError(t, err)
	assert.Equal(t, "greeting=hello world\ntheme=dark\n", out)

	out, err = execute(t, file, "list", "--match", "^th")
	require.NoError(t, err)
	assert.Equal(t, "theme=dark\n", out)

	out, err = execute(t, file, "remove", "theme")
	require.NoError(t, err)
	assert.Equal(t, "theme=; expires=Thu, 01 Jan 1970 00:00:00 GMT; path=/\n", out)

	_, err = execute(t, file, "get", "theme")
	assert.ErrorIs(t, err, ErrCookieNotFound)

	_, err = execute(t, file, "get", "")
	assert.Error(t, err)

	_, err = execute(t, file, "list", "--match", "(")
	assert.Error(t, err)
}

func TestSetExpiresZero(t *testing.T) {
	t.Parallel()
	file := writeConfig(t)

	out, err := execute(t, file, "set", "a", "b", "--expires", "0")
	require.NoError(t, err)
	assert.Equal(t, "a=b; path=/\n", out)

	out, err = execute(t, file, "get", "a")
	require.NoError(t, err)
	assert.Equal(t, "b\n", out)
}

func TestParseCommand(t *testing.T) {
	t.Parallel()
	file := writeConfig(t)

	out, err := execute(t, file, "parse", "a=1; b=hello%20world; flag; a=3")
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":"3","b":"hello world","flag":""}`, out)

	out, err = execute(t, file, "parse", "--raw", "b=hello%20world")
	require.NoError(t, err)
	assert.JSONEq(t, `{"b":"hello%20world"}`, out)
}

func TestRunCommand(t *testing.T) {
	t.Parallel()
	file := writeConfig(t)
	script := filepath.Join(t.TempDir(), "script.js")
	require.NoError(t, os.WriteFile(script, []byte(`
		cookie.set("visits", 1);
		const visits = cookie.get("visits", Number);
		cookie.set("visits", visits + 1);
		({ visits: cookie.get("visits", Number), missing: cookie.get("missing") === undefined })
	`), 0o600))

	out, err := execute(t, file, "run", script)
	require.NoError(t, err)
	assert.JSONEq(t, `{"visits":2,"missing":true}`, out)

	_, err = execute(t, file, "run", "--timeout", "50ms", "-")
	assert.NoError(t, err, "empty stdin script")
}

func TestConfigCommand(t *testing.T) {
	t.Parallel()
	file := writeConfig(t)

	out, err := execute(t, file, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "driver: bolt")

	gen := filepath.Join(t.TempDir(), "gen.yml")
	_, err = execute(t, file, "config", "--gen", gen)
	require.NoError(t, err)
	assert.FileExists(t, gen)

	_, err = execute(t, file, "config", "--gen", gen)
	assert.Error(t, err)

	out, err = execute(t, file, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "crumb")
}

func TestServe(t *testing.T) {
	t.Parallel()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	address := l.Addr().String()
	require.NoError(t, l.Close())

	ctx, cancel := context.WithCancel(context.Background())
	errC := make(chan error, 1)
	go func() {
		errC <- serve(ctx, memory.New(), *config.DefaultConfig(), address)
	}()

	require.Eventually(t, func() bool {
		res, err := http.Get("http://" + address + "/ping")
		if err != nil {
			return false
		}
		_ = res.Body.Close()
		return res.StatusCode == http.StatusOK
	}, 5*time.Second, 50*time.Millisecond)

	req, err := http.NewRequest(http.MethodPut, "http://"+address+"/cookies/a", strings.NewReader(`{"value":"1"}`))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	_ = res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	cancel()
	assert.NoError(t, <-errC)
}
