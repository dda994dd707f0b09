package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rshade/scout/internal/config"
	"github.com/rshade/scout/internal/scout"
	"github.com/rshade/scout/internal/secret"
)

const (
	testKey       = "sk-test-9f8e7d6c"
	testOPEntry   = "op://Dev/scout"
	testOPCommand = "op read op://Dev/scout/API_KEY"
)

// fakeRunner stands in for the secret manager CLIs.
type fakeRunner struct {
	mu       sync.Mutex
	calls    []string
	key      string
	versions map[string]string
}

func (f *fakeRunner) Run(_ context.Context, _ []string, name string, args ...string) ([]byte, []byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	line := strings.TrimSpace(name + " " + strings.Join(args, " "))
	f.calls = append(f.calls, line)

	if len(args) == 1 && args[0] == "--version" {
		if v, ok := f.versions[name]; ok {
			return []byte(v + "\n"), nil, nil
		}
		return nil, nil, errors.New(`exec: "` + name + `": executable file not found in $PATH`)
	}
	if line == testOPCommand && f.key != "" {
		return []byte(f.key + "\n"), nil, nil
	}
	return nil, []byte("[ERROR] item not found"), errors.New("exit status 1")
}

func (f *fakeRunner) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// installRunner swaps secret.Runner for the duration of the test.
func installRunner(t *testing.T, r secret.CommandRunner) {
	t.Helper()
	prev := secret.Runner
	secret.Runner = r
	t.Cleanup(func() { secret.Runner = prev })
}

// testAPI is a fake Scout API that requires testKey.
type testAPI struct {
	*httptest.Server
	hits     atomic.Int32
	mu       sync.Mutex
	requests []*http.Request
}

func newTestAPI(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) *testAPI {
	t.Helper()
	api := &testAPI{}
	api.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		api.hits.Add(1)
		api.mu.Lock()
		api.requests = append(api.requests, r.Clone(context.Background()))
		api.mu.Unlock()

		if r.Header.Get(scout.HeaderAPIKey) != testKey {
			writeEnvelope(t, w, http.StatusUnauthorized, nil)
			return
		}
		handler(w, r)
	}))
	t.Cleanup(api.Close)
	return api
}

func (a *testAPI) lastRequest(t *testing.T) *http.Request {
	t.Helper()
	a.mu.Lock()
	defer a.mu.Unlock()
	require.NotEmpty(t, a.requests)
	return a.requests[len(a.requests)-1]
}

func writeEnvelope(t *testing.T, w http.ResponseWriter, status int, results any) {
	t.Helper()
	msg := "OK"
	if status == http.StatusUnauthorized {
		msg = "Unauthorized"
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(map[string]any{
		"header":  map[string]any{"status": map[string]any{"code": status, "message": msg}},
		"results": results,
	}))
}

// baseEnv is an environment with no backend configured and no config file.
func baseEnv(t *testing.T) map[string]string {
	t.Helper()
	return map[string]string{
		"XDG_CONFIG_HOME": t.TempDir(),
		"HOME":            t.TempDir(),
	}
}

// opEnv configures 1Password and points the client at api.
func opEnv(t *testing.T, api *testAPI) map[string]string {
	t.Helper()
	env := baseEnv(t)
	env[config.EnvOPEntryPath] = testOPEntry
	if api != nil {
		env[config.EnvAPIBase] = api.URL
	}
	return env
}

type result struct {
	stdout string
	stderr string
	err    error
}

func execute(t *testing.T, env map[string]string, args ...string) result {
	t.Helper()
	root := NewRootCmdWithArgs("1.2.3", append([]string{"scout"}, args...), config.MapEnv(env))
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	err := root.Execute()
	return result{stdout: out.String(), stderr: errOut.String(), err: err}
}
