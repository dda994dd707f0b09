package secret

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
)

// mockResponse is the canned result of one command.
type mockResponse struct {
	stdout string
	stderr string
	err    error
}

// mockCall records one invocation.
type mockCall struct {
	env  []string
	name string
	args []string
}

// mockRunner returns canned responses keyed by "name arg1 arg2 ...".
// Commands without a response fail as if the binary were missing.
type mockRunner struct {
	mu        sync.Mutex
	responses map[string]mockResponse
	calls     []mockCall
}

func newMockRunner() *mockRunner {
	return &mockRunner{responses: make(map[string]mockResponse)}
}

func (m *mockRunner) on(command string, resp mockResponse) *mockRunner {
	m.responses[command] = resp
	return m
}

func (m *mockRunner) Run(_ context.Context, env []string, name string, args ...string) ([]byte, []byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, mockCall{env: env, name: name, args: args})
	key := strings.TrimSpace(name + " " + strings.Join(args, " "))
	resp, ok := m.responses[key]
	if !ok {
		return nil, nil, errors.New("exec: \"" + name + "\": executable file not found in $PATH")
	}
	return []byte(resp.stdout), []byte(resp.stderr), resp.err
}

func (m *mockRunner) names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]string, 0, len(m.calls))
	for _, c := range m.calls {
		out = append(out, c.name)
	}
	return out
}

// withMockRunner swaps Runner for the duration of the test.
func withMockRunner(t *testing.T, m CommandRunner) {
	t.Helper()
	orig := Runner
	Runner = m
	t.Cleanup(func() { Runner = orig })
}
