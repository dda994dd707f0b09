package secret

import (
	"bytes"
	"context"
	"os"
	"os/exec"
)

// CommandRunner executes an external command and returns its stdout, stderr, and error.
// env holds extra KEY=VALUE pairs appended to the inherited environment.
type CommandRunner interface {
	Run(ctx context.Context, env []string, name string, args ...string) (stdout []byte, stderr []byte, err error)
}

// execRunner is the default CommandRunner. The child's stdin is /dev/null.
type execRunner struct{}

func (r *execRunner) Run(ctx context.Context, env []string, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = append(os.Environ(), env...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// Runner is the package-level CommandRunner. Replace in tests with a mock.
var Runner CommandRunner = &execRunner{} //nolint:gochecknoglobals // Required for test injection
