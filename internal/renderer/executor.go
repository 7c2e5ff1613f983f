package renderer

import (
	"bytes"
	"context"
	"os/exec"
)

// Executor abstracts subprocess execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args ...string) (stdout, stderr string, err error)
}

// commandExecutor runs real subprocesses. The context bounds execution:
// exceeding it kills the process rather than leaving it running.
type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// maxStderrBytes bounds captured renderer diagnostics.
const maxStderrBytes = 4096

// truncateStderr bounds stderr text carried into error payloads.
func truncateStderr(s string) string {
	if len(s) <= maxStderrBytes {
		return s
	}
	return s[:maxStderrBytes] + "... (truncated)"
}
