package infrastructure

import (
	"context"
	"os/exec"
	"time"
)

// waitDelay bounds how long Output waits on inherited pipes after the
// process has been killed
const waitDelay = 500 * time.Millisecond

// CommandRunner abstracts external command execution for testing
type CommandRunner interface {
	// Run executes a command and waits for it to finish
	Run(ctx context.Context, name string, args ...string) error
	// Output executes a command and returns its stdout
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecCommandRunner implements CommandRunner using os/exec
type ExecCommandRunner struct{}

// Run executes a command and waits for it to finish
func (ExecCommandRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.WaitDelay = waitDelay
	return cmd.Run()
}

// Output executes a command and returns its stdout
func (ExecCommandRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.WaitDelay = waitDelay
	return cmd.Output()
}
