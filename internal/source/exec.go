package source

import (
	"context"
	"fmt"
	"os/exec"
)

// Runner executes external commands. The local and bower adapters depend on
// it instead of os/exec directly so tests can substitute canned output.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands through os/exec, honoring context cancellation.
type ExecRunner struct{}

// Run executes name with args and returns stdout. A non-zero exit is an
// error carrying the command line for the log.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	out, err := exec.CommandContext(ctx, name, args...).Output()
	if err != nil {
		return nil, fmt.Errorf("run %s %v: %w", name, args, err)
	}
	return out, nil
}
