package host

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"

	"github.com/spachava753/compatmatrix/internal/environment"
)

// Executor runs commands directly on the local machine. Child processes
// inherit the current process environment at start time.
type Executor struct{}

// NewExecutor creates a new host executor.
func NewExecutor() *Executor {
	return &Executor{}
}

// Exec runs the command and returns its exit code.
func (e *Executor) Exec(ctx context.Context, c environment.Command) (int, error) {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	cmd.Stdout = c.Stdout
	cmd.Stderr = c.Stderr

	slog.Debug("executing command", "cmd", c.String(), "dir", c.Dir)

	err := cmd.Run()
	if err != nil {
		if ctx.Err() != nil {
			return -1, fmt.Errorf("command interrupted: %w", ctx.Err())
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		return -1, fmt.Errorf("executing command: %w", err)
	}

	return 0, nil
}
