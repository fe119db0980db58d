package environment

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// Command describes one external tool invocation.
type Command struct {
	// Name is the program to run, looked up in PATH at start time.
	Name string
	Args []string
	// Dir is the working directory. Empty means the current directory.
	Dir string
	// Stdout and Stderr receive the command's output. Nil discards it.
	Stdout io.Writer
	Stderr io.Writer
}

// String renders the command line for diagnostics.
func (c Command) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// Executor runs external commands on behalf of the orchestrator.
type Executor interface {
	// Exec runs the command to completion and returns its exit code.
	// A non-zero exit is not an error; err is reserved for failures to run at all.
	Exec(ctx context.Context, cmd Command) (int, error)
}

// CommandError reports a command that exited non-zero or could not run.
type CommandError struct {
	Command  string
	Dir      string
	ExitCode int
	Err      error
}

func (e *CommandError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("command %q in %s: %v", e.Command, e.Dir, e.Err)
	}
	return fmt.Sprintf("command %q in %s exited with code %d", e.Command, e.Dir, e.ExitCode)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// Run executes cmd and converts a non-zero exit into a *CommandError.
func Run(ctx context.Context, ex Executor, cmd Command) error {
	code, err := ex.Exec(ctx, cmd)
	if err != nil {
		return &CommandError{Command: cmd.String(), Dir: cmd.Dir, ExitCode: code, Err: err}
	}
	if code != 0 {
		return &CommandError{Command: cmd.String(), Dir: cmd.Dir, ExitCode: code}
	}
	return nil
}
