// Package envtest provides a scriptable environment.Executor for tests.
package envtest

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/spachava753/compatmatrix/internal/environment"
)

// Handler decides the outcome of a recorded command.
type Handler func(cmd environment.Command) (int, error)

// Recorder records every command and answers with a Handler.
// The zero value succeeds on everything.
type Recorder struct {
	mu       sync.Mutex
	commands []environment.Command
	Handler  Handler
}

// Exec records cmd and delegates to the handler.
func (r *Recorder) Exec(ctx context.Context, cmd environment.Command) (int, error) {
	r.mu.Lock()
	r.commands = append(r.commands, cmd)
	h := r.Handler
	r.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return -1, err
	}
	if h == nil {
		return 0, nil
	}
	return h(cmd)
}

// Commands returns a copy of every command executed so far.
func (r *Recorder) Commands() []environment.Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.commands)
}

// Lines returns each recorded command rendered as "name arg...".
func (r *Recorder) Lines() []string {
	var out []string
	for _, c := range r.Commands() {
		out = append(out, c.String())
	}
	return out
}

// Count returns the number of recorded commands whose line contains substr.
func (r *Recorder) Count(substr string) int {
	n := 0
	for _, l := range r.Lines() {
		if strings.Contains(l, substr) {
			n++
		}
	}
	return n
}
