// Package envscope runs a function with a temporarily modified process
// environment and restores the previous environment when it returns.
//
// The process environment is global state. Callers must not run scopes
// concurrently.
package envscope

import (
	"fmt"
	"os"
	"strings"
)

// Scope describes the environment changes for one block of work.
type Scope struct {
	// Prepend maps a path-list variable to a directory placed in front of
	// its current value.
	Prepend map[string]string
	// Set maps a variable to a value that replaces its current value.
	Set map[string]string
}

// Run applies s, calls fn, and restores the environment snapshot taken
// before any change. Restoration happens on normal return, on error, and
// when fn panics.
func Run(s Scope, fn func() error) error {
	snapshot := os.Environ()
	defer restore(snapshot)

	for name, dir := range s.Prepend {
		if err := os.Setenv(name, PrependPath(dir, os.Getenv(name))); err != nil {
			return fmt.Errorf("setting %s: %w", name, err)
		}
	}
	for name, value := range s.Set {
		if err := os.Setenv(name, value); err != nil {
			return fmt.Errorf("setting %s: %w", name, err)
		}
	}

	return fn()
}

// PrependPath puts dir in front of a path list. An empty list yields dir
// alone so no empty entry is introduced.
func PrependPath(dir, list string) string {
	if list == "" {
		return dir
	}
	return dir + string(os.PathListSeparator) + list
}

func restore(snapshot []string) {
	os.Clearenv()
	for _, kv := range snapshot {
		// Windows carries per-drive entries such as "=C:=C:\"; skip the
		// leading '=' when locating the separator.
		i := strings.IndexByte(kv[min(1, len(kv)):], '=')
		if i < 0 {
			continue
		}
		i += min(1, len(kv))
		os.Setenv(kv[:i], kv[i+1:])
	}
}
