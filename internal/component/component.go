package component

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spachava753/compatmatrix/internal/environment"
	"github.com/spachava753/compatmatrix/internal/models"
)

// Component is one participant of the matrix, checked out in its own
// directory under the shared cache root.
type Component struct {
	cfg  models.ComponentConfig
	kind models.Kind
	tool tool
	dir  string
	exec environment.Executor

	stdout io.Writer
	stderr io.Writer
}

// Option configures a Component.
type Option func(*Component)

// WithOutput sends tool output to the given writers instead of the process
// stdout and stderr.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(c *Component) {
		c.stdout = stdout
		c.stderr = stderr
	}
}

// New creates a component rooted at <cacheDir>/<id>. A relative cacheDir is
// resolved against the current working directory.
func New(cfg models.ComponentConfig, cacheDir string, ex environment.Executor, opts ...Option) (*Component, error) {
	if cfg.ID == "" {
		return nil, fmt.Errorf("component has no id")
	}
	if strings.ContainsAny(cfg.ID, `/\:`) || cfg.ID == "." || cfg.ID == ".." {
		return nil, fmt.Errorf("component id %q is not a valid directory name", cfg.ID)
	}
	if cfg.URL == "" {
		return nil, fmt.Errorf("component %s: url is required", cfg.ID)
	}

	kind := cfg.EffectiveKind()
	t, ok := tools[kind]
	if !ok {
		return nil, fmt.Errorf("component %s: unsupported kind %q", cfg.ID, kind)
	}

	// Clone runs from the cache root and every later command from the
	// checkout, so the directory must not depend on the working directory.
	root, err := filepath.Abs(cacheDir)
	if err != nil {
		return nil, fmt.Errorf("component %s: resolving cache dir: %w", cfg.ID, err)
	}

	c := &Component{
		cfg:    cfg,
		kind:   kind,
		tool:   t,
		dir:    filepath.Join(root, cfg.ID),
		exec:   ex,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ID returns the component identity.
func (c *Component) ID() string { return c.cfg.ID }

// URL returns the source location.
func (c *Component) URL() string { return c.cfg.URL }

// Kind returns the source-control kind.
func (c *Component) Kind() models.Kind { return c.kind }

// Dir returns the working directory of the checkout.
func (c *Component) Dir() string { return c.dir }

// Config returns the configuration the component was built from.
func (c *Component) Config() models.ComponentConfig { return c.cfg }

// ResolveVersion maps a raw version to the revision handed to the tool.
func (c *Component) ResolveVersion(v string) string {
	if v == models.Wildcard || v == "" {
		return c.tool.latest
	}
	if c.cfg.VersionFormat != "" {
		return strings.ReplaceAll(c.cfg.VersionFormat, "{version}", v)
	}
	return v
}

// Clone clones the component's url into its directory.
func (c *Component) Clone(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(c.dir), 0755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}

	slog.Info("cloning component", "component", c.ID(), "url", c.URL(), "dest", c.dir)
	args := append(slices.Clone(c.tool.clone), c.URL(), c.dir)
	if err := c.run(ctx, filepath.Dir(c.dir), c.tool.binary, args...); err != nil {
		return models.NewError(models.ErrSetupFailed, "clone "+c.ID(), err)
	}
	return nil
}

// Checkout discards local changes and moves the working copy to version,
// then applies any fixups configured for it.
func (c *Component) Checkout(ctx context.Context, v string) error {
	rev := c.ResolveVersion(v)
	slog.Info("checking out component", "component", c.ID(), "version", v, "rev", rev)

	args := append(slices.Clone(c.tool.checkout), rev)
	if err := c.run(ctx, c.dir, c.tool.binary, args...); err != nil {
		return models.NewError(models.ErrCheckoutFailed, "checkout "+c.ID()+" "+rev, err)
	}

	// Fixups only apply to some versions; a failing one means it did not
	// apply here and the checkout is still usable.
	c.applyFixups(ctx, v)
	return nil
}

// Build installs the component into prefix.
func (c *Component) Build(ctx context.Context, prefix string) error {
	argv := c.cfg.Build
	if len(argv) == 0 {
		argv = defaultBuild
	}
	argv = substitute(argv, "{prefix}", prefix)

	slog.Info("building component", "component", c.ID(), "prefix", prefix)
	if err := c.run(ctx, c.dir, argv[0], argv[1:]...); err != nil {
		return models.NewError(models.ErrBuildFailed, "build "+c.ID(), err)
	}
	return nil
}

func (c *Component) run(ctx context.Context, dir, name string, args ...string) error {
	return environment.Run(ctx, c.exec, environment.Command{
		Name:   name,
		Args:   args,
		Dir:    dir,
		Stdout: c.stdout,
		Stderr: c.stderr,
	})
}

func substitute(argv []string, placeholder, value string) []string {
	out := make([]string, len(argv))
	for i, a := range argv {
		out[i] = strings.ReplaceAll(a, placeholder, value)
	}
	return out
}
