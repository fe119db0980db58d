package registry

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/spachava753/compatmatrix/internal/component"
)

// Layout is the on-disk layout shared by every check of a run.
type Layout struct {
	// CacheDir holds one persistent checkout per component.
	CacheDir string
	// BuildDir is the per-process install prefix components are built into.
	BuildDir string
	// BinDir and LibDir are the executable and module directories inside BuildDir.
	BinDir string
	LibDir string
}

// Setup creates the layout directories and clones every component whose
// checkout is missing. Existing checkouts are left untouched; switching
// versions is Checkout's job. concurrency <= 1 clones one at a time.
func Setup(ctx context.Context, r *Registry, layout Layout, concurrency int) error {
	for _, dir := range []string{layout.CacheDir, layout.BuildDir, layout.BinDir, layout.LibDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	var missing []*component.Component
	for _, c := range r.Components() {
		if _, err := os.Stat(c.Dir()); err == nil {
			slog.Debug("component already cloned", "component", c.ID(), "path", c.Dir())
			continue
		}
		missing = append(missing, c)
	}

	if len(missing) == 0 {
		return nil
	}

	slog.Debug("cloning missing components", "count", len(missing), "concurrency", max(concurrency, 1))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(concurrency, 1))
	for _, c := range missing {
		c := c
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := c.Clone(ctx); err != nil {
				return fmt.Errorf("cloning %s: %w", c.ID(), err)
			}
			return nil
		})
	}
	return g.Wait()
}
