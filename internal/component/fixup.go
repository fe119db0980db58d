package component

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/sourcegraph/go-diff/diff"

	"github.com/spachava753/compatmatrix/internal/models"
	"github.com/spachava753/compatmatrix/internal/version"
)

func (c *Component) applyFixups(ctx context.Context, v string) {
	for _, f := range c.cfg.Fixups {
		if !version.InRange(v, f.Since, f.Before) {
			continue
		}
		if err := c.applyFixup(ctx, f, v); err != nil {
			slog.Debug("checkout fixup did not apply",
				"component", c.ID(),
				"version", v,
				"fixup", f.Label(),
				"error", err)
			continue
		}
		slog.Debug("applied checkout fixup", "component", c.ID(), "version", v, "fixup", f.Label())
	}
}

func (c *Component) applyFixup(ctx context.Context, f models.Fixup, v string) error {
	switch {
	case f.Patch != "":
		return c.applyPatch(ctx, f.Patch)
	case f.WriteFile != "":
		return c.writeMarker(f.WriteFile, strings.ReplaceAll(f.Content, "{version}", v))
	case len(f.Command) > 0:
		argv := substitute(f.Command, "{version}", v)
		return c.run(ctx, c.dir, argv[0], argv[1:]...)
	default:
		return fmt.Errorf("fixup has no action")
	}
}

// applyPatch applies a unified diff with patch -p1 after checking that every
// file it modifies exists in the checkout.
func (c *Component) applyPatch(ctx context.Context, patchPath string) error {
	abs, err := filepath.Abs(patchPath)
	if err != nil {
		return fmt.Errorf("resolving patch path: %w", err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return fmt.Errorf("reading patch: %w", err)
	}

	files, err := diff.ParseMultiFileDiff(data)
	if err != nil {
		return fmt.Errorf("parsing patch: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("patch %s contains no file diffs", patchPath)
	}
	for _, fd := range files {
		target := stripPrefix(fd.OrigName)
		if target == "" || target == "/dev/null" {
			continue
		}
		if _, err := os.Stat(filepath.Join(c.dir, target)); err != nil {
			return fmt.Errorf("patch target %s not in checkout: %w", target, err)
		}
	}

	return c.run(ctx, c.dir, "patch", "-p1", "--forward", "--batch", "-i", abs)
}

// writeMarker writes content to a path inside the checkout.
func (c *Component) writeMarker(rel, content string) error {
	if err := validatePath(rel); err != nil {
		return err
	}
	dst := filepath.Join(c.dir, rel)
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", rel, err)
	}
	if err := os.WriteFile(dst, []byte(content), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", rel, err)
	}
	return nil
}

// validatePath rejects absolute paths and paths containing ".." segments.
func validatePath(path string) error {
	if filepath.IsAbs(path) {
		return fmt.Errorf("invalid path: must be relative to the checkout: %q", path)
	}
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == ".." {
			return fmt.Errorf("invalid path: contains directory traversal: %q", path)
		}
	}
	return nil
}

// stripPrefix drops the a/ or b/ prefix git and hg put on diff file names.
func stripPrefix(name string) string {
	name = strings.TrimSpace(name)
	if i := strings.IndexByte(name, '\t'); i >= 0 {
		name = name[:i]
	}
	if strings.HasPrefix(name, "a/") || strings.HasPrefix(name, "b/") {
		return name[2:]
	}
	return name
}
