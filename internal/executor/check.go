package executor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spachava753/compatmatrix/internal/envscope"
	"github.com/spachava753/compatmatrix/internal/models"
	"github.com/spachava753/compatmatrix/internal/registry"
)

// TestRunner runs the fixed test suite and reports a single outcome.
type TestRunner interface {
	Run(ctx context.Context, tests []string) (bool, error)
}

// Orchestrator checks version tuples against a registry of components.
type Orchestrator struct {
	reg        *registry.Registry
	layout     registry.Layout
	env        models.EnvConfig
	tests      []string
	testTmpDir string
	runner     TestRunner
}

// NewOrchestrator creates an orchestrator. testTmpDir is the private
// directory exported to the test suite as its output directory.
func NewOrchestrator(reg *registry.Registry, layout registry.Layout, env models.EnvConfig, tests []string, testTmpDir string, runner TestRunner) *Orchestrator {
	return &Orchestrator{
		reg:        reg,
		layout:     layout,
		env:        env,
		tests:      tests,
		testTmpDir: testTmpDir,
		runner:     runner,
	}
}

// Check checks out and builds every registered component named in tuple,
// then runs the test suite against the freshly built artifacts. Ids the
// registry does not know are skipped.
func (o *Orchestrator) Check(ctx context.Context, tuple models.VersionTuple) models.CheckResult {
	result := models.CheckResult{
		Tuple:     tuple,
		StartedAt: time.Now(),
	}
	defer func() {
		result.EndedAt = time.Now()
		result.DurationSec = result.EndedAt.Sub(result.StartedAt).Seconds()
	}()

	slog.Info("checking tuple", "tuple", tuple.String())

	for _, pin := range tuple {
		c, ok := o.reg.Get(pin.ID)
		if !ok {
			slog.Debug("skipping unknown component", "component", pin.ID, "version", pin.Version)
			continue
		}
		if err := c.Checkout(ctx, pin.Version); err != nil {
			result.Error = checkError(err, models.ErrCheckoutFailed)
			slog.Error("checkout failed", "tuple", tuple.String(), "error", err)
			return result
		}
		if err := c.Build(ctx, o.layout.BuildDir); err != nil {
			result.Error = checkError(err, models.ErrBuildFailed)
			slog.Error("build failed", "tuple", tuple.String(), "error", err)
			return result
		}
	}

	scope := envscope.Scope{
		Prepend: map[string]string{
			o.env.PathVar:    o.layout.BinDir,
			o.env.LibraryVar: o.layout.LibDir,
		},
		Set: map[string]string{
			o.env.TestTmpVar: o.testTmpDir,
		},
	}

	var passed bool
	err := envscope.Run(scope, func() error {
		var err error
		passed, err = o.runner.Run(ctx, o.tests)
		return err
	})

	switch {
	case err != nil:
		result.Error = &models.CheckError{
			Type:    models.ErrTestFailed,
			Message: fmt.Sprintf("running tests: %s", err),
		}
	case !passed:
		result.Error = &models.CheckError{
			Type:    models.ErrTestFailed,
			Message: "test suite reported failures",
		}
	default:
		result.OK = true
	}

	return result
}

func checkError(err error, fallback models.ErrorType) *models.CheckError {
	typ := fallback
	var merr *models.MatrixError
	if errors.As(err, &merr) {
		typ = merr.Type
	}
	return &models.CheckError{Type: typ, Message: err.Error()}
}
