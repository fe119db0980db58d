package testrunner

import (
	"context"
	"errors"
	"io"
	"slices"
	"testing"

	"github.com/spachava753/compatmatrix/internal/environment"
	"github.com/spachava753/compatmatrix/internal/environment/envtest"
	"github.com/spachava753/compatmatrix/internal/models"
)

var testsCfg = models.TestsConfig{
	Harness:  []string{"python", "run-tests.py", "--quiet"},
	Driver:   []string{"make", "tests"},
	FlagsVar: "TESTFLAGS",
}

var suite = []string{"test-clone.t", "test-push.t", "test-pull.t"}

func TestQuietRunsEachTestAndContinues(t *testing.T) {
	rec := &envtest.Recorder{Handler: func(cmd environment.Command) (int, error) {
		if slices.Contains(cmd.Args, "test-clone.t") {
			return 1, nil
		}
		return 0, nil
	}}
	r := New(rec, "/src/hggit/tests", testsCfg, models.VerbosityQuiet)

	ok, err := r.Run(context.Background(), suite)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if ok {
		t.Error("expected overall failure")
	}

	cmds := rec.Commands()
	if len(cmds) != len(suite) {
		t.Fatalf("expected %d invocations, got %v", len(suite), rec.Lines())
	}
	for i, c := range cmds {
		want := []string{"run-tests.py", "--quiet", suite[i]}
		if c.Name != "python" || !slices.Equal(c.Args, want) {
			t.Errorf("invocation %d: got %s", i, c)
		}
		if c.Dir != "/src/hggit/tests" {
			t.Errorf("invocation %d ran in %s", i, c.Dir)
		}
		if c.Stdout != nil || c.Stderr != nil {
			t.Errorf("quiet invocation %d should discard output", i)
		}
	}
}

func TestQuietAllPass(t *testing.T) {
	r := New(&envtest.Recorder{}, "/tests", testsCfg, models.VerbosityQuiet)
	ok, err := r.Run(context.Background(), suite)
	if err != nil || !ok {
		t.Errorf("expected pass, got ok=%v err=%v", ok, err)
	}
}

func TestDriverInvocation(t *testing.T) {
	tests := []struct {
		name      string
		verbosity models.Verbosity
		cfg       models.TestsConfig
		wantArgs  []string
	}{
		{
			name:      "normal",
			verbosity: models.VerbosityNormal,
			cfg:       testsCfg,
			wantArgs:  []string{"tests", "TESTFLAGS=-j1 test-clone.t test-push.t test-pull.t"},
		},
		{
			name:      "verbose",
			verbosity: models.VerbosityVerbose,
			cfg:       testsCfg,
			wantArgs:  []string{"tests", "TESTFLAGS=-j1 -v --keep-tmpdir test-clone.t test-push.t test-pull.t"},
		},
		{
			name:      "no flags variable",
			verbosity: models.VerbosityNormal,
			cfg:       models.TestsConfig{Driver: []string{"python", "run-tests.py"}},
			wantArgs:  []string{"run-tests.py", "-j1", "test-clone.t", "test-push.t", "test-pull.t"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &envtest.Recorder{}
			r := New(rec, "/tests", tt.cfg, tt.verbosity)
			r.SetOutput(io.Discard, io.Discard)

			ok, err := r.Run(context.Background(), suite)
			if err != nil || !ok {
				t.Fatalf("expected pass, got ok=%v err=%v", ok, err)
			}
			cmds := rec.Commands()
			if len(cmds) != 1 {
				t.Fatalf("expected one driver invocation, got %v", rec.Lines())
			}
			if !slices.Equal(cmds[0].Args, tt.wantArgs) {
				t.Errorf("args = %q, want %q", cmds[0].Args, tt.wantArgs)
			}
		})
	}
}

func TestDriverFailure(t *testing.T) {
	rec := &envtest.Recorder{Handler: func(environment.Command) (int, error) { return 2, nil }}
	r := New(rec, "/tests", testsCfg, models.VerbosityNormal)
	r.SetOutput(io.Discard, io.Discard)

	ok, err := r.Run(context.Background(), suite)
	if err != nil {
		t.Fatalf("a failing suite is not an error: %v", err)
	}
	if ok {
		t.Error("expected failure")
	}
}

func TestDriverCannotRun(t *testing.T) {
	rec := &envtest.Recorder{Handler: func(environment.Command) (int, error) {
		return -1, errors.New("executable not found")
	}}
	r := New(rec, "/tests", testsCfg, models.VerbosityNormal)

	if _, err := r.Run(context.Background(), suite); err == nil {
		t.Error("expected error when the driver cannot start")
	}
}

func TestMissingStrategyCommand(t *testing.T) {
	r := New(&envtest.Recorder{}, "/tests", models.TestsConfig{}, models.VerbosityQuiet)
	if _, err := r.Run(context.Background(), suite); err == nil {
		t.Error("expected error without a harness")
	}
	r = New(&envtest.Recorder{}, "/tests", models.TestsConfig{}, models.VerbosityNormal)
	if _, err := r.Run(context.Background(), suite); err == nil {
		t.Error("expected error without a driver")
	}
}
