package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spachava753/compatmatrix/internal/config"
	"github.com/spachava753/compatmatrix/internal/models"
)

const matrixYAML = `primary: hg
checks_file: matrix.checks
clone_concurrency: 2
components:
  - id: hg
    url: https://www.mercurial-scm.org/repo/hg
  - id: hggit
    url: https://foss.heptapod.net/mercurial/hg-git
    kind: hg
    fixups:
      - name: version marker
        before: "0.8.6"
        write_file: hggit/__version__.py
        content: "version = '{version}'\n"
      - patch: patches/old-dulwich.patch
        before: "0.8.0"
  - id: dulwich
    url: https://github.com/dulwich/dulwich.git
    version_format: dulwich-{version}
tests:
  component: hggit
  subdir: tests
  names: [test-push.t, test-pull.t]
  driver: [make, tests]
  flags_var: TESTFLAGS
`

const matrixTOML = `primary = "hg"
results_file = "out/compat.results"

[[components]]
id = "hg"
url = "https://www.mercurial-scm.org/repo/hg"

[[components]]
id = "dulwich"
url = "https://github.com/dulwich/dulwich.git"
version_format = "dulwich-{version}"
build = ["python", "setup.py", "install", "--home", "{prefix}"]

[[components]]
id = "hggit"
url = "https://foss.heptapod.net/mercurial/hg-git"
kind = "hg"

[env]
library_var = "HGTEST_PYTHONPATH"
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing temp file: %v", err)
	}
	return path
}

func TestLoadMatrixConfigYAML(t *testing.T) {
	path := writeFile(t, "matrix.yaml", matrixYAML)

	cfg, err := config.LoadMatrixConfig(path)
	if err != nil {
		t.Fatalf("LoadMatrixConfig failed: %v", err)
	}

	if cfg.Primary != "hg" {
		t.Errorf("expected primary hg, got %s", cfg.Primary)
	}
	if cfg.ChecksFile != "matrix.checks" {
		t.Errorf("expected checks_file matrix.checks, got %s", cfg.ChecksFile)
	}
	if cfg.ResultsFile != "compat.results" {
		t.Errorf("expected default results_file, got %s", cfg.ResultsFile)
	}
	if cfg.CloneConcurrency != 2 {
		t.Errorf("expected clone_concurrency 2, got %d", cfg.CloneConcurrency)
	}
	if len(cfg.Components) != 3 {
		t.Fatalf("expected 3 components, got %d", len(cfg.Components))
	}

	hggit := cfg.Components[1]
	if len(hggit.Fixups) != 2 {
		t.Fatalf("expected 2 fixups, got %d", len(hggit.Fixups))
	}
	if hggit.Fixups[0].Content != "version = '{version}'\n" {
		t.Errorf("unexpected fixup content %q", hggit.Fixups[0].Content)
	}
	wantPatch := filepath.Join(filepath.Dir(path), "patches", "old-dulwich.patch")
	if hggit.Fixups[1].Patch != wantPatch {
		t.Errorf("expected patch path %s, got %s", wantPatch, hggit.Fixups[1].Patch)
	}

	if cfg.Components[2].EffectiveKind() != models.KindGit {
		t.Errorf("expected dulwich kind inferred as git, got %s", cfg.Components[2].EffectiveKind())
	}

	if cfg.Tests.FlagsVar != "TESTFLAGS" || len(cfg.Tests.Names) != 2 {
		t.Errorf("unexpected tests config %+v", cfg.Tests)
	}
	if cfg.Env.PathVar != "PATH" || cfg.Env.TestTmpVar != "TMPDIR" {
		t.Errorf("expected env defaults, got %+v", cfg.Env)
	}
}

func TestLoadMatrixConfigTOML(t *testing.T) {
	path := writeFile(t, "matrix.toml", matrixTOML)

	cfg, err := config.LoadMatrixConfig(path)
	if err != nil {
		t.Fatalf("LoadMatrixConfig failed: %v", err)
	}

	if cfg.ResultsFile != "out/compat.results" {
		t.Errorf("expected results_file out/compat.results, got %s", cfg.ResultsFile)
	}
	if got := cfg.Components[1].Build; len(got) != 5 || got[4] != "{prefix}" {
		t.Errorf("unexpected build override %v", got)
	}
	if cfg.Tests.Component != "hggit" {
		t.Errorf("expected default tests section, got %+v", cfg.Tests)
	}
	if cfg.Env.LibraryVar != "HGTEST_PYTHONPATH" {
		t.Errorf("expected library_var override, got %s", cfg.Env.LibraryVar)
	}
	if cfg.Env.LibrarySubdir != "lib/python" {
		t.Errorf("expected default library_subdir, got %s", cfg.Env.LibrarySubdir)
	}
}

func TestLoadMatrixConfigYAMLWithoutTests(t *testing.T) {
	content := "primary: hg\ncomponents:\n" +
		"  - id: hg\n    url: https://www.mercurial-scm.org/repo/hg\n" +
		"  - id: hggit\n    url: https://foss.heptapod.net/mercurial/hg-git\n    kind: hg\n"
	path := writeFile(t, "matrix.yaml", content)

	cfg, err := config.LoadMatrixConfig(path)
	if err != nil {
		t.Fatalf("LoadMatrixConfig failed: %v", err)
	}

	def := config.DefaultMatrixConfig().Tests
	if cfg.Tests.Component != def.Component || len(cfg.Tests.Names) != len(def.Names) {
		t.Errorf("expected default tests section, got %+v", cfg.Tests)
	}
	if cfg.Tests.FlagsVar != def.FlagsVar {
		t.Errorf("expected flags_var %s, got %s", def.FlagsVar, cfg.Tests.FlagsVar)
	}
}

func TestLoadMatrixConfigDefault(t *testing.T) {
	cfg, err := config.LoadMatrixConfig("")
	if err != nil {
		t.Fatalf("LoadMatrixConfig failed: %v", err)
	}
	if err := config.Validate(cfg); err != nil {
		t.Errorf("default config does not validate: %v", err)
	}
	if cfg.Primary != "hg" || len(cfg.Components) != 3 {
		t.Errorf("unexpected default config %+v", cfg)
	}
}

func TestLoadMatrixConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		wantErr string
	}{
		{
			name:    "unknown extension",
			file:    "matrix.json",
			content: "{}",
			wantErr: "unsupported config format",
		},
		{
			name:    "primary not configured",
			file:    "matrix.yaml",
			content: "primary: git\ncomponents:\n  - id: hg\n    url: https://example.com/hg\ntests:\n  component: hg\n  names: [a.t]\n  driver: [make]\n",
			wantErr: "primary component",
		},
		{
			name:    "fixup with two actions",
			file:    "matrix.yaml",
			content: "primary: hg\ncomponents:\n  - id: hg\n    url: https://example.com/hg\n    fixups:\n      - patch: a.patch\n        command: [touch, x]\ntests:\n  component: hg\n  names: [a.t]\n  driver: [make]\n",
			wantErr: "exactly one",
		},
		{
			name:    "bad kind",
			file:    "matrix.yaml",
			content: "primary: hg\ncomponents:\n  - id: hg\n    url: https://example.com/hg\n    kind: svn\ntests:\n  component: hg\n  names: [a.t]\n  driver: [make]\n",
			wantErr: "unknown kind",
		},
		{
			name:    "invalid yaml",
			file:    "matrix.yaml",
			content: "components: [",
			wantErr: "parsing matrix config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.file, tt.content)
			_, err := config.LoadMatrixConfig(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}
