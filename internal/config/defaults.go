package config

import "github.com/spachava753/compatmatrix/internal/models"

// DefaultMatrixConfig returns the built-in hg / hg-git / dulwich matrix.
func DefaultMatrixConfig() models.MatrixConfig {
	return models.MatrixConfig{
		Primary:          "hg",
		ChecksFile:       "compat.checks",
		ResultsFile:      "compat.results",
		CloneConcurrency: 1,
		Components: []models.ComponentConfig{
			{
				ID:  "hg",
				URL: "https://www.mercurial-scm.org/repo/hg",
			},
			{
				ID:   "hggit",
				URL:  "https://foss.heptapod.net/mercurial/hg-git",
				Kind: models.KindHg,
			},
			{
				ID:            "dulwich",
				URL:           "https://github.com/dulwich/dulwich.git",
				VersionFormat: "dulwich-{version}",
			},
		},
		Tests: models.TestsConfig{
			Component: "hggit",
			Subdir:    "tests",
			Names: []string{
				"test-git-clone.t",
				"test-pull.t",
				"test-push.t",
				"test-git-tags.t",
				"test-hg-author.t",
			},
			Harness:  []string{"python", "{hg}/tests/run-tests.py", "--quiet"},
			Driver:   []string{"make", "-C", "{hggit}", "tests"},
			FlagsVar: "TESTFLAGS",
		},
		Env: defaultEnv(),
	}
}

func defaultEnv() models.EnvConfig {
	return models.EnvConfig{
		PathVar:       "PATH",
		LibraryVar:    "PYTHONPATH",
		LibrarySubdir: "lib/python",
		TestTmpVar:    "TMPDIR",
	}
}

// applyDefaults fills zero values left by a partial config file.
func applyDefaults(cfg *models.MatrixConfig) {
	def := DefaultMatrixConfig()

	if cfg.ChecksFile == "" {
		cfg.ChecksFile = def.ChecksFile
	}
	if cfg.ResultsFile == "" {
		cfg.ResultsFile = def.ResultsFile
	}
	if cfg.CloneConcurrency <= 0 {
		cfg.CloneConcurrency = 1
	}
	if cfg.Env.PathVar == "" {
		cfg.Env.PathVar = def.Env.PathVar
	}
	if cfg.Env.LibraryVar == "" {
		cfg.Env.LibraryVar = def.Env.LibraryVar
	}
	if cfg.Env.LibrarySubdir == "" {
		cfg.Env.LibrarySubdir = def.Env.LibrarySubdir
	}
	if cfg.Env.TestTmpVar == "" {
		cfg.Env.TestTmpVar = def.Env.TestTmpVar
	}
}
