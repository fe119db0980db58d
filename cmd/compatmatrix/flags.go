package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/spachava753/compatmatrix/internal/models"
)

const envVarPrefix = "COMPATMATRIX"

func prefixEnvVar(name string) []string {
	return []string{envVarPrefix + "_" + name}
}

var (
	configFlag = &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		EnvVars: prefixEnvVar("CONFIG"),
		Usage:   "Matrix config file (.yaml, .yml or .toml); the built-in hg/hg-git/dulwich matrix when empty",
	}
	checksFlag = &cli.StringFlag{
		Name:    "checks",
		Value:   "compat.checks",
		EnvVars: prefixEnvVar("CHECKS"),
		Usage:   "Checks file listing the version tuples to test",
	}
	resultsFlag = &cli.StringFlag{
		Name:    "results",
		Value:   "compat.results",
		EnvVars: prefixEnvVar("RESULTS"),
		Usage:   "Results file written after a full-matrix run",
	}
	cacheDirFlag = &cli.StringFlag{
		Name:    "cache-dir",
		Value:   defaultCacheDir(),
		EnvVars: prefixEnvVar("CACHE_DIR"),
		Usage:   "Directory holding one persistent checkout per component",
	}
	summaryJSONFlag = &cli.StringFlag{
		Name:    "summary-json",
		EnvVars: prefixEnvVar("SUMMARY_JSON"),
		Usage:   "Write a JSON summary of a full-matrix run to this path",
	}
	metricsFileFlag = &cli.StringFlag{
		Name:    "metrics-file",
		EnvVars: prefixEnvVar("METRICS_FILE"),
		Usage:   "Write Prometheus textfile metrics of a full-matrix run to this path",
	}
	quietFlag = &cli.BoolFlag{
		Name:    "quiet",
		Aliases: []string{"q"},
		EnvVars: prefixEnvVar("QUIET"),
		Usage:   "Run each test through the minimal harness with output discarded",
	}
	verboseFlag = &cli.BoolFlag{
		Name:    "verbose",
		Aliases: []string{"v"},
		EnvVars: prefixEnvVar("VERBOSE"),
		Usage:   "Run the test driver verbosely and keep its temporary directories",
	}
	logLevelFlag = &cli.StringFlag{
		Name:    "log-level",
		Value:   "info",
		EnvVars: prefixEnvVar("LOG_LEVEL"),
		Usage:   "Log level: debug, info, warn or error",
	}
)

var flags = []cli.Flag{
	configFlag,
	checksFlag,
	resultsFlag,
	cacheDirFlag,
	summaryJSONFlag,
	metricsFileFlag,
	quietFlag,
	verboseFlag,
	logLevelFlag,
}

func defaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ".compatmatrix-cache"
	}
	return filepath.Join(dir, "compatmatrix")
}

// settings are the command-line values that refine the loaded config.
type settings struct {
	configPath  string
	checks      string
	results     string
	cacheDir    string
	summaryJSON string
	metricsFile string
	verbosity   models.Verbosity
	logLevel    slog.Level

	checksSet   bool
	resultsSet  bool
	cacheDirSet bool
}

func settingsFromContext(c *cli.Context) (settings, error) {
	s := settings{
		configPath:  c.String(configFlag.Name),
		checks:      c.String(checksFlag.Name),
		results:     c.String(resultsFlag.Name),
		cacheDir:    c.String(cacheDirFlag.Name),
		summaryJSON: c.String(summaryJSONFlag.Name),
		metricsFile: c.String(metricsFileFlag.Name),
		checksSet:   c.IsSet(checksFlag.Name),
		resultsSet:  c.IsSet(resultsFlag.Name),
		cacheDirSet: c.IsSet(cacheDirFlag.Name),
	}

	v, err := verbosityFrom(c.Bool(quietFlag.Name), c.Bool(verboseFlag.Name))
	if err != nil {
		return settings{}, err
	}
	s.verbosity = v

	if err := s.logLevel.UnmarshalText([]byte(c.String(logLevelFlag.Name))); err != nil {
		return settings{}, fmt.Errorf("invalid --log-level: %w", err)
	}
	return s, nil
}

func verbosityFrom(quiet, verbose bool) (models.Verbosity, error) {
	switch {
	case quiet && verbose:
		return 0, fmt.Errorf("--quiet and --verbose are mutually exclusive")
	case quiet:
		return models.VerbosityQuiet, nil
	case verbose:
		return models.VerbosityVerbose, nil
	default:
		return models.VerbosityNormal, nil
	}
}

// apply overrides config values with flags given explicitly. Flag defaults
// only fill values the config leaves empty.
func (s settings) apply(cfg *models.MatrixConfig) {
	if s.checksSet || cfg.ChecksFile == "" {
		cfg.ChecksFile = s.checks
	}
	if s.resultsSet || cfg.ResultsFile == "" {
		cfg.ResultsFile = s.results
	}
	if s.cacheDirSet || cfg.CacheDir == "" {
		cfg.CacheDir = s.cacheDir
	}
}
