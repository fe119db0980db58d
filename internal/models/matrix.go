package models

import "time"

// Verbosity selects the test invocation strategy.
type Verbosity int

const (
	VerbosityQuiet Verbosity = iota
	VerbosityNormal
	VerbosityVerbose
)

func (v Verbosity) String() string {
	switch v {
	case VerbosityQuiet:
		return "quiet"
	case VerbosityVerbose:
		return "verbose"
	default:
		return "normal"
	}
}

// MatrixConfig represents the parsed matrix configuration file.
type MatrixConfig struct {
	Primary          string            `yaml:"primary" toml:"primary" json:"primary"`
	CacheDir         string            `yaml:"cache_dir,omitempty" toml:"cache_dir,omitempty" json:"cache_dir,omitempty"`
	ChecksFile       string            `yaml:"checks_file" toml:"checks_file" json:"checks_file"`
	ResultsFile      string            `yaml:"results_file" toml:"results_file" json:"results_file"`
	CloneConcurrency int               `yaml:"clone_concurrency" toml:"clone_concurrency" json:"clone_concurrency"`
	Components       []ComponentConfig `yaml:"components" toml:"components" json:"components"`
	Tests            TestsConfig       `yaml:"tests" toml:"tests" json:"tests"`
	Env              EnvConfig         `yaml:"env" toml:"env" json:"env"`
}

// TestsConfig describes where the fixed test suite lives and how to drive it.
type TestsConfig struct {
	Component string   `yaml:"component" toml:"component" json:"component"`
	Subdir    string   `yaml:"subdir" toml:"subdir" json:"subdir"`
	Names     []string `yaml:"names" toml:"names" json:"names"`
	Harness   []string `yaml:"harness" toml:"harness" json:"harness"`
	Driver    []string `yaml:"driver" toml:"driver" json:"driver"`
	FlagsVar  string   `yaml:"flags_var" toml:"flags_var" json:"flags_var"`
}

// EnvConfig names the environment variables exported to the test suite.
type EnvConfig struct {
	PathVar       string `yaml:"path_var" toml:"path_var" json:"path_var"`
	LibraryVar    string `yaml:"library_var" toml:"library_var" json:"library_var"`
	LibrarySubdir string `yaml:"library_subdir" toml:"library_subdir" json:"library_subdir"`
	TestTmpVar    string `yaml:"test_tmp_var" toml:"test_tmp_var" json:"test_tmp_var"`
}

// MatrixResult contains the aggregate outcome of a full-matrix run.
type MatrixResult struct {
	RunID            string        `json:"run_id"`
	Cancelled        bool          `json:"cancelled"`
	TotalChecks      int           `json:"total_checks"`
	PassedChecks     int           `json:"passed_checks"`
	FailedChecks     int           `json:"failed_checks"`
	SkippedChecks    int           `json:"skipped_checks"`
	TotalDurationSec float64       `json:"total_duration_sec"`
	StartedAt        time.Time     `json:"started_at"`
	EndedAt          time.Time     `json:"ended_at"`
	Results          []CheckResult `json:"results"`
}

// OK reports whether every attempted check passed and none were skipped.
func (r *MatrixResult) OK() bool {
	return r.FailedChecks == 0 && r.SkippedChecks == 0 && !r.Cancelled
}
