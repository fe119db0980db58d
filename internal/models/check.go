package models

import "time"

// CheckResult is the outcome of checking one version tuple.
type CheckResult struct {
	Tuple       VersionTuple `json:"tuple"`
	OK          bool         `json:"ok"`
	Error       *CheckError  `json:"error"`
	StartedAt   time.Time    `json:"started_at"`
	EndedAt     time.Time    `json:"ended_at"`
	DurationSec float64      `json:"duration_sec"`
}

// Outcome returns the results-file marker for the result.
func (r CheckResult) Outcome() string {
	if r.OK {
		return "OK"
	}
	return "FAIL"
}
