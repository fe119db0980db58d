package report

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/spachava753/compatmatrix/internal/models"
)

const metricsNamespace = "compatmatrix"

// WriteMetrics writes the result of a matrix run to path in the Prometheus
// text exposition format, for pickup by a node exporter textfile collector.
func WriteMetrics(path string, result *models.MatrixResult) error {
	return prometheus.WriteToTextfile(path, Gatherer(result))
}

// Gatherer returns a registry holding the metrics of a matrix run.
func Gatherer(result *models.MatrixResult) *prometheus.Registry {
	reg := prometheus.NewRegistry()

	checkOK := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "check_ok",
		Help:      "Whether the tuple passed its check (1) or failed (0)",
	}, []string{"run_id", "tuple"})

	checkDuration := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "check_duration_seconds",
		Help:      "Wall time spent checking the tuple",
	}, []string{"run_id", "tuple"})

	checksTotal := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "checks",
		Help:      "Number of checks in the run by result",
	}, []string{"run_id", "result"})

	runTimestamp := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "last_run_timestamp_seconds",
		Help:      "Unix time the run finished",
	})

	reg.MustRegister(checkOK, checkDuration, checksTotal, runTimestamp)

	for _, r := range result.Results {
		tuple := r.Tuple.String()
		ok := 0.0
		if r.OK {
			ok = 1
		}
		checkOK.WithLabelValues(result.RunID, tuple).Set(ok)
		checkDuration.WithLabelValues(result.RunID, tuple).Set(r.DurationSec)
	}

	checksTotal.WithLabelValues(result.RunID, "pass").Set(float64(result.PassedChecks))
	checksTotal.WithLabelValues(result.RunID, "fail").Set(float64(result.FailedChecks))
	checksTotal.WithLabelValues(result.RunID, "skip").Set(float64(result.SkippedChecks))
	if !result.EndedAt.IsZero() {
		runTimestamp.Set(float64(result.EndedAt.Unix()))
	}

	return reg
}
