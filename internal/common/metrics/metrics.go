// internal/common/metrics/metrics.go
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ScenariosPassed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "suite_scenarios_passed_total",
			Help: "Total number of scenarios that passed",
		},
		[]string{"suite"},
	)

	ScenariosFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "suite_scenarios_failed_total",
			Help: "Total number of scenarios that failed",
		},
		[]string{"suite", "error_code"},
	)

	ScenarioDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "suite_scenario_duration_seconds",
			Help:    "Duration of scenario execution in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"suite"},
	)

	ScenariosActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "suite_scenarios_active",
			Help: "Number of scenarios currently executing",
		},
	)
)

// ObserveScenario records one finished scenario. errorCode is ignored for passes.
func ObserveScenario(suite string, passed bool, errorCode string, d time.Duration) {
	if passed {
		ScenariosPassed.WithLabelValues(suite).Inc()
	} else {
		ScenariosFailed.WithLabelValues(suite, errorCode).Inc()
	}
	ScenarioDuration.WithLabelValues(suite).Observe(d.Seconds())
}
