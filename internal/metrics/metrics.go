package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dappforge_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
	deployments = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dappforge_deployments_total",
			Help: "Deployments by contract type and outcome",
		},
		[]string{"type", "outcome"},
	)
	toolchainStepDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dappforge_toolchain_step_duration_seconds",
			Help:    "Duration of compile and publish subprocesses",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
		},
		[]string{"step", "success"},
	)
	scratchSwept = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dappforge_scratch_dirs_swept_total",
			Help: "Stale scratch directories removed by the sweeper",
		},
	)
)

// ObserveHTTPRequest records a request against its route template.
func ObserveHTTPRequest(method, route string, status int, d time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}

// RecordDeployment counts a finished deployment. outcome is a short reason
// such as "success", "validation" or "compile".
func RecordDeployment(contractType, outcome string) {
	deployments.WithLabelValues(contractType, outcome).Inc()
}

func ObserveToolchainStep(step string, d time.Duration, success bool) {
	toolchainStepDuration.WithLabelValues(step, strconv.FormatBool(success)).Observe(d.Seconds())
}

func AddScratchSwept(n int) {
	scratchSwept.Add(float64(n))
}
