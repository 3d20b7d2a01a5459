// Package metrics defines and registers the custom Prometheus metrics of the
// image filter gateway. Metrics register with the default registry on import;
// HTTP request metrics come from echoprometheus in the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "imagefilter"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginAttemptsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_input", "unauthorized", "throttled", "error"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// AuthDenialsTotal counts requests rejected by the auth gate.
// Label:
//   - reason: "missing_header", "malformed_header", "invalid_or_expired_token"
var AuthDenialsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_denials_total",
		Help:      "Total number of requests denied by the bearer token gate.",
	},
	[]string{"reason"},
)

// ── Image metrics ─────────────────────────────────────────────────────────────

// ImageJobsTotal counts filter jobs.
// Label:
//   - result: "success", "invalid_url", "download_failed", "unsupported_format",
//     "transform_failed", "transmit_failed", "error"
var ImageJobsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "image_jobs_total",
		Help:      "Total number of image filter jobs, by result.",
	},
	[]string{"result"},
)

// ImagePipelineDuration measures download + filter time of a job.
var ImagePipelineDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "image_pipeline_duration_seconds",
		Help:      "Duration of image download and grayscale conversion.",
		Buckets:   prometheus.ExponentialBuckets(0.05, 2.0, 10), // 50ms to ~25.6s
	},
)

// ScratchCleanupFailuresTotal counts failed deletions of job scratch files.
var ScratchCleanupFailuresTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "scratch_cleanup_failures_total",
		Help:      "Total number of scratch file cleanups that returned an error.",
	},
)

// ScratchFilesSweptTotal counts orphaned scratch files removed by the janitor.
var ScratchFilesSweptTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "scratch_files_swept_total",
		Help:      "Total number of orphaned scratch files removed by the sweeper.",
	},
)
