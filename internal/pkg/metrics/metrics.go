// Package metrics defines and registers all custom Prometheus metrics for the
// gym API. It is the single source of truth for metric names, labels, and
// help strings.
//
// Metrics are registered with the default registry on package init through
// promauto; HTTP request metrics are added separately by the echoprometheus
// middleware.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "gym"

// ── Access metrics ────────────────────────────────────────────────────────────

// AccessScansTotal counts scans that registered a transition.
// Label:
//   - kind: "entry" or "exit"
var AccessScansTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "access_scans_total",
		Help:      "Total number of QR scans that registered an entry or exit.",
	},
	[]string{"kind"},
)

// AccessScanErrorsTotal counts rejected scans.
// Label:
//   - reason: short failure code (e.g. "expired_token", "registered_elsewhere")
var AccessScanErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "access_scan_errors_total",
		Help:      "Total number of QR scans rejected, by reason.",
	},
	[]string{"reason"},
)

// AccessScanDuration measures scan processing from validation to the
// presence write.
// Label:
//   - kind: "entry", "exit", or "error"
var AccessScanDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "access_scan_duration_seconds",
		Help:      "Duration of QR scan processing.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"kind"},
)

// ── Attendance log metrics ─────────────────────────────────────────────────────

// AccessEventsRecordedTotal counts attendance log writes.
// Label:
//   - result: "ok", "error", or "dropped" (queue full)
var AccessEventsRecordedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "access_events_recorded_total",
		Help:      "Total number of attendance events handed to the log, by result.",
	},
	[]string{"result"},
)

// AccessRecorderQueueDepth tracks pending events per recorder worker.
// Label:
//   - worker_id: numeric worker index
var AccessRecorderQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "access_recorder_queue_depth",
		Help:      "Current number of attendance events pending in each recorder worker.",
	},
	[]string{"worker_id"},
)

// ── Account metrics ───────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)
