// Package metrics holds the prometheus collectors for the overlay core.
//
// All methods are safe to call on a nil *Metrics, which records nothing.
// Components take a *Metrics option and default to nil.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "redline"

// Rejection results.
const (
	RejectApplied    = "applied"
	RejectEmpty      = "empty"
	RejectDiverged   = "diverged"
	RejectUnexpected = "unexpected_operation"
)

// Metrics groups the collectors.
type Metrics struct {
	annotationsBuilt      *prometheus.CounterVec
	annotationsDropped    *prometheus.CounterVec
	buildDuration         prometheus.Histogram
	cycles                *prometheus.CounterVec
	rejections            *prometheus.CounterVec
	viewportNotifications prometheus.Counter
	snapshotReloads       *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		annotationsBuilt: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "annotations_built_total",
			Help:      "Annotations emitted by snapshot builds, by kind",
		}, []string{"kind"}),
		annotationsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "annotation_dropped_total",
			Help:      "Snapshot entries dropped during build, by kind and reason",
		}, []string{"kind", "reason"}),
		buildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "annotation_build_duration_seconds",
			Help:      "Time spent building an annotation set from a snapshot",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10), // 10us to ~2.6s
		}),
		cycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "update_cycles_total",
			Help:      "Update cycles processed, by outcome",
		}, []string{"outcome"}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reject_total",
			Help:      "Reject requests, by result",
		}, []string{"result"}),
		viewportNotifications: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "viewport_notifications_total",
			Help:      "Debounced viewport-changed notifications emitted",
		}),
		snapshotReloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_reloads_total",
			Help:      "Snapshot file reloads, by result",
		}, []string{"result"}),
	}

	if reg != nil {
		reg.MustRegister(
			m.annotationsBuilt,
			m.annotationsDropped,
			m.buildDuration,
			m.cycles,
			m.rejections,
			m.viewportNotifications,
			m.snapshotReloads,
		)
	}
	return m
}

// AnnotationBuilt counts one emitted annotation.
func (m *Metrics) AnnotationBuilt(kind string) {
	if m == nil {
		return
	}
	m.annotationsBuilt.WithLabelValues(kind).Inc()
}

// AnnotationDropped counts one dropped snapshot entry.
func (m *Metrics) AnnotationDropped(kind, reason string) {
	if m == nil {
		return
	}
	m.annotationsDropped.WithLabelValues(kind, reason).Inc()
}

// ObserveBuild records how long a build took.
func (m *Metrics) ObserveBuild(d time.Duration) {
	if m == nil {
		return
	}
	m.buildDuration.Observe(d.Seconds())
}

// Cycle counts one processed update cycle.
func (m *Metrics) Cycle(outcome string) {
	if m == nil {
		return
	}
	m.cycles.WithLabelValues(outcome).Inc()
}

// Reject counts one reject request.
func (m *Metrics) Reject(result string) {
	if m == nil {
		return
	}
	m.rejections.WithLabelValues(result).Inc()
}

// ViewportNotified counts one viewport notification.
func (m *Metrics) ViewportNotified() {
	if m == nil {
		return
	}
	m.viewportNotifications.Inc()
}

// SnapshotReload counts one snapshot file reload.
func (m *Metrics) SnapshotReload(result string) {
	if m == nil {
		return
	}
	m.snapshotReloads.WithLabelValues(result).Inc()
}
