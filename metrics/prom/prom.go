// Package promhook exports clustercache lifecycle events as Prometheus
// metrics.
package promhook

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	cc "github.com/unkn0wn-root/clustercache"
)

// Hooks implements cc.Hooks and exports Prometheus counters/histograms.
// Safe for concurrent use; all Prometheus metric types are goroutine-safe.
type Hooks struct {
	created        prometheus.Counter
	createLatency  prometheus.Histogram
	createFailures prometheus.Counter
	destroyed      *prometheus.CounterVec
	destroyFailed  prometheus.Counter
	evictArmed     prometheus.Counter
	evictCancelled prometheus.Counter
	aliasConflicts prometheus.Counter
}

var _ cc.Hooks = (*Hooks)(nil)

// New constructs a Prometheus hooks adapter.
//   - reg:         registry to register metrics with (nil => prometheus.DefaultRegisterer)
//   - ns, sub:     Prometheus namespace and subsystem
//   - constLabels: static labels applied to all metrics (may be nil)
func New(reg prometheus.Registerer, ns, sub string, constLabels prometheus.Labels) *Hooks {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	h := &Hooks{
		created: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns, Subsystem: sub, Name: "resources_created_total",
			Help: "Resources created by the factory", ConstLabels: constLabels,
		}),
		createLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: ns, Subsystem: sub, Name: "create_duration_seconds",
			Help: "Factory create latency", ConstLabels: constLabels,
			Buckets: prometheus.DefBuckets,
		}),
		createFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns, Subsystem: sub, Name: "create_failures_total",
			Help: "Factory create failures", ConstLabels: constLabels,
		}),
		destroyed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Subsystem: sub, Name: "resources_destroyed_total",
			Help: "Resources destroyed by reason", ConstLabels: constLabels,
		}, []string{"reason"}),
		destroyFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns, Subsystem: sub, Name: "destroy_failures_total",
			Help: "Factory destroy failures during sweeps", ConstLabels: constLabels,
		}),
		evictArmed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns, Subsystem: sub, Name: "evictions_armed_total",
			Help: "Deferred eviction timers armed", ConstLabels: constLabels,
		}),
		evictCancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns, Subsystem: sub, Name: "evictions_cancelled_total",
			Help: "Pending evictions cancelled by reacquisition", ConstLabels: constLabels,
		}),
		aliasConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns, Subsystem: sub, Name: "alias_conflicts_total",
			Help: "Alias keys found bound to a different live resource", ConstLabels: constLabels,
		}),
	}
	reg.MustRegister(
		h.created, h.createLatency, h.createFailures, h.destroyed,
		h.destroyFailed, h.evictArmed, h.evictCancelled, h.aliasConflicts,
	)
	return h
}

func (h *Hooks) ResourceCreated(_ any, dur time.Duration) {
	h.created.Inc()
	h.createLatency.Observe(dur.Seconds())
}

func (h *Hooks) CreateFailed(any, error) { h.createFailures.Inc() }

func (h *Hooks) ResourceDestroyed(_ any, reason string) {
	h.destroyed.WithLabelValues(reason).Inc()
}

func (h *Hooks) DestroyFailed(any, error) { h.destroyFailed.Inc() }
func (h *Hooks) EvictionArmed(any)        { h.evictArmed.Inc() }
func (h *Hooks) EvictionCancelled(any)    { h.evictCancelled.Inc() }
func (h *Hooks) AliasConflict(any, any)   { h.aliasConflicts.Inc() }
