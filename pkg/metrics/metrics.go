// Package metrics exposes Prometheus collectors for the scan pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry groups the collectors emitted during a scan run.
type Registry struct {
	CacheHits       *prometheus.CounterVec
	CacheMisses     *prometheus.CounterVec
	StoreHits       *prometheus.CounterVec
	StoreMisses     *prometheus.CounterVec
	PolicyPass      *prometheus.CounterVec
	PolicyFail      *prometheus.CounterVec
	EvaluationTime  *prometheus.HistogramVec
	PaginationRetry prometheus.Counter
}

// NewRegistry builds a Registry and registers its collectors with reg.
// Pass prometheus.NewRegistry() in tests to avoid polluting the default registry.
func NewRegistry(reg prometheus.Registerer) *Registry {
	r := &Registry{
		CacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "depsentry",
			Subsystem: "singleflight",
			Name:      "cache_hits_total",
			Help:      "Number of single-flight cache lookups served from a memoized value.",
		}, []string{"cache"}),
		CacheMisses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "depsentry",
			Subsystem: "singleflight",
			Name:      "cache_misses_total",
			Help:      "Number of single-flight cache lookups that invoked the producer.",
		}, []string{"cache"}),
		StoreHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "depsentry",
			Subsystem: "store",
			Name:      "hits_total",
			Help:      "Number of persistent store reads that found existing rows.",
		}, []string{"table"}),
		StoreMisses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "depsentry",
			Subsystem: "store",
			Name:      "misses_total",
			Help:      "Number of persistent store reads that found no rows.",
		}, []string{"table"}),
		PolicyPass: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "depsentry",
			Subsystem: "policy",
			Name:      "pass_total",
			Help:      "Number of policy evaluations that passed.",
		}, []string{"policy"}),
		PolicyFail: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "depsentry",
			Subsystem: "policy",
			Name:      "fail_total",
			Help:      "Number of policy evaluations that failed.",
		}, []string{"policy"}),
		EvaluationTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "depsentry",
			Subsystem: "policy",
			Name:      "evaluation_seconds",
			Help:      "Time to evaluate one policy against one dependency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"policy"}),
		PaginationRetry: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "depsentry",
			Subsystem: "github",
			Name:      "pagination_retries_total",
			Help:      "Number of rate-limit backoff retries issued by the issue-pagination client.",
		}),
	}

	reg.MustRegister(
		r.CacheHits, r.CacheMisses,
		r.StoreHits, r.StoreMisses,
		r.PolicyPass, r.PolicyFail,
		r.EvaluationTime, r.PaginationRetry,
	)

	return r
}
