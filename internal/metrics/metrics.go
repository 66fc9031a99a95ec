// Package metrics exposes Prometheus counters for cache and store traffic.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Recorder collects cache and store counters. A nil *Recorder is valid and
// records nothing.
type Recorder struct {
	cacheHits   *prometheus.CounterVec
	cacheMisses *prometheus.CounterVec
	cacheSwept  *prometheus.CounterVec
	batches     *prometheus.CounterVec
}

// NewRecorder creates a recorder and registers its collectors with reg.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		cacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "estate",
			Subsystem: "cache",
			Name:      "hits_total",
			Help:      "Cache lookups that returned a live entry.",
		}, []string{"category"}),
		cacheMisses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "estate",
			Subsystem: "cache",
			Name:      "misses_total",
			Help:      "Cache lookups that found nothing or an expired entry.",
		}, []string{"category"}),
		cacheSwept: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "estate",
			Subsystem: "cache",
			Name:      "swept_total",
			Help:      "Expired entries removed by sweeps.",
		}, []string{"category"}),
		batches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "estate",
			Subsystem: "store",
			Name:      "batches_total",
			Help:      "Batched IN queries issued against the document store.",
		}, []string{"collection"}),
	}

	if reg != nil {
		for _, c := range []prometheus.Collector{r.cacheHits, r.cacheMisses, r.cacheSwept, r.batches} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return r, nil
}

func (r *Recorder) CacheHit(category string) {
	if r == nil {
		return
	}
	r.cacheHits.WithLabelValues(category).Inc()
}

func (r *Recorder) CacheMiss(category string) {
	if r == nil {
		return
	}
	r.cacheMisses.WithLabelValues(category).Inc()
}

func (r *Recorder) CacheSwept(category string, n int) {
	if r == nil || n <= 0 {
		return
	}
	r.cacheSwept.WithLabelValues(category).Add(float64(n))
}

func (r *Recorder) StoreBatch(collection string) {
	if r == nil {
		return
	}
	r.batches.WithLabelValues(collection).Inc()
}
