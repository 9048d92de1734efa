package sheets

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics instruments calls to the Apps Script endpoint
type Metrics struct {
	requestsTotal *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	cacheHits     prometheus.Counter
	cacheMisses   prometheus.Counter
	fallbacks     *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg. A nil
// registerer leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "repairtrack_sheets_requests_total",
			Help: "Total Apps Script requests by action and outcome.",
		}, []string{"action", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "repairtrack_sheets_request_duration_seconds",
			Help:    "Histogram of Apps Script request durations by action, retries included.",
			Buckets: prometheus.DefBuckets,
		}, []string{"action"}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "repairtrack_sheets_cache_hits_total",
			Help: "Total job list reads served from the cache.",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "repairtrack_sheets_cache_misses_total",
			Help: "Total job list reads that went to the endpoint.",
		}),
		fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "repairtrack_sheets_fallbacks_total",
			Help: "Total reads answered by a fallback (csv re-fetch or last good list).",
		}, []string{"kind"}),
	}

	if reg != nil {
		reg.MustRegister(
			m.requestsTotal,
			m.duration,
			m.cacheHits,
			m.cacheMisses,
			m.fallbacks,
		)
	}

	return m
}
