package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	checksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "proxyvet",
		Name:      "checks_total",
		Help:      "Proxy checks by kind and outcome.",
	}, []string{"kind", "outcome"})

	checkDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "proxyvet",
		Name:      "check_duration_seconds",
		Help:      "Wall time of proxy checks, including retries.",
		Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
	}, []string{"kind"})

	cacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "proxyvet",
		Name:      "result_cache_hits_total",
		Help:      "Checks answered from the result cache.",
	})

	activeInstances = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "proxyvet",
		Name:      "active_instances",
		Help:      "Backend instances currently reporting heartbeats.",
	})
)

func ObserveCheck(kind, outcome string, elapsed time.Duration) {
	checksTotal.WithLabelValues(kind, outcome).Inc()
	checkDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
}

func ObserveCacheHit() {
	cacheHitsTotal.Inc()
}

func SetActiveInstances(count int) {
	activeInstances.Set(float64(count))
}

// Handler serves the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
