package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	UpstreamRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "police_upstream_requests_total",
		Help: "Total police API requests by stage and outcome",
	}, []string{"stage", "outcome"})
	UpstreamDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "police_upstream_duration_ms",
		Help:    "Police API request duration in milliseconds",
		Buckets: []float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 15000},
	}, []string{"stage"})
	AggregationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "police_aggregations_total",
		Help: "Neighbourhood aggregations by outcome",
	}, []string{"outcome"})
	AggregationDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "police_aggregation_duration_ms",
		Help:    "End-to-end neighbourhood aggregation duration in milliseconds",
		Buckets: []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000},
	})
	SupersededTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "police_aggregations_superseded_total",
		Help: "Aggregations dropped because a newer selection replaced them",
	})
)

func init() {
	prometheus.MustRegister(UpstreamRequestsTotal)
	prometheus.MustRegister(UpstreamDurationMs)
	prometheus.MustRegister(AggregationsTotal)
	prometheus.MustRegister(AggregationDurationMs)
	prometheus.MustRegister(SupersededTotal)
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
