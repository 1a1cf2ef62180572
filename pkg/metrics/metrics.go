package metrics

import (
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var registerOnce sync.Once

var (
	// EventsIngested counts accepted events per app.
	EventsIngested = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clickpulse",
			Name:      "events_ingested_total",
			Help:      "Total number of accepted usage events.",
		},
		[]string{"app"},
	)
	// IngestRejected counts rejected ingest attempts by reason
	// (unauthorized, rate_limited, invalid_payload, storage).
	IngestRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clickpulse",
			Name:      "ingest_rejected_total",
			Help:      "Total number of rejected ingest attempts by reason.",
		},
		[]string{"reason"},
	)
)

// Init registers the ingest metrics with the default registry. Call
// once at startup; the counters themselves work unregistered, which is
// what tests rely on.
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(EventsIngested, IngestRejected)
	})
}

// Handler exposes the prometheus scrape endpoint as a gin handler.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
