package bus

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	busPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{Name: "sigflow_bus_published_total", Help: "Messages published per topic and backend"},
		[]string{"backend", "topic"},
	)
	busPublishErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{Name: "sigflow_bus_publish_errors_total", Help: "Publish failures per topic and backend"},
		[]string{"backend", "topic"},
	)
	busReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{Name: "sigflow_bus_received_total", Help: "Messages received per topic and backend"},
		[]string{"backend", "topic"},
	)
	busReconnects = promauto.NewCounterVec(
		prometheus.CounterOpts{Name: "sigflow_bus_reconnects_total", Help: "Subscription reconnect attempts per topic and backend"},
		[]string{"backend", "topic"},
	)
)
