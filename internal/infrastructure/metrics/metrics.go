package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "preservation"

func NewCounter() *prometheus.CounterVec {
	return promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "general_counters",
		},
		[]string{"result"})
}

func NewMonitorGauge() prometheus.Gauge {
	return promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "transfer_monitors_active",
			Help:      "Transfers currently being polled until they settle.",
		})
}
