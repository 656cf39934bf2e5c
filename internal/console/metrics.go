package console

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics describes the synchronization loop. A nil Registerer leaves the collectors unregistered.
type Metrics struct {
	fetches     *prometheus.CounterVec
	items       *prometheus.GaugeVec
	lastSuccess *prometheus.GaugeVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		fetches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "licensedesk",
			Subsystem: "console",
			Name:      "fetches_total",
			Help:      "Collection fetches by result.",
		}, []string{"collection", "result"}),
		items: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "licensedesk",
			Subsystem: "console",
			Name:      "snapshot_items",
			Help:      "Items held in the current snapshot of a collection.",
		}, []string{"collection"}),
		lastSuccess: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "licensedesk",
			Subsystem: "console",
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful fetch of a collection.",
		}, []string{"collection"}),
	}
}

func (m *Metrics) observe(c Collection, n int, err error, unix float64) {
	if m == nil {
		return
	}
	if err != nil {
		m.fetches.WithLabelValues(string(c), "error").Inc()
		return
	}
	m.fetches.WithLabelValues(string(c), "ok").Inc()
	m.items.WithLabelValues(string(c)).Set(float64(n))
	m.lastSuccess.WithLabelValues(string(c)).Set(unix)
}
