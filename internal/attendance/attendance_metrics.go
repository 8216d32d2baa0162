package attendance

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	clockEvents   *prometheus.CounterVec
	clockRejected *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		clockEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "attendance",
			Name:      "clock_events_total",
			Help:      "Recorded clock punches by type and geofence result.",
		}, []string{"type", "within_geofence"}),
		clockRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "attendance",
			Name:      "clock_rejected_total",
			Help:      "Clock requests refused before recording, by error code.",
		}, []string{"code"}),
	}
	reg.MustRegister(m.clockEvents, m.clockRejected)
	return m
}

func (m *Metrics) observeEvent(e Event) {
	if m == nil {
		return
	}
	m.clockEvents.WithLabelValues(string(e.Type), strconv.FormatBool(e.WithinGeofence)).Inc()
}

func (m *Metrics) observeRejected(code string) {
	if m == nil {
		return
	}
	m.clockRejected.WithLabelValues(code).Inc()
}
