package obs

import (
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PayMetrics groups Prometheus collectors for payment dispatch
// observability.
type PayMetrics struct {
	OutcomeTotal *prometheus.CounterVec
	RequestDur   *prometheus.HistogramVec
	InFlight     prometheus.Gauge
}

// NewPayMetrics registers and returns dispatch metrics collectors.
func NewPayMetrics(namespace string, buckets []float64, reg prometheus.Registerer) *PayMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if len(buckets) == 0 {
		buckets = []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500}
	} else {
		sort.Float64s(buckets)
	}
	m := &PayMetrics{
		OutcomeTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pay_outcomes_total",
			Help:      "Terminal outcomes delivered, by channel and result.",
		}, []string{"channel", "result"}),
		RequestDur: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pay_request_duration_ms",
			Help:      "Dispatch latency distribution in milliseconds.",
			Buckets:   buckets,
		}, []string{"channel", "kind"}),
		InFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pay_in_flight_requests",
			Help:      "Current number of in-flight payment requests.",
		}),
	}
	reg.MustRegister(m.OutcomeTotal, m.RequestDur, m.InFlight)
	return m
}

// ObserveOutcome records one terminal delivery.
func (m *PayMetrics) ObserveOutcome(channel, result string) {
	if m == nil || m.OutcomeTotal == nil {
		return
	}
	m.OutcomeTotal.WithLabelValues(channel, result).Inc()
}

// ObserveDuration records the elapsed dispatch time for one request.
func (m *PayMetrics) ObserveDuration(channel, kind string, d time.Duration) {
	if m == nil || m.RequestDur == nil {
		return
	}
	m.RequestDur.WithLabelValues(channel, kind).Observe(float64(d.Milliseconds()))
}

// TrackInFlight increments the gauge and returns the matching decrement.
func (m *PayMetrics) TrackInFlight() func() {
	if m == nil || m.InFlight == nil {
		return func() {}
	}
	m.InFlight.Inc()
	return m.InFlight.Dec
}
