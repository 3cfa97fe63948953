package lazy

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeSuccess    = "success"
	outcomeNullResult = "null_result"
	outcomeError      = "error"
	outcomePanic      = "panic"
)

// Metrics instruments supplier runs. A nil *Metrics records nothing.
// One Metrics may be shared by any number of lazy values.
type Metrics struct {
	invocations *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

// NewMetrics creates the supplier metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer, namespace string) (*Metrics, error) {
	m := &Metrics{
		invocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "lazy",
			Name:      "supplier_invocations_total",
			Help:      "Number of supplier runs by lazy value variant and outcome.",
		}, []string{"variant", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "lazy",
			Name:      "supplier_duration_seconds",
			Help:      "Duration of supplier runs.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"variant"}),
	}
	for _, c := range []prometheus.Collector{m.invocations, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observe(variant, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.invocations.WithLabelValues(variant, outcome).Inc()
	m.duration.WithLabelValues(variant).Observe(elapsed.Seconds())
}
