package hook

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts invocations by verdict, emissions, and committed
// state bytes. Attaching metrics never affects consensus behaviour.
type Metrics struct {
	invocations *prometheus.CounterVec
	emitted     prometheus.Counter
	stateBytes  prometheus.Counter
}

// NewMetrics builds and registers the hook counters.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		invocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hookexec",
			Name:      "invocations_total",
			Help:      "Hook invocations by terminal verdict.",
		}, []string{"verdict"}),
		emitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hookexec",
			Name:      "emitted_txns_total",
			Help:      "Transactions emitted by accepted hooks.",
		}),
		stateBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hookexec",
			Name:      "state_bytes_written_total",
			Help:      "Hook state bytes committed to the ledger.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.invocations, m.emitted, m.stateBytes)
	}
	return m
}

// observe records one finished invocation. Safe on a nil receiver.
func (m *Metrics) observe(res *HookResult) {
	if m == nil {
		return
	}
	if res.Skipped {
		m.invocations.WithLabelValues("skipped").Inc()
		return
	}
	m.invocations.WithLabelValues(res.ExitType.String()).Inc()
	m.emitted.Add(float64(len(res.Emitted)))
	for _, v := range res.ChangedState {
		m.stateBytes.Add(float64(len(v)))
	}
}
