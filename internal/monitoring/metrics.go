package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Operation results
const (
	ResultOK    = "ok"
	ResultNoop  = "noop"
	ResultError = "error"
)

// Metrics holds the Prometheus collectors for a PiP session.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	Operations   *prometheus.CounterVec
	Acquisitions prometheus.Counter
	SessionState *prometheus.GaugeVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		Operations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pipctl_operations_total",
				Help: "Coordinator operations by outcome",
			},
			[]string{"operation", "result"},
		),
		Acquisitions: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "pipctl_acquisitions_total",
				Help: "Presentation resource acquisition attempts",
			},
		),
		SessionState: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "pipctl_session_state",
				Help: "1 for the current session state, 0 otherwise",
			},
			[]string{"state"},
		),
	}
}

func (m *Metrics) RecordOperation(operation, result string) {
	if m == nil {
		return
	}
	m.Operations.WithLabelValues(operation, result).Inc()
}

func (m *Metrics) RecordAcquisition() {
	if m == nil {
		return
	}
	m.Acquisitions.Inc()
}

// SetState marks current as the only live state among all.
func (m *Metrics) SetState(current string, all []string) {
	if m == nil {
		return
	}
	for _, s := range all {
		v := 0.0
		if s == current {
			v = 1
		}
		m.SessionState.WithLabelValues(s).Set(v)
	}
}
