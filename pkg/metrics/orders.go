package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// OrderMetrics records the outcome of order status transitions.
type OrderMetrics struct {
	applied   *prometheus.CounterVec
	rejected  *prometheus.CounterVec
	conflicts prometheus.Counter
}

// NewOrderMetrics registers the order transition metrics on the provided registerer.
func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	if reg == nil {
		return &OrderMetrics{}
	}
	applied := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_transitions_applied_total",
		Help: "Order status transitions committed.",
	}, []string{"from", "to"})
	rejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_transitions_rejected_total",
		Help: "Order status transitions rejected by validation.",
	}, []string{"from", "to"})
	conflicts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "order_transition_conflicts_total",
		Help: "Order status writes lost to a concurrent writer.",
	})
	reg.MustRegister(applied, rejected, conflicts)
	return &OrderMetrics{
		applied:   applied,
		rejected:  rejected,
		conflicts: conflicts,
	}
}

// IncApplied increments the committed-transition counter.
func (m *OrderMetrics) IncApplied(from, to string) {
	if m == nil || m.applied == nil {
		return
	}
	m.applied.WithLabelValues(normalizeLabel(from), normalizeLabel(to)).Inc()
}

// IncRejected increments the rejected-transition counter.
func (m *OrderMetrics) IncRejected(from, to string) {
	if m == nil || m.rejected == nil {
		return
	}
	m.rejected.WithLabelValues(normalizeLabel(from), normalizeLabel(to)).Inc()
}

// IncConflict increments the concurrency-conflict counter.
func (m *OrderMetrics) IncConflict() {
	if m == nil || m.conflicts == nil {
		return
	}
	m.conflicts.Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
