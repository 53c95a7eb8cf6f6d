package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// SwapMetrics aggregates the counters recorded by the ledger while processing
// swap orders.
type SwapMetrics struct {
	ordersCreated  prometheus.Counter
	ordersExecuted prometheus.Counter
	ordersRejected *prometheus.CounterVec
	quoteRequests  prometheus.Counter
}

var (
	swapMetricsOnce sync.Once
	swapRegistry    *SwapMetrics
)

// Swap returns the lazily-initialised swap metrics registry.
func Swap() *SwapMetrics {
	swapMetricsOnce.Do(func() {
		swapRegistry = &SwapMetrics{
			ordersCreated: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "swapledger",
				Subsystem: "orders",
				Name:      "created_total",
				Help:      "Total swap orders recorded in the ledger.",
			}),
			ordersExecuted: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "swapledger",
				Subsystem: "orders",
				Name:      "executed_total",
				Help:      "Total swap orders that completed successfully.",
			}),
			ordersRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "swapledger",
				Subsystem: "orders",
				Name:      "rejected_total",
				Help:      "Total execution attempts rejected without mutation, segmented by reason.",
			}, []string{"reason"}),
			quoteRequests: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "swapledger",
				Subsystem: "quotes",
				Name:      "requests_total",
				Help:      "Total public quote requests served.",
			}),
		}
		prometheus.MustRegister(
			swapRegistry.ordersCreated,
			swapRegistry.ordersExecuted,
			swapRegistry.ordersRejected,
			swapRegistry.quoteRequests,
		)
	})
	return swapRegistry
}

// ObserveOrderCreated increments the created-order counter.
func (m *SwapMetrics) ObserveOrderCreated() {
	if m == nil {
		return
	}
	m.ordersCreated.Inc()
}

// ObserveOrderExecuted increments the executed-order counter.
func (m *SwapMetrics) ObserveOrderExecuted() {
	if m == nil {
		return
	}
	m.ordersExecuted.Inc()
}

// ObserveOrderRejected increments the rejection counter for the given reason.
func (m *SwapMetrics) ObserveOrderRejected(reason string) {
	if m == nil {
		return
	}
	m.ordersRejected.WithLabelValues(reason).Inc()
}

// ObserveQuote increments the quote-request counter.
func (m *SwapMetrics) ObserveQuote() {
	if m == nil {
		return
	}
	m.quoteRequests.Inc()
}
