package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "kanban"

// Result labels
const (
	ResultOK    = "ok"
	ResultError = "error"
)

type metrics struct {
	mutationsTotal     *prometheus.CounterVec
	auditFailures      *prometheus.CounterVec
	revalidateFailures prometheus.Counter
	orderRetries       prometheus.Counter
	cascadeRows        *prometheus.HistogramVec
}

var metricsSingleton = sync.OnceValue(func() *metrics {
	return &metrics{
		mutationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mutations_total",
			Help:      "Total number of mutator calls by operation and result.",
		}, []string{"operation", "result"}),
		auditFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audit_failures_total",
			Help:      "Audit records that could not be written.",
		}, []string{"entity_type", "action"}),
		revalidateFailures: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "revalidate_failures_total",
			Help:      "Revalidation signals that could not be delivered.",
		}),
		orderRetries: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_retries_total",
			Help:      "Card inserts retried after losing an order race.",
		}),
		cascadeRows: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "membership_cascade_rows",
			Help:      "Membership rows removed per cascade level.",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50, 100, 500},
		}, []string{"level"}),
	}
})

func getMetrics() *metrics {
	return metricsSingleton()
}

// ObserveMutation counts one mutator call.
func ObserveMutation(operation string, err error) {
	result := ResultOK
	if err != nil {
		result = ResultError
	}
	getMetrics().mutationsTotal.WithLabelValues(operation, result).Inc()
}

func IncAuditFailure(entityType, action string) {
	getMetrics().auditFailures.WithLabelValues(entityType, action).Inc()
}

func IncRevalidateFailure() {
	getMetrics().revalidateFailures.Inc()
}

func IncOrderRetry() {
	getMetrics().orderRetries.Inc()
}

// ObserveCascade records how many board and card memberships one removal touched.
func ObserveCascade(boards, cards int64) {
	m := getMetrics()
	m.cascadeRows.WithLabelValues("board").Observe(float64(boards))
	m.cascadeRows.WithLabelValues("card").Observe(float64(cards))
}
