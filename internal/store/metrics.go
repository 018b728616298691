package store

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	storeTransactions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dealindexor_store_transactions_total",
			Help: "Total number of store transactions by outcome",
		},
		[]string{"outcome"},
	)

	storeTransactionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dealindexor_store_transaction_duration_seconds",
			Help:    "Duration of store transactions",
			Buckets: prometheus.DefBuckets,
		},
	)

	eventLogRecords = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dealindexor_event_log_records_total",
			Help: "Total number of event log appends by result",
		},
		[]string{"result"},
	)
)

func TransactionObserve(outcome string, start time.Time) {
	storeTransactions.WithLabelValues(outcome).Inc()
	storeTransactionDuration.Observe(time.Since(start).Seconds())
}

func EventLogRecordInc(result RecordResult) {
	eventLogRecords.WithLabelValues(result.String()).Inc()
}
