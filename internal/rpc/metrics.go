package rpc

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RPC metrics
	RPCRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dealindexor_rpc_requests_total",
			Help: "Total number of RPC requests by method",
		},
		[]string{"method"},
	)

	RPCErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dealindexor_rpc_errors_total",
			Help: "Total number of RPC errors by method and type",
		},
		[]string{"method", "error_type"},
	)

	RPCRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dealindexor_rpc_retries_total",
			Help: "Total number of RPC retries by operation",
		},
		[]string{"operation"},
	)

	RPCDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dealindexor_rpc_request_duration_seconds",
			Help:    "Duration of RPC requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	// Subscription metrics
	SubscriptionHeadBlock = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "dealindexor_subscription_head_block",
			Help: "Last block scanned by each event subscription",
		},
		[]string{"event"},
	)

	SubscriptionLogs = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dealindexor_subscription_logs_total",
			Help: "Total number of logs delivered by each event subscription",
		},
		[]string{"event"},
	)

	SubscriptionDecodeErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dealindexor_subscription_decode_errors_total",
			Help: "Total number of logs that could not be decoded",
		},
		[]string{"event"},
	)

	HeaderCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dealindexor_header_cache_lookups_total",
			Help: "Block timestamp lookups by result (hit or miss)",
		},
		[]string{"result"},
	)
)

func RPCMethodInc(method string) {
	RPCRequests.WithLabelValues(method).Inc()
}

func RPCMethodDuration(method string, duration time.Duration) {
	RPCDuration.WithLabelValues(method).Observe(duration.Seconds())
}

func RPCMethodError(method, errorType string) {
	RPCErrors.WithLabelValues(method, errorType).Inc()
}

func RPCRetryInc(operation string) {
	RPCRetries.WithLabelValues(operation).Inc()
}

func SubscriptionHeadSet(event string, block uint64) {
	SubscriptionHeadBlock.WithLabelValues(event).Set(float64(block))
}

func SubscriptionLogsAdd(event string, n int) {
	SubscriptionLogs.WithLabelValues(event).Add(float64(n))
}

func SubscriptionDecodeErrorInc(event string) {
	SubscriptionDecodeErrors.WithLabelValues(event).Inc()
}

func HeaderCacheLookup(hit bool) {
	if hit {
		HeaderCacheLookups.WithLabelValues("hit").Inc()
		return
	}
	HeaderCacheLookups.WithLabelValues("miss").Inc()
}
