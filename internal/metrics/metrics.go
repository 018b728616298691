package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Stream metrics
	LastProcessedBlock = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "dealindexor_last_processed_block",
			Help: "Block of the last event processed per event stream",
		},
		[]string{"event"},
	)

	EventsDelivered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dealindexor_events_delivered_total",
			Help: "Total number of events delivered by subscriptions",
		},
		[]string{"event"},
	)

	StreamErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dealindexor_stream_errors_total",
			Help: "Total number of non-fatal errors reported by subscriptions",
		},
		[]string{"event"},
	)

	RestartGapBlocks = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "dealindexor_restart_gap_blocks",
			Help: "Blocks between the persisted cursor and the start height at the last start",
		},
		[]string{"event"},
	)

	DealLockWait = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dealindexor_deal_lock_wait_seconds",
			Help:    "Time spent waiting for the per-deal lock",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		},
	)

	// Reconciliation metrics
	PendingEvents = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dealindexor_pending_events",
			Help: "Number of parked events waiting for reconciliation",
		},
	)

	ReconciledEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dealindexor_reconciled_events_total",
			Help: "Total number of parked events replayed by outcome",
		},
		[]string{"outcome"},
	)

	// System metrics
	Uptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dealindexor_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)

	ComponentHealth = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "dealindexor_component_health",
			Help: "Component health status (1=healthy, 0=unhealthy)",
		},
		[]string{"component"},
	)

	Goroutines = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dealindexor_goroutines",
			Help: "Number of active goroutines",
		},
	)

	MemoryUsage = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "dealindexor_memory_usage_bytes",
			Help: "Memory usage statistics",
		},
		[]string{"type"},
	)

	startTime = time.Now()
)

func LastProcessedBlockSet(event string, blockNum uint64) {
	LastProcessedBlock.WithLabelValues(event).Set(float64(blockNum))
}

func EventsDeliveredInc(event string) {
	EventsDelivered.WithLabelValues(event).Inc()
}

func StreamErrorsInc(event string) {
	StreamErrors.WithLabelValues(event).Inc()
}

func RestartGapSet(event string, blocks uint64) {
	RestartGapBlocks.WithLabelValues(event).Set(float64(blocks))
}

func DealLockWaitLog(duration time.Duration) {
	DealLockWait.Observe(duration.Seconds())
}

func PendingEventsSet(count int) {
	PendingEvents.Set(float64(count))
}

func ReconciledEventsInc(outcome string) {
	ReconciledEvents.WithLabelValues(outcome).Inc()
}

func ComponentHealthSet(component string, healthy bool) {
	boolAsFloat := float64(1)
	if !healthy {
		boolAsFloat = 0
	}

	ComponentHealth.WithLabelValues(component).Set(boolAsFloat)
}

// UpdateSystemMetrics updates runtime system metrics.
// This should be called periodically (e.g., every 15 seconds).
func UpdateSystemMetrics() {
	Uptime.Set(time.Since(startTime).Seconds())

	Goroutines.Set(float64(runtime.NumGoroutine()))

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	MemoryUsage.WithLabelValues("alloc").Set(float64(m.Alloc))
	MemoryUsage.WithLabelValues("total_alloc").Set(float64(m.TotalAlloc))
	MemoryUsage.WithLabelValues("sys").Set(float64(m.Sys))
	MemoryUsage.WithLabelValues("heap_inuse").Set(float64(m.HeapInuse))
}
