package db

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "dealindexor"

var (
	maintenanceRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "maintenance",
		Name:      "runs_total",
		Help:      "Maintenance runs by outcome (started, success, error)",
	}, []string{"outcome"})

	maintenanceDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Subsystem: "maintenance",
		Name:      "duration_seconds",
		Help:      "Time spent holding the exclusive maintenance lock",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60},
	})

	maintenanceLastRun = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Subsystem: "maintenance",
		Name:      "last_run_timestamp_seconds",
		Help:      "Unix time of the last completed maintenance run",
	})

	maintenanceReclaimed = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Subsystem: "maintenance",
		Name:      "space_reclaimed_bytes",
		Help:      "Bytes reclaimed by the last maintenance run",
	})

	maintenanceSteps = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "maintenance",
		Name:      "steps_total",
		Help:      "Completed maintenance steps, e.g. wal_checkpoint_truncate or vacuum",
	}, []string{"step"})

	dbSize = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Subsystem: "db",
		Name:      "size_bytes",
		Help:      "Size of the projection database including WAL and shared memory files",
	})
)

func MaintenanceRunsInc() {
	maintenanceRuns.WithLabelValues("started").Inc()
}

func MaintenanceSuccessInc() {
	maintenanceRuns.WithLabelValues("success").Inc()
}

func MaintenanceErrorInc() {
	maintenanceRuns.WithLabelValues("error").Inc()
}

func MaintenanceDurationLog(d time.Duration) {
	maintenanceDuration.Observe(d.Seconds())
}

func MaintenanceLastRunLog() {
	maintenanceLastRun.SetToCurrentTime()
}

func MaintenanceSpaceReclaimedLog(bytes uint64) {
	maintenanceReclaimed.Set(float64(bytes))
}

func WALCheckpointInc(mode string) {
	maintenanceSteps.WithLabelValues("wal_checkpoint_" + mode).Inc()
}

func VacuumRunsInc() {
	maintenanceSteps.WithLabelValues("vacuum").Inc()
}

func DBSizeLog(bytes int64) {
	dbSize.Set(float64(bytes))
}
