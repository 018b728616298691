package handlers

import (
	"math/big"
	"time"

	"github.com/goran-ethernal/DealIndexor/internal/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	eventsHandled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dealindexor_events_handled_total",
			Help: "Total number of events handled by event name and outcome",
		},
		[]string{"event", "outcome"},
	)

	handlerDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dealindexor_handler_duration_seconds",
			Help:    "Time spent handling one event including its store transaction",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"event"},
	)

	illegalTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dealindexor_illegal_status_transitions_total",
			Help: "Total number of discarded status transitions by event and current status",
		},
		[]string{"event", "from"},
	)

	rewardResidual = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dealindexor_reward_residual_total",
			Help: "Sum of reward units left undistributed by integer division",
		},
	)
)

func EventHandledObserve(event string, outcome Outcome, start time.Time) {
	eventsHandled.WithLabelValues(event, outcome.String()).Inc()
	handlerDuration.WithLabelValues(event).Observe(time.Since(start).Seconds())
}

func IllegalTransitionInc(event string, from store.DealStatus) {
	illegalTransitions.WithLabelValues(event, string(from)).Inc()
}

func RewardResidualAdd(residual *big.Int) {
	f, _ := new(big.Float).SetInt(residual).Float64()
	rewardResidual.Add(f)
}
