package syncer

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	recordsUploaded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sync_records_uploaded_total",
			Help: "Offline records confirmed uploaded, per partition",
		},
		[]string{"partition"},
	)

	recordsDeadLettered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sync_records_dead_lettered_total",
			Help: "Offline records permanently rejected by the backend, per partition",
		},
		[]string{"partition"},
	)

	drainPasses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sync_drain_passes_total",
			Help: "Drain passes by outcome",
		},
		[]string{"result"},
	)

	stateGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sync_coordinator_state",
			Help: "Coordinator state (0=idle, 1=draining, 2=backoff)",
		},
	)
)
