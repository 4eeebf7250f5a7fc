package executor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "meridian",
		Subsystem: "executor",
		Name:      "operations_total",
		Help:      "Count of staking operations processed by result.",
	}, []string{"op", "status"})

	metricWeight = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "meridian",
		Subsystem: "executor",
		Name:      "total_weight",
		Help:      "Current global resource weight in whole coins.",
	}, []string{"resource"})
)
