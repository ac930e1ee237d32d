package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	pipelineRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "filmgrid",
		Name:      "pipeline_runs_total",
		Help:      "Catalog pipeline invocations by stage.",
	}, []string{"stage"})

	adminWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "filmgrid",
		Name:      "admin_writes_total",
		Help:      "Admin listing writes by action and outcome.",
	}, []string{"action", "outcome"})

	snapshotSize = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "filmgrid",
		Name:      "snapshot_listings",
		Help:      "Listings in the most recently published snapshot.",
	})
)

func countWrite(action string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	adminWrites.WithLabelValues(action, outcome).Inc()
}
