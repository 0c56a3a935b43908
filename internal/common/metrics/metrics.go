// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EmailsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_emails_processed_total",
			Help: "Total number of emails processed, by result kind",
		},
		[]string{"result"},
	)

	StageRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_stage_retries_total",
			Help: "Total number of retried attempts per pipeline stage",
		},
		[]string{"stage"},
	)

	PipelineDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "pipeline_duration_seconds",
			Help: "Duration of pipeline processing in seconds",
		},
		[]string{"result"},
	)

	LedgerRowsAppended = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ledger_rows_appended_total",
			Help: "Total number of rows appended to the sale ledger",
		},
	)
)
