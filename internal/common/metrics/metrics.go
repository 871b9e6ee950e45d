// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ChatMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_messages_total",
			Help: "Messages handled by the conversation pipeline",
		},
		[]string{"intent", "outcome"},
	)

	ChatPipelineDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chat_pipeline_duration_seconds",
			Help:    "Time from message receipt to composed reply",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"outcome"},
	)

	ChatConnectAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_connect_attempts_total",
			Help: "Connect attempts by result",
		},
		[]string{"result"},
	)

	DataFetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "data_fetch_total",
			Help: "Data gateway fetches by source, domain and result",
		},
		[]string{"source", "domain", "result"},
	)

	DataFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "data_fetch_duration_seconds",
			Help:    "Data gateway fetch latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source", "domain"},
	)

	DataCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "data_cache_total",
			Help: "Fetch cache lookups by result",
		},
		[]string{"result"},
	)

	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)
)
