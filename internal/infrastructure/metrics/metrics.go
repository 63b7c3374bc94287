package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry = prometheus.NewRegistry()
	initOnce sync.Once
)

// 標籤結果
const (
	OutcomeFiltered = "filtered"
	OutcomeMatched  = "matched"
	OutcomeRetried  = "retried"
	OutcomeNoMatch  = "no_match"
	OutcomeFailed   = "failed"
)

var (
	// 查詢延遲分桶（毫秒）
	latencyBuckets = []float64{
		25, 50, 100, 250,
		500, 1000, 2500,
		5000, 10000,
	}

	LabelsTotal = promauto.With(registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "fridgewise_labels_total",
			Help: "Labels processed by the ingredient pipeline, by outcome",
		},
		[]string{"outcome"},
	)

	RunsTotal = promauto.With(registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "fridgewise_pipeline_runs_total",
			Help: "Pipeline runs by entry point and result",
		},
		[]string{"entry", "result"},
	)

	SearchLatency = promauto.With(registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fridgewise_reference_search_latency_ms",
			Help:    "Reference food search latency in milliseconds",
			Buckets: latencyBuckets,
		},
		[]string{"status"},
	)

	CacheLookups = promauto.With(registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "fridgewise_search_cache_lookups_total",
			Help: "Reference search cache lookups by result",
		},
		[]string{"result"},
	)
)

// Initialize 註冊程序層級的收集器
func Initialize() {
	initOnce.Do(func() {
		registry.MustRegister(
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			collectors.NewGoCollector(),
		)
	})
}

// Registry 取得指標註冊表
func Registry() *prometheus.Registry {
	return registry
}

// Handler 回傳 /metrics 的 HTTP handler
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

// ObserveLabel 記錄一個標籤的處理結果
func ObserveLabel(outcome string) {
	LabelsTotal.WithLabelValues(outcome).Inc()
}

// ObserveRun 記錄一次管線執行
func ObserveRun(entry string, produced int) {
	result := "empty"
	if produced > 0 {
		result = "ok"
	}
	RunsTotal.WithLabelValues(entry, result).Inc()
}
