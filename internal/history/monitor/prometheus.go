package monitor

import "github.com/prometheus/client_golang/prometheus"

var (
	// PagesFetched 分页拉取相关
	PagesFetched = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "trade_history_pages_fetched_total",
			Help: "Total number of trade history pages fetched from the gateway.",
		},
	)
	RecordsFetched = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "trade_history_records_fetched_total",
			Help: "Total number of raw trade records received.",
		},
	)
	PageFetchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "trade_history_page_fetch_duration_seconds",
			Help:    "Time taken to fetch one trade history page.",
			Buckets: []float64{0.05, 0.1, 0.2, 0.5, 1.0, 2.0, 5.0, 10.0},
		},
	)

	// RecordsNormalized 标准化
	RecordsNormalized = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "trade_history_records_normalized_total",
			Help: "Total number of trade records normalized.",
		},
	)

	// RowsExported 导出
	RowsExported = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trade_history_rows_exported_total",
			Help: "Total number of rows written per export destination.",
		},
		[]string{"destination"},
	)
	RunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trade_history_runs_total",
			Help: "Total number of export runs by outcome.",
		},
		[]string{"status"},
	)
	LastRunTimestamp = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "trade_history_last_run_timestamp_seconds",
			Help: "Unix time of the last finished export run.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		PagesFetched,
		RecordsFetched,
		PageFetchDuration,
		RecordsNormalized,
		RowsExported,
		RunsTotal,
		LastRunTimestamp,
	)
}
