// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// ハンドラーやサービス層から利用する。
type MetricsCollector interface {
	RecordEntryCreated(category string)
	RecordFanout(operation string, entries int)
	RecordFanoutFailure(operation string)
	RecordMetadataFetch(success bool)
	RecordHTTPStatus(statusCode int)
	RecordRequestLatency(duration time.Duration)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	entriesCreated *prometheus.CounterVec
	fanoutEntries  *prometheus.CounterVec
	fanoutFail     *prometheus.CounterVec
	metadataFetch  *prometheus.CounterVec
	httpStatus     *prometheus.CounterVec
	requestLatency prometheus.Histogram
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		entriesCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "onmind_entries_created_total",
			Help: "作成されたエントリのカテゴリ別合計数",
		}, []string{"category"}),
		fanoutEntries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "onmind_fanout_entries_total",
			Help: "ファンアウト更新で書き込まれたエントリの操作別合計数",
		}, []string{"operation"}),
		fanoutFail: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "onmind_fanout_fail_total",
			Help: "部分適用で終わったファンアウト更新の操作別合計数",
		}, []string{"operation"}),
		metadataFetch: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "onmind_metadata_fetch_total",
			Help: "URLメタデータ取得の結果別合計数",
		}, []string{"result"}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "onmind_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		requestLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "onmind_request_latency_seconds",
			Help:    "APIリクエストのレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.entriesCreated,
		c.fanoutEntries,
		c.fanoutFail,
		c.metadataFetch,
		c.httpStatus,
		c.requestLatency,
	)

	return c
}

// RecordEntryCreated はエントリ作成を記録する。
func (c *Collector) RecordEntryCreated(category string) {
	c.entriesCreated.WithLabelValues(category).Inc()
}

// RecordFanout はファンアウト更新の書き込み件数を記録する。
func (c *Collector) RecordFanout(operation string, entries int) {
	c.fanoutEntries.WithLabelValues(operation).Add(float64(entries))
}

// RecordFanoutFailure は部分適用で終わったファンアウトを記録する。
func (c *Collector) RecordFanoutFailure(operation string) {
	c.fanoutFail.WithLabelValues(operation).Inc()
}

// RecordMetadataFetch はメタデータ取得の成否を記録する。
func (c *Collector) RecordMetadataFetch(success bool) {
	result := "success"
	if !success {
		result = "failure"
	}
	c.metadataFetch.WithLabelValues(result).Inc()
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordRequestLatency はリクエストのレイテンシを記録する。
func (c *Collector) RecordRequestLatency(duration time.Duration) {
	c.requestLatency.Observe(duration.Seconds())
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetupMetricsRoute は/metricsエンドポイントを提供するHTTPハンドラーを返す。
// Prometheusスクレイプに対応する。
func SetupMetricsRoute(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}
