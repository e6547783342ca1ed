// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector は対話エンジンとバックエンドクライアントのメトリクスを収集する。
type Collector struct {
	transitions    *prometheus.CounterVec
	backendCalls   *prometheus.CounterVec
	backendLatency *prometheus.HistogramVec
	cacheHits      prometheus.Counter
	cacheMisses    prometheus.Counter
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "notetalk_dialog_transitions_total",
			Help: "対話状態遷移の合計数（遷移元・遷移先別）",
		}, []string{"from", "to"}),
		backendCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "notetalk_backend_calls_total",
			Help: "バックエンド呼び出しの合計数（操作・結果別）",
		}, []string{"op", "outcome"}),
		backendLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "notetalk_backend_latency_seconds",
			Help:    "バックエンド呼び出しのレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}, []string{"op"}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "notetalk_session_cache_hits_total",
			Help: "セッションキャッシュのヒット数",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "notetalk_session_cache_misses_total",
			Help: "セッションキャッシュのミス数（未設定・期限切れを区別しない）",
		}),
	}

	reg.MustRegister(
		c.transitions,
		c.backendCalls,
		c.backendLatency,
		c.cacheHits,
		c.cacheMisses,
	)

	return c
}

// RecordTransition は対話状態遷移を記録する。
func (c *Collector) RecordTransition(from, to string) {
	c.transitions.WithLabelValues(from, to).Inc()
}

// RecordBackendCall はバックエンド呼び出しの結果を記録する。
// outcomeは success / rejected / transport のいずれか。
func (c *Collector) RecordBackendCall(op string, outcome string) {
	c.backendCalls.WithLabelValues(op, outcome).Inc()
}

// RecordBackendLatency はバックエンド呼び出しのレイテンシを記録する。
func (c *Collector) RecordBackendLatency(op string, duration time.Duration) {
	c.backendLatency.WithLabelValues(op).Observe(duration.Seconds())
}

// RecordCacheHit はセッションキャッシュのヒットを記録する。
func (c *Collector) RecordCacheHit() {
	c.cacheHits.Inc()
}

// RecordCacheMiss はセッションキャッシュのミスを記録する。
func (c *Collector) RecordCacheMiss() {
	c.cacheMisses.Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
