// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ランキングの種別ラベル
const (
	RankingRelated     = "related"
	RankingStyleColor  = "style_color"
	AutocompleteHit    = "hit"
	AutocompleteNoHits = "empty"
)

// MetricsCollector はメトリクス収集のインターフェース。
// サービス層、ミドルウェア、ローダーから利用する。
type MetricsCollector interface {
	RecordRanking(kind string, poolSize, returned int, duration time.Duration)
	RecordAutocomplete(result string)
	RecordCartOperation(op string)
	RecordHTTPStatus(statusCode int)
	RecordIngestion(created, skipped int)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	rankingPool     *prometheus.HistogramVec
	rankingReturned *prometheus.HistogramVec
	rankingLatency  *prometheus.HistogramVec
	autocomplete    *prometheus.CounterVec
	cartOperations  *prometheus.CounterVec
	httpStatus      *prometheus.CounterVec
	itemsIngested   *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		rankingPool: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cozyyu_ranking_pool_size",
			Help:    "ランキング対象となった候補商品数",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		}, []string{"kind"}),
		rankingReturned: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cozyyu_ranking_returned",
			Help:    "ランキング結果として返した商品数",
			Buckets: prometheus.LinearBuckets(0, 2, 7),
		}, []string{"kind"}),
		rankingLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cozyyu_ranking_duration_seconds",
			Help:    "スコア計算と並べ替えにかかった時間（秒）",
			Buckets: prometheus.DefBuckets,
		}, []string{"kind"}),
		autocomplete: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cozyyu_autocomplete_requests_total",
			Help: "補完リクエスト数（候補の有無別）",
		}, []string{"result"}),
		cartOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cozyyu_cart_operations_total",
			Help: "カート操作の合計数",
		}, []string{"op"}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cozyyu_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		itemsIngested: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cozyyu_items_ingested_total",
			Help: "メディア取り込みで処理した画像数",
		}, []string{"result"}),
	}

	reg.MustRegister(
		c.rankingPool,
		c.rankingReturned,
		c.rankingLatency,
		c.autocomplete,
		c.cartOperations,
		c.httpStatus,
		c.itemsIngested,
	)

	return c
}

// RecordRanking はランキング1回分の候補数・返却数・所要時間を記録する。
func (c *Collector) RecordRanking(kind string, poolSize, returned int, duration time.Duration) {
	c.rankingPool.WithLabelValues(kind).Observe(float64(poolSize))
	c.rankingReturned.WithLabelValues(kind).Observe(float64(returned))
	c.rankingLatency.WithLabelValues(kind).Observe(duration.Seconds())
}

// RecordAutocomplete は補完リクエストを記録する。
func (c *Collector) RecordAutocomplete(result string) {
	c.autocomplete.WithLabelValues(result).Inc()
}

// RecordCartOperation はカート操作を記録する。
func (c *Collector) RecordCartOperation(op string) {
	c.cartOperations.WithLabelValues(op).Inc()
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordIngestion はメディア取り込みの作成数とスキップ数を記録する。
func (c *Collector) RecordIngestion(created, skipped int) {
	c.itemsIngested.WithLabelValues("created").Add(float64(created))
	c.itemsIngested.WithLabelValues("skipped").Add(float64(skipped))
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop は何も記録しないMetricsCollector。メトリクスを公開しないコマンドで使う。
type Nop struct{}

func (Nop) RecordRanking(string, int, int, time.Duration) {}
func (Nop) RecordAutocomplete(string)                     {}
func (Nop) RecordCartOperation(string)                    {}
func (Nop) RecordHTTPStatus(int)                          {}
func (Nop) RecordIngestion(int, int)                      {}

var (
	_ MetricsCollector = (*Collector)(nil)
	_ MetricsCollector = Nop{}
)
