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
// RPCミドルウェアとドメインサービスから利用する。
type MetricsCollector interface {
	RecordRPC(procedure string, statusCode int, duration time.Duration)
	RecordCustomerCreated()
	RecordAppointmentCreated()
	RecordAppointmentStatus(status string)
	RecordServiceHistoryRecorded(pricePaid float64)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	rpcRequests         *prometheus.CounterVec
	rpcLatency          *prometheus.HistogramVec
	customersCreated    prometheus.Counter
	appointmentsCreated prometheus.Counter
	appointmentStatus   *prometheus.CounterVec
	historyRecorded     prometheus.Counter
	revenueRecorded     prometheus.Counter
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		rpcRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "salon_rpc_requests_total",
			Help: "プロシージャ・HTTPステータスコード別のRPC呼び出し数",
		}, []string{"procedure", "status_code"}),
		rpcLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "salon_rpc_latency_seconds",
			Help:    "プロシージャ別のRPCレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}, []string{"procedure"}),
		customersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "salon_customers_created_total",
			Help: "登録された顧客の合計数",
		}),
		appointmentsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "salon_appointments_created_total",
			Help: "作成された予約の合計数",
		}),
		appointmentStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "salon_appointment_status_changes_total",
			Help: "遷移先ステータス別の予約状態変更数",
		}, []string{"status"}),
		historyRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "salon_service_history_recorded_total",
			Help: "記録された施術履歴の合計数",
		}),
		revenueRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "salon_revenue_recorded_total",
			Help: "施術履歴として記録された支払額の合計",
		}),
	}

	reg.MustRegister(
		c.rpcRequests,
		c.rpcLatency,
		c.customersCreated,
		c.appointmentsCreated,
		c.appointmentStatus,
		c.historyRecorded,
		c.revenueRecorded,
	)

	return c
}

// RecordRPC はRPC呼び出しの結果とレイテンシを記録する。
func (c *Collector) RecordRPC(procedure string, statusCode int, duration time.Duration) {
	c.rpcRequests.WithLabelValues(procedure, strconv.Itoa(statusCode)).Inc()
	c.rpcLatency.WithLabelValues(procedure).Observe(duration.Seconds())
}

// RecordCustomerCreated は顧客登録を記録する。
func (c *Collector) RecordCustomerCreated() {
	c.customersCreated.Inc()
}

// RecordAppointmentCreated は予約作成を記録する。
func (c *Collector) RecordAppointmentCreated() {
	c.appointmentsCreated.Inc()
}

// RecordAppointmentStatus は予約状態の変更を遷移先ステータス別に記録する。
func (c *Collector) RecordAppointmentStatus(status string) {
	c.appointmentStatus.WithLabelValues(status).Inc()
}

// RecordServiceHistoryRecorded は施術履歴の記録と支払額を記録する。
func (c *Collector) RecordServiceHistoryRecorded(pricePaid float64) {
	c.historyRecorded.Inc()
	c.revenueRecorded.Add(pricePaid)
}

// NopCollector は何も記録しないMetricsCollector。
type NopCollector struct{}

func (NopCollector) RecordRPC(string, int, time.Duration) {}
func (NopCollector) RecordCustomerCreated()               {}
func (NopCollector) RecordAppointmentCreated()            {}
func (NopCollector) RecordAppointmentStatus(string)       {}
func (NopCollector) RecordServiceHistoryRecorded(float64) {}

var (
	_ MetricsCollector = (*Collector)(nil)
	_ MetricsCollector = NopCollector{}
)

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
