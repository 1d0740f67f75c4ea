package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/nobita2041/beauty-salon-cms/internal/metrics"
)

const rpcPathPrefix = "/trpc/"

// ProcedureFromPath は /trpc/{procedure} 形式のパスからプロシージャ名を取り出す。
// RPC以外のパスでは空文字を返す。
func ProcedureFromPath(path string) string {
	procedure, ok := strings.CutPrefix(path, rpcPathPrefix)
	if !ok || procedure == "" || strings.Contains(procedure, "/") {
		return ""
	}
	return procedure
}

// NewMetricsMiddleware はRPC呼び出しごとのステータスと処理時間を記録するミドルウェアを返す。
// RPC以外のパスは記録しない。
func NewMetricsMiddleware(collector metrics.MetricsCollector) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			procedure := ProcedureFromPath(r.URL.Path)
			if procedure == "" {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			rec := newStatusRecorder(w)
			next.ServeHTTP(rec, r)

			collector.RecordRPC(procedure, rec.statusCode, time.Since(start))
		})
	}
}
