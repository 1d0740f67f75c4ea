package middleware

import (
	"log/slog"
	"mime"
	"net/http"
	"slices"

	"github.com/nobita2041/beauty-salon-cms/internal/model"
)

// CSRFConfig はCSRFミドルウェアの設定。
type CSRFConfig struct {
	// AllowedOrigins はミューテーションを受け付けるオリジン。空または "*" を含む場合はOriginを検証しない。
	AllowedOrigins []string
}

// NewCSRFMiddleware はCookieに依存しないCSRF対策ミドルウェアを返す。
// 安全なメソッド（GET, HEAD, OPTIONS）は検証をスキップする。
// 状態変更メソッドはContent-Typeがapplication/jsonであることを必須とし、
// Originヘッダーがある場合は許可オリジンに含まれることを検証する。
// application/jsonはプリフライトが必要なため、HTMLフォームからの送信はここで弾かれる。
func NewCSRFMiddleware(config CSRFConfig) func(next http.Handler) http.Handler {
	checkOrigin := len(config.AllowedOrigins) > 0 && !slices.Contains(config.AllowedOrigins, "*")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isSafeMethod(r.Method) {
				next.ServeHTTP(w, r)
				return
			}

			if !isJSONContentType(r.Header.Get("Content-Type")) {
				rejectCrossSite(w, r, "content type is not application/json")
				return
			}

			if origin := r.Header.Get("Origin"); checkOrigin && origin != "" && !slices.Contains(config.AllowedOrigins, origin) {
				rejectCrossSite(w, r, "origin not allowed")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// isSafeMethod はHTTPメソッドが安全（読み取り専用）かどうかを判定する。
func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	default:
		return false
	}
}

func isJSONContentType(value string) bool {
	mediaType, _, err := mime.ParseMediaType(value)
	return err == nil && mediaType == "application/json"
}

func rejectCrossSite(w http.ResponseWriter, r *http.Request, reason string) {
	slog.Warn("CSRF validation failed",
		slog.String("reason", reason),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("origin", r.Header.Get("Origin")),
	)
	WriteErrorResponse(w, http.StatusForbidden, model.NewCrossSiteRequestError())
}
