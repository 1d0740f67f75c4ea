package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/nobita2041/beauty-salon-cms/internal/metrics"
	"github.com/nobita2041/beauty-salon-cms/internal/middleware"
	"github.com/nobita2041/beauty-salon-cms/internal/model"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	Logger          *slog.Logger
	Metrics         metrics.MetricsCollector
	GeneralLimiter  middleware.KeyLimiter // nilの場合は制限しない
	MutationLimiter middleware.KeyLimiter // nilの場合は制限しない
	AllowedOrigins  []string              // ミューテーションを受け付けるオリジン

	// 運用エンドポイント
	HealthChecker  HealthChecker
	MetricsHandler http.Handler // nilの場合は/metricsを公開しない

	// RPCプロシージャ
	CustomerService    CustomerServiceInterface
	CatalogService     CatalogServiceInterface
	AppointmentService AppointmentServiceInterface
	HistoryService     HistoryServiceInterface
	DashboardService   DashboardServiceInterface
}

// NewRouter は全エンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	RequestID → RealIP → Recovery → Logging → SecurityHeaders → Metrics
//
// /trpc 配下にはさらにレート制限（全般）を適用し、ミューテーションにはCSRF対策と専用の制限を追加する。
// CORSはserver.Newで最外周に適用する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	collector := deps.Metrics
	if collector == nil {
		collector = metrics.NopCollector{}
	}

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewLoggingMiddleware(logger))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewMetricsMiddleware(collector))

	healthHandler := NewHealthHandler(deps.HealthChecker)
	customerHandler := NewCustomerHandler(deps.CustomerService)
	catalogHandler := NewCatalogHandler(deps.CatalogService)
	appointmentHandler := NewAppointmentHandler(deps.AppointmentService)
	historyHandler := NewHistoryHandler(deps.HistoryService)
	dashboardHandler := NewDashboardHandler(deps.DashboardService)

	// --- 運用エンドポイント ---
	r.Get("/health", healthHandler.Health)
	if deps.MetricsHandler != nil {
		r.Handle("/metrics", deps.MetricsHandler)
	}

	// --- RPCプロシージャ ---
	r.Route("/trpc", func(r chi.Router) {
		if deps.GeneralLimiter != nil {
			r.Use(middleware.NewRateLimitMiddleware(deps.GeneralLimiter, "general"))
		}
		r.NotFound(procedureNotFound)
		r.MethodNotAllowed(procedureMethodNotAllowed)

		// クエリ（GET /trpc/{procedure}?input=...）
		r.Get("/healthcheck", healthHandler.Healthcheck)
		r.Get("/getCustomers", customerHandler.GetCustomers)
		r.Get("/getCustomerById", customerHandler.GetCustomerByID)
		r.Get("/searchCustomers", customerHandler.SearchCustomers)
		r.Get("/getServices", catalogHandler.GetServices)
		r.Get("/getAppointments", appointmentHandler.GetAppointments)
		r.Get("/getAppointmentsByDate", appointmentHandler.GetAppointmentsByDate)
		r.Get("/getAppointmentsByDateRange", appointmentHandler.GetAppointmentsByDateRange)
		r.Get("/getAppointmentsByCustomer", appointmentHandler.GetAppointmentsByCustomer)
		r.Get("/deriveEndTime", appointmentHandler.DeriveEndTime)
		r.Get("/getServiceHistoryByCustomer", historyHandler.GetServiceHistoryByCustomer)
		r.Get("/getDashboardStats", dashboardHandler.GetDashboardStats)

		// ミューテーション（POST /trpc/{procedure}）
		r.Group(func(r chi.Router) {
			r.Use(middleware.NewCSRFMiddleware(middleware.CSRFConfig{AllowedOrigins: deps.AllowedOrigins}))
			if deps.MutationLimiter != nil {
				r.Use(middleware.NewRateLimitMiddleware(deps.MutationLimiter, "mutation"))
			}

			r.Post("/createCustomer", customerHandler.CreateCustomer)
			r.Post("/updateCustomer", customerHandler.UpdateCustomer)
			r.Post("/deleteCustomer", customerHandler.DeleteCustomer)
			r.Post("/createService", catalogHandler.CreateService)
			r.Post("/createAppointment", appointmentHandler.CreateAppointment)
			r.Post("/updateAppointment", appointmentHandler.UpdateAppointment)
			r.Post("/cancelAppointment", appointmentHandler.CancelAppointment)
			r.Post("/createServiceHistory", historyHandler.CreateServiceHistory)
		})
	})

	return r
}

// procedureNotFound は未定義のプロシージャ呼び出しに404を返す。
func procedureNotFound(w http.ResponseWriter, r *http.Request) {
	writeAPIErrorResponse(w, http.StatusNotFound, &model.APIError{
		Code:     "PROCEDURE_NOT_FOUND",
		Message:  "指定されたプロシージャは存在しません。",
		Category: "validation",
		Action:   "プロシージャ名を確認してください。",
	})
}

// procedureMethodNotAllowed はクエリをPOST、ミューテーションをGETで呼び出した場合に405を返す。
func procedureMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeAPIErrorResponse(w, http.StatusMethodNotAllowed, &model.APIError{
		Code:     "METHOD_NOT_ALLOWED",
		Message:  "このプロシージャは指定されたHTTPメソッドでは呼び出せません。",
		Category: "validation",
		Action:   "クエリはGET、ミューテーションはPOSTで呼び出してください。",
	})
}
