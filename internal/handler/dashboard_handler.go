package handler

import (
	"context"
	"net/http"

	"github.com/nobita2041/beauty-salon-cms/internal/model"
)

// DashboardServiceInterface はダッシュボードハンドラーが必要とするサービスインターフェース。
type DashboardServiceInterface interface {
	GetStats(ctx context.Context) (*model.DashboardStats, error)
}

// DashboardHandler はダッシュボード集計のHTTPハンドラー。
type DashboardHandler struct {
	service DashboardServiceInterface
}

// NewDashboardHandler はDashboardHandlerを生成する。
func NewDashboardHandler(service DashboardServiceInterface) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// GetDashboardStats はダッシュボードの集計値を返す。
// GET /trpc/getDashboardStats
func (h *DashboardHandler) GetDashboardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.GetStats(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeResult(w, toDashboardStatsResponse(stats))
}
