package handler

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/nobita2041/beauty-salon-cms/internal/catalog"
	"github.com/nobita2041/beauty-salon-cms/internal/model"
)

// CatalogServiceInterface は施術メニューハンドラーが必要とするサービスインターフェース。
type CatalogServiceInterface interface {
	CreateService(ctx context.Context, in catalog.CreateInput) (*model.Service, error)
	ListServices(ctx context.Context) ([]*model.Service, error)
}

// CatalogHandler は施術メニュー管理のHTTPハンドラー。
type CatalogHandler struct {
	service CatalogServiceInterface
}

// NewCatalogHandler はCatalogHandlerを生成する。
func NewCatalogHandler(service CatalogServiceInterface) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// createServiceRequest はcreateServiceの入力。priceはJSONの数値で受け取る。
type createServiceRequest struct {
	Name            string          `json:"name"`
	Description     *string         `json:"description"`
	DurationMinutes int             `json:"duration_minutes"`
	Price           decimal.Decimal `json:"price"`
}

func (req *createServiceRequest) validate() *model.APIError {
	if apiErr := validateRequired("name", req.Name); apiErr != nil {
		return apiErr
	}
	if apiErr := validateDurationMinutes("duration_minutes", req.DurationMinutes); apiErr != nil {
		return apiErr
	}
	return validatePositiveAmount("price", req.Price)
}

// GetServices は全施術メニューを返す。
// GET /trpc/getServices
func (h *CatalogHandler) GetServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.service.ListServices(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeResult(w, toServiceResponses(services))
}

// CreateService は施術メニューを登録する。
// POST /trpc/createService
func (h *CatalogHandler) CreateService(w http.ResponseWriter, r *http.Request) {
	var req createServiceRequest
	if apiErr := decodeInput(r, &req); apiErr != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}
	if apiErr := req.validate(); apiErr != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	s, err := h.service.CreateService(r.Context(), catalog.CreateInput{
		Name:            req.Name,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		Price:           req.Price,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeResult(w, toServiceResponse(s))
}
