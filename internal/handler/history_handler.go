package handler

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/nobita2041/beauty-salon-cms/internal/history"
	"github.com/nobita2041/beauty-salon-cms/internal/model"
)

// HistoryServiceInterface は施術履歴ハンドラーが必要とするサービスインターフェース。
type HistoryServiceInterface interface {
	CreateServiceHistory(ctx context.Context, in history.CreateInput) (*model.ServiceHistory, error)
	ListByCustomer(ctx context.Context, customerID string) ([]*model.ServiceHistoryWithDetails, error)
}

// HistoryHandler は施術履歴のHTTPハンドラー。
type HistoryHandler struct {
	service HistoryServiceInterface
}

// NewHistoryHandler はHistoryHandlerを生成する。
func NewHistoryHandler(service HistoryServiceInterface) *HistoryHandler {
	return &HistoryHandler{service: service}
}

// createServiceHistoryRequest はcreateServiceHistoryの入力。
type createServiceHistoryRequest struct {
	CustomerID    string          `json:"customer_id"`
	ServiceID     string          `json:"service_id"`
	AppointmentID *string         `json:"appointment_id"`
	ServiceDate   model.Date      `json:"service_date"`
	PricePaid     decimal.Decimal `json:"price_paid"`
	Notes         *string         `json:"notes"`
}

func (req *createServiceHistoryRequest) validate() *model.APIError {
	if apiErr := firstError(
		validateID("customer_id", req.CustomerID),
		validateID("service_id", req.ServiceID),
		validateDate("service_date", req.ServiceDate),
		validatePositiveAmount("price_paid", req.PricePaid),
	); apiErr != nil {
		return apiErr
	}
	if req.AppointmentID != nil {
		return validateID("appointment_id", *req.AppointmentID)
	}
	return nil
}

// CreateServiceHistory は施術履歴を記録する。
// POST /trpc/createServiceHistory
func (h *HistoryHandler) CreateServiceHistory(w http.ResponseWriter, r *http.Request) {
	var req createServiceHistoryRequest
	if apiErr := decodeInput(r, &req); apiErr != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}
	if apiErr := req.validate(); apiErr != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	rec, err := h.service.CreateServiceHistory(r.Context(), history.CreateInput{
		CustomerID:    req.CustomerID,
		ServiceID:     req.ServiceID,
		AppointmentID: req.AppointmentID,
		ServiceDate:   req.ServiceDate,
		PricePaid:     req.PricePaid,
		Notes:         req.Notes,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeResult(w, toServiceHistoryResponse(rec))
}

// GetServiceHistoryByCustomer は顧客の施術履歴を新しい順に返す。
// GET /trpc/getServiceHistoryByCustomer
func (h *HistoryHandler) GetServiceHistoryByCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, apiErr := decodeIDInput(r)
	if apiErr != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	histories, err := h.service.ListByCustomer(r.Context(), customerID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeResult(w, toServiceHistoryWithDetailsResponses(histories))
}
