package handler

import (
	"context"
	"net/http"

	"github.com/nobita2041/beauty-salon-cms/internal/appointment"
	"github.com/nobita2041/beauty-salon-cms/internal/model"
)

// AppointmentServiceInterface は予約ハンドラーが必要とするサービスインターフェース。
type AppointmentServiceInterface interface {
	CreateAppointment(ctx context.Context, in appointment.CreateInput) (*model.Appointment, error)
	UpdateAppointment(ctx context.Context, id string, patch model.AppointmentPatch) (*model.Appointment, error)
	CancelAppointment(ctx context.Context, id string) (*model.Appointment, error)
	ListAppointments(ctx context.Context) ([]*model.AppointmentWithDetails, error)
	ListAppointmentsByDate(ctx context.Context, date model.Date) ([]*model.AppointmentWithDetails, error)
	ListAppointmentsByDateRange(ctx context.Context, from, to model.Date) ([]*model.AppointmentWithDetails, error)
	ListAppointmentsByCustomer(ctx context.Context, customerID string) ([]*model.AppointmentWithDetails, error)
}

// AppointmentHandler は予約管理のHTTPハンドラー。
type AppointmentHandler struct {
	service AppointmentServiceInterface
}

// NewAppointmentHandler はAppointmentHandlerを生成する。
func NewAppointmentHandler(service AppointmentServiceInterface) *AppointmentHandler {
	return &AppointmentHandler{service: service}
}

// createAppointmentRequest はcreateAppointmentの入力。statusは受け付けない。
type createAppointmentRequest struct {
	CustomerID      string     `json:"customer_id"`
	ServiceID       string     `json:"service_id"`
	AppointmentDate model.Date `json:"appointment_date"`
	StartTime       string     `json:"start_time"`
	EndTime         string     `json:"end_time"`
	Notes           *string    `json:"notes"`
}

func (req *createAppointmentRequest) validate() *model.APIError {
	return firstError(
		validateID("customer_id", req.CustomerID),
		validateID("service_id", req.ServiceID),
		validateDate("appointment_date", req.AppointmentDate),
		validateClockTime("start_time", req.StartTime),
		validateClockTime("end_time", req.EndTime),
	)
}

// updateAppointmentRequest はupdateAppointmentの入力。省略したフィールドは変更しない。
type updateAppointmentRequest struct {
	ID              string                                  `json:"id"`
	CustomerID      model.Optional[string]                  `json:"customer_id"`
	ServiceID       model.Optional[string]                  `json:"service_id"`
	AppointmentDate model.Optional[model.Date]              `json:"appointment_date"`
	StartTime       model.Optional[string]                  `json:"start_time"`
	EndTime         model.Optional[string]                  `json:"end_time"`
	Status          model.Optional[model.AppointmentStatus] `json:"status"`
	Notes           model.Optional[*string]                 `json:"notes"`
}

func (req *updateAppointmentRequest) validate() *model.APIError {
	if apiErr := validateID("id", req.ID); apiErr != nil {
		return apiErr
	}
	if req.CustomerID.Set {
		if apiErr := validateID("customer_id", req.CustomerID.Value); apiErr != nil {
			return apiErr
		}
	}
	if req.ServiceID.Set {
		if apiErr := validateID("service_id", req.ServiceID.Value); apiErr != nil {
			return apiErr
		}
	}
	if req.AppointmentDate.Set {
		if apiErr := validateDate("appointment_date", req.AppointmentDate.Value); apiErr != nil {
			return apiErr
		}
	}
	if req.StartTime.Set {
		if apiErr := validateClockTime("start_time", req.StartTime.Value); apiErr != nil {
			return apiErr
		}
	}
	if req.EndTime.Set {
		if apiErr := validateClockTime("end_time", req.EndTime.Value); apiErr != nil {
			return apiErr
		}
	}
	if req.Status.Set && !req.Status.Value.Valid() {
		return model.NewValidationError("status", "scheduled, confirmed, in_progress, completed, cancelled のいずれかを指定してください")
	}
	return nil
}

func (req *updateAppointmentRequest) patch() model.AppointmentPatch {
	return model.AppointmentPatch{
		CustomerID:      req.CustomerID,
		ServiceID:       req.ServiceID,
		AppointmentDate: req.AppointmentDate,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		Status:          req.Status,
		Notes:           req.Notes,
	}
}

// dateRangeRequest はgetAppointmentsByDateRangeの入力。
type dateRangeRequest struct {
	StartDate model.Date `json:"start_date"`
	EndDate   model.Date `json:"end_date"`
}

// deriveEndTimeRequest はderiveEndTimeの入力。
type deriveEndTimeRequest struct {
	StartTime       string `json:"start_time"`
	DurationMinutes int    `json:"duration_minutes"`
}

type deriveEndTimeResponse struct {
	EndTime string `json:"end_time"`
}

// GetAppointments は全予約を顧客・施術メニュー付きで返す。
// GET /trpc/getAppointments
func (h *AppointmentHandler) GetAppointments(w http.ResponseWriter, r *http.Request) {
	appointments, err := h.service.ListAppointments(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeResult(w, toAppointmentWithDetailsResponses(appointments))
}

// GetAppointmentsByDate は指定日の予約を開始時刻順に返す。
// GET /trpc/getAppointmentsByDate
func (h *AppointmentHandler) GetAppointmentsByDate(w http.ResponseWriter, r *http.Request) {
	var date model.Date
	if apiErr := decodeInput(r, &date); apiErr != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	appointments, err := h.service.ListAppointmentsByDate(r.Context(), date)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeResult(w, toAppointmentWithDetailsResponses(appointments))
}

// GetAppointmentsByDateRange は期間内（両端含む）の予約を返す。
// GET /trpc/getAppointmentsByDateRange
func (h *AppointmentHandler) GetAppointmentsByDateRange(w http.ResponseWriter, r *http.Request) {
	var req dateRangeRequest
	if apiErr := decodeInput(r, &req); apiErr != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}
	if apiErr := firstError(
		validateDate("start_date", req.StartDate),
		validateDate("end_date", req.EndDate),
	); apiErr != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	appointments, err := h.service.ListAppointmentsByDateRange(r.Context(), req.StartDate, req.EndDate)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeResult(w, toAppointmentWithDetailsResponses(appointments))
}

// GetAppointmentsByCustomer は顧客の予約を返す。
// GET /trpc/getAppointmentsByCustomer
func (h *AppointmentHandler) GetAppointmentsByCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, apiErr := decodeIDInput(r)
	if apiErr != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	appointments, err := h.service.ListAppointmentsByCustomer(r.Context(), customerID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeResult(w, toAppointmentWithDetailsResponses(appointments))
}

// CreateAppointment は予約を作成する。作成直後の状態は常にscheduled。
// POST /trpc/createAppointment
func (h *AppointmentHandler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	var req createAppointmentRequest
	if apiErr := decodeInput(r, &req); apiErr != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}
	if apiErr := req.validate(); apiErr != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	a, err := h.service.CreateAppointment(r.Context(), appointment.CreateInput{
		CustomerID:      req.CustomerID,
		ServiceID:       req.ServiceID,
		AppointmentDate: req.AppointmentDate,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		Notes:           req.Notes,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeResult(w, toAppointmentResponse(a))
}

// UpdateAppointment は予約を部分更新する。状態遷移の順序は強制しない。
// POST /trpc/updateAppointment
func (h *AppointmentHandler) UpdateAppointment(w http.ResponseWriter, r *http.Request) {
	var req updateAppointmentRequest
	if apiErr := decodeInput(r, &req); apiErr != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}
	if apiErr := req.validate(); apiErr != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	a, err := h.service.UpdateAppointment(r.Context(), req.ID, req.patch())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeResult(w, toAppointmentResponse(a))
}

// CancelAppointment は予約をキャンセル済みにする。
// POST /trpc/cancelAppointment
func (h *AppointmentHandler) CancelAppointment(w http.ResponseWriter, r *http.Request) {
	id, apiErr := decodeIDInput(r)
	if apiErr != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	a, err := h.service.CancelAppointment(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeResult(w, toAppointmentResponse(a))
}

// DeriveEndTime は開始時刻と施術時間から終了時刻の目安を返す。
// GET /trpc/deriveEndTime
func (h *AppointmentHandler) DeriveEndTime(w http.ResponseWriter, r *http.Request) {
	var req deriveEndTimeRequest
	if apiErr := decodeInput(r, &req); apiErr != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	endTime, err := appointment.DeriveEndTime(req.StartTime, req.DurationMinutes)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeResult(w, deriveEndTimeResponse{EndTime: endTime})
}
