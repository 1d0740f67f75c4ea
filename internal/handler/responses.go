package handler

import (
	"time"

	"github.com/nobita2041/beauty-salon-cms/internal/model"
)

// customerResponse は顧客情報のAPIレスポンス。
type customerResponse struct {
	ID          string      `json:"id"`
	FirstName   string      `json:"first_name"`
	LastName    string      `json:"last_name"`
	Email       string      `json:"email"`
	Phone       string      `json:"phone"`
	DateOfBirth *model.Date `json:"date_of_birth"`
	Notes       *string     `json:"notes"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// serviceResponse は施術メニューのAPIレスポンス。価格は数値で返す。
type serviceResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Description     *string   `json:"description"`
	DurationMinutes int       `json:"duration_minutes"`
	Price           float64   `json:"price"`
	CreatedAt       time.Time `json:"created_at"`
}

// appointmentResponse は予約のAPIレスポンス。
// next_statusesは画面で提示する遷移先。
type appointmentResponse struct {
	ID              string                    `json:"id"`
	CustomerID      string                    `json:"customer_id"`
	ServiceID       string                    `json:"service_id"`
	AppointmentDate model.Date                `json:"appointment_date"`
	StartTime       string                    `json:"start_time"`
	EndTime         string                    `json:"end_time"`
	Status          model.AppointmentStatus   `json:"status"`
	NextStatuses    []model.AppointmentStatus `json:"next_statuses"`
	Notes           *string                   `json:"notes"`
	CreatedAt       time.Time                 `json:"created_at"`
	UpdatedAt       time.Time                 `json:"updated_at"`
}

// appointmentWithDetailsResponse は顧客・施術メニューを含む予約のAPIレスポンス。
type appointmentWithDetailsResponse struct {
	appointmentResponse
	Customer customerResponse `json:"customer"`
	Service  serviceResponse  `json:"service"`
}

// serviceHistoryResponse は施術履歴のAPIレスポンス。
type serviceHistoryResponse struct {
	ID            string     `json:"id"`
	CustomerID    string     `json:"customer_id"`
	ServiceID     string     `json:"service_id"`
	AppointmentID *string    `json:"appointment_id"`
	ServiceDate   model.Date `json:"service_date"`
	PricePaid     float64    `json:"price_paid"`
	Notes         *string    `json:"notes"`
	CreatedAt     time.Time  `json:"created_at"`
}

// serviceHistoryWithDetailsResponse は顧客・施術メニューを含む施術履歴のAPIレスポンス。
type serviceHistoryWithDetailsResponse struct {
	serviceHistoryResponse
	Customer customerResponse `json:"customer"`
	Service  serviceResponse  `json:"service"`
}

// dashboardStatsResponse はダッシュボード集計のAPIレスポンス。
type dashboardStatsResponse struct {
	TodayAppointments     int                   `json:"today_appointments"`
	NewCustomersThisMonth int                   `json:"new_customers_this_month"`
	TotalRevenueThisMonth float64               `json:"total_revenue_this_month"`
	UpcomingAppointments  []appointmentResponse `json:"upcoming_appointments"`
	RecentCustomers       []customerResponse    `json:"recent_customers"`
}

func toCustomerResponse(c *model.Customer) customerResponse {
	return customerResponse{
		ID:          c.ID,
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		Email:       c.Email,
		Phone:       c.Phone,
		DateOfBirth: c.DateOfBirth,
		Notes:       c.Notes,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func toCustomerResponses(customers []*model.Customer) []customerResponse {
	resp := make([]customerResponse, 0, len(customers))
	for _, c := range customers {
		resp = append(resp, toCustomerResponse(c))
	}
	return resp
}

func toServiceResponse(s *model.Service) serviceResponse {
	return serviceResponse{
		ID:              s.ID,
		Name:            s.Name,
		Description:     s.Description,
		DurationMinutes: s.DurationMinutes,
		Price:           s.Price.InexactFloat64(),
		CreatedAt:       s.CreatedAt,
	}
}

func toServiceResponses(services []*model.Service) []serviceResponse {
	resp := make([]serviceResponse, 0, len(services))
	for _, s := range services {
		resp = append(resp, toServiceResponse(s))
	}
	return resp
}

func toAppointmentResponse(a *model.Appointment) appointmentResponse {
	return appointmentResponse{
		ID:              a.ID,
		CustomerID:      a.CustomerID,
		ServiceID:       a.ServiceID,
		AppointmentDate: a.AppointmentDate,
		StartTime:       a.StartTime,
		EndTime:         a.EndTime,
		Status:          a.Status,
		NextStatuses:    a.Status.NextStatuses(),
		Notes:           a.Notes,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

func toAppointmentResponses(appointments []*model.Appointment) []appointmentResponse {
	resp := make([]appointmentResponse, 0, len(appointments))
	for _, a := range appointments {
		resp = append(resp, toAppointmentResponse(a))
	}
	return resp
}

func toAppointmentWithDetailsResponses(appointments []*model.AppointmentWithDetails) []appointmentWithDetailsResponse {
	resp := make([]appointmentWithDetailsResponse, 0, len(appointments))
	for _, a := range appointments {
		resp = append(resp, appointmentWithDetailsResponse{
			appointmentResponse: toAppointmentResponse(&a.Appointment),
			Customer:            toCustomerResponse(&a.Customer),
			Service:             toServiceResponse(&a.Service),
		})
	}
	return resp
}

func toServiceHistoryResponse(h *model.ServiceHistory) serviceHistoryResponse {
	return serviceHistoryResponse{
		ID:            h.ID,
		CustomerID:    h.CustomerID,
		ServiceID:     h.ServiceID,
		AppointmentID: h.AppointmentID,
		ServiceDate:   h.ServiceDate,
		PricePaid:     h.PricePaid.InexactFloat64(),
		Notes:         h.Notes,
		CreatedAt:     h.CreatedAt,
	}
}

func toServiceHistoryWithDetailsResponses(histories []*model.ServiceHistoryWithDetails) []serviceHistoryWithDetailsResponse {
	resp := make([]serviceHistoryWithDetailsResponse, 0, len(histories))
	for _, h := range histories {
		resp = append(resp, serviceHistoryWithDetailsResponse{
			serviceHistoryResponse: toServiceHistoryResponse(&h.ServiceHistory),
			Customer:               toCustomerResponse(&h.Customer),
			Service:                toServiceResponse(&h.Service),
		})
	}
	return resp
}

func toDashboardStatsResponse(s *model.DashboardStats) dashboardStatsResponse {
	return dashboardStatsResponse{
		TodayAppointments:     s.TodayAppointments,
		NewCustomersThisMonth: s.NewCustomersThisMonth,
		TotalRevenueThisMonth: s.TotalRevenueThisMonth.InexactFloat64(),
		UpcomingAppointments:  toAppointmentResponses(s.UpcomingAppointments),
		RecentCustomers:       toCustomerResponses(s.RecentCustomers),
	}
}
