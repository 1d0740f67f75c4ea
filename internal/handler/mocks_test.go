package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/nobita2041/beauty-salon-cms/internal/appointment"
	"github.com/nobita2041/beauty-salon-cms/internal/catalog"
	"github.com/nobita2041/beauty-salon-cms/internal/customer"
	"github.com/nobita2041/beauty-salon-cms/internal/history"
	"github.com/nobita2041/beauty-salon-cms/internal/model"
)

// --- モック定義 ---

type mockCustomerService struct {
	createFn func(ctx context.Context, in customer.CreateInput) (*model.Customer, error)
	listFn   func(ctx context.Context) ([]*model.Customer, error)
	getFn    func(ctx context.Context, id string) (*model.Customer, error)
	updateFn func(ctx context.Context, id string, patch model.CustomerPatch) (*model.Customer, error)
	deleteFn func(ctx context.Context, id string) error
	searchFn func(ctx context.Context, search model.CustomerSearch) ([]*model.Customer, error)
}

func (m *mockCustomerService) CreateCustomer(ctx context.Context, in customer.CreateInput) (*model.Customer, error) {
	if m.createFn != nil {
		return m.createFn(ctx, in)
	}
	return nil, nil
}

func (m *mockCustomerService) ListCustomers(ctx context.Context) ([]*model.Customer, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return []*model.Customer{}, nil
}

func (m *mockCustomerService) GetCustomer(ctx context.Context, id string) (*model.Customer, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, nil
}

func (m *mockCustomerService) UpdateCustomer(ctx context.Context, id string, patch model.CustomerPatch) (*model.Customer, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, patch)
	}
	return nil, nil
}

func (m *mockCustomerService) DeleteCustomer(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockCustomerService) SearchCustomers(ctx context.Context, search model.CustomerSearch) ([]*model.Customer, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, search)
	}
	return []*model.Customer{}, nil
}

type mockCatalogService struct {
	createFn func(ctx context.Context, in catalog.CreateInput) (*model.Service, error)
	listFn   func(ctx context.Context) ([]*model.Service, error)
}

func (m *mockCatalogService) CreateService(ctx context.Context, in catalog.CreateInput) (*model.Service, error) {
	if m.createFn != nil {
		return m.createFn(ctx, in)
	}
	return nil, nil
}

func (m *mockCatalogService) ListServices(ctx context.Context) ([]*model.Service, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return []*model.Service{}, nil
}

type mockAppointmentService struct {
	createFn     func(ctx context.Context, in appointment.CreateInput) (*model.Appointment, error)
	updateFn     func(ctx context.Context, id string, patch model.AppointmentPatch) (*model.Appointment, error)
	cancelFn     func(ctx context.Context, id string) (*model.Appointment, error)
	listFn       func(ctx context.Context) ([]*model.AppointmentWithDetails, error)
	byDateFn     func(ctx context.Context, date model.Date) ([]*model.AppointmentWithDetails, error)
	byRangeFn    func(ctx context.Context, from, to model.Date) ([]*model.AppointmentWithDetails, error)
	byCustomerFn func(ctx context.Context, customerID string) ([]*model.AppointmentWithDetails, error)
}

func (m *mockAppointmentService) CreateAppointment(ctx context.Context, in appointment.CreateInput) (*model.Appointment, error) {
	if m.createFn != nil {
		return m.createFn(ctx, in)
	}
	return nil, nil
}

func (m *mockAppointmentService) UpdateAppointment(ctx context.Context, id string, patch model.AppointmentPatch) (*model.Appointment, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, patch)
	}
	return nil, nil
}

func (m *mockAppointmentService) CancelAppointment(ctx context.Context, id string) (*model.Appointment, error) {
	if m.cancelFn != nil {
		return m.cancelFn(ctx, id)
	}
	return nil, nil
}

func (m *mockAppointmentService) ListAppointments(ctx context.Context) ([]*model.AppointmentWithDetails, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return []*model.AppointmentWithDetails{}, nil
}

func (m *mockAppointmentService) ListAppointmentsByDate(ctx context.Context, date model.Date) ([]*model.AppointmentWithDetails, error) {
	if m.byDateFn != nil {
		return m.byDateFn(ctx, date)
	}
	return []*model.AppointmentWithDetails{}, nil
}

func (m *mockAppointmentService) ListAppointmentsByDateRange(ctx context.Context, from, to model.Date) ([]*model.AppointmentWithDetails, error) {
	if m.byRangeFn != nil {
		return m.byRangeFn(ctx, from, to)
	}
	return []*model.AppointmentWithDetails{}, nil
}

func (m *mockAppointmentService) ListAppointmentsByCustomer(ctx context.Context, customerID string) ([]*model.AppointmentWithDetails, error) {
	if m.byCustomerFn != nil {
		return m.byCustomerFn(ctx, customerID)
	}
	return []*model.AppointmentWithDetails{}, nil
}

type mockHistoryService struct {
	createFn func(ctx context.Context, in history.CreateInput) (*model.ServiceHistory, error)
	listFn   func(ctx context.Context, customerID string) ([]*model.ServiceHistoryWithDetails, error)
}

func (m *mockHistoryService) CreateServiceHistory(ctx context.Context, in history.CreateInput) (*model.ServiceHistory, error) {
	if m.createFn != nil {
		return m.createFn(ctx, in)
	}
	return nil, nil
}

func (m *mockHistoryService) ListByCustomer(ctx context.Context, customerID string) ([]*model.ServiceHistoryWithDetails, error) {
	if m.listFn != nil {
		return m.listFn(ctx, customerID)
	}
	return []*model.ServiceHistoryWithDetails{}, nil
}

type mockDashboardService struct {
	getStatsFn func(ctx context.Context) (*model.DashboardStats, error)
}

func (m *mockDashboardService) GetStats(ctx context.Context) (*model.DashboardStats, error) {
	if m.getStatsFn != nil {
		return m.getStatsFn(ctx)
	}
	return &model.DashboardStats{}, nil
}

type mockHealthChecker struct {
	err error
}

func (m *mockHealthChecker) PingContext(ctx context.Context) error { return m.err }

// --- テストヘルパー ---

const (
	testCustomerID    = "0190a6e4-8f3c-7a10-9b2e-1c4d5e6f7a80"
	testServiceID     = "0190a6e4-8f3c-7a10-9b2e-1c4d5e6f7a81"
	testAppointmentID = "0190a6e4-8f3c-7a10-9b2e-1c4d5e6f7a82"
)

var testTime = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

// newTestDeps は全サービスを空のモックで埋めたRouterDepsを返す。
func newTestDeps() *RouterDeps {
	return &RouterDeps{
		CustomerService:    &mockCustomerService{},
		CatalogService:     &mockCatalogService{},
		AppointmentService: &mockAppointmentService{},
		HistoryService:     &mockHistoryService{},
		DashboardService:   &mockDashboardService{},
	}
}

// query はGET /trpc/{procedure}?input=... を呼び出す。inputがnilの場合はinputを付けない。
func query(t *testing.T, h http.Handler, procedure string, input any) *httptest.ResponseRecorder {
	t.Helper()
	target := "/trpc/" + procedure
	if input != nil {
		raw, err := json.Marshal(input)
		if err != nil {
			t.Fatalf("failed to marshal input: %v", err)
		}
		target += "?input=" + url.QueryEscape(string(raw))
	}
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

// mutate はPOST /trpc/{procedure} をJSONボディ付きで呼び出す。
func mutate(t *testing.T, h http.Handler, procedure string, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/trpc/"+procedure, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

// decodeData は成功レスポンスのresult.dataをvにデコードする。
func decodeData(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body = %s", w.Code, w.Body.String())
	}
	var envelope struct {
		Result struct {
			Data json.RawMessage `json:"data"`
		} `json:"result"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("failed to decode envelope: %v; body = %s", err, w.Body.String())
	}
	if err := json.Unmarshal(envelope.Result.Data, v); err != nil {
		t.Fatalf("failed to decode data: %v; data = %s", err, envelope.Result.Data)
	}
}

// assertAPIError はエラーレスポンスのステータスとコードを検証する。
func assertAPIError(t *testing.T, w *httptest.ResponseRecorder, wantStatus int, wantCode string) {
	t.Helper()
	if w.Code != wantStatus {
		t.Errorf("status = %d, want %d; body = %s", w.Code, wantStatus, w.Body.String())
	}
	var body apiErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode error body: %v", err)
	}
	if body.Code != wantCode {
		t.Errorf("code = %q, want %q", body.Code, wantCode)
	}
	if body.Message == "" || body.Category == "" || body.Action == "" {
		t.Errorf("error body has empty fields: %+v", body)
	}
}
