package handler

import (
	"context"
	"net/http"

	"github.com/nobita2041/beauty-salon-cms/internal/customer"
	"github.com/nobita2041/beauty-salon-cms/internal/model"
)

// CustomerServiceInterface は顧客ハンドラーが必要とするサービスインターフェース。
type CustomerServiceInterface interface {
	CreateCustomer(ctx context.Context, in customer.CreateInput) (*model.Customer, error)
	ListCustomers(ctx context.Context) ([]*model.Customer, error)
	// GetCustomer は存在しない場合にnilを返す。
	GetCustomer(ctx context.Context, id string) (*model.Customer, error)
	UpdateCustomer(ctx context.Context, id string, patch model.CustomerPatch) (*model.Customer, error)
	DeleteCustomer(ctx context.Context, id string) error
	SearchCustomers(ctx context.Context, search model.CustomerSearch) ([]*model.Customer, error)
}

// CustomerHandler は顧客管理のHTTPハンドラー。
type CustomerHandler struct {
	service CustomerServiceInterface
}

// NewCustomerHandler はCustomerHandlerを生成する。
func NewCustomerHandler(service CustomerServiceInterface) *CustomerHandler {
	return &CustomerHandler{service: service}
}

// createCustomerRequest はcreateCustomerの入力。
type createCustomerRequest struct {
	FirstName   string      `json:"first_name"`
	LastName    string      `json:"last_name"`
	Email       string      `json:"email"`
	Phone       string      `json:"phone"`
	DateOfBirth *model.Date `json:"date_of_birth"`
	Notes       *string     `json:"notes"`
}

func (req *createCustomerRequest) validate() *model.APIError {
	return firstError(
		validateRequired("first_name", req.FirstName),
		validateRequired("last_name", req.LastName),
		validateEmail("email", req.Email),
		validateRequired("phone", req.Phone),
	)
}

// updateCustomerRequest はupdateCustomerの入力。省略したフィールドは変更しない。
type updateCustomerRequest struct {
	ID          string                      `json:"id"`
	FirstName   model.Optional[string]      `json:"first_name"`
	LastName    model.Optional[string]      `json:"last_name"`
	Email       model.Optional[string]      `json:"email"`
	Phone       model.Optional[string]      `json:"phone"`
	DateOfBirth model.Optional[*model.Date] `json:"date_of_birth"`
	Notes       model.Optional[*string]     `json:"notes"`
}

func (req *updateCustomerRequest) validate() *model.APIError {
	if apiErr := validateID("id", req.ID); apiErr != nil {
		return apiErr
	}
	if req.FirstName.Set {
		if apiErr := validateRequired("first_name", req.FirstName.Value); apiErr != nil {
			return apiErr
		}
	}
	if req.LastName.Set {
		if apiErr := validateRequired("last_name", req.LastName.Value); apiErr != nil {
			return apiErr
		}
	}
	if req.Email.Set {
		if apiErr := validateEmail("email", req.Email.Value); apiErr != nil {
			return apiErr
		}
	}
	if req.Phone.Set {
		if apiErr := validateRequired("phone", req.Phone.Value); apiErr != nil {
			return apiErr
		}
	}
	return nil
}

func (req *updateCustomerRequest) patch() model.CustomerPatch {
	return model.CustomerPatch{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Phone:       req.Phone,
		DateOfBirth: req.DateOfBirth,
		Notes:       req.Notes,
	}
}

// searchCustomersRequest はsearchCustomersの入力。limit省略時は20件。
type searchCustomersRequest struct {
	Query string `json:"query"`
	Limit *int   `json:"limit"`
}

func (req *searchCustomersRequest) validate() *model.APIError {
	if req.Query == "" {
		return model.NewValidationError("query", "1文字以上で指定してください")
	}
	if req.Limit != nil && *req.Limit <= 0 {
		return model.NewValidationError("limit", "正の整数で指定してください")
	}
	return nil
}

// GetCustomers は全顧客を返す。
// GET /trpc/getCustomers
func (h *CustomerHandler) GetCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.service.ListCustomers(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeResult(w, toCustomerResponses(customers))
}

// GetCustomerByID は指定IDの顧客を返す。存在しない場合はnullを返す。
// GET /trpc/getCustomerById
func (h *CustomerHandler) GetCustomerByID(w http.ResponseWriter, r *http.Request) {
	id, apiErr := decodeIDInput(r)
	if apiErr != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	c, err := h.service.GetCustomer(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if c == nil {
		writeResult(w, nil)
		return
	}
	writeResult(w, toCustomerResponse(c))
}

// CreateCustomer は顧客を登録する。
// POST /trpc/createCustomer
func (h *CustomerHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req createCustomerRequest
	if apiErr := decodeInput(r, &req); apiErr != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}
	if apiErr := req.validate(); apiErr != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	c, err := h.service.CreateCustomer(r.Context(), customer.CreateInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Phone:       req.Phone,
		DateOfBirth: req.DateOfBirth,
		Notes:       req.Notes,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeResult(w, toCustomerResponse(c))
}

// UpdateCustomer は顧客情報を部分更新する。
// POST /trpc/updateCustomer
func (h *CustomerHandler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	var req updateCustomerRequest
	if apiErr := decodeInput(r, &req); apiErr != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}
	if apiErr := req.validate(); apiErr != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	c, err := h.service.UpdateCustomer(r.Context(), req.ID, req.patch())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeResult(w, toCustomerResponse(c))
}

// DeleteCustomer は顧客を削除する。存在しないIDでも成功を返す。
// POST /trpc/deleteCustomer
func (h *CustomerHandler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, apiErr := decodeIDInput(r)
	if apiErr != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	if err := h.service.DeleteCustomer(r.Context(), id); err != nil {
		handleServiceError(w, err)
		return
	}
	writeResult(w, nil)
}

// SearchCustomers は氏名またはメールアドレスで顧客を検索する。
// GET /trpc/searchCustomers
func (h *CustomerHandler) SearchCustomers(w http.ResponseWriter, r *http.Request) {
	var req searchCustomersRequest
	if apiErr := decodeInput(r, &req); apiErr != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}
	if apiErr := req.validate(); apiErr != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	search := model.CustomerSearch{Query: req.Query, Limit: model.DefaultSearchLimit}
	if req.Limit != nil {
		search.Limit = *req.Limit
	}

	customers, err := h.service.SearchCustomers(r.Context(), search)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeResult(w, toCustomerResponses(customers))
}
