// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: customer, service, appointment, validation, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeCustomerNotFound    = "CUSTOMER_NOT_FOUND"
	ErrCodeServiceNotFound     = "SERVICE_NOT_FOUND"
	ErrCodeAppointmentNotFound = "APPOINTMENT_NOT_FOUND"
	ErrCodeEmailAlreadyExists  = "EMAIL_ALREADY_EXISTS"
	ErrCodeCustomerInUse       = "CUSTOMER_IN_USE"
	ErrCodeValidationFailed    = "VALIDATION_FAILED"
	ErrCodeInvalidRequest      = "INVALID_REQUEST"
	ErrCodeRetrievalFailed     = "RETRIEVAL_FAILED"
	ErrCodeRateLimitExceeded   = "RATE_LIMIT_EXCEEDED"
	ErrCodeCrossSiteRequest    = "CROSS_SITE_REQUEST"
	ErrCodeInternalError       = "INTERNAL_ERROR"
)

// NewCustomerNotFoundError は顧客未検出エラーを生成する。
func NewCustomerNotFoundError(customerID string) *APIError {
	return &APIError{
		Code:     ErrCodeCustomerNotFound,
		Message:  fmt.Sprintf("指定された顧客が見つかりません: %s", customerID),
		Category: "customer",
		Action:   "顧客IDを確認してください。",
	}
}

// NewServiceNotFoundError はサービスメニュー未検出エラーを生成する。
func NewServiceNotFoundError(serviceID string) *APIError {
	return &APIError{
		Code:     ErrCodeServiceNotFound,
		Message:  fmt.Sprintf("指定されたサービスが見つかりません: %s", serviceID),
		Category: "service",
		Action:   "サービスIDを確認してください。",
	}
}

// NewAppointmentNotFoundError は予約未検出エラーを生成する。
func NewAppointmentNotFoundError(appointmentID string) *APIError {
	return &APIError{
		Code:     ErrCodeAppointmentNotFound,
		Message:  fmt.Sprintf("指定された予約が見つかりません: %s", appointmentID),
		Category: "appointment",
		Action:   "予約IDを確認してください。",
	}
}

// NewEmailAlreadyExistsError はメールアドレス重複エラーを生成する。
func NewEmailAlreadyExistsError(email string) *APIError {
	return &APIError{
		Code:     ErrCodeEmailAlreadyExists,
		Message:  fmt.Sprintf("このメールアドレスは既に登録されています: %s", email),
		Category: "customer",
		Action:   "別のメールアドレスを入力するか、既存の顧客情報を編集してください。",
	}
}

// NewCustomerInUseError は予約や施術履歴が残っている顧客を削除しようとした場合のエラーを生成する。
func NewCustomerInUseError(customerID string) *APIError {
	return &APIError{
		Code:     ErrCodeCustomerInUse,
		Message:  fmt.Sprintf("予約または施術履歴が存在するため顧客を削除できません: %s", customerID),
		Category: "customer",
		Action:   "関連する予約と施術履歴を確認してください。",
	}
}

// NewValidationError は入力検証エラーを生成する。
func NewValidationError(field, reason string) *APIError {
	return &APIError{
		Code:     ErrCodeValidationFailed,
		Message:  fmt.Sprintf("%s が不正です: %s", field, reason),
		Category: "validation",
		Action:   "入力内容を確認してください。",
	}
}

// NewInvalidRequestError はリクエスト形式エラーを生成する。
func NewInvalidRequestError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRequest,
		Message:  fmt.Sprintf("リクエストの形式が不正です: %s", reason),
		Category: "validation",
		Action:   "リクエスト内容を確認してください。",
	}
}

// NewRetrievalFailedError は集計データの取得失敗エラーを生成する。
func NewRetrievalFailedError(target string) *APIError {
	return &APIError{
		Code:     ErrCodeRetrievalFailed,
		Message:  fmt.Sprintf("%sの取得に失敗しました。", target),
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	}
}

// NewRateLimitExceededError はレート制限超過エラーを生成する。
func NewRateLimitExceededError() *APIError {
	return &APIError{
		Code:     ErrCodeRateLimitExceeded,
		Message:  "リクエスト数が上限を超えました。",
		Category: "system",
		Action:   "Retry-Afterヘッダーの秒数だけ待ってから再度お試しください。",
	}
}

// NewCrossSiteRequestError は許可されていないオリジンからのミューテーションを表すエラーを生成する。
func NewCrossSiteRequestError() *APIError {
	return &APIError{
		Code:     ErrCodeCrossSiteRequest,
		Message:  "許可されていないオリジンからの更新リクエストです。",
		Category: "validation",
		Action:   "Content-Type: application/json を指定し、許可されたオリジンから呼び出してください。",
	}
}
