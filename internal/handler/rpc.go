package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/nobita2041/beauty-salon-cms/internal/model"
)

// RPCPathPrefix は名前付きプロシージャを公開するパスの接頭辞。
// クエリは GET /trpc/{procedure}?input=<JSON>、ミューテーションは POST /trpc/{procedure} で呼び出す。
const RPCPathPrefix = "/trpc/"

// maxInputBytes はミューテーションの入力JSONの上限サイズ。
const maxInputBytes = 1 << 20

// rpcResult は成功時のレスポンスエンベロープ。
type rpcResult struct {
	Result rpcData `json:"result"`
}

type rpcData struct {
	Data any `json:"data"`
}

// apiErrorResponse は統一エラーフォーマットのレスポンス。
type apiErrorResponse struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Category string `json:"category"`
	Action   string `json:"action"`
}

// decodeInput はプロシージャの入力値をvにデコードする。
// GETではクエリパラメータinput、それ以外ではリクエストボディをJSONとして読む。
func decodeInput(r *http.Request, v any) *model.APIError {
	var raw []byte
	if r.Method == http.MethodGet {
		raw = []byte(r.URL.Query().Get("input"))
	} else {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxInputBytes+1))
		if err != nil {
			return model.NewInvalidRequestError("リクエストボディを読み取れません")
		}
		if len(body) > maxInputBytes {
			return model.NewInvalidRequestError("入力値が大きすぎます")
		}
		raw = body
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return model.NewInvalidRequestError("入力値が指定されていません")
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return model.NewInvalidRequestError("入力値のJSONを解析できません")
	}
	return nil
}

// decodeIDInput はIDのみを受け取るプロシージャの入力を読み取り、UUID形式を検証する。
func decodeIDInput(r *http.Request) (string, *model.APIError) {
	var id string
	if apiErr := decodeInput(r, &id); apiErr != nil {
		return "", apiErr
	}
	if apiErr := validateID("id", id); apiErr != nil {
		return "", apiErr
	}
	return id, nil
}

// writeResult は成功結果をエンベロープに包んで書き込む。
func writeResult(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rpcResult{Result: rpcData{Data: data}})
}

// writeAPIErrorResponse は統一エラーフォーマットでエラーレスポンスを書き込む。
func writeAPIErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(apiErrorResponse{
		Code:     apiErr.Code,
		Message:  apiErr.Message,
		Category: apiErr.Category,
		Action:   apiErr.Action,
	})
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		statusCode := mapAPIErrorToHTTPStatus(apiErr)
		writeAPIErrorResponse(w, statusCode, apiErr)
		return
	}

	// APIError以外のエラーは内部サーバーエラーとして扱う
	slog.Error("internal server error", slog.String("error", err.Error()))
	writeAPIErrorResponse(w, http.StatusInternalServerError, &model.APIError{
		Code:     model.ErrCodeInternalError,
		Message:  "内部エラーが発生しました。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	})
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeCustomerNotFound, model.ErrCodeServiceNotFound, model.ErrCodeAppointmentNotFound:
		return http.StatusNotFound
	case model.ErrCodeValidationFailed, model.ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case model.ErrCodeEmailAlreadyExists, model.ErrCodeCustomerInUse:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
