package handler

import (
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nobita2041/beauty-salon-cms/internal/model"
)

// validateID はIDがUUID形式であることを検証する。
func validateID(field, id string) *model.APIError {
	if _, err := uuid.Parse(id); err != nil {
		return model.NewValidationError(field, "UUID形式で指定してください")
	}
	return nil
}

func validateRequired(field, value string) *model.APIError {
	if strings.TrimSpace(value) == "" {
		return model.NewValidationError(field, "必須項目です")
	}
	return nil
}

// validateEmail は表示名を含まない単一のメールアドレスであることを検証する。
func validateEmail(field, email string) *model.APIError {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return model.NewValidationError(field, "メールアドレスの形式が正しくありません")
	}
	return nil
}

func validateClockTime(field, value string) *model.APIError {
	if !model.ValidClockTime(value) {
		return model.NewValidationError(field, "HH:MM形式（24時間表記）で指定してください")
	}
	return nil
}

// maxAmount はNUMERIC(10,2)に収まらない最小の金額。
var maxAmount = decimal.New(1, 8)

// maxDurationMinutes はINTEGER列に保存できる施術時間の上限。
const maxDurationMinutes = 1<<31 - 1

// validatePositiveAmount は金額が保存時の丸め（小数点以下2桁）後も正で、NUMERIC(10,2)に収まることを検証する。
func validatePositiveAmount(field string, value decimal.Decimal) *model.APIError {
	rounded := value.Round(2)
	if !rounded.IsPositive() {
		return model.NewValidationError(field, "0.01以上の値を指定してください")
	}
	if rounded.GreaterThanOrEqual(maxAmount) {
		return model.NewValidationError(field, "100000000未満の値を指定してください")
	}
	return nil
}

func validateDurationMinutes(field string, minutes int) *model.APIError {
	if minutes <= 0 || minutes > maxDurationMinutes {
		return model.NewValidationError(field, "正の整数で指定してください")
	}
	return nil
}

func validateDate(field string, value model.Date) *model.APIError {
	if value.IsZero() {
		return model.NewValidationError(field, "必須項目です")
	}
	return nil
}

// firstError は最初に見つかった検証エラーを返す。
func firstError(errs ...*model.APIError) *model.APIError {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
