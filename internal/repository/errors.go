package repository

import (
	"errors"
	"strings"

	"github.com/lib/pq"
)

// リポジトリ層が返す分類済みエラー。サービス層はerrors.Isで判定する。
var (
	ErrDuplicateEmail      = errors.New("email already exists")
	ErrCustomerNotFound    = errors.New("referenced customer does not exist")
	ErrServiceNotFound     = errors.New("referenced service does not exist")
	ErrAppointmentNotFound = errors.New("referenced appointment does not exist")
	ErrCustomerInUse       = errors.New("customer is referenced by appointments or service history")
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

// referenceErrors は外部キー制約名と参照先未検出エラーの対応。
var referenceErrors = map[string]error{
	"fk_appointments_customer":       ErrCustomerNotFound,
	"fk_appointments_service":        ErrServiceNotFound,
	"fk_service_history_customer":    ErrCustomerNotFound,
	"fk_service_history_service":     ErrServiceNotFound,
	"fk_service_history_appointment": ErrAppointmentNotFound,
}

// translateWriteError はINSERT/UPDATE時のPostgreSQLエラーを分類済みエラーに変換する。
// 分類できない場合はnilを返す。
func translateWriteError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return nil
	}

	switch string(pqErr.Code) {
	case pqUniqueViolation:
		if pqErr.Constraint == "customers_email_key" {
			return ErrDuplicateEmail
		}
	case pqForeignKeyViolation:
		if mapped, ok := referenceErrors[pqErr.Constraint]; ok {
			return mapped
		}
	}
	return nil
}

// isForeignKeyViolation はDELETE時に参照元が残っていたことによるエラーかどうかを返す。
func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == pqForeignKeyViolation
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern は部分一致用のLIKEパターンを返す。ワイルドカード文字はエスケープする。
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
