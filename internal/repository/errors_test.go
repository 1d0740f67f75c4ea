package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
)

func TestTranslateWriteError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{
			name: "メールアドレス重複",
			err:  &pq.Error{Code: "23505", Constraint: "customers_email_key"},
			want: ErrDuplicateEmail,
		},
		{
			name: "ラップされた重複エラー",
			err:  fmt.Errorf("insert: %w", &pq.Error{Code: "23505", Constraint: "customers_email_key"}),
			want: ErrDuplicateEmail,
		},
		{
			name: "予約の顧客参照違反",
			err:  &pq.Error{Code: "23503", Constraint: "fk_appointments_customer"},
			want: ErrCustomerNotFound,
		},
		{
			name: "施術履歴の予約参照違反",
			err:  &pq.Error{Code: "23503", Constraint: "fk_service_history_appointment"},
			want: ErrAppointmentNotFound,
		},
		{
			name: "未知の制約",
			err:  &pq.Error{Code: "23505", Constraint: "other_key"},
			want: nil,
		},
		{
			name: "pq以外のエラー",
			err:  errors.New("connection refused"),
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translateWriteError(tt.err)
			if got != tt.want {
				t.Errorf("translateWriteError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsForeignKeyViolation(t *testing.T) {
	if !isForeignKeyViolation(&pq.Error{Code: "23503"}) {
		t.Error("expected true for 23503")
	}
	if isForeignKeyViolation(&pq.Error{Code: "23505"}) {
		t.Error("expected false for 23505")
	}
	if isForeignKeyViolation(errors.New("boom")) {
		t.Error("expected false for non-pq error")
	}
}

func TestContainsPattern(t *testing.T) {
	tests := map[string]string{
		"jane":     "%jane%",
		"50%":      `%50\%%`,
		"a_b":      `%a\_b%`,
		`back\sl`:  `%back\\sl%`,
		"Jane Doe": "%Jane Doe%",
	}
	for in, want := range tests {
		if got := containsPattern(in); got != want {
			t.Errorf("containsPattern(%q) = %q, want %q", in, got, want)
		}
	}
}
