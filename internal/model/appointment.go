package model

import (
	"regexp"
	"time"
)

// AppointmentStatus は予約の状態を表す。
type AppointmentStatus string

const (
	// AppointmentStatusScheduled は予約受付済み。新規予約は常にこの状態で作成される。
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	// AppointmentStatusConfirmed は来店確認済み。
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	// AppointmentStatusInProgress は施術中。
	AppointmentStatusInProgress AppointmentStatus = "in_progress"
	// AppointmentStatusCompleted は施術完了。
	AppointmentStatusCompleted AppointmentStatus = "completed"
	// AppointmentStatusCancelled はキャンセル済み。
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

// AllAppointmentStatuses は定義済みの全状態を遷移順に並べたもの。
var AllAppointmentStatuses = []AppointmentStatus{
	AppointmentStatusScheduled,
	AppointmentStatusConfirmed,
	AppointmentStatusInProgress,
	AppointmentStatusCompleted,
	AppointmentStatusCancelled,
}

// Valid は定義済みの状態かどうかを返す。
func (s AppointmentStatus) Valid() bool {
	for _, v := range AllAppointmentStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// NextStatuses は画面上で提示する遷移先を返す。
// scheduled → confirmed → in_progress → completed の順に進み、終端以外からはキャンセルできる。
// サーバ側では遷移を強制せず、updateAppointmentは任意の状態を受け付ける。
func (s AppointmentStatus) NextStatuses() []AppointmentStatus {
	switch s {
	case AppointmentStatusScheduled:
		return []AppointmentStatus{AppointmentStatusConfirmed, AppointmentStatusCancelled}
	case AppointmentStatusConfirmed:
		return []AppointmentStatus{AppointmentStatusInProgress, AppointmentStatusCancelled}
	case AppointmentStatusInProgress:
		return []AppointmentStatus{AppointmentStatusCompleted, AppointmentStatusCancelled}
	}
	return []AppointmentStatus{}
}

// Appointment は顧客・施術メニュー・日時を結びつけた予約を表す。
// EndTimeは開始時刻と施術時間から導出される参考値で、入力値をそのまま保存する。
type Appointment struct {
	ID              string
	CustomerID      string
	ServiceID       string
	AppointmentDate Date
	StartTime       string
	EndTime         string
	Status          AppointmentStatus
	Notes           *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// AppointmentWithDetails は予約に現在の顧客・施術メニューを結合したもの。
// 予約作成時点のスナップショットではなく、取得時点の値を持つ。
type AppointmentWithDetails struct {
	Appointment
	Customer Customer
	Service  Service
}

// AppointmentPatch は予約の部分更新内容を表す。
type AppointmentPatch struct {
	CustomerID      Optional[string]
	ServiceID       Optional[string]
	AppointmentDate Optional[Date]
	StartTime       Optional[string]
	EndTime         Optional[string]
	Status          Optional[AppointmentStatus]
	Notes           Optional[*string]
}

var clockTimePattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// ValidClockTime は "HH:MM"（24時間表記、ゼロ埋め）形式かどうかを返す。
func ValidClockTime(s string) bool {
	return clockTimePattern.MatchString(s)
}
