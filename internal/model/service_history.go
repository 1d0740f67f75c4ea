package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ServiceHistory は実施済み施術の記録を表す。
// 予約のライフサイクルとは独立して作成される。
type ServiceHistory struct {
	ID            string
	CustomerID    string
	ServiceID     string
	AppointmentID *string
	ServiceDate   Date
	PricePaid     decimal.Decimal
	Notes         *string
	CreatedAt     time.Time
}

// ServiceHistoryWithDetails は施術履歴に現在の顧客・施術メニューを結合したもの。
type ServiceHistoryWithDetails struct {
	ServiceHistory
	Customer Customer
	Service  Service
}
