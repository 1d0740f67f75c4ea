package model

import "github.com/shopspring/decimal"

// DashboardStats はダッシュボードに表示する集計結果。
type DashboardStats struct {
	TodayAppointments     int
	NewCustomersThisMonth int
	TotalRevenueThisMonth decimal.Decimal
	UpcomingAppointments  []*Appointment
	RecentCustomers       []*Customer
}

const (
	// UpcomingAppointmentsLimit は直近予約の最大件数。
	UpcomingAppointmentsLimit = 10
	// UpcomingWindowDays は直近予約として扱う日数（今日を含め今日+7日まで）。
	UpcomingWindowDays = 7
	// RecentCustomersLimit は新規顧客の表示件数。
	RecentCustomersLimit = 5
)
