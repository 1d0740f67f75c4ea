// Package dashboard はダッシュボードの集計を提供する。
package dashboard

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nobita2041/beauty-salon-cms/internal/model"
)

// CustomerReader はダッシュボード集計に必要な顧客の読み取り操作。
type CustomerReader interface {
	CountCreatedSince(ctx context.Context, since time.Time) (int, error)
	ListRecent(ctx context.Context, limit int) ([]*model.Customer, error)
}

// AppointmentReader はダッシュボード集計に必要な予約の読み取り操作。
type AppointmentReader interface {
	CountOnDate(ctx context.Context, date model.Date) (int, error)
	ListBetween(ctx context.Context, from, to model.Date, limit int) ([]*model.Appointment, error)
}

// RevenueReader はダッシュボード集計に必要な売上の読み取り操作。
type RevenueReader interface {
	SumPricePaidSince(ctx context.Context, since model.Date) (decimal.Decimal, error)
}

// Service はダッシュボード集計のサービス層。
type Service struct {
	customers    CustomerReader
	appointments AppointmentReader
	revenue      RevenueReader
	loc          *time.Location
	now          func() time.Time
}

// NewService はServiceの新しいインスタンスを生成する。
// locは「今日」「今月」を判定するタイムゾーン。nilの場合はtime.Localを使う。
func NewService(customers CustomerReader, appointments AppointmentReader, revenue RevenueReader, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{
		customers:    customers,
		appointments: appointments,
		revenue:      revenue,
		loc:          loc,
		now:          time.Now,
	}
}

// GetStats は現在時刻を基準にダッシュボードの集計値を返す。
// いずれかの読み取りに失敗した場合は部分的な結果を返さずRETRIEVAL_FAILEDを返す。
func (s *Service) GetStats(ctx context.Context) (*model.DashboardStats, error) {
	now := s.now().In(s.loc)
	today := model.DateOf(now)
	firstOfMonth := today.FirstOfMonth()

	stats := &model.DashboardStats{}
	var err error

	if stats.TodayAppointments, err = s.appointments.CountOnDate(ctx, today); err != nil {
		return nil, s.fail("today_appointments", err)
	}
	if stats.NewCustomersThisMonth, err = s.customers.CountCreatedSince(ctx, firstOfMonth.In(s.loc)); err != nil {
		return nil, s.fail("new_customers_this_month", err)
	}
	if stats.TotalRevenueThisMonth, err = s.revenue.SumPricePaidSince(ctx, firstOfMonth); err != nil {
		return nil, s.fail("total_revenue_this_month", err)
	}
	upcomingEnd := today.AddDays(model.UpcomingWindowDays)
	if stats.UpcomingAppointments, err = s.appointments.ListBetween(ctx, today, upcomingEnd, model.UpcomingAppointmentsLimit); err != nil {
		return nil, s.fail("upcoming_appointments", err)
	}
	if stats.RecentCustomers, err = s.customers.ListRecent(ctx, model.RecentCustomersLimit); err != nil {
		return nil, s.fail("recent_customers", err)
	}

	if stats.UpcomingAppointments == nil {
		stats.UpcomingAppointments = []*model.Appointment{}
	}
	if stats.RecentCustomers == nil {
		stats.RecentCustomers = []*model.Customer{}
	}
	return stats, nil
}

func (s *Service) fail(stat string, err error) error {
	slog.Error("failed to aggregate dashboard stats",
		slog.String("stat", stat),
		slog.String("error", err.Error()),
	)
	return model.NewRetrievalFailedError("ダッシュボード統計")
}
