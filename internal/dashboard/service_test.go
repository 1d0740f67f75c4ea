package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nobita2041/beauty-salon-cms/internal/model"
)

type stubCustomers struct {
	since  time.Time
	count  int
	recent []*model.Customer
	err    error
}

func (s *stubCustomers) CountCreatedSince(ctx context.Context, since time.Time) (int, error) {
	s.since = since
	return s.count, s.err
}
func (s *stubCustomers) ListRecent(ctx context.Context, limit int) ([]*model.Customer, error) {
	if limit != model.RecentCustomersLimit {
		return nil, errors.New("unexpected limit")
	}
	return s.recent, nil
}

type stubAppointments struct {
	countDate model.Date
	from, to  model.Date
	limit     int
	count     int
	upcoming  []*model.Appointment
}

func (s *stubAppointments) CountOnDate(ctx context.Context, date model.Date) (int, error) {
	s.countDate = date
	return s.count, nil
}
func (s *stubAppointments) ListBetween(ctx context.Context, from, to model.Date, limit int) ([]*model.Appointment, error) {
	s.from, s.to, s.limit = from, to, limit
	return s.upcoming, nil
}

type stubRevenue struct {
	since model.Date
	total decimal.Decimal
}

func (s *stubRevenue) SumPricePaidSince(ctx context.Context, since model.Date) (decimal.Decimal, error) {
	s.since = since
	return s.total, nil
}

func fixedService(c *stubCustomers, a *stubAppointments, r *stubRevenue, loc *time.Location, now time.Time) *Service {
	svc := NewService(c, a, r, loc)
	svc.now = func() time.Time { return now }
	return svc
}

func TestGetStats_EmptyStore(t *testing.T) {
	svc := fixedService(&stubCustomers{}, &stubAppointments{}, &stubRevenue{total: decimal.Zero},
		time.UTC, time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC))

	stats, err := svc.GetStats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stats.TodayAppointments != 0 || stats.NewCustomersThisMonth != 0 {
		t.Errorf("counts = %d / %d, want 0", stats.TodayAppointments, stats.NewCustomersThisMonth)
	}
	if !stats.TotalRevenueThisMonth.IsZero() {
		t.Errorf("revenue = %s, want 0", stats.TotalRevenueThisMonth)
	}
	if stats.UpcomingAppointments == nil || len(stats.UpcomingAppointments) != 0 {
		t.Errorf("UpcomingAppointments = %#v, want empty slice", stats.UpcomingAppointments)
	}
	if stats.RecentCustomers == nil || len(stats.RecentCustomers) != 0 {
		t.Errorf("RecentCustomers = %#v, want empty slice", stats.RecentCustomers)
	}
}

func TestGetStats_TimeWindows(t *testing.T) {
	jst := time.FixedZone("JST", 9*60*60)
	// UTCでは3月31日だが、JSTでは4月1日
	now := time.Date(2024, 3, 31, 16, 30, 0, 0, time.UTC)

	customers := &stubCustomers{count: 3, recent: []*model.Customer{{ID: "c-1"}}}
	appointments := &stubAppointments{count: 2, upcoming: []*model.Appointment{{ID: "a-1"}}}
	revenue := &stubRevenue{total: decimal.RequireFromString("100.50").Add(decimal.RequireFromString("49.50"))}
	svc := fixedService(customers, appointments, revenue, jst, now)

	stats, err := svc.GetStats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	today := model.Date{Year: 2024, Month: time.April, Day: 1}
	if appointments.countDate != today {
		t.Errorf("CountOnDate date = %s, want %s", appointments.countDate, today)
	}
	if appointments.from != today || appointments.to != (model.Date{Year: 2024, Month: time.April, Day: 8}) {
		t.Errorf("upcoming window = %s..%s", appointments.from, appointments.to)
	}
	if appointments.limit != model.UpcomingAppointmentsLimit {
		t.Errorf("upcoming limit = %d", appointments.limit)
	}
	if want := time.Date(2024, 4, 1, 0, 0, 0, 0, jst); !customers.since.Equal(want) {
		t.Errorf("CountCreatedSince since = %v, want %v", customers.since, want)
	}
	if revenue.since != today {
		t.Errorf("SumPricePaidSince since = %s, want %s", revenue.since, today)
	}

	if stats.TodayAppointments != 2 || stats.NewCustomersThisMonth != 3 {
		t.Errorf("counts = %d / %d", stats.TodayAppointments, stats.NewCustomersThisMonth)
	}
	if !stats.TotalRevenueThisMonth.Equal(decimal.RequireFromString("150.00")) {
		t.Errorf("revenue = %s, want 150.00", stats.TotalRevenueThisMonth)
	}
	if len(stats.UpcomingAppointments) != 1 || len(stats.RecentCustomers) != 1 {
		t.Errorf("collections = %d / %d", len(stats.UpcomingAppointments), len(stats.RecentCustomers))
	}
}

func TestGetStats_ReadFailure(t *testing.T) {
	customers := &stubCustomers{err: errors.New("connection reset")}
	svc := fixedService(customers, &stubAppointments{}, &stubRevenue{}, time.UTC, time.Now())

	stats, err := svc.GetStats(context.Background())
	if stats != nil {
		t.Errorf("stats = %+v, want nil", stats)
	}
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeRetrievalFailed {
		t.Fatalf("err = %v, want RETRIEVAL_FAILED", err)
	}
}
