package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/nobita2041/beauty-salon-cms/internal/model"
)

func TestDashboardHandler_GetDashboardStats(t *testing.T) {
	t.Run("集計値を返す", func(t *testing.T) {
		deps := newTestDeps()
		deps.DashboardService = &mockDashboardService{
			getStatsFn: func(ctx context.Context) (*model.DashboardStats, error) {
				return &model.DashboardStats{
					TodayAppointments:     3,
					NewCustomersThisMonth: 2,
					TotalRevenueThisMonth: decimal.RequireFromString("150.00"),
					UpcomingAppointments:  []*model.Appointment{sampleAppointment(model.AppointmentStatusConfirmed)},
					RecentCustomers:       []*model.Customer{sampleCustomer()},
				}, nil
			},
		}
		router := NewRouter(deps)

		w := query(t, router, "getDashboardStats", nil)

		var resp map[string]any
		decodeData(t, w, &resp)
		if resp["today_appointments"] != 3.0 || resp["new_customers_this_month"] != 2.0 {
			t.Errorf("counts = %v / %v", resp["today_appointments"], resp["new_customers_this_month"])
		}
		if resp["total_revenue_this_month"] != 150.0 {
			t.Errorf("total_revenue_this_month = %v, want 150", resp["total_revenue_this_month"])
		}
		if upcoming, ok := resp["upcoming_appointments"].([]any); !ok || len(upcoming) != 1 {
			t.Errorf("upcoming_appointments = %v", resp["upcoming_appointments"])
		}
		if recent, ok := resp["recent_customers"].([]any); !ok || len(recent) != 1 {
			t.Errorf("recent_customers = %v", resp["recent_customers"])
		}
	})

	t.Run("データが無い場合は空の配列を返す", func(t *testing.T) {
		router := NewRouter(newTestDeps())

		w := query(t, router, "getDashboardStats", nil)

		var resp map[string]any
		decodeData(t, w, &resp)
		if upcoming, ok := resp["upcoming_appointments"].([]any); !ok || len(upcoming) != 0 {
			t.Errorf("upcoming_appointments = %#v, want []", resp["upcoming_appointments"])
		}
		if recent, ok := resp["recent_customers"].([]any); !ok || len(recent) != 0 {
			t.Errorf("recent_customers = %#v, want []", resp["recent_customers"])
		}
	})

	t.Run("集計に失敗した場合はRETRIEVAL_FAILED", func(t *testing.T) {
		deps := newTestDeps()
		deps.DashboardService = &mockDashboardService{
			getStatsFn: func(ctx context.Context) (*model.DashboardStats, error) {
				return nil, model.NewRetrievalFailedError("ダッシュボード統計")
			},
		}
		router := NewRouter(deps)

		w := query(t, router, "getDashboardStats", nil)

		assertAPIError(t, w, http.StatusInternalServerError, model.ErrCodeRetrievalFailed)
	})
}
