// Package appointment は予約のスケジューリングロジックを提供する。
package appointment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/nobita2041/beauty-salon-cms/internal/metrics"
	"github.com/nobita2041/beauty-salon-cms/internal/model"
	"github.com/nobita2041/beauty-salon-cms/internal/repository"
	"github.com/nobita2041/beauty-salon-cms/internal/security"
)

// CreateInput は予約作成の入力値。状態は受け付けず、常にscheduledで作成する。
type CreateInput struct {
	CustomerID      string
	ServiceID       string
	AppointmentDate model.Date
	StartTime       string
	EndTime         string
	Notes           *string
}

// Service は予約管理のサービス層。
type Service struct {
	repo      repository.AppointmentRepository
	sanitizer security.ContentSanitizerService
	metrics   metrics.MetricsCollector
	now       func() time.Time
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	repo repository.AppointmentRepository,
	sanitizer security.ContentSanitizerService,
	collector metrics.MetricsCollector,
) *Service {
	return &Service{
		repo:      repo,
		sanitizer: sanitizer,
		metrics:   collector,
		now:       time.Now,
	}
}

// CreateAppointment は予約を作成する。
// 顧客または施術メニューが存在しない場合はNotFoundを返す。
func (s *Service) CreateAppointment(ctx context.Context, in CreateInput) (*model.Appointment, error) {
	now := s.now()
	a := &model.Appointment{
		ID:              uuid.Must(uuid.NewV7()).String(),
		CustomerID:      in.CustomerID,
		ServiceID:       in.ServiceID,
		AppointmentDate: in.AppointmentDate,
		StartTime:       in.StartTime,
		EndTime:         in.EndTime,
		Status:          model.AppointmentStatusScheduled,
		Notes:           s.sanitizer.SanitizeOptional(in.Notes),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		if apiErr := referenceError(err, a.CustomerID, a.ServiceID); apiErr != nil {
			return nil, apiErr
		}
		slog.Error("failed to create appointment", slog.String("error", err.Error()))
		return nil, fmt.Errorf("予約の作成に失敗しました: %w", err)
	}

	s.metrics.RecordAppointmentCreated()
	slog.Info("appointment created",
		slog.String("appointment_id", a.ID),
		slog.String("customer_id", a.CustomerID),
		slog.String("date", a.AppointmentDate.String()),
	)
	return a, nil
}

// UpdateAppointment はpatchで指定されたフィールドのみを更新する。
// 終了時刻の再計算など項目間の整合確認は行わない。
func (s *Service) UpdateAppointment(ctx context.Context, id string, patch model.AppointmentPatch) (*model.Appointment, error) {
	if patch.Notes.Set {
		patch.Notes.Value = s.sanitizer.SanitizeOptional(patch.Notes.Value)
	}

	a, err := s.repo.Update(ctx, id, patch, s.now())
	if err != nil {
		if apiErr := referenceError(err, patch.CustomerID.Value, patch.ServiceID.Value); apiErr != nil {
			return nil, apiErr
		}
		slog.Error("failed to update appointment", slog.String("appointment_id", id), slog.String("error", err.Error()))
		return nil, fmt.Errorf("予約の更新に失敗しました: %w", err)
	}
	if a == nil {
		return nil, model.NewAppointmentNotFoundError(id)
	}

	if patch.Status.Set {
		s.metrics.RecordAppointmentStatus(string(a.Status))
	}
	return a, nil
}

// CancelAppointment は現在の状態に関わらず予約をキャンセル済みにする。
func (s *Service) CancelAppointment(ctx context.Context, id string) (*model.Appointment, error) {
	a, err := s.repo.Cancel(ctx, id, s.now())
	if err != nil {
		slog.Error("failed to cancel appointment", slog.String("appointment_id", id), slog.String("error", err.Error()))
		return nil, fmt.Errorf("予約のキャンセルに失敗しました: %w", err)
	}
	if a == nil {
		return nil, model.NewAppointmentNotFoundError(id)
	}

	s.metrics.RecordAppointmentStatus(string(a.Status))
	slog.Info("appointment cancelled", slog.String("appointment_id", id))
	return a, nil
}

// ListAppointments は全予約を返す。
func (s *Service) ListAppointments(ctx context.Context) ([]*model.AppointmentWithDetails, error) {
	return s.list(ctx, repository.AppointmentFilter{})
}

// ListAppointmentsByDate は指定日の予約を開始時刻順に返す。
func (s *Service) ListAppointmentsByDate(ctx context.Context, date model.Date) ([]*model.AppointmentWithDetails, error) {
	return s.list(ctx, repository.AppointmentFilter{From: date, To: date})
}

// ListAppointmentsByDateRange はfrom〜to（両端含む）の予約を返す。
func (s *Service) ListAppointmentsByDateRange(ctx context.Context, from, to model.Date) ([]*model.AppointmentWithDetails, error) {
	if to.Before(from) {
		return nil, model.NewValidationError("end_date", "start_date以降の日付を指定してください")
	}
	return s.list(ctx, repository.AppointmentFilter{From: from, To: to})
}

// ListAppointmentsByCustomer は顧客の予約を返す。予約が無い場合は空のスライスを返す。
func (s *Service) ListAppointmentsByCustomer(ctx context.Context, customerID string) ([]*model.AppointmentWithDetails, error) {
	return s.list(ctx, repository.AppointmentFilter{CustomerID: customerID})
}

func (s *Service) list(ctx context.Context, filter repository.AppointmentFilter) ([]*model.AppointmentWithDetails, error) {
	appointments, err := s.repo.ListWithDetails(ctx, filter)
	if err != nil {
		slog.Error("failed to list appointments",
			slog.String("customer_id", filter.CustomerID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("予約一覧の取得に失敗しました: %w", err)
	}
	return appointments, nil
}

// referenceError は参照先が存在しないことを示すリポジトリのエラーをNotFoundに変換する。
// 該当しない場合はnilを返す。
func referenceError(err error, customerID, serviceID string) error {
	switch {
	case errors.Is(err, repository.ErrCustomerNotFound):
		return model.NewCustomerNotFoundError(customerID)
	case errors.Is(err, repository.ErrServiceNotFound):
		return model.NewServiceNotFoundError(serviceID)
	}
	return nil
}
