// Package history は施術履歴の記録と参照を提供する。
package history

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nobita2041/beauty-salon-cms/internal/metrics"
	"github.com/nobita2041/beauty-salon-cms/internal/model"
	"github.com/nobita2041/beauty-salon-cms/internal/repository"
	"github.com/nobita2041/beauty-salon-cms/internal/security"
)

// CreateInput は施術履歴記録の入力値。
type CreateInput struct {
	CustomerID    string
	ServiceID     string
	AppointmentID *string
	ServiceDate   model.Date
	PricePaid     decimal.Decimal
	Notes         *string
}

// Service は施術履歴のサービス層。
type Service struct {
	repo      repository.ServiceHistoryRepository
	sanitizer security.ContentSanitizerService
	metrics   metrics.MetricsCollector
	now       func() time.Time
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	repo repository.ServiceHistoryRepository,
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

// CreateServiceHistory は施術履歴を記録する。予約の状態とは連動しない。
func (s *Service) CreateServiceHistory(ctx context.Context, in CreateInput) (*model.ServiceHistory, error) {
	h := &model.ServiceHistory{
		ID:            uuid.Must(uuid.NewV7()).String(),
		CustomerID:    in.CustomerID,
		ServiceID:     in.ServiceID,
		AppointmentID: in.AppointmentID,
		ServiceDate:   in.ServiceDate,
		PricePaid:     in.PricePaid.Round(2),
		Notes:         s.sanitizer.SanitizeOptional(in.Notes),
		CreatedAt:     s.now(),
	}

	if err := s.repo.Create(ctx, h); err != nil {
		switch {
		case errors.Is(err, repository.ErrCustomerNotFound):
			return nil, model.NewCustomerNotFoundError(h.CustomerID)
		case errors.Is(err, repository.ErrServiceNotFound):
			return nil, model.NewServiceNotFoundError(h.ServiceID)
		case errors.Is(err, repository.ErrAppointmentNotFound) && h.AppointmentID != nil:
			return nil, model.NewAppointmentNotFoundError(*h.AppointmentID)
		}
		slog.Error("failed to create service history", slog.String("error", err.Error()))
		return nil, fmt.Errorf("施術履歴の記録に失敗しました: %w", err)
	}

	s.metrics.RecordServiceHistoryRecorded(h.PricePaid.InexactFloat64())
	slog.Info("service history recorded",
		slog.String("history_id", h.ID),
		slog.String("customer_id", h.CustomerID),
	)
	return h, nil
}

// ListByCustomer は顧客の施術履歴を新しい順に返す。
func (s *Service) ListByCustomer(ctx context.Context, customerID string) ([]*model.ServiceHistoryWithDetails, error) {
	histories, err := s.repo.ListByCustomerWithDetails(ctx, customerID)
	if err != nil {
		slog.Error("failed to list service history",
			slog.String("customer_id", customerID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("施術履歴の取得に失敗しました: %w", err)
	}
	return histories, nil
}
