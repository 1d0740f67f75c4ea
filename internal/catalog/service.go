// Package catalog はサロンの施術メニュー管理を提供する。
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nobita2041/beauty-salon-cms/internal/model"
	"github.com/nobita2041/beauty-salon-cms/internal/repository"
	"github.com/nobita2041/beauty-salon-cms/internal/security"
)

// CreateInput は施術メニュー登録の入力値。
type CreateInput struct {
	Name            string
	Description     *string
	DurationMinutes int
	Price           decimal.Decimal
}

// Service は施術メニューのサービス層。
type Service struct {
	repo      repository.ServiceRepository
	sanitizer security.ContentSanitizerService
	now       func() time.Time
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(repo repository.ServiceRepository, sanitizer security.ContentSanitizerService) *Service {
	return &Service{
		repo:      repo,
		sanitizer: sanitizer,
		now:       time.Now,
	}
}

// CreateService は施術メニューを登録する。価格は小数第2位に丸めて保存する。
func (s *Service) CreateService(ctx context.Context, in CreateInput) (*model.Service, error) {
	svc := &model.Service{
		ID:              uuid.Must(uuid.NewV7()).String(),
		Name:            in.Name,
		Description:     s.sanitizer.SanitizeOptional(in.Description),
		DurationMinutes: in.DurationMinutes,
		Price:           in.Price.Round(2),
		CreatedAt:       s.now(),
	}

	if err := s.repo.Create(ctx, svc); err != nil {
		slog.Error("failed to create service", slog.String("error", err.Error()))
		return nil, fmt.Errorf("施術メニューの登録に失敗しました: %w", err)
	}

	slog.Info("service created", slog.String("service_id", svc.ID), slog.String("name", svc.Name))
	return svc, nil
}

// ListServices は全施術メニューを返す。
func (s *Service) ListServices(ctx context.Context) ([]*model.Service, error) {
	services, err := s.repo.List(ctx)
	if err != nil {
		slog.Error("failed to list services", slog.String("error", err.Error()))
		return nil, fmt.Errorf("施術メニュー一覧の取得に失敗しました: %w", err)
	}
	return services, nil
}
