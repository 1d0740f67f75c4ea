// Package customer は顧客管理のドメインロジックを提供する。
package customer

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

// CreateInput は顧客登録の入力値。
// 形式の検証はRPC境界で済んでいる前提とする。
type CreateInput struct {
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	DateOfBirth *model.Date
	Notes       *string
}

// Service は顧客管理のサービス層。
type Service struct {
	repo      repository.CustomerRepository
	sanitizer security.ContentSanitizerService
	metrics   metrics.MetricsCollector
	now       func() time.Time
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	repo repository.CustomerRepository,
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

// CreateCustomer は顧客を登録する。メールアドレスが既に登録済みの場合はEMAIL_ALREADY_EXISTSを返す。
func (s *Service) CreateCustomer(ctx context.Context, in CreateInput) (*model.Customer, error) {
	now := s.now()
	c := &model.Customer{
		ID:          uuid.Must(uuid.NewV7()).String(),
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		Email:       in.Email,
		Phone:       in.Phone,
		DateOfBirth: in.DateOfBirth,
		Notes:       s.sanitizer.SanitizeOptional(in.Notes),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, c); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, model.NewEmailAlreadyExistsError(in.Email)
		}
		slog.Error("failed to create customer", slog.String("error", err.Error()))
		return nil, fmt.Errorf("顧客の登録に失敗しました: %w", err)
	}

	s.metrics.RecordCustomerCreated()
	slog.Info("customer created", slog.String("customer_id", c.ID))
	return c, nil
}

// ListCustomers は全顧客を返す。
func (s *Service) ListCustomers(ctx context.Context) ([]*model.Customer, error) {
	customers, err := s.repo.List(ctx)
	if err != nil {
		slog.Error("failed to list customers", slog.String("error", err.Error()))
		return nil, fmt.Errorf("顧客一覧の取得に失敗しました: %w", err)
	}
	return customers, nil
}

// GetCustomer は指定IDの顧客を返す。存在しない場合はエラーではなくnilを返す。
func (s *Service) GetCustomer(ctx context.Context, id string) (*model.Customer, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		slog.Error("failed to get customer", slog.String("customer_id", id), slog.String("error", err.Error()))
		return nil, fmt.Errorf("顧客の取得に失敗しました: %w", err)
	}
	return c, nil
}

// UpdateCustomer はpatchで指定されたフィールドのみを更新する。
func (s *Service) UpdateCustomer(ctx context.Context, id string, patch model.CustomerPatch) (*model.Customer, error) {
	if patch.Notes.Set {
		patch.Notes.Value = s.sanitizer.SanitizeOptional(patch.Notes.Value)
	}

	c, err := s.repo.Update(ctx, id, patch, s.now())
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, model.NewEmailAlreadyExistsError(patch.Email.Value)
		}
		slog.Error("failed to update customer", slog.String("customer_id", id), slog.String("error", err.Error()))
		return nil, fmt.Errorf("顧客の更新に失敗しました: %w", err)
	}
	if c == nil {
		return nil, model.NewCustomerNotFoundError(id)
	}
	return c, nil
}

// DeleteCustomer は顧客を削除する。存在しないIDを指定しても成功とする。
// 予約または施術履歴が残っている場合はCUSTOMER_IN_USEを返す。
func (s *Service) DeleteCustomer(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrCustomerInUse) {
			return model.NewCustomerInUseError(id)
		}
		slog.Error("failed to delete customer", slog.String("customer_id", id), slog.String("error", err.Error()))
		return fmt.Errorf("顧客の削除に失敗しました: %w", err)
	}
	return nil
}

// SearchCustomers は氏名またはメールアドレスの部分一致で顧客を検索する。
// Limitが0以下の場合は既定の20件を上限とする。
func (s *Service) SearchCustomers(ctx context.Context, search model.CustomerSearch) ([]*model.Customer, error) {
	if search.Limit <= 0 {
		search.Limit = model.DefaultSearchLimit
	}

	customers, err := s.repo.Search(ctx, search)
	if err != nil {
		slog.Error("failed to search customers", slog.String("error", err.Error()))
		return nil, fmt.Errorf("顧客の検索に失敗しました: %w", err)
	}
	return customers, nil
}
