// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nobita2041/beauty-salon-cms/internal/model"
)

// CustomerRepository は顧客データの永続化インターフェース。
type CustomerRepository interface {
	// Create は顧客を作成する。メールアドレスが重複する場合はErrDuplicateEmailを返す。
	Create(ctx context.Context, customer *model.Customer) error

	// FindByID は指定IDの顧客を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Customer, error)

	// List は全顧客を作成日時の昇順で返す。
	List(ctx context.Context) ([]*model.Customer, error)

	// Update はpatchで指定されたフィールドのみを更新し、updated_atを必ず更新する。
	// 見つからない場合はnilを返す。メールアドレスが重複する場合はErrDuplicateEmailを返す。
	Update(ctx context.Context, id string, patch model.CustomerPatch, updatedAt time.Time) (*model.Customer, error)

	// Delete は指定IDの顧客を削除する。存在しない場合も成功とする。
	// 予約または施術履歴から参照されている場合はErrCustomerInUseを返す。
	Delete(ctx context.Context, id string) error

	// Search は氏名またはメールアドレスの部分一致（大文字小文字を区別しない）で検索する。
	Search(ctx context.Context, search model.CustomerSearch) ([]*model.Customer, error)

	// CountCreatedSince はsince以降に作成された顧客数を返す。
	CountCreatedSince(ctx context.Context, since time.Time) (int, error)

	// ListRecent は作成日時の新しい順に最大limit件を返す。
	ListRecent(ctx context.Context, limit int) ([]*model.Customer, error)
}

// ServiceRepository は施術メニューの永続化インターフェース。
type ServiceRepository interface {
	// Create は施術メニューを作成する。
	Create(ctx context.Context, service *model.Service) error

	// FindByID は指定IDの施術メニューを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Service, error)

	// List は全施術メニューを作成日時の昇順で返す。
	List(ctx context.Context) ([]*model.Service, error)
}

// AppointmentFilter は予約一覧の絞り込み条件。ゼロ値の項目は条件に含めない。
type AppointmentFilter struct {
	CustomerID string
	From       model.Date
	To         model.Date
}

// AppointmentRepository は予約データの永続化インターフェース。
type AppointmentRepository interface {
	// Create は顧客と施術メニューの存在を同一トランザクション内で確認してから予約を作成する。
	// 参照先が無い場合はErrCustomerNotFoundまたはErrServiceNotFoundを返す。
	Create(ctx context.Context, appointment *model.Appointment) error

	// FindByID は指定IDの予約を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Appointment, error)

	// Update はpatchで指定されたフィールドのみを更新し、updated_atを必ず更新する。
	// 見つからない場合はnilを返す。
	Update(ctx context.Context, id string, patch model.AppointmentPatch, updatedAt time.Time) (*model.Appointment, error)

	// Cancel はstatusをcancelledに更新する。現在の状態は問わない。
	// 見つからない場合はnilを返す。
	Cancel(ctx context.Context, id string, updatedAt time.Time) (*model.Appointment, error)

	// ListWithDetails は条件に合う予約を顧客・施術メニューと結合して
	// appointment_date, start_time の昇順で返す。
	ListWithDetails(ctx context.Context, filter AppointmentFilter) ([]*model.AppointmentWithDetails, error)

	// CountOnDate は指定日の予約数を返す。
	CountOnDate(ctx context.Context, date model.Date) (int, error)

	// ListBetween はfrom〜to（両端含む）の予約を日付・開始時刻順に最大limit件返す。結合は行わない。
	ListBetween(ctx context.Context, from, to model.Date, limit int) ([]*model.Appointment, error)
}

// ServiceHistoryRepository は施術履歴の永続化インターフェース。
type ServiceHistoryRepository interface {
	// Create は参照先の存在を同一トランザクション内で確認してから施術履歴を作成する。
	Create(ctx context.Context, history *model.ServiceHistory) error

	// ListByCustomerWithDetails は顧客の施術履歴を顧客・施術メニューと結合して
	// service_date の降順で返す。
	ListByCustomerWithDetails(ctx context.Context, customerID string) ([]*model.ServiceHistoryWithDetails, error)

	// SumPricePaidSince はsince以降（当日含む）の支払額合計を返す。
	SumPricePaidSince(ctx context.Context, since model.Date) (decimal.Decimal, error)
}
