package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/nobita2041/beauty-salon-cms/internal/model"
)

// PostgresServiceHistoryRepo はPostgreSQLを使用した施術履歴リポジトリ。
type PostgresServiceHistoryRepo struct {
	db *sql.DB
}

// NewPostgresServiceHistoryRepo はPostgresServiceHistoryRepoを生成する。
func NewPostgresServiceHistoryRepo(db *sql.DB) *PostgresServiceHistoryRepo {
	return &PostgresServiceHistoryRepo{db: db}
}

// Create は顧客・施術メニュー・（指定時は）予約をロックして存在を確認した上で施術履歴を作成する。
func (r *PostgresServiceHistoryRepo) Create(ctx context.Context, h *model.ServiceHistory) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("トランザクションの開始に失敗しました: %w", err)
	}
	defer tx.Rollback()

	if err := lockRow(ctx, tx, "customers", h.CustomerID, ErrCustomerNotFound); err != nil {
		return err
	}
	if err := lockRow(ctx, tx, "services", h.ServiceID, ErrServiceNotFound); err != nil {
		return err
	}
	if h.AppointmentID != nil {
		if err := lockRow(ctx, tx, "appointments", *h.AppointmentID, ErrAppointmentNotFound); err != nil {
			return err
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO service_history (`+historyColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		h.ID, h.CustomerID, h.ServiceID, h.AppointmentID, h.ServiceDate, h.PricePaid, h.Notes, h.CreatedAt,
	)
	if err != nil {
		if mapped := translateWriteError(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("施術履歴の作成に失敗しました: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("トランザクションのコミットに失敗しました: %w", err)
	}
	return nil
}

// ListByCustomerWithDetails は顧客の施術履歴をservice_dateの降順で返す。
func (r *PostgresServiceHistoryRepo) ListByCustomerWithDetails(ctx context.Context, customerID string) ([]*model.ServiceHistoryWithDetails, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+historyColumnsH+`, `+customerColumnsC+`, `+serviceColumnsS+`
		 FROM service_history h
		 JOIN customers c ON c.id = h.customer_id
		 JOIN services s ON s.id = h.service_id
		 WHERE h.customer_id = $1
		 ORDER BY h.service_date DESC, h.id DESC`,
		customerID,
	)
	if err != nil {
		return nil, fmt.Errorf("施術履歴一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	results := []*model.ServiceHistoryWithDetails{}
	for rows.Next() {
		d := &model.ServiceHistoryWithDetails{}
		if err := rows.Scan(joinDest(historyDest(&d.ServiceHistory), customerDest(&d.Customer), serviceDest(&d.Service))...); err != nil {
			return nil, fmt.Errorf("施術履歴行の読み取りに失敗しました: %w", err)
		}
		results = append(results, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("施術履歴一覧の走査に失敗しました: %w", err)
	}
	return results, nil
}

// SumPricePaidSince はsince以降（当日含む）の支払額合計を返す。該当が無い場合は0を返す。
func (r *PostgresServiceHistoryRepo) SumPricePaidSince(ctx context.Context, since model.Date) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(price_paid), 0) FROM service_history WHERE service_date >= $1`,
		since,
	).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("売上合計の取得に失敗しました: %w", err)
	}
	return total, nil
}

// compile-time interface check
var _ ServiceHistoryRepository = (*PostgresServiceHistoryRepo)(nil)
