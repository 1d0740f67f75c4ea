package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/nobita2041/beauty-salon-cms/internal/model"
)

func scanCustomer(row rowScanner) (*model.Customer, error) {
	c := &model.Customer{}
	if err := row.Scan(customerDest(c)...); err != nil {
		return nil, err
	}
	return c, nil
}

func collectCustomers(rows *sql.Rows) ([]*model.Customer, error) {
	defer rows.Close()

	customers := []*model.Customer{}
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("顧客行の読み取りに失敗しました: %w", err)
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("顧客一覧の走査に失敗しました: %w", err)
	}
	return customers, nil
}

// PostgresCustomerRepo はPostgreSQLを使用した顧客リポジトリ。
type PostgresCustomerRepo struct {
	db *sql.DB
}

// NewPostgresCustomerRepo はPostgresCustomerRepoを生成する。
func NewPostgresCustomerRepo(db *sql.DB) *PostgresCustomerRepo {
	return &PostgresCustomerRepo{db: db}
}

// Create は顧客を作成する。
func (r *PostgresCustomerRepo) Create(ctx context.Context, c *model.Customer) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO customers (`+customerColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		c.ID, c.FirstName, c.LastName, c.Email, c.Phone, c.DateOfBirth, c.Notes, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if mapped := translateWriteError(err); mapped != nil {
			return fmt.Errorf("顧客の作成に失敗しました: %w", mapped)
		}
		return fmt.Errorf("顧客の作成に失敗しました: %w", err)
	}
	return nil
}

// FindByID は指定IDの顧客を取得する。見つからない場合はnilを返す。
func (r *PostgresCustomerRepo) FindByID(ctx context.Context, id string) (*model.Customer, error) {
	c, err := scanCustomer(r.db.QueryRowContext(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE id = $1`,
		id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("顧客の取得に失敗しました: %w", err)
	}
	return c, nil
}

// List は全顧客を作成日時の昇順で返す。
func (r *PostgresCustomerRepo) List(ctx context.Context) ([]*model.Customer, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+customerColumns+` FROM customers ORDER BY created_at ASC, id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("顧客一覧の取得に失敗しました: %w", err)
	}
	return collectCustomers(rows)
}

// Update はpatchで指定されたフィールドのみを更新する。見つからない場合はnilを返す。
func (r *PostgresCustomerRepo) Update(ctx context.Context, id string, patch model.CustomerPatch, updatedAt time.Time) (*model.Customer, error) {
	c, err := scanCustomer(r.db.QueryRowContext(ctx,
		`UPDATE customers SET
			first_name    = CASE WHEN $2::boolean  THEN $3::varchar ELSE first_name END,
			last_name     = CASE WHEN $4::boolean  THEN $5::varchar ELSE last_name END,
			email         = CASE WHEN $6::boolean  THEN $7::varchar ELSE email END,
			phone         = CASE WHEN $8::boolean  THEN $9::varchar ELSE phone END,
			date_of_birth = CASE WHEN $10::boolean THEN $11::date ELSE date_of_birth END,
			notes         = CASE WHEN $12::boolean THEN $13::text ELSE notes END,
			updated_at    = $14
		 WHERE id = $1
		 RETURNING `+customerColumns,
		id,
		patch.FirstName.Set, patch.FirstName.Arg(),
		patch.LastName.Set, patch.LastName.Arg(),
		patch.Email.Set, patch.Email.Arg(),
		patch.Phone.Set, patch.Phone.Arg(),
		patch.DateOfBirth.Set, patch.DateOfBirth.Arg(),
		patch.Notes.Set, patch.Notes.Arg(),
		updatedAt,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		if mapped := translateWriteError(err); mapped != nil {
			return nil, fmt.Errorf("顧客の更新に失敗しました: %w", mapped)
		}
		return nil, fmt.Errorf("顧客の更新に失敗しました: %w", err)
	}
	return c, nil
}

// Delete は指定IDの顧客を削除する。存在しない場合も成功とする。
func (r *PostgresCustomerRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("顧客の削除に失敗しました: %w", ErrCustomerInUse)
		}
		return fmt.Errorf("顧客の削除に失敗しました: %w", err)
	}
	return nil
}

// Search は氏名またはメールアドレスの部分一致で顧客を検索する。
func (r *PostgresCustomerRepo) Search(ctx context.Context, search model.CustomerSearch) ([]*model.Customer, error) {
	limit := search.Limit
	if limit <= 0 {
		limit = model.DefaultSearchLimit
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+customerColumns+` FROM customers
		 WHERE first_name ILIKE $1 OR last_name ILIKE $1 OR email ILIKE $1
		 ORDER BY created_at ASC, id ASC
		 LIMIT $2`,
		containsPattern(search.Query), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("顧客の検索に失敗しました: %w", err)
	}
	return collectCustomers(rows)
}

// CountCreatedSince はsince以降に作成された顧客数を返す。
func (r *PostgresCustomerRepo) CountCreatedSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM customers WHERE created_at >= $1`,
		since,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("新規顧客数の取得に失敗しました: %w", err)
	}
	return count, nil
}

// ListRecent は作成日時の新しい順に最大limit件を返す。同時刻の場合は後に登録された顧客を先にする。
func (r *PostgresCustomerRepo) ListRecent(ctx context.Context, limit int) ([]*model.Customer, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+customerColumns+` FROM customers ORDER BY created_at DESC, id DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("最近の顧客一覧の取得に失敗しました: %w", err)
	}
	return collectCustomers(rows)
}

// compile-time interface check
var _ CustomerRepository = (*PostgresCustomerRepo)(nil)
