package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/nobita2041/beauty-salon-cms/internal/model"
)

func scanService(row rowScanner) (*model.Service, error) {
	s := &model.Service{}
	if err := row.Scan(serviceDest(s)...); err != nil {
		return nil, err
	}
	return s, nil
}

// PostgresServiceRepo はPostgreSQLを使用した施術メニューリポジトリ。
type PostgresServiceRepo struct {
	db *sql.DB
}

// NewPostgresServiceRepo はPostgresServiceRepoを生成する。
func NewPostgresServiceRepo(db *sql.DB) *PostgresServiceRepo {
	return &PostgresServiceRepo{db: db}
}

// Create は施術メニューを作成する。
func (r *PostgresServiceRepo) Create(ctx context.Context, s *model.Service) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO services (`+serviceColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
		s.ID, s.Name, s.Description, s.DurationMinutes, s.Price, s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("施術メニューの作成に失敗しました: %w", err)
	}
	return nil
}

// FindByID は指定IDの施術メニューを取得する。見つからない場合はnilを返す。
func (r *PostgresServiceRepo) FindByID(ctx context.Context, id string) (*model.Service, error) {
	s, err := scanService(r.db.QueryRowContext(ctx,
		`SELECT `+serviceColumns+` FROM services WHERE id = $1`,
		id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("施術メニューの取得に失敗しました: %w", err)
	}
	return s, nil
}

// List は全施術メニューを作成日時の昇順で返す。
func (r *PostgresServiceRepo) List(ctx context.Context) ([]*model.Service, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+serviceColumns+` FROM services ORDER BY created_at ASC, id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("施術メニュー一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	services := []*model.Service{}
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("施術メニュー行の読み取りに失敗しました: %w", err)
		}
		services = append(services, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("施術メニュー一覧の走査に失敗しました: %w", err)
	}
	return services, nil
}

// compile-time interface check
var _ ServiceRepository = (*PostgresServiceRepo)(nil)
