package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/nobita2041/beauty-salon-cms/internal/model"
)

func scanAppointment(row rowScanner) (*model.Appointment, error) {
	a := &model.Appointment{}
	if err := row.Scan(appointmentDest(a)...); err != nil {
		return nil, err
	}
	return a, nil
}

// lockRow は指定テーブルの行をFOR SHAREでロックし、存在しなければnotFoundを返す。
// 確認から挿入までの間に参照先が削除されることを防ぐ。
func lockRow(ctx context.Context, tx *sql.Tx, table, id string, notFound error) error {
	var found string
	err := tx.QueryRowContext(ctx,
		`SELECT id FROM `+table+` WHERE id = $1 FOR SHARE`,
		id,
	).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return notFound
	}
	if err != nil {
		return fmt.Errorf("%s の参照確認に失敗しました: %w", table, err)
	}
	return nil
}

// PostgresAppointmentRepo はPostgreSQLを使用した予約リポジトリ。
type PostgresAppointmentRepo struct {
	db *sql.DB
}

// NewPostgresAppointmentRepo はPostgresAppointmentRepoを生成する。
func NewPostgresAppointmentRepo(db *sql.DB) *PostgresAppointmentRepo {
	return &PostgresAppointmentRepo{db: db}
}

// Create は顧客と施術メニューをロックして存在を確認した上で予約を作成する。
func (r *PostgresAppointmentRepo) Create(ctx context.Context, a *model.Appointment) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("トランザクションの開始に失敗しました: %w", err)
	}
	defer tx.Rollback()

	if err := lockRow(ctx, tx, "customers", a.CustomerID, ErrCustomerNotFound); err != nil {
		return err
	}
	if err := lockRow(ctx, tx, "services", a.ServiceID, ErrServiceNotFound); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO appointments (`+appointmentColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		a.ID, a.CustomerID, a.ServiceID, a.AppointmentDate, a.StartTime, a.EndTime,
		a.Status, a.Notes, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		if mapped := translateWriteError(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("予約の作成に失敗しました: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("トランザクションのコミットに失敗しました: %w", err)
	}
	return nil
}

// FindByID は指定IDの予約を取得する。見つからない場合はnilを返す。
func (r *PostgresAppointmentRepo) FindByID(ctx context.Context, id string) (*model.Appointment, error) {
	a, err := scanAppointment(r.db.QueryRowContext(ctx,
		`SELECT `+appointmentColumns+` FROM appointments WHERE id = $1`,
		id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("予約の取得に失敗しました: %w", err)
	}
	return a, nil
}

// Update はpatchで指定されたフィールドのみを更新する。見つからない場合はnilを返す。
// 顧客・施術メニューを付け替える場合は、付け替え先を同一トランザクション内でロックして確認する。
func (r *PostgresAppointmentRepo) Update(ctx context.Context, id string, patch model.AppointmentPatch, updatedAt time.Time) (*model.Appointment, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("トランザクションの開始に失敗しました: %w", err)
	}
	defer tx.Rollback()

	if patch.CustomerID.Set {
		if err := lockRow(ctx, tx, "customers", patch.CustomerID.Value, ErrCustomerNotFound); err != nil {
			return nil, err
		}
	}
	if patch.ServiceID.Set {
		if err := lockRow(ctx, tx, "services", patch.ServiceID.Value, ErrServiceNotFound); err != nil {
			return nil, err
		}
	}

	a, err := scanAppointment(tx.QueryRowContext(ctx,
		`UPDATE appointments SET
			customer_id      = CASE WHEN $2::boolean  THEN $3::uuid ELSE customer_id END,
			service_id       = CASE WHEN $4::boolean  THEN $5::uuid ELSE service_id END,
			appointment_date = CASE WHEN $6::boolean  THEN $7::date ELSE appointment_date END,
			start_time       = CASE WHEN $8::boolean  THEN $9::varchar ELSE start_time END,
			end_time         = CASE WHEN $10::boolean THEN $11::varchar ELSE end_time END,
			status           = CASE WHEN $12::boolean THEN $13::appointment_status ELSE status END,
			notes            = CASE WHEN $14::boolean THEN $15::text ELSE notes END,
			updated_at       = $16
		 WHERE id = $1
		 RETURNING `+appointmentColumns,
		id,
		patch.CustomerID.Set, patch.CustomerID.Arg(),
		patch.ServiceID.Set, patch.ServiceID.Arg(),
		patch.AppointmentDate.Set, patch.AppointmentDate.Arg(),
		patch.StartTime.Set, patch.StartTime.Arg(),
		patch.EndTime.Set, patch.EndTime.Arg(),
		patch.Status.Set, patch.Status.Arg(),
		patch.Notes.Set, patch.Notes.Arg(),
		updatedAt,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		if mapped := translateWriteError(err); mapped != nil {
			return nil, mapped
		}
		return nil, fmt.Errorf("予約の更新に失敗しました: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("トランザクションのコミットに失敗しました: %w", err)
	}
	return a, nil
}

// Cancel はstatusをcancelledに更新する。見つからない場合はnilを返す。
func (r *PostgresAppointmentRepo) Cancel(ctx context.Context, id string, updatedAt time.Time) (*model.Appointment, error) {
	a, err := scanAppointment(r.db.QueryRowContext(ctx,
		`UPDATE appointments SET status = $2, updated_at = $3
		 WHERE id = $1
		 RETURNING `+appointmentColumns,
		id, model.AppointmentStatusCancelled, updatedAt,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("予約のキャンセルに失敗しました: %w", err)
	}
	return a, nil
}

// ListWithDetails は条件に合う予約を現在の顧客・施術メニューと結合して返す。
func (r *PostgresAppointmentRepo) ListWithDetails(ctx context.Context, filter AppointmentFilter) ([]*model.AppointmentWithDetails, error) {
	var customerID, from, to any
	if filter.CustomerID != "" {
		customerID = filter.CustomerID
	}
	if !filter.From.IsZero() {
		from = filter.From
	}
	if !filter.To.IsZero() {
		to = filter.To
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+appointmentColumnsA+`, `+customerColumnsC+`, `+serviceColumnsS+`
		 FROM appointments a
		 JOIN customers c ON c.id = a.customer_id
		 JOIN services s ON s.id = a.service_id
		 WHERE ($1::uuid IS NULL OR a.customer_id = $1::uuid)
		   AND ($2::date IS NULL OR a.appointment_date >= $2::date)
		   AND ($3::date IS NULL OR a.appointment_date <= $3::date)
		 ORDER BY a.appointment_date ASC, a.start_time ASC, a.id ASC`,
		customerID, from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("予約一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	results := []*model.AppointmentWithDetails{}
	for rows.Next() {
		d := &model.AppointmentWithDetails{}
		if err := rows.Scan(joinDest(appointmentDest(&d.Appointment), customerDest(&d.Customer), serviceDest(&d.Service))...); err != nil {
			return nil, fmt.Errorf("予約行の読み取りに失敗しました: %w", err)
		}
		results = append(results, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("予約一覧の走査に失敗しました: %w", err)
	}
	return results, nil
}

// CountOnDate は指定日の予約数を返す。
func (r *PostgresAppointmentRepo) CountOnDate(ctx context.Context, date model.Date) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM appointments WHERE appointment_date = $1`,
		date,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("予約数の取得に失敗しました: %w", err)
	}
	return count, nil
}

// ListBetween はfrom〜to（両端含む）の予約を日付・開始時刻順に最大limit件返す。
func (r *PostgresAppointmentRepo) ListBetween(ctx context.Context, from, to model.Date, limit int) ([]*model.Appointment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+appointmentColumns+` FROM appointments
		 WHERE appointment_date >= $1 AND appointment_date <= $2
		 ORDER BY appointment_date ASC, start_time ASC, id ASC
		 LIMIT $3`,
		from, to, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("直近の予約一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	appointments := []*model.Appointment{}
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("予約行の読み取りに失敗しました: %w", err)
		}
		appointments = append(appointments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("直近の予約一覧の走査に失敗しました: %w", err)
	}
	return appointments, nil
}

// compile-time interface check
var _ AppointmentRepository = (*PostgresAppointmentRepo)(nil)
