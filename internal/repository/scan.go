package repository

import "github.com/nobita2041/beauty-salon-cms/internal/model"

// 各テーブルのSELECT列。結合クエリ用にエイリアス付きの版も用意する。
const (
	customerColumns  = `id, first_name, last_name, email, phone, date_of_birth, notes, created_at, updated_at`
	customerColumnsC = `c.id, c.first_name, c.last_name, c.email, c.phone, c.date_of_birth, c.notes, c.created_at, c.updated_at`

	serviceColumns  = `id, name, description, duration_minutes, price, created_at`
	serviceColumnsS = `s.id, s.name, s.description, s.duration_minutes, s.price, s.created_at`

	appointmentColumns  = `id, customer_id, service_id, appointment_date, start_time, end_time, status, notes, created_at, updated_at`
	appointmentColumnsA = `a.id, a.customer_id, a.service_id, a.appointment_date, a.start_time, a.end_time, a.status, a.notes, a.created_at, a.updated_at`

	historyColumns  = `id, customer_id, service_id, appointment_id, service_date, price_paid, notes, created_at`
	historyColumnsH = `h.id, h.customer_id, h.service_id, h.appointment_id, h.service_date, h.price_paid, h.notes, h.created_at`
)

// rowScanner は*sql.Rowと*sql.Rowsの共通インターフェース。
type rowScanner interface {
	Scan(dest ...any) error
}

// 以下のdest関数は上記の列定義と同じ順序でScan先を返す。

func customerDest(c *model.Customer) []any {
	return []any{&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Phone,
		&c.DateOfBirth, &c.Notes, &c.CreatedAt, &c.UpdatedAt}
}

func serviceDest(s *model.Service) []any {
	return []any{&s.ID, &s.Name, &s.Description, &s.DurationMinutes, &s.Price, &s.CreatedAt}
}

func appointmentDest(a *model.Appointment) []any {
	return []any{&a.ID, &a.CustomerID, &a.ServiceID, &a.AppointmentDate, &a.StartTime,
		&a.EndTime, &a.Status, &a.Notes, &a.CreatedAt, &a.UpdatedAt}
}

func historyDest(h *model.ServiceHistory) []any {
	return []any{&h.ID, &h.CustomerID, &h.ServiceID, &h.AppointmentID, &h.ServiceDate,
		&h.PricePaid, &h.Notes, &h.CreatedAt}
}

func joinDest(parts ...[]any) []any {
	var dest []any
	for _, p := range parts {
		dest = append(dest, p...)
	}
	return dest
}
