package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout はカレンダー日付のワイヤ表現。
const DateLayout = "2006-01-02"

// Date は時刻とタイムゾーンを持たないカレンダー日付を表す。
// ゼロ値は未設定を意味する。
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf はtのロケーションにおける日付部分を返す。
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate は "YYYY-MM-DD" またはRFC 3339形式の文字列を日付に変換する。
// RFC 3339の場合はUTCに変換した上で日付部分のみを取り出す。
func ParseDate(s string) (Date, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return DateOf(t), nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return Date{}, fmt.Errorf("日付の形式が不正です: %q", s)
	}
	return DateOf(t.UTC()), nil
}

// String は "YYYY-MM-DD" 形式の文字列を返す。
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// IsZero は未設定の日付かどうかを返す。
func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// In は指定ロケーションにおけるその日の0時を返す。
func (d Date) In(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// AddDays はn日後の日付を返す。月末や年末の繰り上がりはtime.Dateの正規化に従う。
func (d Date) AddDays(n int) Date {
	return DateOf(time.Date(d.Year, d.Month, d.Day+n, 0, 0, 0, 0, time.UTC))
}

// FirstOfMonth はその月の1日を返す。
func (d Date) FirstOfMonth() Date {
	return Date{Year: d.Year, Month: d.Month, Day: 1}
}

// Before はdがuより前の日付かどうかを返す。
func (d Date) Before(u Date) bool {
	return d.Compare(u) < 0
}

// After はdがuより後の日付かどうかを返す。
func (d Date) After(u Date) bool {
	return d.Compare(u) > 0
}

// Compare はdとuを比較し、-1, 0, +1 のいずれかを返す。
func (d Date) Compare(u Date) int {
	switch {
	case d.Year != u.Year:
		return cmpInt(d.Year, u.Year)
	case d.Month != u.Month:
		return cmpInt(int(d.Month), int(u.Month))
	default:
		return cmpInt(d.Day, u.Day)
	}
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// MarshalJSON は "YYYY-MM-DD" 形式でエンコードする。
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON は "YYYY-MM-DD" またはRFC 3339形式の文字列を受け付ける。
func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("日付は文字列で指定してください: %w", err)
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Scan はsql.Scannerを実装する。DATE型カラムはtime.Timeとして渡される。
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*d = DateOf(v)
		return nil
	case []byte:
		parsed, err := ParseDate(string(v))
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case string:
		parsed, err := ParseDate(v)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case nil:
		*d = Date{}
		return nil
	}
	return fmt.Errorf("日付に変換できない型です: %T", src)
}

// Value はdriver.Valuerを実装する。
func (d Date) Value() (driver.Value, error) {
	return d.String(), nil
}
