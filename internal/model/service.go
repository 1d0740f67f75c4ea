package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Service はサロンが提供する施術メニューを表す。
// 作成後の更新操作は提供しない。
type Service struct {
	ID              string
	Name            string
	Description     *string
	DurationMinutes int
	Price           decimal.Decimal
	CreatedAt       time.Time
}
