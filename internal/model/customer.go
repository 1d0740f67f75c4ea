package model

import "time"

// Customer はサロンの顧客を表す。
type Customer struct {
	ID          string
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	DateOfBirth *Date
	Notes       *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CustomerPatch は顧客の部分更新内容を表す。
type CustomerPatch struct {
	FirstName   Optional[string]
	LastName    Optional[string]
	Email       Optional[string]
	Phone       Optional[string]
	DateOfBirth Optional[*Date]
	Notes       Optional[*string]
}

// DefaultSearchLimit は顧客検索の既定件数。
const DefaultSearchLimit = 20

// CustomerSearch は顧客検索の条件を表す。
type CustomerSearch struct {
	Query string
	Limit int
}
