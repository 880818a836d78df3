package entity

import "github.com/shopspring/decimal"

// Dashboard holds the aggregate counters for a date range.
type Dashboard struct {
	TotalUsers    int
	TotalProducts int
	TotalSales    int
	TotalNotes    int
	SalesAmount   decimal.Decimal
	Profit        decimal.Decimal
}
