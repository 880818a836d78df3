package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Ref is a lightweight reference to another record, as embedded by the backend.
type Ref struct {
	ID   string
	Name string
}

// Sale records one product sold by a user.
type Sale struct {
	ID         string
	Product    Ref
	SoldBy     Ref
	BaseAmount decimal.Decimal
	SellAmount decimal.Decimal
	Discount   decimal.Decimal
	Profit     decimal.Decimal
	Remark     string
	CreatedAt  time.Time
}

// IsLoss reports whether the sale lost money.
func (s Sale) IsLoss() bool {
	return s.Profit.IsNegative()
}
