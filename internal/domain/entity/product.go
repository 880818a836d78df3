package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is an article the shop sells. BaseAmount is the purchase cost,
// SellAmount the list price; both seed a new sale.
type Product struct {
	ID         string
	Name       string
	BaseAmount decimal.Decimal
	SellAmount decimal.Decimal
	Remark     string
	CreatedAt  time.Time
}
