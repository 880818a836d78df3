package dto

import "github.com/shopspring/decimal"

// SaleInput is the payload for POST /sales and PUT /sales/:id.
// Discount is part of the canonical sale schema on both create and update.
type SaleInput struct {
	ProductID  string          `json:"product_id"`
	BaseAmount decimal.Decimal `json:"base_amount"`
	SellAmount decimal.Decimal `json:"sell_amount"`
	Discount   decimal.Decimal `json:"discount"`
	Remark     string          `json:"remark"`
}

// SalesTotals carries the stat cards returned next to the sales list.
type SalesTotals struct {
	TotalProducts int             `json:"totalProducts"`
	TotalSales    decimal.Decimal `json:"totalSales"`
	TotalProfit   decimal.Decimal `json:"totalProfit"`
}
