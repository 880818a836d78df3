package dto

import "github.com/shopspring/decimal"

// ProductInput is the payload for POST /products and PUT /products/:id.
type ProductInput struct {
	Name       string          `json:"name"`
	BaseAmount decimal.Decimal `json:"base_amount"`
	SellAmount decimal.Decimal `json:"sell_amount"`
	Remark     string          `json:"remark"`
}
