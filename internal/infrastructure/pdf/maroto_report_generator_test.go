package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiranfashion/console/internal/application/dto"
	"github.com/kiranfashion/console/internal/domain/entity"
)

func TestGenerateSalesReport(t *testing.T) {
	g := NewMarotoReportGenerator("Kiran Fashion")
	sales := []entity.Sale{
		{
			Product: entity.Ref{ID: "p1", Name: "Silk Saree"}, SoldBy: entity.Ref{ID: "u1", Name: "Asha"},
			BaseAmount: decimal.NewFromInt(1000), SellAmount: decimal.NewFromInt(1500),
			Discount: decimal.NewFromInt(100), Profit: decimal.NewFromInt(400),
		},
		{
			Product:    entity.Ref{ID: "p2", Name: "Kurti"},
			BaseAmount: decimal.NewFromInt(800), SellAmount: decimal.NewFromInt(700),
			Profit: decimal.NewFromInt(-100),
		},
	}
	totals := dto.SalesTotals{TotalProducts: 2, TotalSales: decimal.NewFromInt(2100), TotalProfit: decimal.NewFromInt(300)}

	doc, err := g.GenerateSalesReport(context.Background(), time.Date(2024, 5, 1, 0, 0, 0, 0, time.Local), sales, totals)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF")))
}

func TestGenerateSalesReport_Empty(t *testing.T) {
	doc, err := NewMarotoReportGenerator("Kiran Fashion").GenerateSalesReport(context.Background(), time.Now(), nil, dto.SalesTotals{})
	require.NoError(t, err)
	assert.NotEmpty(t, doc)
}

func TestAmount_UsesLatinCurrency(t *testing.T) {
	assert.Equal(t, "Rs. 1,234.50", amount(decimal.RequireFromString("1234.5")))
	assert.Equal(t, "-Rs. 20.00", amount(decimal.NewFromInt(-20)))
}
