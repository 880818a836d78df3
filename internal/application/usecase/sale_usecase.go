package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/kiranfashion/console/internal/application/dto"
	"github.com/kiranfashion/console/internal/application/ports"
	"github.com/kiranfashion/console/internal/domain/entity"
)

const (
	reportPageRows = 100
	reportMaxPages = 50
	pickerRows     = 100
)

// SaleUseCase sales ledger, product picker and the daily report.
type SaleUseCase struct {
	*CrudUseCase[entity.Sale, dto.SaleInput]
	products  ports.ResourceGateway[entity.Product, dto.ProductInput]
	generator ports.SalesReportGenerator
}

// NewSaleUseCase builds the use case. generator may be nil when reports are disabled.
func NewSaleUseCase(backend ports.Backend, generator ports.SalesReportGenerator) *SaleUseCase {
	return &SaleUseCase{
		CrudUseCase: NewCrudUseCase(backend.Sales()),
		products:    backend.Products(),
		generator:   generator,
	}
}

// ProductOptions products offered by the sale form picker.
func (uc *SaleUseCase) ProductOptions(ctx context.Context, search string) ([]entity.Product, error) {
	page, err := uc.products.List(ctx, dto.ListQuery{Page: 1, Rows: pickerRows, Search: search})
	if err != nil {
		return nil, err
	}
	return page.Results, nil
}

// Product loads one product when a pick pre-fills the amounts.
func (uc *SaleUseCase) Product(ctx context.Context, id string) (*entity.Product, error) {
	return uc.products.Get(ctx, id)
}

// DailyReport renders every sale of day as a PDF. It returns the document and a file name.
func (uc *SaleUseCase) DailyReport(ctx context.Context, day time.Time) ([]byte, string, error) {
	if uc.generator == nil {
		return nil, "", fmt.Errorf("sales report generator not configured")
	}
	date := day.Format("2006-01-02")

	var (
		sales  []entity.Sale
		totals *dto.SalesTotals
	)
	for p := 1; p <= reportMaxPages; p++ {
		page, err := uc.gw.List(ctx, dto.ListQuery{Page: p, Rows: reportPageRows, StartDate: date, EndDate: date})
		if err != nil {
			return nil, "", err
		}
		if totals == nil && page.Totals != nil {
			totals = page.Totals
		}
		sales = append(sales, page.Results...)
		if len(page.Results) == 0 || len(sales) >= page.Total {
			break
		}
	}
	if totals == nil {
		totals = sumSales(sales)
	}

	pdf, err := uc.generator.GenerateSalesReport(ctx, day, sales, *totals)
	if err != nil {
		return nil, "", fmt.Errorf("generate sales report: %w", err)
	}
	return pdf, fmt.Sprintf("sales-%s.pdf", date), nil
}

func sumSales(sales []entity.Sale) *dto.SalesTotals {
	t := &dto.SalesTotals{}
	seen := map[string]bool{}
	for _, s := range sales {
		t.TotalSales = t.TotalSales.Add(s.SellAmount.Sub(s.Discount))
		t.TotalProfit = t.TotalProfit.Add(s.Profit)
		if !seen[s.Product.ID] {
			seen[s.Product.ID] = true
			t.TotalProducts++
		}
	}
	return t
}
