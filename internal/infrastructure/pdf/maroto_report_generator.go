// Package pdf renders the daily sales report.
//
// A4 page layout:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: shop name + report title  │  day + generated at    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  SUMMARY: products sold / net sales / profit                │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLE: Product | Sold by | Base | Sell | Disc. | Profit    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: sale count                                         │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/kiranfashion/console/internal/application/dto"
	"github.com/kiranfashion/console/internal/domain/entity"
	"github.com/kiranfashion/console/pkg/format"
)

// ── Palette ───────────────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 136, Green: 19, Blue: 55}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorLoss    = &props.Color{Red: 200, Green: 30, Blue: 30}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoReportGenerator implements ports.SalesReportGenerator with Maroto v2.
type MarotoReportGenerator struct {
	shop string
	now  func() time.Time
}

// NewMarotoReportGenerator builds the generator; shop is printed in the header.
func NewMarotoReportGenerator(shop string) *MarotoReportGenerator {
	return &MarotoReportGenerator{shop: shop, now: time.Now}
}

// GenerateSalesReport renders the sales of day and returns the PDF bytes.
func (g *MarotoReportGenerator) GenerateSalesReport(
	_ context.Context,
	day time.Time,
	sales []entity.Sale,
	totals dto.SalesTotals,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Daily sales report "+format.Date(day), true).
		WithAuthor(g.shop, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.shop, day, g.now()))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRow(totals))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	if len(sales) == 0 {
		m.AddRows(row.New(10).Add(col.New(12).Add(
			text.New("No sales recorded on this day.", props.Text{
				Size: 9, Align: align.Center, Color: colorGray, Top: 3,
			}),
		)))
	}
	for _, r := range tableDetailRows(sales) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(len(sales)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generate document: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Sections ──────────────────────────────────────────────────────────────────

func headerRow(shop string, day, generated time.Time) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(shop, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Daily sales report", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(format.Date(day), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 1,
			}),
			text.New("Generated "+generated.Local().Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

func summaryRow(t dto.SalesTotals) core.Row {
	card := func(label, value string) core.Col {
		return col.New(4).Add(
			text.New(label, props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1, Align: align.Center,
			}),
			text.New(value, props.Text{
				Style: fontstyle.Bold, Size: 12, Top: 6, Align: align.Center,
			}),
		)
	}
	return row.New(16).Add(
		card("PRODUCTS SOLD", format.Count(t.TotalProducts)),
		card("NET SALES", amount(t.TotalSales)),
		card("PROFIT", amount(t.TotalProfit)),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		})).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
	}
	return row.New(8).Add(
		h("Product", 3, align.Left),
		h("Sold by", 2, align.Left),
		h("Base", 2, align.Right),
		h("Sell", 2, align.Right),
		h("Disc.", 1, align.Right),
		h("Profit", 2, align.Right),
	)
}

func tableDetailRows(sales []entity.Sale) []core.Row {
	result := make([]core.Row, 0, len(sales))
	for _, s := range sales {
		profit := props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1}
		if s.IsLoss() {
			profit.Color = colorLoss
		}
		result = append(result, row.New(7).Add(
			col.New(3).Add(text.New(format.OrDash(s.Product.Name),
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			col.New(2).Add(text.New(format.OrDash(s.SoldBy.Name),
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			col.New(2).Add(text.New(amount(s.BaseAmount),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(amount(s.SellAmount),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(1).Add(text.New(amount(s.Discount),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(amount(s.Profit), profit)),
		))
	}
	return result
}

func footerRow(count int) core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(fmt.Sprintf("%s sale(s) on this report.", format.Count(count)), props.Text{
			Size: 7, Color: colorGray, Top: 2,
		}),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

// amount swaps the rupee sign for "Rs." since the core PDF fonts are Latin-1 only.
func amount(d decimal.Decimal) string {
	return strings.Replace(format.Amount(d), format.CurrencySymbol, "Rs. ", 1)
}
