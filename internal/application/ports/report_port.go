package ports

import (
	"context"
	"time"

	"github.com/kiranfashion/console/internal/application/dto"
	"github.com/kiranfashion/console/internal/domain/entity"
)

// SalesReportGenerator renders the daily sales report document.
type SalesReportGenerator interface {
	GenerateSalesReport(ctx context.Context, day time.Time, sales []entity.Sale, totals dto.SalesTotals) ([]byte, error)
}
