package usecase

import (
	"context"
	"time"

	"github.com/kiranfashion/console/internal/application/dto"
	"github.com/kiranfashion/console/internal/application/ports"
	"github.com/kiranfashion/console/internal/domain/entity"
)

// DashboardUseCase loads the aggregate counters of the home page.
type DashboardUseCase struct {
	backend ports.Backend
	now     func() time.Time
}

// NewDashboardUseCase builds the use case.
func NewDashboardUseCase(backend ports.Backend) *DashboardUseCase {
	return &DashboardUseCase{backend: backend, now: time.Now}
}

// Get counters for r. A blank bound defaults to today; an inverted range is swapped.
func (uc *DashboardUseCase) Get(ctx context.Context, r dto.DateRange) (*entity.Dashboard, dto.DateRange, error) {
	today := dto.Today(uc.now())
	if r.StartDate == "" {
		r.StartDate = today.StartDate
	}
	if r.EndDate == "" {
		r.EndDate = today.EndDate
	}
	if r.EndDate < r.StartDate {
		r.StartDate, r.EndDate = r.EndDate, r.StartDate
	}
	d, err := uc.backend.Dashboard(ctx, r)
	if err != nil {
		return nil, r, err
	}
	return d, r, nil
}
