package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/kiranfashion/console/internal/application/dto"
	"github.com/kiranfashion/console/internal/application/usecase"
	"github.com/kiranfashion/console/pkg/format"
)

// DashboardView is the body of the home page.
type DashboardView struct {
	StartDate string
	EndDate   string
	Cards     []Stat
}

// DashboardHandler serves the home page counters.
type DashboardHandler struct {
	uc    *usecase.DashboardUseCase
	views *Views
}

// NewDashboardHandler builds the handler.
func NewDashboardHandler(uc *usecase.DashboardUseCase, views *Views) *DashboardHandler {
	return &DashboardHandler{uc: uc, views: views}
}

// Show renders GET /?start_date&end_date. Both default to today.
func (h *DashboardHandler) Show(c *fiber.Ctx) error {
	d, r, err := h.uc.Get(c.UserContext(), dto.DateRange{
		StartDate: validDate(c.Query("start_date")),
		EndDate:   validDate(c.Query("end_date")),
	})
	if err != nil {
		return err
	}
	body := DashboardView{
		StartDate: r.StartDate,
		EndDate:   r.EndDate,
		Cards: []Stat{
			{Label: "Total Users", Value: format.Count(d.TotalUsers)},
			{Label: "Total Products", Value: format.Count(d.TotalProducts)},
			{Label: "Total Sales", Value: format.Count(d.TotalSales)},
			{Label: "Total Notes", Value: format.Count(d.TotalNotes)},
			{Label: "Sales Amount", Value: format.Amount(d.SalesAmount)},
			{Label: "Profit", Value: format.Amount(d.Profit)},
		},
	}
	return h.views.Render(c, fiber.StatusOK, pageDashboard, h.views.Page(c, "Dashboard", body))
}

// validDate returns s when it is a YYYY-MM-DD date, else "".
func validDate(s string) string {
	if _, err := time.Parse(format.ISODate, s); err != nil {
		return ""
	}
	return s
}
