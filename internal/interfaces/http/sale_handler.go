package http

import (
	"errors"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/kiranfashion/console/internal/application/dto"
	"github.com/kiranfashion/console/internal/application/forms"
	"github.com/kiranfashion/console/internal/application/listview"
	"github.com/kiranfashion/console/internal/application/usecase"
	"github.com/kiranfashion/console/internal/domain"
	"github.com/kiranfashion/console/internal/domain/entity"
	"github.com/kiranfashion/console/pkg/format"
)

// Submit actions of the sale form.
const (
	actionSelectProduct = "select_product"
	actionSaveAndAdd    = "save_add"
)

// prefilledField is the hidden field remembering which product last filled the amounts.
const prefilledField = "prefilled_product"

// SaleHandler sales ledger pages and the daily report.
type SaleHandler struct {
	uc    *usecase.SaleUseCase
	views *Views
	now   func() time.Time
	*ListHandler[entity.Sale]
}

// NewSaleHandler builds the handler.
func NewSaleHandler(uc *usecase.SaleUseCase, views *Views, opts listview.Options) *SaleHandler {
	spec := ListSpec[entity.Sale]{
		Resource:     "sales",
		Title:        "Sales",
		Columns:      []string{"Product", "Sold By", "Base Amount", "Sell Amount", "Discount", "Date", "Profit"},
		DateFilter:   true,
		Report:       true,
		ProfitColumn: 7,
		Row: func(s entity.Sale) dto.LiveListRow {
			return dto.LiveListRow{ID: s.ID, Cells: []string{
				format.OrDash(s.Product.Name), format.OrDash(s.SoldBy.Name),
				format.Amount(s.BaseAmount), format.Amount(s.SellAmount), format.Amount(s.Discount),
				format.Date(s.CreatedAt), format.Amount(s.Profit),
			}}
		},
		Stats: func(p dto.Page[entity.Sale]) []Stat {
			t := dto.SalesTotals{}
			if p.Totals != nil {
				t = *p.Totals
			}
			return []Stat{
				{Label: "Total Products", Value: format.Count(t.TotalProducts)},
				{Label: "Total Sale", Value: format.Amount(t.TotalSales)},
				{Label: "Total Profit", Value: format.Amount(t.TotalProfit)},
			}
		},
	}
	return &SaleHandler{uc: uc, views: views, now: time.Now, ListHandler: NewListHandler(spec, uc, views, opts)}
}

// Detail renders GET /sales/:id.
func (h *SaleHandler) Detail(c *fiber.Ctx) error {
	s, err := h.uc.Get(c.UserContext(), pathID(c))
	if err != nil {
		return err
	}
	profit := DetailItem{Label: "Profit", Value: format.Amount(s.Profit), Class: "chip-profit"}
	if s.IsLoss() {
		profit.Label, profit.Class = "Loss", "chip-loss"
	}
	body := DetailView{
		Title: "Sale of " + format.OrDash(s.Product.Name),
		Items: []DetailItem{
			{Label: "Product", Value: format.OrDash(s.Product.Name)},
			{Label: "Sold By", Value: format.OrDash(s.SoldBy.Name)},
			{Label: "Base Amount", Value: format.Amount(s.BaseAmount)},
			{Label: "Sell Amount", Value: format.Amount(s.SellAmount)},
			{Label: "Discount", Value: format.Amount(s.Discount)},
			profit,
			{Label: "Remark", Value: format.OrDash(s.Remark)},
			{Label: "Date", Value: format.Date(s.CreatedAt)},
		},
		EditURL: "/sales/edit/" + url.PathEscape(s.ID),
		BackURL: "/sales",
	}
	return h.views.Render(c, fiber.StatusOK, pageDetail, h.views.Page(c, body.Title, body))
}

// New renders GET /sales/add.
func (h *SaleHandler) New(c *fiber.Ctx) error {
	return h.renderForm(c, fiber.StatusOK, "", forms.NewSaleValues(), nil, "")
}

// Edit renders GET /sales/edit/:id.
func (h *SaleHandler) Edit(c *fiber.Ctx) error {
	id := pathID(c)
	s, err := h.uc.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	v := forms.SaleValues(*s)
	v[prefilledField] = s.Product.ID
	return h.renderForm(c, fiber.StatusOK, id, v, nil, backFrom(c, "/sales"))
}

// Create handles POST /sales.
func (h *SaleHandler) Create(c *fiber.Ctx) error { return h.submit(c, "") }

// Update handles POST /sales/edit/:id.
func (h *SaleHandler) Update(c *fiber.Ctx) error { return h.submit(c, pathID(c)) }

func (h *SaleHandler) submit(c *fiber.Ctx, id string) error {
	v := formValues(c)
	back := localPath(v.Get("back"), "/sales")
	action := v.Get("action")
	delete(v, "action")

	if action == actionSelectProduct {
		return h.selectProduct(c, id, v, back)
	}
	if errs := forms.SaleSchema.Validate(v); !errs.OK() {
		return h.renderForm(c, fiber.StatusUnprocessableEntity, id, v, errs, back)
	}
	in, err := forms.ParseSale(v)
	if err != nil {
		return h.renderForm(c, fiber.StatusUnprocessableEntity, id, v, invalidForm(nil, "discount"), back)
	}
	msg, err := h.uc.Save(c.UserContext(), id, in)
	if err != nil {
		if err := mutationFailed(c, err); err != nil {
			return err
		}
		return h.renderForm(c, fiber.StatusUnprocessableEntity, id, v, nil, back)
	}
	switch {
	case id == "" && action == actionSaveAndAdd:
		return saved(c, msg, "/sales/add", "sales", "products")
	case id == "":
		return saved(c, msg, "/sales", "sales", "products")
	}
	return saved(c, msg, back, "sales", "products")
}

// selectProduct pre-fills base and sell amounts from the picked product.
// Re-picking the product that already filled them keeps manual edits.
func (h *SaleHandler) selectProduct(c *fiber.Ctx, id string, v forms.Values, back string) error {
	picked := v.Get("product_id")
	if picked == "" {
		return h.renderForm(c, fiber.StatusOK, id, v, nil, back)
	}
	p, err := h.uc.Product(c.UserContext(), picked)
	if err != nil {
		if err := mutationFailed(c, err); err != nil {
			return err
		}
		return h.renderForm(c, fiber.StatusOK, id, v, nil, back)
	}
	v["product_id"] = v.Get(prefilledField)
	v = forms.SelectProduct(v, *p)
	v[prefilledField] = p.ID
	return h.renderForm(c, fiber.StatusOK, id, v, nil, back)
}

func (h *SaleHandler) renderForm(c *fiber.Ctx, status int, id string, v forms.Values, errs forms.Errors, back string) error {
	picker := field("product_id", "Product", "select", true, v, errs)
	products, err := h.uc.ProductOptions(c.UserContext(), "")
	if err != nil {
		if errors.Is(err, domain.ErrUnauthenticated) {
			return err
		}
		picker.Error = "Products could not be loaded: " + usecase.ErrorText(err)
	}
	for _, p := range products {
		picker.Options = append(picker.Options, Option{
			Value:    p.ID,
			Label:    p.Name + " (" + format.Amount(p.SellAmount) + ")",
			Selected: p.ID == v.Get("product_id"),
		})
	}

	body := FormView{
		Title:      "Add Sale",
		Form:       forms.FormSale,
		Action:     "/sales",
		Submit:     "Create",
		CancelURL:  "/sales",
		SelectName: actionSelectProduct,
		SaveAndAdd: true,
		Fields: []FormField{
			picker,
			field(prefilledField, "", "hidden", false, v, errs),
			field("base_amount", "Base Amount", "number", true, v, errs),
			field("sell_amount", "Sell Amount", "number", true, v, errs),
			field("discount", "Discount", "number", false, v, errs),
			field("remark", "Remark", "textarea", false, v, errs),
		},
	}
	if id != "" {
		body.Title = "Edit Sale"
		body.Action = "/sales/edit/" + url.PathEscape(id)
		body.Submit = "Update"
		body.Back = back
		body.CancelURL = back
		body.SaveAndAdd = false
	}
	return h.views.Render(c, status, pageForm, h.views.Page(c, body.Title, body))
}

// Report godoc
// @Summary      Daily sales report
// @Description  PDF with every sale of the day, its totals and profit.
// @Tags         sales
// @Produce      application/pdf
// @Param        date  query  string  false  "Day, YYYY-MM-DD (default today)"
// @Success      200
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /sales/report.pdf [get]
func (h *SaleHandler) Report(c *fiber.Ctx) error {
	day, err := time.ParseInLocation(format.ISODate, c.Query("date"), time.Local)
	if err != nil {
		day = h.now()
	}
	pdf, name, err := h.uc.DailyReport(c.UserContext(), day)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	return c.Send(pdf)
}
