package http

import (
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/kiranfashion/console/internal/application/dto"
	"github.com/kiranfashion/console/internal/application/forms"
	"github.com/kiranfashion/console/internal/application/listview"
	"github.com/kiranfashion/console/internal/application/usecase"
	"github.com/kiranfashion/console/internal/domain/entity"
	"github.com/kiranfashion/console/pkg/format"
)

// ProductHandler serves the product pages.
type ProductHandler struct {
	uc    *usecase.ProductUseCase
	views *Views
	*ListHandler[entity.Product]
}

// NewProductHandler builds the handler.
func NewProductHandler(uc *usecase.ProductUseCase, views *Views, opts listview.Options) *ProductHandler {
	spec := ListSpec[entity.Product]{
		Resource: "products",
		Title:    "Products",
		Columns:  []string{"Name", "Base Amount", "Sell Amount", "Remark", "Created"},
		Row: func(p entity.Product) dto.LiveListRow {
			return dto.LiveListRow{ID: p.ID, Cells: []string{
				p.Name, format.Amount(p.BaseAmount), format.Amount(p.SellAmount),
				format.OrDash(p.Remark), format.Date(p.CreatedAt),
			}}
		},
	}
	return &ProductHandler{uc: uc, views: views, ListHandler: NewListHandler(spec, uc, views, opts)}
}

// Detail renders GET /products/:id.
func (h *ProductHandler) Detail(c *fiber.Ctx) error {
	id := pathID(c)
	p, err := h.uc.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	body := DetailView{
		Title: p.Name,
		Items: []DetailItem{
			{Label: "Name", Value: p.Name},
			{Label: "Base Amount", Value: format.Amount(p.BaseAmount)},
			{Label: "Sell Amount", Value: format.Amount(p.SellAmount)},
			{Label: "Remark", Value: format.OrDash(p.Remark)},
			{Label: "Created", Value: format.Date(p.CreatedAt)},
		},
		EditURL: "/products/edit/" + url.PathEscape(p.ID),
		BackURL: "/products",
	}
	return h.views.Render(c, fiber.StatusOK, pageDetail, h.views.Page(c, p.Name, body))
}

// New renders GET /products/add.
func (h *ProductHandler) New(c *fiber.Ctx) error {
	return h.renderForm(c, fiber.StatusOK, "", forms.Values{}, nil, "")
}

// Edit renders GET /products/edit/:id.
func (h *ProductHandler) Edit(c *fiber.Ctx) error {
	id := pathID(c)
	p, err := h.uc.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return h.renderForm(c, fiber.StatusOK, id, forms.ProductValues(*p), nil, backFrom(c, "/products"))
}

// Create handles POST /products.
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	return h.submit(c, "")
}

// Update handles POST /products/edit/:id.
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	return h.submit(c, pathID(c))
}

func (h *ProductHandler) submit(c *fiber.Ctx, id string) error {
	v := formValues(c)
	back := localPath(v.Get("back"), "/products")
	if errs := forms.ProductSchema.Validate(v); !errs.OK() {
		return h.renderForm(c, fiber.StatusUnprocessableEntity, id, v, errs, back)
	}
	in, err := forms.ParseProduct(v)
	if err != nil {
		return h.renderForm(c, fiber.StatusUnprocessableEntity, id, v, invalidForm(nil, "sell_amount"), back)
	}
	msg, err := h.uc.Save(c.UserContext(), id, in)
	if err != nil {
		if err := mutationFailed(c, err); err != nil {
			return err
		}
		return h.renderForm(c, fiber.StatusUnprocessableEntity, id, v, nil, back)
	}
	if id == "" {
		return saved(c, msg, "/products", "products")
	}
	return saved(c, msg, back, "products")
}

func (h *ProductHandler) renderForm(c *fiber.Ctx, status int, id string, v forms.Values, errs forms.Errors, back string) error {
	body := FormView{
		Title:     "Add Product",
		Form:      forms.FormProduct,
		Action:    "/products",
		Submit:    "Create",
		CancelURL: "/products",
		Fields: []FormField{
			field("name", "Name", "text", true, v, errs),
			field("base_amount", "Base Amount", "number", true, v, errs),
			field("sell_amount", "Sell Amount", "number", true, v, errs),
			field("remark", "Remark", "textarea", true, v, errs),
		},
	}
	if id != "" {
		body.Title = "Edit Product"
		body.Action = "/products/edit/" + url.PathEscape(id)
		body.Submit = "Update"
		body.Back = back
		body.CancelURL = back
	}
	return h.views.Render(c, status, pageForm, h.views.Page(c, body.Title, body))
}
