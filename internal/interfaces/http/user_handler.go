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

// UserHandler serves the user management pages. Admin only.
type UserHandler struct {
	uc    *usecase.UserUseCase
	views *Views
	*ListHandler[entity.User]
}

// NewUserHandler builds the handler.
func NewUserHandler(uc *usecase.UserUseCase, views *Views, opts listview.Options) *UserHandler {
	spec := ListSpec[entity.User]{
		Resource: "users",
		Title:    "Users",
		Columns:  []string{"Name", "Email", "Phone", "Role", "Status"},
		Row: func(u entity.User) dto.LiveListRow {
			return dto.LiveListRow{ID: u.ID, Cells: []string{
				u.Name, u.Email, format.OrDash(u.Phone), format.OrDash(u.Role), activeLabel(u.IsActive),
			}}
		},
	}
	return &UserHandler{uc: uc, views: views, ListHandler: NewListHandler(spec, uc, views, opts)}
}

func activeLabel(active bool) string {
	if active {
		return "Active"
	}
	return "Inactive"
}

// Detail renders GET /users/:id.
func (h *UserHandler) Detail(c *fiber.Ctx) error {
	u, err := h.uc.Get(c.UserContext(), pathID(c))
	if err != nil {
		return err
	}
	id := url.PathEscape(u.ID)
	body := DetailView{
		Title: u.Name,
		Items: []DetailItem{
			{Label: "Name", Value: u.Name},
			{Label: "Email", Value: u.Email},
			{Label: "Phone", Value: format.OrDash(u.Phone)},
			{Label: "Role", Value: format.OrDash(u.Role)},
			{Label: "Status", Value: activeLabel(u.IsActive)},
			{Label: "Created", Value: format.Date(u.CreatedAt)},
		},
		EditURL: "/users/edit/" + id,
		BackURL: "/users",
		Links:   []Link{{Label: "Change password", URL: "/users/change-password/" + id}},
	}
	return h.views.Render(c, fiber.StatusOK, pageDetail, h.views.Page(c, u.Name, body))
}

// New renders GET /users/add.
func (h *UserHandler) New(c *fiber.Ctx) error {
	return h.renderForm(c, fiber.StatusOK, "", forms.Values{}, nil, "")
}

// Edit renders GET /users/edit/:id.
func (h *UserHandler) Edit(c *fiber.Ctx) error {
	id := pathID(c)
	u, err := h.uc.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return h.renderForm(c, fiber.StatusOK, id, forms.UserValues(*u), nil, backFrom(c, "/users"))
}

// Create handles POST /users.
func (h *UserHandler) Create(c *fiber.Ctx) error { return h.submit(c, "") }

// Update handles POST /users/edit/:id.
func (h *UserHandler) Update(c *fiber.Ctx) error { return h.submit(c, pathID(c)) }

func (h *UserHandler) submit(c *fiber.Ctx, id string) error {
	create := id == ""
	v := formValues(c)
	back := localPath(v.Get("back"), "/users")
	if errs := forms.UserSchema(create).Validate(v); !errs.OK() {
		return h.renderForm(c, fiber.StatusUnprocessableEntity, id, v, errs, back)
	}
	msg, err := h.uc.Save(c.UserContext(), id, forms.ParseUser(v, create))
	if err != nil {
		if err := mutationFailed(c, err); err != nil {
			return err
		}
		return h.renderForm(c, fiber.StatusUnprocessableEntity, id, v, nil, back)
	}
	if create {
		return saved(c, msg, "/users", "users")
	}
	return saved(c, msg, back, "users")
}

func (h *UserHandler) renderForm(c *fiber.Ctx, status int, id string, v forms.Values, errs forms.Errors, back string) error {
	create := id == ""
	body := FormView{
		Title:     "Add User",
		Form:      forms.UserSchema(create).Name,
		Action:    "/users",
		Submit:    "Create",
		CancelURL: "/users",
		Fields: []FormField{
			field("name", "Name", "text", true, v, errs),
			field("email", "Email", "email", true, v, errs),
			field("phone", "Phone", "tel", true, v, errs),
		},
	}
	if create {
		pw := field("password", "Password", "password", true, v, errs)
		pw.Value = ""
		body.Fields = append(body.Fields, pw)
	} else {
		body.Title = "Edit User"
		body.Action = "/users/edit/" + url.PathEscape(id)
		body.Submit = "Update"
		body.Back = back
		body.CancelURL = back
	}
	return h.views.Render(c, status, pageForm, h.views.Page(c, body.Title, body))
}

// ChangePasswordForm renders GET /users/change-password/:id.
func (h *UserHandler) ChangePasswordForm(c *fiber.Ctx) error {
	id := pathID(c)
	if _, err := h.uc.Get(c.UserContext(), id); err != nil {
		return err
	}
	return h.renderPasswordForm(c, fiber.StatusOK, id, nil)
}

// ChangePassword handles POST /users/change-password/:id.
func (h *UserHandler) ChangePassword(c *fiber.Ctx) error {
	id := pathID(c)
	v := formValues(c)
	if errs := forms.ChangePasswordSchema.Validate(v); !errs.OK() {
		return h.renderPasswordForm(c, fiber.StatusUnprocessableEntity, id, errs)
	}
	msg, err := h.uc.ChangePassword(c.UserContext(), forms.ParseChangePassword(v, id))
	if err != nil {
		if err := mutationFailed(c, err); err != nil {
			return err
		}
		return h.renderPasswordForm(c, fiber.StatusUnprocessableEntity, id, nil)
	}
	return saved(c, msg, "/users/"+url.PathEscape(id), "users")
}

// renderPasswordForm never echoes the submitted passwords.
func (h *UserHandler) renderPasswordForm(c *fiber.Ctx, status int, id string, errs forms.Errors) error {
	empty := forms.Values{}
	body := FormView{
		Title:     "Change Password",
		Form:      forms.FormChangePassword,
		Action:    "/users/change-password/" + url.PathEscape(id),
		Submit:    "Change password",
		CancelURL: "/users/" + url.PathEscape(id),
		Fields: []FormField{
			field("new_password", "New Password", "password", true, empty, errs),
			field("confirm_password", "Confirm Password", "password", true, empty, errs),
		},
	}
	return h.views.Render(c, status, pageForm, h.views.Page(c, body.Title, body))
}
