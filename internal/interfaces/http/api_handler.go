package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kiranfashion/console/internal/application/dto"
	"github.com/kiranfashion/console/internal/application/forms"
)

// FormHandler validates console form fields on blur.
type FormHandler struct{}

// NewFormHandler builds the handler.
func NewFormHandler() *FormHandler { return &FormHandler{} }

// Validate godoc
// @Summary      Validate one form field
// @Description  Runs the form's rules for a single field, as on blur. The body is the urlencoded form plus "field".
// @Tags         forms
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        form   path      string  true  "login, user-create, user-edit, product, sale, note or change-password"
// @Param        field  formData  string  true  "Field to check"
// @Success      200  {object}  dto.FieldValidationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/forms/{form}/validate [post]
func (h *FormHandler) Validate(c *fiber.Ctx) error {
	schema, ok := forms.Lookup(c.Params("form"))
	if !ok {
		return NotFound("unknown form")
	}
	v := formValues(c)
	name := v.Get("field")
	msg, ok := schema.ValidateField(name, v)
	if !ok {
		return NotFound("unknown field")
	}
	return c.JSON(dto.FieldValidationResponse{Field: name, Error: msg})
}

// Health godoc
// @Summary      Liveness
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func Health(service string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": service})
	}
}
