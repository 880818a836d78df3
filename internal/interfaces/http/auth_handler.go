package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kiranfashion/console/internal/application/auth"
	"github.com/kiranfashion/console/internal/application/forms"
	"github.com/kiranfashion/console/internal/application/session"
	"github.com/kiranfashion/console/internal/application/usecase"
)

// AuthHandler serves login and logout.
type AuthHandler struct {
	uc     *auth.AuthUseCase
	views  *Views
	cookie CookieConfig
}

// NewAuthHandler builds the handler.
func NewAuthHandler(uc *auth.AuthUseCase, views *Views, cookie CookieConfig) *AuthHandler {
	return &AuthHandler{uc: uc, views: views, cookie: cookie}
}

// LoginPage renders GET /login.
func (h *AuthHandler) LoginPage(c *fiber.Ctx) error {
	return h.render(c, fiber.StatusOK, LoginView{})
}

// Login handles POST /login. Rejected credentials stay on the login page with the
// backend's message; they never trigger the sign-out redirect.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	v := formValues(c)
	if errs := forms.LoginSchema.Validate(v); !errs.OK() {
		return h.render(c, fiber.StatusUnprocessableEntity, LoginView{Email: v.Get("email"), Errors: errs})
	}

	sess := SessionOf(c)
	next, err := h.uc.Login(c.UserContext(), sess, forms.ParseLogin(v))
	if err != nil {
		sess.AddFlash(session.FlashError, usecase.ErrorText(err))
		return h.render(c, fiber.StatusUnauthorized, LoginView{Email: v.Get("email")})
	}
	setSession(c, next)
	next.AddFlash(session.FlashSuccess, "Login successful")
	return c.Redirect("/", fiber.StatusSeeOther)
}

// Logout handles POST /logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if sess := SessionOf(c); sess != nil {
		h.uc.Logout(c.UserContext(), sess)
	}
	clearCookie(c, h.cookie)
	return c.Redirect("/login", fiber.StatusSeeOther)
}

func (h *AuthHandler) render(c *fiber.Ctx, status int, body LoginView) error {
	return h.views.Render(c, status, pageLogin, h.views.Page(c, "Login", body))
}
