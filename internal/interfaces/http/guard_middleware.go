package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kiranfashion/console/internal/application/auth"
	"github.com/kiranfashion/console/internal/application/dto"
	"github.com/kiranfashion/console/internal/application/guard"
)

// RequireAccess applies policy p to the request's session. A signed-in
// session whose profile is not loaded yet is bootstrapped first, so the
// decision never sees a half-loaded session.
func RequireAccess(p guard.Policy, authUC *auth.AuthUseCase) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := SessionOf(c)
		if sess == nil {
			return fiber.ErrInternalServerError
		}
		state := guard.State{HasToken: sess.HasToken(), User: sess.User()}
		out := guard.Decide(p, state)

		if out == guard.Loading || (out == guard.Allow && !p.PublicOnly && state.User == nil) {
			if _, err := authUC.Bootstrap(c.UserContext(), sess); err != nil {
				return err
			}
			out = guard.Decide(p, guard.State{HasToken: sess.HasToken(), User: sess.User()})
		}

		switch out {
		case guard.Allow:
			return c.Next()
		case guard.RedirectLogin:
			if isAPI(c) {
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
					Code: "UNAUTHENTICATED", Message: "authentication required", Redirect: "/login",
				})
			}
			return c.Redirect("/login", fiber.StatusFound)
		case guard.RedirectHome:
			return c.Redirect("/", fiber.StatusFound)
		}
		return Unauthorized()
	}
}
