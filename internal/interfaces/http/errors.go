package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/kiranfashion/console/internal/application/dto"
	"github.com/kiranfashion/console/internal/application/session"
	"github.com/kiranfashion/console/internal/application/usecase"
	"github.com/kiranfashion/console/internal/domain"
	"github.com/kiranfashion/console/pkg/logger"
)

// RouteErrorKind selects the error page a failed route renders.
type RouteErrorKind int

const (
	KindGeneric RouteErrorKind = iota
	KindNotFound
	KindUnauthorized
	KindForbidden
)

func (k RouteErrorKind) code() string {
	switch k {
	case KindNotFound:
		return "NOT_FOUND"
	case KindUnauthorized:
		return "UNAUTHORIZED"
	case KindForbidden:
		return "FORBIDDEN"
	}
	return "ROUTE_ERROR"
}

// RouteError tags a failure of a route loader, matched by ErrorHandler to a page.
type RouteError struct {
	Kind   RouteErrorKind
	Status int
	Text   string
	Err    error
}

func (e *RouteError) Error() string {
	if e.Err != nil {
		return e.Text + ": " + e.Err.Error()
	}
	return e.Text
}

func (e *RouteError) Unwrap() error { return e.Err }

// NotFound returns the route error for a missing page or record.
func NotFound(text string) *RouteError {
	return &RouteError{Kind: KindNotFound, Status: fiber.StatusNotFound, Text: text}
}

// Unauthorized returns the route error for a role the route does not permit.
func Unauthorized() *RouteError {
	return &RouteError{Kind: KindUnauthorized, Status: fiber.StatusForbidden, Text: "You are not allowed to view this page."}
}

// routeErrorFrom classifies err. Backend errors keep their own text.
func routeErrorFrom(err error) *RouteError {
	var re *RouteError
	if errors.As(err, &re) {
		return re
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		switch fe.Code {
		case fiber.StatusNotFound:
			return NotFound("Page not found")
		case fiber.StatusUnauthorized:
			return &RouteError{Kind: KindUnauthorized, Status: fe.Code, Text: fe.Message}
		case fiber.StatusForbidden:
			return &RouteError{Kind: KindForbidden, Status: fe.Code, Text: fe.Message}
		}
		return &RouteError{Kind: KindGeneric, Status: fe.Code, Text: fe.Message}
	}
	text := usecase.ErrorText(err)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return &RouteError{Kind: KindNotFound, Status: fiber.StatusNotFound, Text: "Record not found", Err: err}
	case errors.Is(err, domain.ErrForbidden):
		return &RouteError{Kind: KindForbidden, Status: fiber.StatusForbidden, Text: text, Err: err}
	case errors.Is(err, domain.ErrUnavailable):
		return &RouteError{Kind: KindGeneric, Status: fiber.StatusServiceUnavailable, Text: text, Err: err}
	}
	return &RouteError{Kind: KindGeneric, Status: fiber.StatusInternalServerError, Text: text, Err: err}
}

// MsgSessionExpired is the flash shown on the login page after the backend rejected the token.
const MsgSessionExpired = "Your session has expired. Please sign in again."

// ErrorHandler renders route errors. An authentication failure from any
// request signs the session out and sends the browser to /login.
func ErrorHandler(views *Views, log *logger.Logger) fiber.ErrorHandler {
	if log == nil {
		log = logger.Nop()
	}
	log = log.Component("http")
	return func(c *fiber.Ctx, err error) error {
		if errors.Is(err, domain.ErrUnauthenticated) {
			return signedOut(c)
		}

		re := routeErrorFrom(err)
		if re.Status >= fiber.StatusInternalServerError {
			log.Error().Err(err).Str("path", c.Path()).Int("status", re.Status).Msg("route failed")
		} else {
			log.Debug().Err(err).Str("path", c.Path()).Int("status", re.Status).Msg("route error")
		}

		if isAPI(c) {
			return c.Status(re.Status).JSON(dto.ErrorResponse{Code: re.Kind.code(), Message: re.Text})
		}
		body := ErrorView{Status: re.Status, Text: re.Text, Path: c.OriginalURL()}
		switch re.Kind {
		case KindNotFound:
			return views.Render(c, re.Status, pageNotFound, views.Page(c, "Not found", body))
		case KindUnauthorized, KindForbidden:
			return views.Render(c, re.Status, pageUnauthorized, views.Page(c, "Unauthorized", body))
		}
		return views.Render(c, re.Status, pageRouteError, views.Page(c, "Error", body))
	}
}

// signedOut clears the session and redirects to /login; JSON callers get a
// 401 carrying the redirect target instead.
func signedOut(c *fiber.Ctx) error {
	if sess := SessionOf(c); sess != nil {
		if sess.HasToken() {
			sess.Clear(c.UserContext())
		}
		if !isAPI(c) {
			sess.AddFlash(session.FlashError, MsgSessionExpired)
		}
	}
	if isAPI(c) {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Code: "UNAUTHENTICATED", Message: "authentication required", Redirect: "/login",
		})
	}
	return c.Redirect("/login", fiber.StatusFound)
}

func isAPI(c *fiber.Ctx) bool {
	return strings.HasPrefix(c.Path(), "/api/")
}
