package http

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/kiranfashion/console/internal/application/session"
	"github.com/kiranfashion/console/pkg/jwt"
	"github.com/kiranfashion/console/pkg/logger"
)

// LocalSession is the Locals key of the request's *session.Session.
const LocalSession = "session"

// CookieConfig sets the session cookie attributes.
type CookieConfig struct {
	Name     string
	Secure   bool
	SameSite string // lax | strict | none
}

func (c CookieConfig) sameSite() string {
	switch strings.ToLower(c.SameSite) {
	case "strict":
		return fiber.CookieSameSiteStrictMode
	case "none":
		return fiber.CookieSameSiteNoneMode
	}
	return fiber.CookieSameSiteLaxMode
}

// SessionMiddleware resolves the signed session cookie to a live session and
// binds it to the request context as the backend token source. After the
// chain it registers the session only when something in it must outlive the
// request, issues the cookie when the id changed and writes the access log.
// Cookie-less traffic that leaves nothing behind allocates no session.
//
// Errors from the chain are rendered here so the access log sees the final status.
func SessionMiddleware(sessions *session.Registry, signer *jwt.Signer, cookie CookieConfig, log *logger.Logger) fiber.Handler {
	if log == nil {
		log = logger.Nop()
	}
	access := log.Component("http")
	return func(c *fiber.Ctx) error {
		start := time.Now()

		id := ""
		if raw := c.Cookies(cookie.Name); raw != "" {
			if sid, err := signer.Parse(raw); err == nil {
				id = sid
			} else {
				access.Debug().Err(err).Msg("session cookie rejected")
			}
		}
		setSession(c, sessions.Open(c.UserContext(), id))

		if chainErr := c.Next(); chainErr != nil {
			if err := c.App().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		sess := SessionOf(c)
		if sess != nil && c.Locals(localCookieCleared) == nil && sessions.Keep(sess) && sess.ID() != id {
			if err := issueCookie(c, signer, cookie, sess.ID()); err != nil {
				access.Error().Err(err).Msg("sign session cookie")
			}
		}

		sid := ""
		if sess != nil {
			sid = shortID(sess.ID())
		}
		status := c.Response().StatusCode()
		ev := access.Info()
		if status >= fiber.StatusInternalServerError {
			ev = access.Error()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("session", sid).
			Msg("request")
		return nil
	}
}

const localCookieCleared = "session_cookie_cleared"

// SessionOf returns the session resolved by SessionMiddleware, nil outside it.
func SessionOf(c *fiber.Ctx) *session.Session {
	s, _ := c.Locals(LocalSession).(*session.Session)
	return s
}

// setSession stores sess for the rest of the request and makes it the token
// source of c.UserContext().
func setSession(c *fiber.Ctx, sess *session.Session) {
	c.Locals(LocalSession, sess)
	c.SetUserContext(sess.Bind(c.UserContext()))
}

func issueCookie(c *fiber.Ctx, signer *jwt.Signer, cfg CookieConfig, id string) error {
	value, err := signer.Sign(id)
	if err != nil {
		return err
	}
	c.Cookie(&fiber.Cookie{
		Name:     cfg.Name,
		Value:    value,
		Path:     "/",
		Expires:  time.Now().Add(signer.TTL()),
		HTTPOnly: true,
		Secure:   cfg.Secure,
		SameSite: cfg.sameSite(),
	})
	return nil
}

func clearCookie(c *fiber.Ctx, cfg CookieConfig) {
	c.ClearCookie(cfg.Name)
	c.Locals(localCookieCleared, true)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
