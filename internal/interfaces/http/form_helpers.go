package http

import (
	"errors"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/kiranfashion/console/internal/application/forms"
	"github.com/kiranfashion/console/internal/application/session"
	"github.com/kiranfashion/console/internal/application/usecase"
	"github.com/kiranfashion/console/internal/domain"
)

// formValues decodes the urlencoded body of the request.
func formValues(c *fiber.Ctx) forms.Values {
	v := forms.Values{}
	c.Request().PostArgs().VisitAll(func(k, val []byte) {
		v[string(k)] = string(val)
	})
	return v
}

// localPath returns raw when it is a path on this site, else fallback.
func localPath(raw, fallback string) string {
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.Contains(raw, `\`) {
		return fallback
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host != "" || u.Scheme != "" {
		return fallback
	}
	return raw
}

// backFrom returns the referring page of an edit form if it is on this site.
func backFrom(c *fiber.Ctx, fallback string) string {
	ref, err := url.Parse(c.Get(fiber.HeaderReferer))
	if err != nil || ref.Path == "" || ref.Host != c.Hostname() {
		return fallback
	}
	p := ref.RequestURI()
	if p == c.OriginalURL() {
		return fallback
	}
	return localPath(p, fallback)
}

// mutationFailed turns a failed save into one error notification. An
// authentication failure is returned so the error handler signs out.
func mutationFailed(c *fiber.Ctx, err error) error {
	if errors.Is(err, domain.ErrUnauthenticated) {
		return err
	}
	if sess := SessionOf(c); sess != nil {
		sess.AddFlash(session.FlashError, usecase.ErrorText(err))
	}
	return nil
}

// saved queues the success notification, marks the open list views of the
// changed resources stale and redirects.
func saved(c *fiber.Ctx, msg, to string, resources ...string) error {
	if sess := SessionOf(c); sess != nil {
		sess.AddFlash(session.FlashSuccess, usecase.SuccessText(msg))
		for _, r := range resources {
			invalidateLists(sess, r, nil)
		}
	}
	return c.Redirect(to, fiber.StatusSeeOther)
}

// invalidForm flags a submission that failed parsing after validation passed.
func invalidForm(errs forms.Errors, field string) forms.Errors {
	if errs == nil {
		errs = forms.Errors{}
	}
	errs[field] = "Invalid value"
	return errs
}

func pathID(c *fiber.Ctx) string {
	id, err := url.PathUnescape(c.Params("id"))
	if err != nil {
		return c.Params("id")
	}
	return id
}
