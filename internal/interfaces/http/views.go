package http

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/kiranfashion/console/internal/application/guard"
	"github.com/kiranfashion/console/internal/application/session"
	"github.com/kiranfashion/console/internal/domain/entity"
	"github.com/kiranfashion/console/pkg/format"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page names, one template file each.
const (
	pageLogin        = "login"
	pageDashboard    = "dashboard"
	pageList         = "list"
	pageForm         = "form"
	pageDetail       = "detail"
	pageUnauthorized = "unauthorized"
	pageNotFound     = "not_found"
	pageRouteError   = "route_error"
)

var pageNames = []string{
	pageLogin, pageDashboard, pageList, pageForm, pageDetail,
	pageUnauthorized, pageNotFound, pageRouteError,
}

// NavItem is one header link, shown only to the roles its policy permits.
type NavItem struct {
	Label  string
	Path   string
	Policy guard.Policy
	Active bool
}

var navigation = []NavItem{
	{Label: "Dashboard", Path: "/", Policy: guard.Protected(entity.RoleAdmin, entity.RoleUser)},
	{Label: "Users", Path: "/users", Policy: guard.Protected(entity.RoleAdmin)},
	{Label: "Products", Path: "/products", Policy: guard.Protected(entity.RoleAdmin, entity.RoleUser)},
	{Label: "Sales", Path: "/sales", Policy: guard.Protected(entity.RoleAdmin, entity.RoleUser)},
	{Label: "Notes", Path: "/notes", Policy: guard.Protected(entity.RoleAdmin, entity.RoleUser)},
}

// PageData carries everything the layout needs plus the page body.
type PageData struct {
	App     string
	Title   string
	User    *entity.SessionUser
	Nav     []NavItem
	Flashes []session.Flash
	Body    any
}

// Views renders the embedded HTML templates.
type Views struct {
	app   string
	pages map[string]*template.Template
}

// NewViews parses the layout once per page.
func NewViews(app string) (*Views, error) {
	funcs := template.FuncMap{
		"amount": func(d decimal.Decimal) string { return format.Amount(d) },
		"count":  format.Count,
		"dash":   format.OrDash,
	}
	base, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	v := &Views{app: app, pages: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		t, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := t.ParseFS(templateFS, "templates/"+name+".html"); err != nil {
			return nil, fmt.Errorf("parse page %s: %w", name, err)
		}
		v.pages[name] = t
	}
	return v, nil
}

// Page builds the layout data for the current request. Pending flashes are
// taken from the session, so each one is shown exactly once.
func (v *Views) Page(c *fiber.Ctx, title string, body any) PageData {
	data := PageData{App: v.app, Title: title, Body: body}
	sess := SessionOf(c)
	if sess == nil {
		return data
	}
	data.Flashes = sess.TakeFlashes()
	if !sess.HasToken() {
		return data
	}
	data.User = sess.User()
	if data.User != nil {
		for _, item := range navigation {
			if item.Policy.Permits(data.User.Role) {
				item.Active = isActive(c.Path(), item.Path)
				data.Nav = append(data.Nav, item)
			}
		}
	}
	return data
}

// Render executes page name with data and writes it with status.
func (v *Views) Render(c *fiber.Ctx, status int, name string, data PageData) error {
	t, ok := v.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Status(status).Send(buf.Bytes())
}

func isActive(path, item string) bool {
	if item == "/" {
		return path == "/"
	}
	return path == item || len(path) > len(item) && path[:len(item)+1] == item+"/"
}
