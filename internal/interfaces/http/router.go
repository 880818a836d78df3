package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kiranfashion/console/internal/application/auth"
	"github.com/kiranfashion/console/internal/application/guard"
	"github.com/kiranfashion/console/internal/application/listview"
	"github.com/kiranfashion/console/internal/application/session"
	"github.com/kiranfashion/console/internal/application/usecase"
	"github.com/kiranfashion/console/internal/domain/entity"
	"github.com/kiranfashion/console/pkg/jwt"
	"github.com/kiranfashion/console/pkg/logger"
)

// RouterDeps collects the dependencies of the console routes.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	UserUC      *usecase.UserUseCase
	ProductUC   *usecase.ProductUseCase
	SaleUC      *usecase.SaleUseCase
	NoteUC      *usecase.NoteUseCase
	DashboardUC *usecase.DashboardUseCase
	Sessions    *session.Registry
	Signer      *jwt.Signer
	Cookie      CookieConfig
	Views       *Views
	List        listview.Options
	Log         *logger.Logger
	AppName     string
}

// Router registers the console routes. Fixed segments (add, edit,
// change-password, report.pdf) are registered before /:id.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", Health(deps.AppName))
	app.Use(SessionMiddleware(deps.Sessions, deps.Signer, deps.Cookie, deps.Log))

	anyone := RequireAccess(guard.Protected(entity.RoleAdmin, entity.RoleUser), deps.AuthUC)
	adminOnly := RequireAccess(guard.Protected(entity.RoleAdmin), deps.AuthUC)
	publicOnly := RequireAccess(guard.PublicOnly(), deps.AuthUC)

	// Auth
	authHandler := NewAuthHandler(deps.AuthUC, deps.Views, deps.Cookie)
	app.Get("/login", publicOnly, authHandler.LoginPage)
	app.Post("/login", publicOnly, authHandler.Login)
	app.Post("/logout", authHandler.Logout)

	// Dashboard
	dashboardHandler := NewDashboardHandler(deps.DashboardUC, deps.Views)
	app.Get("/", anyone, dashboardHandler.Show)

	// Users (admin)
	userHandler := NewUserHandler(deps.UserUC, deps.Views, deps.List)
	users := app.Group("/users", adminOnly)
	users.Get("/", userHandler.Page)
	users.Post("/", userHandler.Create)
	users.Get("/add", userHandler.New)
	users.Get("/edit/:id", userHandler.Edit)
	users.Post("/edit/:id", userHandler.Update)
	users.Get("/change-password/:id", userHandler.ChangePasswordForm)
	users.Post("/change-password/:id", userHandler.ChangePassword)
	users.Post("/:id/delete", userHandler.Delete)
	users.Get("/:id", userHandler.Detail)

	// Products
	productHandler := NewProductHandler(deps.ProductUC, deps.Views, deps.List)
	products := app.Group("/products", anyone)
	products.Get("/", productHandler.Page)
	products.Post("/", productHandler.Create)
	products.Get("/add", productHandler.New)
	products.Get("/edit/:id", productHandler.Edit)
	products.Post("/edit/:id", productHandler.Update)
	products.Post("/:id/delete", productHandler.Delete)
	products.Get("/:id", productHandler.Detail)

	// Sales
	saleHandler := NewSaleHandler(deps.SaleUC, deps.Views, deps.List)
	sales := app.Group("/sales", anyone)
	sales.Get("/", saleHandler.Page)
	sales.Post("/", saleHandler.Create)
	sales.Get("/add", saleHandler.New)
	sales.Get("/report.pdf", saleHandler.Report)
	sales.Get("/edit/:id", saleHandler.Edit)
	sales.Post("/edit/:id", saleHandler.Update)
	sales.Post("/:id/delete", saleHandler.Delete)
	sales.Get("/:id", saleHandler.Detail)

	// Notes
	noteHandler := NewNoteHandler(deps.NoteUC, deps.Views, deps.List)
	notes := app.Group("/notes", anyone)
	notes.Get("/", noteHandler.Page)
	notes.Post("/", noteHandler.Create)
	notes.Get("/add", noteHandler.New)
	notes.Get("/edit/:id", noteHandler.Edit)
	notes.Post("/edit/:id", noteHandler.Update)
	notes.Post("/:id/delete", noteHandler.Delete)
	notes.Get("/:id", noteHandler.Detail)

	// JSON API used by the pages
	api := app.Group("/api")
	lists := api.Group("/lists")
	lists.Get("/users", adminOnly, userHandler.Live)
	lists.Get("/products", anyone, productHandler.Live)
	lists.Get("/sales", anyone, saleHandler.Live)
	lists.Get("/notes", anyone, noteHandler.Live)
	api.Post("/forms/:form/validate", NewFormHandler().Validate)

	app.Use(func(c *fiber.Ctx) error {
		return NotFound("Page not found")
	})
}
