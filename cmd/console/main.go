// @title        Kiran Fashion Console
// @version      1.0
// @description  Server-rendered admin console for the Kiran Fashion shop. Only the JSON helpers used by the pages are documented.
// @BasePath     /
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	_ "github.com/kiranfashion/console/docs"
	"github.com/kiranfashion/console/internal/application/auth"
	"github.com/kiranfashion/console/internal/application/listview"
	"github.com/kiranfashion/console/internal/application/session"
	"github.com/kiranfashion/console/internal/application/usecase"
	"github.com/kiranfashion/console/internal/domain/repository"
	"github.com/kiranfashion/console/internal/infrastructure/backend"
	"github.com/kiranfashion/console/internal/infrastructure/memory"
	infrapdf "github.com/kiranfashion/console/internal/infrastructure/pdf"
	"github.com/kiranfashion/console/internal/infrastructure/postgres"
	httpRouter "github.com/kiranfashion/console/internal/interfaces/http"
	"github.com/kiranfashion/console/pkg/config"
	"github.com/kiranfashion/console/pkg/jwt"
	"github.com/kiranfashion/console/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("load config: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("backend", cfg.Backend.BaseURL).
		Str("session_store", cfg.Session.Store).
		Msg("starting console")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Session tokens: in memory by default, PostgreSQL to survive restarts.
	var store repository.TokenStore
	switch cfg.Session.Store {
	case config.StorePostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("connect to PostgreSQL")
		}
		defer pool.Close()
		repo := postgres.NewSessionRepository(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			log.Fatal().Err(err).Msg("create session table")
		}
		store = repo
	default:
		store = memory.NewTokenStore()
	}

	client, err := backend.New(backend.Config{
		BaseURL:     cfg.Backend.BaseURL,
		Timeout:     cfg.Backend.Timeout,
		ReadRetries: cfg.Backend.ReadRetries,
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("backend client")
	}

	sessions := session.NewRegistry(store, cfg.Session.TTL, log)
	go sessions.RunSweeper(ctx, time.Minute)

	signer, err := jwt.NewSigner(cfg.Session.Secret, cfg.App.Name, cfg.Session.TTL)
	if err != nil {
		log.Fatal().Err(err).Msg("session cookie signer")
	}
	views, err := httpRouter.NewViews("Kiran Fashion")
	if err != nil {
		log.Fatal().Err(err).Msg("parse templates")
	}

	authUC := auth.NewAuthUseCase(client, sessions)
	userUC := usecase.NewUserUseCase(client)
	productUC := usecase.NewProductUseCase(client)
	saleUC := usecase.NewSaleUseCase(client, infrapdf.NewMarotoReportGenerator("Kiran Fashion"))
	noteUC := usecase.NewNoteUseCase(client)
	dashboardUC := usecase.NewDashboardUseCase(client)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		// Sessions keep query values past the request.
		Immutable:    true,
		ErrorHandler: httpRouter.ErrorHandler(views, log),
	})
	app.Use(recover.New())

	// Swagger UI for the JSON helpers: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Kiran Fashion Console",
		}))
	} else if !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Msg("swagger spec unreadable, docs disabled")
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		UserUC:      userUC,
		ProductUC:   productUC,
		SaleUC:      saleUC,
		NoteUC:      noteUC,
		DashboardUC: dashboardUC,
		Sessions:    sessions,
		Signer:      signer,
		Cookie: httpRouter.CookieConfig{
			Name:     cfg.Session.Cookie,
			Secure:   cfg.Session.Secure,
			SameSite: cfg.Session.SameSite,
		},
		Views:   views,
		List:    listview.Options{Debounce: cfg.List.Debounce},
		Log:     log,
		AppName: cfg.App.Name,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("HTTP server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutdown signal received, closing server")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}

	log.Info().Msg("console stopped")
}
