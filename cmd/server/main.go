package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"

	"record-validate/internal/auth"
	"record-validate/internal/config"
	"record-validate/internal/engine"
	"record-validate/internal/ruledef"
	"record-validate/internal/server"
	"record-validate/internal/store"
	"record-validate/internal/validate"
)

func main() {
	ctx := context.Background()
	log := zerolog.New(os.Stdout).With().Timestamp().Str("role", "server").Logger()

	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	log.Info().Int("port", cfg.Server.Port).Str("locale", cfg.Engine.Locale).Msg("config loaded")

	// 2. Connect to database
	db, err := store.New(ctx, cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// 3. Bootstrap system tables
	if err := db.Bootstrap(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to bootstrap system tables")
	}

	// 4. Load rule declarations
	stores, err := ruledef.LoadAll(ctx, db.Pool, log)
	if err != nil {
		log.Warn().Err(err).Msg("failed to load validation rules")
	}

	// 5. Validation engine and runner
	factory := engine.NewPlayground(cfg.Engine.Locale)
	runner := validate.NewRunner(factory)

	// 6. Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: errorHandler(log),
	})
	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
	}))
	app.Use(logger.New(logger.Config{
		Format: "${time} ${status} ${method} ${path} ${latency}\n",
	}))

	// 7. Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// 8. Routes
	handler := server.NewHandler(db, stores, runner, log)
	authMW := auth.Middleware(cfg.JWTSecret)
	adminMW := auth.RequireAdmin()
	server.RegisterRoutes(app, handler, authMW, adminMW)

	// 9. Start server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Info().Str("addr", addr).Msg("starting server")
	log.Fatal().Err(app.Listen(addr)).Msg("server stopped")
}

func errorHandler(log zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var appErr *server.AppError
		if errors.As(err, &appErr) {
			return c.Status(appErr.Status).JSON(server.ErrorResponse{Error: appErr})
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(server.ErrorResponse{
				Error: &server.AppError{Code: "HTTP_ERROR", Message: fiberErr.Message},
			})
		}

		log.Error().Err(err).Msg("internal error")
		return c.Status(fiber.StatusInternalServerError).JSON(server.ErrorResponse{
			Error: &server.AppError{
				Code:    "INTERNAL_ERROR",
				Message: "Internal server error",
			},
		})
	}
}
