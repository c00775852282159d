package server

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, h *Handler, authMW, adminMW fiber.Handler) {
	api := app.Group("/api")
	api.Post("/validate/:type", h.Validate)

	admin := app.Group("/admin", authMW, adminMW)
	admin.Post("/reload", h.Reload)
}
