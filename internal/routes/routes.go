package routes

import (
	"github.com/gofiber/fiber/v2"
)

// SetupRoutes mounts the liveness endpoints.
func SetupRoutes(app *fiber.App) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Welcome to EstateHub API",
			"status":  "running",
			"version": "1.0",
		})
	})

	app.Get("/api/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "EstateHub",
		})
	})
}
