package routes

import (
	"github.com/gofiber/fiber/v2"

	"EstateHub/internal/handlers"
)

// SetupPaymentRoutes mounts the payment endpoints. protected authenticates
// the caller; adminGuards, when given, gate the status update.
func SetupPaymentRoutes(app *fiber.App, h *handlers.PaymentHandler, protected fiber.Handler, adminGuards ...fiber.Handler) {
	payment := app.Group("/api/payment")

	// Paystack flow, registered ahead of /:id
	payment.Post("/paystack/initialize", protected, h.InitializePayment)
	payment.Get("/paystack/verify", h.VerifyPayment)

	// Records
	payment.Get("/", h.GetPayments)
	payment.Get("/:id", h.GetPayment)
	payment.Patch("/:id/status", append(adminGuards, h.UpdatePaymentStatus)...)
}
