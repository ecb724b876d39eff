package routes

import (
	"github.com/gofiber/fiber/v2"

	"EstateHub/internal/handlers"
)

// SetupDashboardRoutes mounts the admin dashboard. guards run before every
// dashboard handler and may be empty.
func SetupDashboardRoutes(app *fiber.App, h *handlers.DashboardHandler, guards ...fiber.Handler) {
	dashboard := app.Group("/api/dashboard", guards...)

	dashboard.Get("/stats", h.GetStats)

	// Counters
	dashboard.Get("/agents/count", h.GetAgentCount)
	dashboard.Get("/customers/count", h.GetCustomerCount)
	dashboard.Get("/transactions/count", h.GetTransactionCount)
	dashboard.Get("/revenue", h.GetRevenue)

	// Lists
	dashboard.Get("/transactions/recent", h.GetRecentTransactions)
	dashboard.Get("/agents/top", h.GetTopAgents)

	// Analytics
	dashboard.Get("/analytics/transactions", h.GetTransactionAnalytics)
	dashboard.Get("/analytics/payments", h.GetPaymentAnalytics)
}
