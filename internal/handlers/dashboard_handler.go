package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"EstateHub/internal/services"
)

type DashboardHandler struct {
	dashboard *services.DashboardService
}

func NewDashboardHandler(dashboard *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// GetStats returns every dashboard aggregate in one response
func (h *DashboardHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.dashboard.Stats(c.UserContext())
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(stats)
}

func (h *DashboardHandler) GetAgentCount(c *fiber.Ctx) error {
	count, err := h.dashboard.AgentCount(c.UserContext())
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"count": count})
}

func (h *DashboardHandler) GetCustomerCount(c *fiber.Ctx) error {
	count, err := h.dashboard.CustomerCount(c.UserContext())
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"count": count})
}

func (h *DashboardHandler) GetTransactionCount(c *fiber.Ctx) error {
	count, err := h.dashboard.TransactionCount(c.UserContext())
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"count": count})
}

func (h *DashboardHandler) GetRevenue(c *fiber.Ctx) error {
	revenue, err := h.dashboard.Revenue(c.UserContext())
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(revenue)
}

// GetRecentTransactions accepts ?limit=, falling back to the default when
// absent or not positive
func (h *DashboardHandler) GetRecentTransactions(c *fiber.Ctx) error {
	limit, ok := queryLimit(c)
	if !ok {
		return badRequest(c, "limit must be a number")
	}

	payments, err := h.dashboard.RecentTransactions(c.UserContext(), limit)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(payments)
}

func (h *DashboardHandler) GetTopAgents(c *fiber.Ctx) error {
	limit, ok := queryLimit(c)
	if !ok {
		return badRequest(c, "limit must be a number")
	}

	agents, err := h.dashboard.TopAgents(c.UserContext(), limit)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(agents)
}

// GetTransactionAnalytics accepts ?period=week|month|year
func (h *DashboardHandler) GetTransactionAnalytics(c *fiber.Ctx) error {
	analytics, err := h.dashboard.TransactionAnalytics(c.UserContext(), c.Query("period"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(analytics)
}

func (h *DashboardHandler) GetPaymentAnalytics(c *fiber.Ctx) error {
	analytics, err := h.dashboard.PaymentAnalytics(c.UserContext())
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(analytics)
}

func queryLimit(c *fiber.Ctx) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}
