package handler

import (
	"strconv"
	"time"

	"go-kasir-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	service service.DashboardService
}

func NewDashboardHandler(s service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: s}
}

// GetMetrics returns overview metrics for the dashboard
// Query params: days (default 7)
func (h *DashboardHandler) GetMetrics(c *fiber.Ctx) error {
	daysStr := c.Query("days", "7")
	days, err := strconv.Atoi(daysStr)
	if err != nil || days <= 0 {
		days = 7
	}

	metrics, err := h.service.GetMetrics(days)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch dashboard metrics"})
	}

	return c.JSON(fiber.Map{
		"period_days": days,
		"data":        metrics,
	})
}

// GetSalesReport returns the aggregated sales report for a range
// Query params: range (7d|1m|3m|6m|12m, default 7d)
func (h *DashboardHandler) GetSalesReport(c *fiber.Ctx) error {
	rangeParam := c.Query("range", "7d")
	now := time.Now()
	var startDate time.Time

	switch rangeParam {
	case "7d":
		startDate = now.AddDate(0, 0, -7)
	case "1m":
		startDate = now.AddDate(0, -1, 0)
	case "3m":
		startDate = now.AddDate(0, -3, 0)
	case "6m":
		startDate = now.AddDate(0, -6, 0)
	case "12m":
		startDate = now.AddDate(0, -12, 0)
	default:
		startDate = now.AddDate(0, 0, -7)
	}

	report, err := h.service.GetSalesReport(startDate, now)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"range": rangeParam,
		"data":  report,
	})
}
